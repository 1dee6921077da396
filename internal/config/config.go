package config

import (
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	BaseURL      string
	ShippingCost decimal.Decimal
	AdminEmails  []string
	AdminToken   string
	BrevoAPIKey  string
	BrevoSender  string
	RedisAddr    string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "chiva.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./chiva.log"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	shipping := decimal.Zero
	if v := os.Getenv("SHIPPING_COST"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			log.Printf("[config] bad SHIPPING_COST %q, using 0: %v", v, err)
		} else {
			shipping = d
		}
	}

	var admins []string
	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		if e = strings.TrimSpace(e); e != "" {
			admins = append(admins, e)
		}
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		LogFile:      logFile,
		BaseURL:      baseURL,
		ShippingCost: shipping,
		AdminEmails:  admins,
		AdminToken:   os.Getenv("ADMIN_TOKEN"),
		BrevoAPIKey:  os.Getenv("BREVO_API_KEY"),
		BrevoSender:  os.Getenv("BREVO_SENDER"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s SHIPPING_COST=%s ADMIN_EMAILS=%d REDIS=%q",
		cfg.Port, cfg.DBDSN, cfg.ShippingCost, len(cfg.AdminEmails), cfg.RedisAddr)
	return cfg
}
