package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chiva/internal/domain"
	applog "chiva/internal/log"
)

// Mailer delivers the order-confirmed event. Template rendering and transport
// details live behind this boundary; the core only hands over the snapshot.
type Mailer interface {
	OrderConfirmed(o domain.Order, items []domain.OrderItem) error
}

// LogMailer is the no-credentials fallback: the event is logged, not sent.
type LogMailer struct{}

func (LogMailer) OrderConfirmed(o domain.Order, items []domain.OrderItem) error {
	applog.Plain("info", "mail.order_confirmed.skipped", nil, map[string]any{
		"order_number": o.OrderNumber,
		"to":           o.CustomerEmail,
		"items":        len(items),
	})
	return nil
}

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer sends order confirmations through the Brevo transactional API.
type BrevoMailer struct {
	APIKey   string
	Sender   string
	Endpoint string
	Client   *http.Client
}

func NewBrevoMailer(apiKey, sender string) *BrevoMailer {
	return &BrevoMailer{
		APIKey:   apiKey,
		Sender:   sender,
		Endpoint: brevoEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *BrevoMailer) OrderConfirmed(o domain.Order, items []domain.OrderItem) error {
	body := map[string]any{
		"sender":      map[string]string{"name": "Chiva", "email": m.Sender},
		"to":          []map[string]string{{"email": o.CustomerEmail, "name": o.CustomerName}},
		"subject":     fmt.Sprintf("Pedido %s confirmado", o.OrderNumber),
		"htmlContent": renderOrderHTML(o, items),
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.Endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("brevo: unexpected status %d", resp.StatusCode)
	}
	applog.Plain("info", "mail.order_confirmed.sent", nil, map[string]any{
		"order_number": o.OrderNumber,
		"to":           o.CustomerEmail,
	})
	return nil
}

// renderOrderHTML builds the confirmation body from the snapshot columns:
// what the customer sees is what they bought, whatever the catalog does later.
func renderOrderHTML(o domain.Order, items []domain.OrderItem) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<h2>Obrigado, %s!</h2>", o.CustomerName)
	fmt.Fprintf(&b, "<p>O seu pedido <strong>%s</strong> foi confirmado.</p>", o.OrderNumber)
	b.WriteString("<table><tr><th>Produto</th><th>Cor</th><th>Tamanho</th><th>Qtd</th><th>Preço</th></tr>")
	for _, it := range items {
		size := it.SizeAbbr
		if size == "" {
			size = it.SizeName
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s MZN</td></tr>",
			it.ProductName, it.ColorName, size, it.Quantity, it.UnitPrice.StringFixed(2))
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>Envio: %s MZN</p>", o.ShippingCost.StringFixed(2))
	fmt.Fprintf(&b, "<p><strong>Total: %s MZN</strong></p>", o.TotalAmount.StringFixed(2))
	return b.String()
}
