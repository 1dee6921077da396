package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"chiva/internal/repos"
	"chiva/internal/services"
)

func seedSizesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-sizes",
		Short: "Create or refresh the default size table (P, M, G, GG, ...)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			// OpenDB already seeds; running it again refreshes drifted rows.
			if err := repos.SeedDefaultSizes(db); err != nil {
				return err
			}
			fmt.Println("size table up to date")
			return nil
		},
	}
}

func fixAdminsCmd() *cobra.Command {
	var emails string
	cmd := &cobra.Command{
		Use:   "fix-admins",
		Short: "Reconcile persisted is_admin flags against the configured admin emails",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := emails
			if list == "" {
				list = os.Getenv("ADMIN_EMAILS")
			}
			if strings.TrimSpace(list) == "" {
				return fmt.Errorf("no admin emails: pass --emails or set ADMIN_EMAILS")
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewAdminService(repos.NewUserRepo(db))
			rep, err := svc.Reconcile(strings.Split(list, ","))
			if err != nil {
				return err
			}
			for _, e := range rep.Granted {
				fmt.Printf("granted  %s\n", e)
			}
			for _, e := range rep.Revoked {
				fmt.Printf("revoked  %s\n", e)
			}
			fmt.Printf("%d users checked, %d granted, %d revoked\n",
				rep.Total, len(rep.Granted), len(rep.Revoked))
			return nil
		},
	}
	cmd.Flags().StringVar(&emails, "emails", "", "comma-separated admin emails (defaults to ADMIN_EMAILS)")
	return cmd
}

func checkOrderSizesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-order-sizes",
		Short: "Report order items with no size FK and no size snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			items, err := repos.NewOrderRepo(db).MissingSizeItems()
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("all order items carry a resolvable size")
				return nil
			}
			for _, it := range items {
				fmt.Printf("order=%s item=%s product=%q qty=%d  <- size lost\n",
					it.OrderID, it.ID, it.ProductName, it.Quantity)
			}
			fmt.Printf("%d item(s) with no recoverable size column; try check-payments for the payload fallback\n", len(items))
			return nil
		},
	}
}

func checkCartSizesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-cart-sizes",
		Short: "Report cart lines missing a size although the product is sized",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			lines, err := repos.NewCartRepo(db).MissingSizeLines()
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Println("no cart lines violate the size rule")
				return nil
			}
			for _, l := range lines {
				fmt.Printf("cart=%s (%s) product=%q qty=%d  <- no size\n",
					l.CartID, l.CartStatus, l.ProductName, l.Quantity)
			}
			return nil
		},
	}
}

func checkPaymentsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "check-payments",
		Short: "Show recent payments and the size fields inside their raw request payloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			payments, err := repos.NewPaymentRepo(db).ListLatest(limit)
			if err != nil {
				return err
			}
			for _, p := range payments {
				orderID := "-"
				if p.OrderID.Valid {
					orderID = p.OrderID.String
				}
				fmt.Printf("payment=%s status=%s amount=%s order=%s\n",
					p.ID, p.Status, p.Amount.StringFixed(2), orderID)

				var envelope struct {
					Items []map[string]any `json:"items"`
					Meta  struct {
						Items []map[string]any `json:"items"`
					} `json:"meta"`
				}
				if err := json.Unmarshal([]byte(p.RequestData), &envelope); err != nil {
					fmt.Println("  request_data: not parseable")
					continue
				}
				items := envelope.Items
				if len(items) == 0 {
					items = envelope.Meta.Items
				}
				for _, it := range items {
					fmt.Printf("  - product=%v qty=%v size_id=%v size_name=%v size_abbreviation=%v\n",
						it["product_id"], it["quantity"], it["size_id"], it["size_name"], it["size_abbreviation"])
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of payments to show")
	return cmd
}

func abandonCartsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "abandon-carts",
		Short: "Mark active carts idle past the cutoff as abandoned",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := repos.NewCartRepo(db).AbandonStale(days)
			if err != nil {
				return err
			}
			fmt.Printf("%d cart(s) marked abandoned (idle > %d days)\n", n, days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "idle cutoff in days")
	return cmd
}
