package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

func checkoutCmd(a *app) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Pay for the cart and place the order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.checkout.Checkout(cmd.Context(), domain.PaymentMethod(method))
			if res != nil && res.TransactionID != 0 {
				a.printf("transaction: %d\n", res.TransactionID)
			}
			if err != nil {
				if res != nil && res.Status == domain.CheckoutStatusOrderMissing {
					a.printf("status: %s\n", res.Status)
					if res.IncidentID != "" {
						a.printf("incident: %s (see `storefront incidents`)\n", res.IncidentID)
					}
				}
				return err
			}

			a.printf("status: %s\n", res.Status)
			a.printf("order: %d, total %s\n", res.Order.ID, res.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", string(domain.PaymentCard), "payment method: card or cash")
	return cmd
}

func ordersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List past orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.history.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(view.Orders) == 0 {
				a.printf("no orders yet\n")
				return nil
			}

			a.printf("delivery address: %s\n", view.Address)
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tCREATED\tSTATUS\tDISH\tQTY\tPRICE")
			for _, o := range view.Orders {
				for _, it := range o.Items {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
						o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, it.Name, it.Amount, it.Price.StringFixed(2))
				}
			}
			return tw.Flush()
		},
	}
}
