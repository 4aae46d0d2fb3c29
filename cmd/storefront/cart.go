package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

func cartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit the local cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cart and its total",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return printCart(a, a.cart.Lines())
		},
	}

	add := &cobra.Command{
		Use:   "add <dish-id>",
		Short: "Add one of a dish to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dish, err := a.client.GetDish(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printCart(a, a.cart.AddItem(cmd.Context(), dish.Item()))
		},
	}

	cmd.AddCommand(
		show,
		add,
		quantityCmd(a, "inc", "Increase a dish quantity by one", 1),
		quantityCmd(a, "dec", "Decrease a dish quantity by one, removing it at zero", -1),
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a.cart.Clear(cmd.Context())
				a.printf("cart cleared\n")
				return nil
			},
		},
	)
	return cmd
}

func quantityCmd(a *app, use, short string, delta int) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <dish-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return printCart(a, a.cart.UpdateQuantity(cmd.Context(), id, delta))
		},
	}
}

func printCart(a *app, lines []domain.CartLine) error {
	if len(lines) == 0 {
		a.printf("cart is empty\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", l.ItemID, l.Name, l.UnitPrice.StringFixed(2), l.Quantity, l.Subtotal().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("total: %s\n", a.cart.Total().StringFixed(2))
	return nil
}
