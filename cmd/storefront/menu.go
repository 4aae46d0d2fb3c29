package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func menuCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List dishes, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.menu.Page(cmd.Context(), page)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tIN CART")
			for _, e := range p.Dishes {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.ID, e.Name, e.Price.StringFixed(2), e.InCart)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			a.printf("page %d of %d (%d dishes)\n", p.Number, p.TotalPages, p.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	return cmd
}

func dishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dish <id>",
		Short: "Show one dish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := a.menu.Dish(cmd.Context(), id)
			if err != nil {
				return err
			}

			a.printf("%s (#%d)\n", e.Name, e.ID)
			if e.Description != "" {
				a.printf("  %s\n", e.Description)
			}
			a.printf("  price:   %s\n", e.Price.StringFixed(2))
			a.printf("  image:   %s\n", e.ImageURL)
			a.printf("  in cart: %d\n", e.InCart)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}
