package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

func adminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage dishes (admin role required)",
	}

	cmd.AddCommand(adminDishesCmd(a), adminAddCmd(a), adminDeleteCmd(a))
	return cmd
}

func adminDishesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dishes",
		Short: "List all dishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dishes, err := a.admin.Dishes(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tIMAGE")
			for _, d := range dishes {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Price.StringFixed(2), d.ImageURL)
			}
			return tw.Flush()
		},
	}
}

func adminAddCmd(a *app) *cobra.Command {
	var name, description, price, image string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a dish with an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := domain.DishInput{Name: name, Description: description}
			if price != "" {
				p, err := decimal.NewFromString(price)
				if err != nil {
					return fmt.Errorf("invalid price %q: %w", price, err)
				}
				in.Price = p
			}
			if image != "" {
				data, err := readFile(image)
				if err != nil {
					return err
				}
				in.Image = data
				in.ImageName = filepath.Base(image)
			}

			dish, err := a.admin.CreateDish(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.printf("created dish #%d %s\n", dish.ID, dish.Name)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "dish name")
	f.StringVar(&description, "description", "", "dish description")
	f.StringVar(&price, "price", "", "price, e.g. 7.50")
	f.StringVar(&image, "image", "", "path to the dish image")
	return cmd
}

func adminDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <dish-id>",
		Short: "Delete a dish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.admin.DeleteDish(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("deleted dish #%d\n", id)
			return nil
		},
	}
}
