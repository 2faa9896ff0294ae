package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/services"
	"github.com/tastcoffee/contentops/internal/store"
)

func init() {
	productsCmd := &cobra.Command{Use: "products", Short: "Product catalog operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				ps, err := services.NewProductService(st, log).List(ctx)
				if err != nil {
					return err
				}
				for _, p := range ps {
					fmt.Fprintf(os.Stdout, "%-36s  %-14s  %s\n", p.ID, p.Roast, p.Name)
				}
				return nil
			})
		},
	}
	productsCmd.AddCommand(listCmd)

	var roast string
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a product to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				p, err := services.NewProductService(st, log).Add(ctx, args[0], roast)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s  %s\n", p.ID, p.Name)
				return nil
			})
		},
	}
	roastLabels := make([]string, len(model.RoastTypes))
	for i, rt := range model.RoastTypes {
		roastLabels[i] = rt.Label
	}
	addCmd.Flags().StringVarP(&roast, "roast", "r", "", fmt.Sprintf("Roast type (one of: %v)", roastLabels))
	productsCmd.AddCommand(addCmd)

	rmCmd := &cobra.Command{
		Use:   "rm PRODUCT_ID",
		Short: "Remove a product from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				return services.NewProductService(st, log).Remove(ctx, args[0])
			})
		},
	}
	productsCmd.AddCommand(rmCmd)

	rootCmd.AddCommand(productsCmd)
}
