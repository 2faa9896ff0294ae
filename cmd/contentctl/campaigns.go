package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/services"
	"github.com/tastcoffee/contentops/internal/store"
)

func init() {
	campaignsCmd := &cobra.Command{Use: "campaigns", Short: "Campaign operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				cs, err := services.NewCampaignService(st, log).List(ctx)
				if err != nil {
					return err
				}
				for _, c := range cs {
					fmt.Fprintf(os.Stdout, "%-36s  %-10s  %s\n", c.ID, c.Status, c.Name)
				}
				return nil
			})
		},
	}
	campaignsCmd.AddCommand(listCmd)

	var status, dropDate, goal string
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				c, err := services.NewCampaignService(st, log).Create(ctx, &model.Campaign{
					Name:     args[0],
					Status:   status,
					DropDate: dropDate,
					Goal:     goal,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s  %s\n", c.ID, c.Name)
				return nil
			})
		},
	}
	addCmd.Flags().StringVarP(&status, "status", "s", "", "Campaign status (defaults to Planning)")
	addCmd.Flags().StringVarP(&dropDate, "drop", "d", "", "Drop date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&goal, "goal", "g", "", "Campaign goal")
	campaignsCmd.AddCommand(addCmd)

	itemsCmd := &cobra.Command{
		Use:   "items CAMPAIGN_ID",
		Short: "List a campaign's items in publish order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				items, err := st.ContentItems().List(ctx)
				if err != nil {
					return err
				}
				linked := make([]*model.ContentItem, 0, len(items))
				for _, it := range items {
					if it.CampaignID == args[0] {
						linked = append(linked, it)
					}
				}
				sort.SliceStable(linked, func(i, j int) bool { return linked[i].Seq < linked[j].Seq })
				for _, it := range linked {
					fmt.Fprintf(os.Stdout, "%2d  %-36s  %-14s  %s\n", it.Seq, it.ID, it.Stage, it.Title)
				}
				return nil
			})
		},
	}
	campaignsCmd.AddCommand(itemsCmd)

	moveCmd := &cobra.Command{
		Use:   "move CAMPAIGN_ID FROM TO",
		Short: "Move a campaign item between publish positions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				from, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("FROM must be a position: %w", err)
				}
				to, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("TO must be a position: %w", err)
				}
				return services.NewContentService(st, log).Resequence(ctx, args[0], from, to)
			})
		},
	}
	campaignsCmd.AddCommand(moveCmd)

	rmCmd := &cobra.Command{
		Use:   "rm CAMPAIGN_ID",
		Short: "Delete a campaign (its items stay on the board)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				return services.NewCampaignService(st, log).Delete(ctx, args[0])
			})
		},
	}
	campaignsCmd.AddCommand(rmCmd)

	rootCmd.AddCommand(campaignsCmd)
}
