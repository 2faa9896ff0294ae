package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tastcoffee/contentops/internal/live"
	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/optimistic"
	"github.com/tastcoffee/contentops/internal/services"
	"github.com/tastcoffee/contentops/internal/store"
)

// itemCoordinator opens an optimistic view over the content_items collection.
// CLI mutations go through it so they behave exactly like the board: spliced
// into the view immediately, confirmed (or rolled back) on Flush.
func itemCoordinator(ctx context.Context, st store.Store, log zerolog.Logger) (*optimistic.Coordinator[*model.ContentItem], error) {
	return optimistic.New(ctx, optimistic.Config[*model.ContentItem]{
		Store:  st,
		Kind:   store.KindContentItems,
		List:   func(ctx context.Context) ([]*model.ContentItem, error) { return st.ContentItems().List(ctx) },
		ID:     func(it *model.ContentItem) string { return it.ID },
		WithID: func(it *model.ContentItem, id string) *model.ContentItem { cp := *it; cp.ID = id; return &cp },
		Logger: log,
	})
}

func printItems(items []*model.ContentItem) {
	for _, it := range items {
		campaign := it.CampaignID
		if campaign == "" {
			campaign = "-"
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-14s  %-12s  %s\n", it.ID, it.Stage, campaign, it.Title)
	}
}

func init() {
	itemsCmd := &cobra.Command{Use: "items", Short: "Content item operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List content items, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				col, err := live.Open(ctx, st, store.KindContentItems, nil,
					func(ctx context.Context) ([]*model.ContentItem, error) { return st.ContentItems().List(ctx) },
					live.WithLogger[*model.ContentItem](log),
				)
				if err != nil {
					return err
				}
				defer col.Close()
				printItems(col.Snapshot())
				return nil
			})
		},
	}
	itemsCmd.AddCommand(listCmd)

	var itemType, owner, campaign, date string
	addCmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				svc := services.NewContentService(st, log)
				coord, err := itemCoordinator(ctx, st, log)
				if err != nil {
					return err
				}
				defer coord.Close()

				var execErr error
				rec := &model.ContentItem{Title: args[0], Type: itemType, Owner: owner, Date: date}
				if campaign != "" {
					rec.CampaignID = campaign
				}
				coord.Insert(ctx, rec,
					func(runCtx context.Context, it *model.ContentItem) (*model.ContentItem, error) {
						if campaign != "" {
							return svc.CreateInCampaign(runCtx, campaign, it)
						}
						return svc.Create(runCtx, it)
					},
					func(err error) { execErr = err },
				)
				if err := coord.Flush(ctx); err != nil {
					return err
				}
				if execErr != nil {
					return execErr
				}
				printItems(coord.Snapshot())
				return nil
			})
		},
	}
	addCmd.Flags().StringVarP(&itemType, "type", "t", "", "Content type (defaults to Brewing Guide)")
	addCmd.Flags().StringVarP(&owner, "owner", "o", "", "Owning member id")
	addCmd.Flags().StringVarP(&campaign, "campaign", "c", "", "Campaign id (creates the item inside the campaign)")
	addCmd.Flags().StringVarP(&date, "date", "d", "", "Publish date (YYYY-MM-DD)")
	itemsCmd.AddCommand(addCmd)

	moveCmd := &cobra.Command{
		Use:   "move ITEM_ID STAGE",
		Short: "Move an item to another pipeline stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				id, stage := args[0], model.Stage(args[1])
				if !model.ValidStage(stage) {
					return fmt.Errorf("unknown stage %q (one of: %v)", stage, model.PipelineStages)
				}
				svc := services.NewContentService(st, log)
				coord, err := itemCoordinator(ctx, st, log)
				if err != nil {
					return err
				}
				defer coord.Close()

				var execErr error
				coord.Update(ctx, id,
					func(it *model.ContentItem) *model.ContentItem { cp := *it; cp.Stage = stage; return &cp },
					func(runCtx context.Context) error {
						_, err := svc.Update(runCtx, id, model.ContentItemPatch{Stage: &stage})
						return err
					},
					func(err error) { execErr = err },
				)
				if err := coord.Flush(ctx); err != nil {
					return err
				}
				return execErr
			})
		},
	}
	itemsCmd.AddCommand(moveCmd)

	rmCmd := &cobra.Command{
		Use:   "rm ITEM_ID",
		Short: "Delete a content item (its comments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				svc := services.NewContentService(st, log)
				coord, err := itemCoordinator(ctx, st, log)
				if err != nil {
					return err
				}
				defer coord.Close()

				var execErr error
				coord.Remove(ctx, args[0],
					func(runCtx context.Context) error { return svc.Delete(runCtx, args[0]) },
					func(err error) { execErr = err },
				)
				if err := coord.Flush(ctx); err != nil {
					return err
				}
				return execErr
			})
		},
	}
	itemsCmd.AddCommand(rmCmd)

	rootCmd.AddCommand(itemsCmd)
}
