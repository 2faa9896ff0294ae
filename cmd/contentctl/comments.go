package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tastcoffee/contentops/internal/services"
	"github.com/tastcoffee/contentops/internal/store"
)

func init() {
	commentsCmd := &cobra.Command{Use: "comments", Short: "Comment operations"}

	listCmd := &cobra.Command{
		Use:   "list ITEM_ID",
		Short: "List an item's comments, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				cs, err := services.NewCommentService(st, log).ListForItem(ctx, args[0])
				if err != nil {
					return err
				}
				for _, c := range cs {
					fmt.Fprintf(os.Stdout, "%-36s  %-8s  %s\n", c.ID, c.AuthorName, c.Text)
				}
				return nil
			})
		},
	}
	commentsCmd.AddCommand(listCmd)

	addCmd := &cobra.Command{
		Use:   "add ITEM_ID TEXT",
		Short: "Comment on an item as the selected member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentMember()
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				c, err := services.NewCommentService(st, log).Add(ctx, args[0], args[1], m.ID, m.Name)
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, c.ID)
				return nil
			})
		},
	}
	commentsCmd.AddCommand(addCmd)

	rmCmd := &cobra.Command{
		Use:   "rm COMMENT_ID",
		Short: "Delete one of your own comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := currentMember()
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				return services.NewCommentService(st, log).Delete(ctx, args[0], m.ID)
			})
		},
	}
	commentsCmd.AddCommand(rmCmd)

	rootCmd.AddCommand(commentsCmd)
}
