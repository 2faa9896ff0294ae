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
	voiceCmd := &cobra.Command{Use: "voice", Short: "Brand voice document"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the brand voice document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				doc, err := services.NewVoiceService(st).Get(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, doc)
				return nil
			})
		},
	}
	voiceCmd.AddCommand(showCmd)

	setCmd := &cobra.Command{
		Use:   "set TEXT",
		Short: "Replace the brand voice document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				return services.NewVoiceService(st).Set(ctx, args[0])
			})
		},
	}
	voiceCmd.AddCommand(setCmd)

	rootCmd.AddCommand(voiceCmd)
}
