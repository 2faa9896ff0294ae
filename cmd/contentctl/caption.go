package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tastcoffee/contentops/internal/captions"
	"github.com/tastcoffee/contentops/internal/services"
	"github.com/tastcoffee/contentops/internal/store"
)

func init() {
	var channel, product, tone string

	captionCmd := &cobra.Command{
		Use:   "caption CONTEXT",
		Short: "Draft social captions for a post via the content service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := captions.Request{
				Channel: channel,
				Context: args[0],
				Product: product,
				Tone:    tone,
			}

			// The brand voice travels with the request, same as the board does
			// it: the generator itself is stateless.
			err := withStore(func(ctx context.Context, st store.Store, log zerolog.Logger) error {
				doc, err := services.NewVoiceService(st).Get(ctx)
				if err != nil {
					return err
				}
				req.BrandVoice = doc
				return nil
			})
			if err != nil {
				return err
			}

			var out struct {
				Captions []string `json:"captions"`
			}
			resp, err := resty.New().SetTimeout(75 * time.Second).R().
				SetBody(req).
				SetResult(&out).
				Post(apiFlag + "/api/captions")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("caption request failed: %s", resp.Status())
			}
			for i, c := range out.Captions {
				fmt.Fprintf(os.Stdout, "%d. %s\n\n", i+1, c)
			}
			return nil
		},
	}
	captionCmd.Flags().StringVarP(&channel, "channel", "c", "Instagram", "Target channel")
	captionCmd.Flags().StringVarP(&product, "product", "p", "", "Featured product name")
	captionCmd.Flags().StringVarP(&tone, "tone", "t", "", "Tone direction")

	rootCmd.AddCommand(captionCmd)
}
