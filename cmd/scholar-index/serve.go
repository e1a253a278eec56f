package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/api"
	"github.com/Aleph-Alpha/scholar-index/v1/config"
	"github.com/Aleph-Alpha/scholar-index/v1/metrics"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(serveOptions(opts.cfg))
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func serveOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		coreOptions(cfg, false),
		metrics.FXModule,
		embeddingAndLedger(),
		api.FXModule,
	)
}
