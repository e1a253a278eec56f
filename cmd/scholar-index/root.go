package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/scholar-index/v1/config"
)

type rootOptions struct {
	configFile string
	envFile    string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "scholar-index",
		Short: "Vector search over bibliographic article records",
		Long: `scholar-index stores article metadata with embeddings in a vector index
and serves similarity search with metadata filters over HTTP.

Example usage:
  scholar-index serve --config config.yaml
  scholar-index ingest --collection papers --path "exports/**/*.json"
  scholar-index collections create papers --size 1024`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile, opts.envFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file, ignored when missing")

	cmd.AddCommand(
		newServeCmd(opts),
		newIngestCmd(opts),
		newCollectionsCmd(opts),
	)
	return cmd
}
