package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/config"
	"github.com/Aleph-Alpha/scholar-index/v1/embedding"
	"github.com/Aleph-Alpha/scholar-index/v1/ingest"
	"github.com/Aleph-Alpha/scholar-index/v1/kafka"
	"github.com/Aleph-Alpha/scholar-index/v1/ledger"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/minio"
	"github.com/Aleph-Alpha/scholar-index/v1/rabbit"
)

func newIngestCmd(opts *rootOptions) *cobra.Command {
	var (
		collection string
		source     string
		root       string
		pattern    string
		prefix     string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load article records into a collection",
		Long: `Reads article records from files, a RabbitMQ queue, a Kafka topic or a
MinIO bucket, embeds them and stores them as items. File and bucket
sources stop once drained; queue and topic sources run until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			flags := cmd.Flags()
			if flags.Changed("collection") {
				cfg.Ingest.Collection = collection
			}
			if flags.Changed("source") {
				cfg.Ingest.Source = source
			}
			if flags.Changed("root") {
				cfg.Ingest.Root = root
			}
			if flags.Changed("path") {
				cfg.Ingest.Pattern = pattern
			}
			if flags.Changed("prefix") {
				cfg.Ingest.Prefix = prefix
			}
			if cfg.Ingest.Collection == "" {
				return errors.New("a collection is required (--collection or INGEST_COLLECTION)")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stats, err := runIngest(ctx, cfg)
			fmt.Fprintf(cmd.OutOrStdout(), "records: %d, added: %d, skipped: %d, invalid: %d, failed: %d\n",
				stats.Records, stats.Added, stats.Skipped, stats.Invalid, stats.Failed)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "target collection")
	cmd.Flags().StringVar(&source, "source", ingest.SourceFile, "file, rabbit, kafka or minio")
	cmd.Flags().StringVar(&root, "root", ".", "base directory of the file source")
	cmd.Flags().StringVar(&pattern, "path", "**/*.json*", "glob below --root for the file source")
	cmd.Flags().StringVar(&prefix, "prefix", "", "object prefix for the minio source")
	return cmd
}

func runIngest(ctx context.Context, cfg *config.Config) (ingest.Stats, error) {
	var (
		pipeline *ingest.Pipeline
		src      ingest.Source
	)

	app := fx.New(
		coreOptions(cfg, true),
		embeddingAndLedger(),
		sourceModule(cfg.Ingest.Source),
		ingest.FXModule,
		fx.Populate(&pipeline, &src),
	)
	if err := app.Start(ctx); err != nil {
		return ingest.Stats{}, err
	}

	stats, runErr := pipeline.Run(ctx, cfg.Ingest.Collection, src)

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return stats, runErr
}

func embeddingAndLedger() fx.Option {
	return fx.Options(embedding.FXModule, ledger.FXModule)
}

// sourceModule adds the client module a queue or bucket source needs and
// hands it the application logger.
func sourceModule(source string) fx.Option {
	switch source {
	case ingest.SourceRabbit:
		return fx.Options(
			fx.Provide(func(l *logger.LoggerClient) rabbit.Logger { return l }),
			rabbit.FXModule,
		)
	case ingest.SourceKafka:
		return fx.Options(
			fx.Provide(func(l *logger.LoggerClient) kafka.Logger { return l }),
			kafka.FXModule,
		)
	case ingest.SourceMinio:
		return fx.Options(
			fx.Provide(func(l *logger.LoggerClient) minio.Logger { return l }),
			minio.FXModule,
		)
	default:
		return fx.Options()
	}
}
