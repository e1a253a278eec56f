package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
	"github.com/Aleph-Alpha/scholar-index/v1/config"
)

func newCollectionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage collections",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List collections with their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), opts.cfg, func(ctx context.Context, c *catalog.Catalog) error {
				names, err := c.ListCollections(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tVECTOR SIZE\tPOINTS")
				for _, name := range names {
					info, err := c.CollectionInfo(ctx, name)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%d\t%d\n", info.Name, info.VectorSize, info.PointCount)
				}
				return w.Flush()
			})
		},
	}

	var size int
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), opts.cfg, func(ctx context.Context, c *catalog.Catalog) error {
				if err := c.CreateCollection(ctx, args[0], size); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Collection %s created.\n", args[0])
				return nil
			})
		},
	}
	create.Flags().IntVar(&size, "size", catalog.MaxVectorSize, "vector size (1-1024)")

	remove := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a collection and all its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), opts.cfg, func(ctx context.Context, c *catalog.Catalog) error {
				if err := c.DeleteCollection(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Collection %s deleted.\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}

// withCatalog starts a minimal application around the catalog, runs fn and
// stops the application again.
func withCatalog(ctx context.Context, cfg *config.Config, fn func(context.Context, *catalog.Catalog) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var c *catalog.Catalog
	app := fx.New(
		coreOptions(cfg, true),
		fx.Populate(&c),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx, c)

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
