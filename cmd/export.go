package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/luminabooks/bookadmin/internal/snapshot"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newExportCmd() *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the catalog to disk",
		Long: `Fetches every book and order from the configured store and writes them as a
YAML file or as a directory of Parquet files. Snapshots can be loaded back
with SEED_FILE.`,
		Example: `  bookadmin export --out catalog.yaml
  STORE_BACKEND=sqlite bookadmin export --format parquet --out ./export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			if closeStore != nil {
				defer closeStore()
			}

			snap := snapshot.New(nil, nil)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				snap.Books, err = store.FetchBooks(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				snap.Orders, err = store.FetchOrders(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to read catalog: %w", err)
			}

			switch strings.ToLower(format) {
			case "yaml":
				err = snapshot.SaveYAML(out, snap)
			case "parquet":
				err = snapshot.SaveParquet(out, snap)
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			if err != nil {
				return err
			}
			slog.Info("Catalog exported", "path", out, "format", format, "books", len(snap.Books), "orders", len(snap.Orders))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "catalog.yaml", "Output file (yaml) or directory (parquet)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Snapshot format: yaml or parquet")

	return cmd
}
