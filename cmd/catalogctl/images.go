package main

import (
	"context"
	"fmt"
	"log/slog"

	"catalog-studio/app"
	"catalog-studio/db"

	"github.com/spf13/cobra"
)

func newWarmImagesCmd() *cobra.Command {
	var productsPath string

	cmd := &cobra.Command{
		Use:   "warm-images",
		Short: "Download every product image into the image cache",
		Long: `Fetches, resizes and caches all product images (HTTP URLs and drive:<fileID>
references) so later exports read them from the cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarmImages(cmd.Context(), productsPath)
		},
	}

	cmd.Flags().StringVar(&productsPath, "products", "", "Products file (YAML or JSON) instead of the database")

	return cmd
}

func runWarmImages(ctx context.Context, productsPath string) error {
	cfg := app.LoadConfig()

	source, _, err := openCatalog(ctx, cfg, exportOptions{productsPath: productsPath})
	if err != nil {
		return err
	}
	defer db.CloseDB()

	products, err := source.ListAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	services, err := app.NewServices(ctx, cfg, source)
	if err != nil {
		return err
	}
	defer services.Close()

	report, err := services.Download.WarmImages(ctx, products)
	if err != nil {
		return err
	}
	for _, e := range report.Errors {
		slog.Warn(e)
	}
	slog.Info("Image cache warmed", "total", report.Total, "inlined", report.Inlined, "skipped", report.Skipped, "failed", len(report.Errors))
	return nil
}
