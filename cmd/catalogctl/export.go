package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catalog-studio/app"
	"catalog-studio/db"
	"catalog-studio/layout"
	"catalog-studio/models"
	"catalog-studio/repository"
	"catalog-studio/service"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	format       string
	quality      float64
	rangeMode    string
	pages        string
	currentPage  int
	settingsPath string
	productsPath string
	outDir       string
}

func newExportCmd() *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export catalog pages to PDF or PNG",
		Long: `Renders the selected catalog pages off-screen and writes either one PDF
(catalog.pdf) or one PNG per page (catalog_page_<n>.png) into the output directory.`,
		Example: `  # Export the whole catalog as PDF
  catalogctl export --range all

  # Export pages 1-3 and 5 as PNG using products from a file
  catalogctl export --format png --range custom --pages 1-3,5 --products products.yaml

  # Export the page currently shown (page 4) with custom settings
  catalogctl export --page 4 --settings catalog.yaml --out ./dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", models.ExportFormatPDF, "Output format: pdf or png")
	cmd.Flags().Float64VarP(&opts.quality, "quality", "q", models.DefaultExportQuality, "JPEG quality of PDF pages (0.1-1.0)")
	cmd.Flags().StringVarP(&opts.rangeMode, "range", "r", models.RangeCurrent, "Page range: current, all or custom")
	cmd.Flags().StringVar(&opts.pages, "pages", "", "Custom page list, e.g. 1-3,5 (implies --range custom)")
	cmd.Flags().IntVar(&opts.currentPage, "page", 1, "Page treated as currently displayed")
	cmd.Flags().StringVarP(&opts.settingsPath, "settings", "s", "", "Catalog settings file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.productsPath, "products", "", "Products file (YAML or JSON) instead of the database")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "Output directory")

	return cmd
}

// exportRequest builds the normalized export request from the flags
func (o exportOptions) exportRequest() models.ExportRequest {
	req := models.ExportRequest{
		Format:      o.format,
		Quality:     o.quality,
		Range:       o.rangeMode,
		CustomRange: o.pages,
		CurrentPage: o.currentPage,
	}
	if o.pages != "" && (o.rangeMode == "" || o.rangeMode == models.RangeCurrent) {
		req.Range = models.RangeCustom
	}
	req.Normalize()
	return req
}

func runExport(ctx context.Context, opts exportOptions) error {
	cfg := app.LoadConfig()
	req := opts.exportRequest()

	source, settings, err := openCatalog(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	all, err := source.ListAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	view := buildView(all, req.CurrentPage, settings)
	req.CurrentPage = view.CurrentPage

	services, err := app.NewServices(ctx, cfg, source)
	if err != nil {
		return err
	}
	defer services.Close()

	sink, err := service.NewDirSink(opts.outDir, "catalog")
	if err != nil {
		return err
	}

	slog.Info("Exporting catalog", "format", req.Format, "range", req.Range, "pages", req.CustomRange, "products", len(all))
	result, err := services.Export.Export(ctx, req, view, sink, logProgress)
	if err != nil {
		if errors.Is(err, service.ErrExportCanceled) {
			slog.Warn("Export canceled")
		}
		return fmt.Errorf("%s: %w", service.UserMessage(err), err)
	}

	for _, f := range result.Files {
		slog.Info("Wrote artifact", "path", f)
	}
	return nil
}

// openCatalog resolves where products and settings come from
func openCatalog(ctx context.Context, cfg app.Config, opts exportOptions) (service.ProductSource, models.CatalogSettings, error) {
	var source service.ProductSource
	var settingsRepo repository.SettingsRepositoryInterface

	if opts.productsPath != "" {
		fileSource, err := loadProductFile(opts.productsPath)
		if err != nil {
			return nil, models.CatalogSettings{}, err
		}
		source = fileSource
	} else {
		if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
			return nil, models.CatalogSettings{}, fmt.Errorf("no --products file given and the database is unavailable: %w", err)
		}
		source = repository.NewProductRepository()
		settingsRepo = repository.NewSettingsRepository()
	}

	switch {
	case opts.settingsPath != "":
		settings, err := loadSettingsFile(opts.settingsPath)
		return source, settings, err
	case settingsRepo != nil:
		settings, err := settingsRepo.GetSettings(ctx)
		return source, settings, err
	default:
		return source, models.DefaultSettings(), nil
	}
}

// buildView reproduces what an interactive user would have on screen at currentPage
func buildView(all []models.Product, currentPage int, settings models.CatalogSettings) service.ExportView {
	settings.Normalize()
	perPage := settings.ItemsPerPage()
	totalPages := layout.TotalPages(len(all), perPage)
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	return service.ExportView{
		CurrentPage: currentPage,
		Products:    layout.SlicePage(all, currentPage, perPage).Items,
		TotalPages:  totalPages,
		Settings:    settings,
	}
}

func logProgress(p models.ExportProgress) {
	switch p.State {
	case models.StateFailed:
		slog.Error("Export failed", "page", p.Page, "completed", p.Completed, "total", p.Total, "message", p.Message)
	case models.StateCapturing:
		slog.Info("Capturing page", "page", p.Page, "completed", p.Completed, "total", p.Total)
	default:
		slog.Debug("Export progress", "state", p.State, "page", p.Page, "completed", p.Completed, "total", p.Total)
	}
}
