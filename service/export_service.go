package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"catalog-studio/layout"
	"catalog-studio/models"
)

// ProductSource loads the complete, unpaginated product list
type ProductSource interface {
	ListAllProducts(ctx context.Context) ([]models.Product, error)
}

// ExportView is what the user currently has on screen when an export starts
type ExportView struct {
	CurrentPage int
	// Products holds the items of CurrentPage only
	Products   []models.Product
	TotalPages int
	Settings   models.CatalogSettings
}

// ProgressFunc observes state transitions of a running export
type ProgressFunc func(models.ExportProgress)

// ExportConfig tunes rasterization
type ExportConfig struct {
	CaptureScale float64
	Corrections  FidelityCorrections
	Title        string
}

// DefaultExportConfig returns the calibrated export settings
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		CaptureScale: DefaultCaptureScale,
		Corrections:  DefaultCorrections(),
		Title:        "Product Catalog",
	}
}

// ExportStatus is a snapshot of the export service
type ExportStatus struct {
	Busy     bool                  `json:"busy"`
	Progress models.ExportProgress `json:"progress"`
}

// ExportService turns catalog pages into PDF or PNG artifacts, one page at a time
type ExportService struct {
	surfaces SurfaceProvider
	products ProductSource
	images   ImageResolver
	renderer *PageRenderer
	config   ExportConfig

	busy atomic.Bool

	mu   sync.RWMutex
	last models.ExportProgress
}

// NewExportService creates a new ExportService. images may be nil, in which case
// product image references are rendered as they are.
func NewExportService(surfaces SurfaceProvider, products ProductSource, images ImageResolver, renderer *PageRenderer, config ExportConfig) *ExportService {
	if config.CaptureScale < MinCaptureScale || config.CaptureScale > MaxCaptureScale {
		log.Printf("⚠️  ExportService: capture scale %.2f out of range, using %.0f", config.CaptureScale, DefaultCaptureScale)
		config.CaptureScale = DefaultCaptureScale
	}
	if config.Corrections.FontScale <= 0 || config.Corrections.FontScale > 1 {
		config.Corrections.FontScale = DefaultFontScale
	}

	return &ExportService{
		surfaces: surfaces,
		products: products,
		images:   images,
		renderer: renderer,
		config:   config,
		last:     models.ExportProgress{State: models.StateIdle},
	}
}

// Busy reports whether an export is running
func (s *ExportService) Busy() bool {
	return s.busy.Load()
}

// Status returns the busy flag and the last published progress
func (s *ExportService) Status() ExportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ExportStatus{Busy: s.busy.Load(), Progress: s.last}
}

// Export runs the export state machine for req against the current view. PNG pages are handed
// to sink as soon as they are captured; a PDF is written once, after the last page. On failure
// the partial PDF is discarded while PNGs already written remain.
func (s *ExportService) Export(ctx context.Context, req models.ExportRequest, view ExportView, sink ArtifactSink, progress ProgressFunc) (*models.ExportResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer s.busy.Store(false)

	req.Normalize()
	settings := view.Settings
	settings.Normalize()
	perPage := settings.ItemsPerPage()

	if view.CurrentPage < 1 {
		view.CurrentPage = 1
	}
	totalPages := view.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}

	job := &models.ExportJob{Format: req.Format}
	s.publish(progress, job, 0, models.StateResolvingPages)
	job.Pages = layout.ResolvePageRange(req.Range, req.CustomRange, req.CurrentPage, totalPages)
	log.Printf("📄 Export: %s, range=%s, pages=%v", req.Format, req.Range, job.Pages)

	var all []models.Product
	needsFullData := len(job.Pages) > 1 || job.Pages[0] != view.CurrentPage
	if needsFullData {
		s.publish(progress, job, 0, models.StateFetchingFullData)
		if s.products == nil {
			return nil, s.fail(progress, job, 0, fmt.Errorf("%w: no product source configured", ErrFetchProducts))
		}
		var err error
		all, err = s.products.ListAllProducts(ctx)
		if err != nil {
			return nil, s.fail(progress, job, 0, s.stepError(ctx, ErrFetchProducts, err))
		}
		totalPages = layout.TotalPages(len(all), perPage)
		log.Printf("✓ Export: loaded %d products (%d pages)", len(all), totalPages)
	}

	settings = s.resolveSettingsImages(ctx, settings)

	surface, err := s.surfaces.NewSurface(ctx)
	if err != nil {
		return nil, s.fail(progress, job, 0, s.stepError(ctx, ErrSurfaceStart, err))
	}
	defer func() {
		if err := surface.Release(); err != nil {
			log.Printf("⚠️  Export: failed to release surface: %v", err)
		}
	}()

	if err := surface.Acquire(ctx, layout.PageWidthPx, layout.PageHeightPx); err != nil {
		return nil, s.fail(progress, job, 0, s.stepError(ctx, ErrSurfaceStart, err))
	}

	var assembler *PDFAssembler
	if req.Format == models.ExportFormatPDF {
		assembler = NewPDFAssembler(layout.PageWidthMm, layout.PageHeightMm, s.config.Title)
	}

	result := &models.ExportResult{Format: req.Format}

	for _, n := range job.Pages {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(progress, job, n, fmt.Errorf("%w: %v", ErrExportCanceled, err))
		}

		var page models.Page
		if needsFullData {
			page = layout.SlicePage(all, n, perPage)
		} else {
			page = models.Page{PageNumber: n, Items: append([]models.Product(nil), view.Products...)}
		}
		page = s.resolvePageImages(ctx, page)

		frame, err := s.capturePage(ctx, progress, job, surface, page, totalPages, settings)
		if err != nil {
			return nil, s.fail(progress, job, n, err)
		}

		s.publish(progress, job, n, models.StateAssembling)
		if assembler != nil {
			if err := assembler.AppendFrame(n, frame, req.Quality); err != nil {
				return nil, s.fail(progress, job, n, fmt.Errorf("%w: page %d: %v", ErrAssemble, n, err))
			}
		} else {
			name, err := sink.WritePNG(ctx, n, frame)
			if err != nil {
				return nil, s.fail(progress, job, n, s.stepError(ctx, ErrSaveArtifact, err))
			}
			result.Files = append(result.Files, name)
		}

		job.Completed++
		result.Pages = append(result.Pages, n)
		log.Printf("✓ Export: page %d done (%d/%d)", n, job.Completed, job.Total())
	}

	s.publish(progress, job, 0, models.StateFinalizing)
	if assembler != nil {
		data, err := assembler.Bytes()
		if err != nil {
			return nil, s.fail(progress, job, 0, fmt.Errorf("%w: %v", ErrAssemble, err))
		}
		name, err := sink.WritePDF(ctx, data)
		if err != nil {
			return nil, s.fail(progress, job, 0, s.stepError(ctx, ErrSaveArtifact, err))
		}
		result.Files = append(result.Files, name)
	}

	s.publish(progress, job, 0, models.StateDone)
	log.Printf("🎉 Export completed: %s, %d pages", req.Format, job.Completed)
	return result, nil
}

// capturePage drives one page through render, asset barrier, correction and capture
func (s *ExportService) capturePage(ctx context.Context, progress ProgressFunc, job *models.ExportJob, surface RenderSurface, page models.Page, totalPages int, settings models.CatalogSettings) ([]byte, error) {
	n := page.PageNumber

	s.publish(progress, job, n, models.StateRenderingPage)
	html, err := s.renderer.RenderExport(layout.BuildPage(page, totalPages, settings))
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRenderPage, n, err)
	}
	if err := surface.Render(ctx, html); err != nil {
		return nil, s.stepError(ctx, ErrRenderPage, fmt.Errorf("page %d: %w", n, err))
	}

	s.publish(progress, job, n, models.StateWaitingForAssets)
	report, err := surface.WaitForAssets(ctx)
	if err != nil {
		return nil, s.stepError(ctx, ErrRenderPage, fmt.Errorf("page %d: %w", n, err))
	}
	if report.Failed() > 0 {
		log.Printf("⚠️  Export: page %d: %d of %d images failed to load", n, report.Failed(), report.Total)
	}

	s.publish(progress, job, n, models.StateCorrecting)
	if err := surface.ApplyExportCorrections(ctx, s.config.Corrections); err != nil {
		return nil, s.stepError(ctx, ErrRenderPage, fmt.Errorf("page %d: %w", n, err))
	}

	s.publish(progress, job, n, models.StateCapturing)
	frame, err := surface.Capture(ctx, s.config.CaptureScale)
	if err != nil {
		return nil, s.stepError(ctx, ErrCapturePage, fmt.Errorf("page %d: %w", n, err))
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("%w: page %d: empty capture", ErrCapturePage, n)
	}
	return frame, nil
}

// resolvePageImages returns a copy of page with image references made loadable
func (s *ExportService) resolvePageImages(ctx context.Context, page models.Page) models.Page {
	if s.images == nil {
		return page
	}
	items := make([]models.Product, len(page.Items))
	for i, p := range page.Items {
		if p.Image != "" {
			p.Image = s.images.Resolve(ctx, p.Image)
		}
		items[i] = p
	}
	page.Items = items
	return page
}

func (s *ExportService) resolveSettingsImages(ctx context.Context, settings models.CatalogSettings) models.CatalogSettings {
	if s.images == nil {
		return settings
	}
	if settings.HeaderLogo != "" {
		settings.HeaderLogo = s.images.Resolve(ctx, settings.HeaderLogo)
	}
	if settings.WatermarkLogo != "" {
		settings.WatermarkLogo = s.images.Resolve(ctx, settings.WatermarkLogo)
	}
	return settings
}

// stepError wraps err with sentinel, reporting cancellation instead when ctx is done
func (s *ExportService) stepError(ctx context.Context, sentinel, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrExportCanceled, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

func (s *ExportService) publish(progress ProgressFunc, job *models.ExportJob, page int, state models.ExportState) {
	job.State = state
	s.emit(progress, models.ExportProgress{
		State:     state,
		Page:      page,
		Completed: job.Completed,
		Total:     job.Total(),
	})
}

func (s *ExportService) fail(progress ProgressFunc, job *models.ExportJob, page int, err error) error {
	job.State = models.StateFailed
	log.Printf("❌ Export: %v", err)
	s.emit(progress, models.ExportProgress{
		State:     models.StateFailed,
		Page:      page,
		Completed: job.Completed,
		Total:     job.Total(),
		Message:   UserMessage(err),
	})
	return err
}

func (s *ExportService) emit(progress ProgressFunc, p models.ExportProgress) {
	s.mu.Lock()
	s.last = p
	s.mu.Unlock()
	if progress != nil {
		progress(p)
	}
}
