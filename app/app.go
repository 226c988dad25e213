package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"catalog-studio/app/controller"
	"catalog-studio/app/router"
	"catalog-studio/db"
	"catalog-studio/repository"
	"catalog-studio/service"
)

// Application is the wired HTTP application
type Application struct {
	Config  Config
	Handler http.Handler

	cleanup func()
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg Config) (*Application, error) {
	// Initialize database connection
	if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.CloseDB()
		return nil, err
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository()
	settingsRepo := repository.NewSettingsRepository()

	services, err := NewServices(ctx, cfg, productRepo)
	if err != nil {
		db.CloseDB()
		return nil, err
	}

	sessions := controller.NewExportSessionStore(cfg.PNGSessionTTL)

	// Create controllers
	controllers := &router.Controllers{
		Catalog:  controller.NewCatalogController(productRepo, settingsRepo, services.Export, services.Renderer, sessions),
		Download: controller.NewDownloadController(sessions, productRepo, services.Download),
		Product:  controller.NewProductController(productRepo, settingsRepo),
		Settings: controller.NewSettingsController(settingsRepo),
	}

	// Setup routes using standard http router
	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return &Application{Config: cfg, Handler: mux, cleanup: services.Close}, nil
}

// Close releases the export service resources and the database pool
func (a *Application) Close() {
	if a.cleanup != nil {
		a.cleanup()
	}
	if err := db.CloseDB(); err != nil {
		log.Printf("⚠️  Failed to close database: %v", err)
	}
}

// Services bundles the export pipeline and the image downloader, which share one image cache
type Services struct {
	Export   *service.ExportService
	Download *service.DownloadService
	Renderer *service.PageRenderer

	closeCache func()
}

// Close releases the image cache connection
func (s *Services) Close() {
	if s.closeCache != nil {
		s.closeCache()
	}
}

// NewServices wires the export pipeline: Chrome surfaces, image inlining with a Redis or
// disk cache, and Google Drive when credentials are configured
func NewServices(ctx context.Context, cfg Config, products service.ProductSource) (*Services, error) {
	services := &Services{}

	var cache service.ImageCache
	if cfg.RedisURL != "" {
		redisCache, err := service.NewRedisImageCache(ctx, cfg.RedisURL, 24*time.Hour)
		if err != nil {
			log.Printf("⚠️  Redis image cache unavailable, falling back to disk: %v", err)
		} else {
			cache = redisCache
			services.closeCache = func() {
				if err := redisCache.Close(); err != nil {
					log.Printf("⚠️  Failed to close redis: %v", err)
				}
			}
		}
	}
	if cache == nil && cfg.ImageCacheDir != "" {
		diskCache, err := service.NewDiskImageCache(cfg.ImageCacheDir)
		if err != nil {
			log.Printf("⚠️  Disk image cache unavailable: %v", err)
		} else {
			cache = diskCache
		}
	}

	var drive service.DriveServiceInterface
	if cfg.DriveCredentials != "" {
		driveService, err := service.NewDriveService(ctx, cfg.DriveCredentials)
		if err != nil {
			log.Printf("⚠️  Google Drive disabled: %v", err)
		} else {
			drive = driveService
		}
	}

	renderer, err := service.NewPageRenderer()
	if err != nil {
		services.Close()
		return nil, err
	}

	surfaces := &service.ChromeSurfaceProvider{
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.ExportTimeout,
	}
	images := service.NewImageInliner(cfg.BaseURL, drive, cache)

	services.Renderer = renderer
	services.Export = service.NewExportService(surfaces, products, images, renderer, cfg.ExportConfig())
	services.Download = service.NewDownloadService(images)
	return services, nil
}
