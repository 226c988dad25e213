package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"catalog-studio/models"
)

// WarmReport summarizes a bulk image download
type WarmReport struct {
	Total   int      `json:"total"`
	Inlined int      `json:"inlined"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// DownloadService downloads and optimizes every product image ahead of an export so the
// export itself mostly reads from the image cache
type DownloadService struct {
	inliner *ImageInliner
}

// NewDownloadService creates a new DownloadService instance
func NewDownloadService(inliner *ImageInliner) *DownloadService {
	return &DownloadService{
		inliner: inliner,
	}
}

// Ensure DownloadService implements DownloadServiceInterface
var _ DownloadServiceInterface = (*DownloadService)(nil)

// WarmImages resolves the image of every product once. Products without an image and
// repeated references are skipped; failures are collected, not fatal.
func (ds *DownloadService) WarmImages(ctx context.Context, products []models.Product) (*WarmReport, error) {
	log.Printf("📥 Starting image download for %d products", len(products))

	report := &WarmReport{Total: len(products)}
	seen := make(map[string]bool)

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("image download interrupted: %w", err)
		}

		ref := strings.TrimSpace(p.Image)
		if ref == "" || strings.HasPrefix(ref, "data:") {
			report.Skipped++
			continue
		}
		if seen[ref] {
			log.Printf("⏭️  Skipping %s (image already downloaded in this run)", p.ID)
			report.Skipped++
			continue
		}
		seen[ref] = true

		if resolved := ds.inliner.Resolve(ctx, ref); !strings.HasPrefix(resolved, "data:") {
			errorMsg := fmt.Sprintf("Failed to download image for %s (%s)", p.ID, ref)
			log.Printf("❌ %s", errorMsg)
			report.Errors = append(report.Errors, errorMsg)
			continue
		}
		report.Inlined++
	}

	log.Printf("🎉 Download completed: %d inlined, %d skipped, %d failed out of %d products",
		report.Inlined, report.Skipped, len(report.Errors), report.Total)
	return report, nil
}
