package service

import (
	"context"

	"catalog-studio/models"
)

// DownloadServiceInterface defines the contract for bulk product image downloads
type DownloadServiceInterface interface {
	WarmImages(ctx context.Context, products []models.Product) (*WarmReport, error)
}
