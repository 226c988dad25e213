package repository

import (
	"context"
	"errors"

	"catalog-studio/models"
)

// Sentinel errors returned by repositories
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product id already exists")
)

// ProductRepositoryInterface defines the contract for product storage operations
type ProductRepositoryInterface interface {
	ListProducts(ctx context.Context, q models.ProductQuery) (*models.ProductListResult, error)
	ListAllProducts(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, req models.ProductWriteRequest) (*models.Product, error)
	Update(ctx context.Context, id string, req models.ProductWriteRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// SettingsRepositoryInterface defines the contract for catalog settings persistence
type SettingsRepositoryInterface interface {
	GetSettings(ctx context.Context) (models.CatalogSettings, error)
	SaveSettings(ctx context.Context, settings models.CatalogSettings) error
}
