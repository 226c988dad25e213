package main

import (
	"context"
	"fmt"
	"os"

	"catalog-studio/models"

	"gopkg.in/yaml.v3"
)

// productFile is the on-disk product list accepted by --products
type productFile struct {
	Products []models.Product `yaml:"products"`
}

// fileProductSource serves products loaded from a YAML or JSON file
type fileProductSource struct {
	products []models.Product
}

// loadProductFile reads either {"products": [...]} or a bare list
func loadProductFile(path string) (*fileProductSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read products file: %w", err)
	}

	var wrapped productFile
	if err := yaml.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Products) > 0 {
		return &fileProductSource{products: wrapped.Products}, nil
	}

	var list []models.Product
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse products file %s: %w", path, err)
	}
	return &fileProductSource{products: list}, nil
}

func (s *fileProductSource) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// loadSettingsFile merges a YAML or JSON settings document over the defaults
func loadSettingsFile(path string) (models.CatalogSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.CatalogSettings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	settings, err := models.MergeSettingsYAML(raw)
	if err != nil {
		return models.CatalogSettings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return settings, nil
}
