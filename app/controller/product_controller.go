package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"catalog-studio/models"
	"catalog-studio/repository"
)

// ProductController handles HTTP requests for products
type ProductController struct {
	products repository.ProductRepositoryInterface
	settings repository.SettingsRepositoryInterface
}

// NewProductController creates a new ProductController
func NewProductController(products repository.ProductRepositoryInterface, settings repository.SettingsRepositoryInterface) *ProductController {
	return &ProductController{
		products: products,
		settings: settings,
	}
}

// ListProducts handles GET /products?page=&pageSize=&search=&category=&sortField=&sortOrder=
// pageSize defaults to the catalog's items per page so listing pages match printed pages
func (c *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	query := models.ProductQuery{
		Search:    strings.TrimSpace(q.Get("search")),
		Category:  strings.TrimSpace(q.Get("category")),
		SortField: strings.TrimSpace(q.Get("sortField")),
		SortOrder: strings.TrimSpace(q.Get("sortOrder")),
	}

	var err error
	if query.Page, err = optionalInt(q.Get("page")); err != nil {
		http.Error(w, "Invalid page", http.StatusBadRequest)
		return
	}
	if query.PageSize, err = optionalInt(q.Get("pageSize")); err != nil {
		http.Error(w, "Invalid pageSize", http.StatusBadRequest)
		return
	}
	if query.PageSize == 0 {
		settings, err := c.settings.GetSettings(ctx)
		if err != nil {
			log.Printf("❌ ListProducts: Error fetching settings: %v", err)
			http.Error(w, "Failed to load catalog settings", http.StatusInternalServerError)
			return
		}
		query.PageSize = settings.ItemsPerPage()
	}

	result, err := c.products.ListProducts(ctx, query)
	if err != nil {
		log.Printf("❌ ListProducts: %v", err)
		http.Error(w, "Failed to list products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateProduct handles POST /products
func (c *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	product, err := c.products.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateProduct) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("❌ CreateProduct: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (c *ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := productIDFromPath(r.URL.Path)
	product, err := c.products.GetByID(r.Context(), id)
	if err != nil {
		c.writeRepositoryError(w, "GetProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /products/{id}
func (c *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := productIDFromPath(r.URL.Path)
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	product, err := c.products.Update(r.Context(), id, req)
	if err != nil {
		c.writeRepositoryError(w, "UpdateProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (c *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := productIDFromPath(r.URL.Path)
	if err := c.products.Delete(r.Context(), id); err != nil {
		c.writeRepositoryError(w, "DeleteProduct", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProductController) writeRepositoryError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repository.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("❌ %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "Product storage error")
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (models.ProductWriteRequest, bool) {
	var req models.ProductWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Image = strings.TrimSpace(req.Image)
	return req, true
}

// productIDFromPath extracts {id} from /products/{id}
func productIDFromPath(path string) string {
	return strings.Trim(strings.TrimPrefix(path, "/products/"), "/")
}

func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
