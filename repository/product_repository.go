package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"catalog-studio/db"
	"catalog-studio/layout"
	"catalog-studio/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// Listing defaults
const (
	DefaultPageSize = 9
	MaxPageSize     = 500
)

// sortColumns whitelists the sortable fields; anything else sorts by id
var sortColumns = map[string]string{
	"id":          "id",
	"description": "description",
	"category":    "category",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

const uniqueViolation = "23505"

// ProductRepository handles database operations for products
type ProductRepository struct{}

// NewProductRepository creates a new ProductRepository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// productFilter is the WHERE clause and arguments shared by the count and page queries
type productFilter struct {
	where string
	args  []interface{}
}

// buildProductFilter builds the search/category conditions with positional arguments
func buildProductFilter(q models.ProductQuery) productFilter {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if search := strings.TrimSpace(q.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf("(id ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(search)+"%")
		argIndex++
	}

	if category := strings.TrimSpace(q.Category); category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, category)
		argIndex++
	}

	f := productFilter{args: args}
	if len(conditions) > 0 {
		f.where = " WHERE " + strings.Join(conditions, " AND ")
	}
	return f
}

// orderClause maps the requested sort onto a whitelisted column, with id as tie breaker
func orderClause(field, order string) string {
	column, ok := sortColumns[field]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if strings.EqualFold(order, "desc") {
		direction = "DESC"
	}
	if column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", direction)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// normalizeQuery clamps page and page size
func normalizeQuery(q models.ProductQuery) models.ProductQuery {
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// ListProducts returns one page of products plus the total count for pagination
func (r *ProductRepository) ListProducts(ctx context.Context, q models.ProductQuery) (*models.ProductListResult, error) {
	q = normalizeQuery(q)
	log.Printf("🔍 ListProducts: page=%d, pageSize=%d, search=%q, category=%q, sort=%s %s",
		q.Page, q.PageSize, q.Search, q.Category, q.SortField, q.SortOrder)

	filter := buildProductFilter(q)

	var total int
	countQuery := "SELECT COUNT(*) FROM products" + filter.where
	if err := db.DB.QueryRowContext(ctx, countQuery, filter.args...).Scan(&total); err != nil {
		log.Printf("❌ Error counting products: %v", err)
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	totalPages := layout.TotalPages(total, q.PageSize)
	if q.Page > totalPages {
		q.Page = totalPages
	}

	argIndex := len(filter.args) + 1
	pageQuery := "SELECT id, description, category, image FROM products" + filter.where +
		orderClause(q.SortField, q.SortOrder) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args := append(append([]interface{}{}, filter.args...), q.PageSize, (q.Page-1)*q.PageSize)

	items, err := queryProducts(ctx, pageQuery, args...)
	if err != nil {
		return nil, err
	}

	log.Printf("✓ ListProducts: %d of %d products (page %d/%d)", len(items), total, q.Page, totalPages)
	return &models.ProductListResult{
		Items:       items,
		TotalCount:  total,
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		PageSize:    q.PageSize,
	}, nil
}

// ListAllProducts returns every product in catalog order, unpaginated
func (r *ProductRepository) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	log.Printf("🔍 ListAllProducts: fetching full catalog")
	items, err := queryProducts(ctx, "SELECT id, description, category, image FROM products ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	log.Printf("✓ ListAllProducts: %d products", len(items))
	return items, nil
}

func queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ Error querying products: %v", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	items := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Description, &p.Category, &p.Image); err != nil {
			log.Printf("❌ Error scanning product: %v", err)
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return items, nil
}

// GetByID returns a single product
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := db.DB.QueryRowContext(ctx,
		"SELECT id, description, category, image FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Description, &p.Category, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		log.Printf("❌ Error fetching product %s: %v", id, err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, req models.ProductWriteRequest) (*models.Product, error) {
	log.Printf("➕ Create product: id=%s", req.ID)

	var p models.Product
	err := db.DB.QueryRowContext(ctx, `
		INSERT INTO products (id, description, category, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, description, category, image
	`, req.ID, req.Description, req.Category, req.Image).Scan(&p.ID, &p.Description, &p.Category, &p.Image)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, req.ID)
		}
		log.Printf("❌ Error creating product: %v", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Printf("✓ Product created: %s", p.ID)
	return &p, nil
}

// Update replaces the mutable fields of a product
func (r *ProductRepository) Update(ctx context.Context, id string, req models.ProductWriteRequest) (*models.Product, error) {
	log.Printf("✏️  Update product: id=%s", id)

	var p models.Product
	err := db.DB.QueryRowContext(ctx, `
		UPDATE products
		SET description = $2, category = $3, image = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, description, category, image
	`, id, req.Description, req.Category, req.Image).Scan(&p.ID, &p.Description, &p.Category, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		log.Printf("❌ Error updating product: %v", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &p, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	log.Printf("🗑️  Delete product: id=%s", id)

	res, err := db.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		log.Printf("❌ Error deleting product: %v", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return nil
}
