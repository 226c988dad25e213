package repository

import (
	"reflect"
	"testing"

	"catalog-studio/models"
)

func TestBuildProductFilter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		query     models.ProductQuery
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "no filters",
			query:     models.ProductQuery{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "search only",
			query:     models.ProductQuery{Search: " mug "},
			wantWhere: " WHERE (id ILIKE $1 OR description ILIKE $1)",
			wantArgs:  []interface{}{"%mug%"},
		},
		{
			name:      "search and category",
			query:     models.ProductQuery{Search: "50%_off", Category: "kitchen"},
			wantWhere: " WHERE (id ILIKE $1 OR description ILIKE $1) AND category = $2",
			wantArgs:  []interface{}{`%50\%\_off%`, "kitchen"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := buildProductFilter(tt.query)
			if got.where != tt.wantWhere {
				t.Errorf("where = %q, want %q", got.where, tt.wantWhere)
			}
			if !reflect.DeepEqual(got.args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", got.args, tt.wantArgs)
			}
		})
	}
}

func TestOrderClause(t *testing.T) {
	t.Parallel()
	tests := []struct {
		field, order, want string
	}{
		{"", "", " ORDER BY id ASC"},
		{"id", "DESC", " ORDER BY id DESC"},
		{"description", "asc", " ORDER BY description ASC, id ASC"},
		{"createdAt", "desc", " ORDER BY created_at DESC, id ASC"},
		{"price; DROP TABLE products", "desc", " ORDER BY id DESC"},
	}
	for _, tt := range tests {
		if got := orderClause(tt.field, tt.order); got != tt.want {
			t.Errorf("orderClause(%q, %q) = %q, want %q", tt.field, tt.order, got, tt.want)
		}
	}
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()
	got := normalizeQuery(models.ProductQuery{Page: -2, PageSize: 0})
	if got.Page != 1 || got.PageSize != DefaultPageSize {
		t.Errorf("normalizeQuery = %+v", got)
	}
	if got := normalizeQuery(models.ProductQuery{Page: 3, PageSize: 10000}); got.PageSize != MaxPageSize || got.Page != 3 {
		t.Errorf("normalizeQuery = %+v", got)
	}
}
