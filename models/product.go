package models

// Product represents a single catalog entry as handed over by the storage layer.
// Image is an embeddable image source (URL, data URI or drive:<fileID>); empty means no image.
type Product struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
}

// ProductQuery represents the listing parameters accepted by the product repository
type ProductQuery struct {
	Page      int
	PageSize  int
	Search    string
	Category  string
	SortField string
	SortOrder string
}

// ProductListResult represents one page of the product listing
type ProductListResult struct {
	Items       []Product `json:"items"`
	TotalCount  int       `json:"totalCount"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	PageSize    int       `json:"pageSize"`
}

// ProductWriteRequest represents the request body for creating or updating a product
type ProductWriteRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

// Page is one printable catalog page (derived, never persisted)
type Page struct {
	PageNumber int       `json:"pageNumber"`
	Items      []Product `json:"items"`
}
