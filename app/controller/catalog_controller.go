package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"catalog-studio/layout"
	"catalog-studio/models"
	"catalog-studio/repository"
	"catalog-studio/service"
)

// CatalogController handles HTTP requests for catalog preview and export
type CatalogController struct {
	products repository.ProductRepositoryInterface
	settings repository.SettingsRepositoryInterface
	exporter *service.ExportService
	renderer *service.PageRenderer
	sessions *ExportSessionStore
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(
	products repository.ProductRepositoryInterface,
	settings repository.SettingsRepositoryInterface,
	exporter *service.ExportService,
	renderer *service.PageRenderer,
	sessions *ExportSessionStore,
) *CatalogController {
	return &CatalogController{
		products: products,
		settings: settings,
		exporter: exporter,
		renderer: renderer,
		sessions: sessions,
	}
}

// PageLink points at one exported PNG page
type PageLink struct {
	Page     int    `json:"page"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Preview handles GET /catalog/preview?page=N&zoom=Z
// Returns the interactive HTML page; the zoom transform never reaches exports
func (c *CatalogController) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ Preview: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	pageNum := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Printf("❌ Preview: Invalid page number: %s", raw)
			http.Error(w, "Invalid page number", http.StatusBadRequest)
			return
		}
		pageNum = n
	}

	zoom := 1.0
	if raw := strings.TrimSpace(r.URL.Query().Get("zoom")); raw != "" {
		z, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "Invalid zoom", http.StatusBadRequest)
			return
		}
		zoom = z
	}

	settings, err := c.settings.GetSettings(ctx)
	if err != nil {
		log.Printf("❌ Preview: Error fetching settings: %v", err)
		http.Error(w, "Failed to load catalog settings", http.StatusInternalServerError)
		return
	}

	list, err := c.products.ListProducts(ctx, models.ProductQuery{Page: pageNum, PageSize: settings.ItemsPerPage()})
	if err != nil {
		log.Printf("❌ Preview: Error fetching products: %v", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	page := models.Page{PageNumber: list.CurrentPage, Items: list.Items}
	htmlContent, err := c.renderer.RenderPreview(layout.BuildPage(page, list.TotalPages, settings), zoom)
	if err != nil {
		log.Printf("❌ Preview: Error rendering HTML: %v", err)
		http.Error(w, "Failed to render catalog", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(htmlContent)); err != nil {
		log.Printf("❌ Preview: Error writing HTML response: %v", err)
	}
}

// Export handles POST /catalog/export
// PDF exports stream the document back; PNG exports return links to the stored pages
func (c *CatalogController) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		log.Printf("❌ Export: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	var req models.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Export: Invalid request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Normalize()

	// Fast path; the service enforces the same guard atomically
	if c.exporter.Busy() {
		writeError(w, http.StatusConflict, service.UserMessage(service.ErrExportInProgress))
		return
	}

	settings, err := c.settings.GetSettings(ctx)
	if err != nil {
		log.Printf("❌ Export: Error fetching settings: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load catalog settings")
		return
	}

	list, err := c.products.ListProducts(ctx, models.ProductQuery{Page: req.CurrentPage, PageSize: settings.ItemsPerPage()})
	if err != nil {
		log.Printf("❌ Export: Error fetching products: %v", err)
		writeError(w, http.StatusInternalServerError, service.UserMessage(service.ErrFetchProducts))
		return
	}
	req.CurrentPage = list.CurrentPage

	view := service.ExportView{
		CurrentPage: list.CurrentPage,
		Products:    list.Items,
		TotalPages:  list.TotalPages,
		Settings:    settings,
	}

	sink := service.NewMemorySink("catalog")
	result, err := c.exporter.Export(ctx, req, view, sink, nil)
	if err != nil {
		c.writeExportError(w, req, sink, err)
		return
	}

	if result.Format == models.ExportFormatPDF {
		pdfData, _ := sink.PDF()
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", service.PDFFileName(sink.Prefix)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdfData); err != nil {
			log.Printf("❌ Export: Error writing PDF response: %v", err)
		}
		return
	}

	sessionID := c.sessions.Add(sink)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":  sessionID,
		"totalPages": len(result.Pages),
		"pages":      pageLinks(sessionID, sink),
	})
}

// writeExportError reports a failed export. Pages of a PNG export written before the
// failure stay downloadable.
func (c *CatalogController) writeExportError(w http.ResponseWriter, req models.ExportRequest, sink *service.MemorySink, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrExportInProgress) {
		status = http.StatusConflict
	}

	response := map[string]interface{}{"error": service.UserMessage(err)}
	if req.Format == models.ExportFormatPNG && len(sink.PNGPages()) > 0 {
		sessionID := c.sessions.Add(sink)
		response["sessionId"] = sessionID
		response["pages"] = pageLinks(sessionID, sink)
	}
	writeJSON(w, status, response)
}

func pageLinks(sessionID string, sink *service.MemorySink) []PageLink {
	pages := sink.PNGPages()
	links := make([]PageLink, 0, len(pages))
	for _, n := range pages {
		links = append(links, PageLink{
			Page:     n,
			URL:      fmt.Sprintf("/catalog/png-page?session=%s&page=%d", sessionID, n),
			Filename: service.PNGFileName(sink.Prefix, n),
		})
	}
	return links
}

// ExportStatus handles GET /catalog/export/status
func (c *CatalogController) ExportStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, c.exporter.Status())
}
