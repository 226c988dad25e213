package controller

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"catalog-studio/service"
)

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// DownloadController serves exported artifacts and bulk-downloads product images
type DownloadController struct {
	sessions        *ExportSessionStore
	products        service.ProductSource
	downloadService service.DownloadServiceInterface
}

// NewDownloadController creates a new DownloadController
func NewDownloadController(sessions *ExportSessionStore, products service.ProductSource, downloadService service.DownloadServiceInterface) *DownloadController {
	return &DownloadController{
		sessions:        sessions,
		products:        products,
		downloadService: downloadService,
	}
}

// WarmImages handles POST /catalog/images/warm
// Downloads and optimizes every product image into the image cache
func (c *DownloadController) WarmImages(w http.ResponseWriter, r *http.Request) {
	// Only allow POST method
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	products, err := c.products.ListAllProducts(ctx)
	if err != nil {
		log.Printf("❌ WarmImages: Error fetching products: %v", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	report, err := c.downloadService.WarmImages(ctx, products)
	if err != nil {
		log.Printf("❌ WarmImages: %v", err)
		http.Error(w, fmt.Sprintf("Failed to download images: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"total":   report.Total,
		"inlined": report.Inlined,
		"skipped": report.Skipped,
		"failed":  len(report.Errors),
		"errors":  report.Errors,
	})
	log.Printf("✅ WarmImages completed: %d/%d images cached", report.Inlined, report.Total)
}

// DownloadPNGPage handles GET /catalog/png-page?session=XXX&page=N
// Returns a specific PNG page from temporary storage
func (c *DownloadController) DownloadPNGPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ DownloadPNGPage: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	pageStr := strings.TrimSpace(r.URL.Query().Get("page"))

	if sessionID == "" {
		log.Printf("❌ DownloadPNGPage: session parameter is required")
		http.Error(w, "session parameter is required", http.StatusBadRequest)
		return
	}

	pageNum, err := strconv.Atoi(pageStr)
	if err != nil || pageNum < 1 {
		log.Printf("❌ DownloadPNGPage: Invalid page number: %s", pageStr)
		http.Error(w, "Invalid page number", http.StatusBadRequest)
		return
	}

	sink, exists := c.sessions.Get(sessionID)
	if !exists {
		log.Printf("❌ DownloadPNGPage: Session not found: %s", sessionID)
		http.Error(w, "Session expired or not found", http.StatusNotFound)
		return
	}

	pngData, exists := sink.PNG(pageNum)
	if !exists {
		log.Printf("❌ DownloadPNGPage: Page %d not found in session %s", pageNum, sessionID)
		http.Error(w, fmt.Sprintf("Page %d not found", pageNum), http.StatusNotFound)
		return
	}

	if !bytes.HasPrefix(pngData, pngSignature) {
		log.Printf("❌ DownloadPNGPage: Invalid PNG data for page %d (%d bytes)", pageNum, len(pngData))
		http.Error(w, "Invalid PNG data", http.StatusInternalServerError)
		return
	}

	filename := service.PNGFileName(sink.Prefix, pageNum)

	// Use Content-Disposition: attachment to force download instead of opening in browser
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pngData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	n, err := w.Write(pngData)
	if err != nil {
		log.Printf("❌ DownloadPNGPage: Error writing PNG response: %v", err)
		return
	}
	if n != len(pngData) {
		log.Printf("⚠️ DownloadPNGPage: Partial write: wrote %d of %d bytes", n, len(pngData))
	}
}
