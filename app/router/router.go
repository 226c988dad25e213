package router

import (
	"net/http"

	"catalog-studio/app/controller"
)

type Controllers struct {
	Catalog  *controller.CatalogController
	Download *controller.DownloadController
	Product  *controller.ProductController
	Settings *controller.SettingsController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Catalog preview and export
	mux.HandleFunc("/catalog/preview", controllers.Catalog.Preview)
	mux.HandleFunc("/catalog/export", controllers.Catalog.Export)
	mux.HandleFunc("/catalog/export/status", controllers.Catalog.ExportStatus)
	mux.HandleFunc("/catalog/png-page", controllers.Download.DownloadPNGPage)

	// Pre-download product images into the image cache
	mux.HandleFunc("/catalog/images/warm", controllers.Download.WarmImages)

	// Catalog settings - GET (read) and PUT (partial update)
	mux.HandleFunc("/catalog/settings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			controllers.Settings.GetSettings(w, r)
		case http.MethodPut:
			controllers.Settings.UpdateSettings(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Products collection
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			controllers.Product.ListProducts(w, r)
		case http.MethodPost:
			controllers.Product.CreateProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Product by id
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			controllers.Product.GetProduct(w, r)
		case http.MethodPut:
			controllers.Product.UpdateProduct(w, r)
		case http.MethodDelete:
			controllers.Product.DeleteProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
