package controller

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"catalog-studio/repository"
)

// SettingsController handles HTTP requests for catalog settings
type SettingsController struct {
	settings repository.SettingsRepositoryInterface
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(settings repository.SettingsRepositoryInterface) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetSettings handles GET /catalog/settings
func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.settings.GetSettings(r.Context())
	if err != nil {
		log.Printf("❌ GetSettings: %v", err)
		http.Error(w, "Failed to load catalog settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /catalog/settings
// The body may be partial: fields it omits keep their stored values
func (c *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	settings, err := c.settings.GetSettings(ctx)
	if err != nil {
		log.Printf("❌ UpdateSettings: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load catalog settings")
		return
	}
	if err := json.Unmarshal(body, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings payload")
		return
	}
	settings.Normalize()

	if err := c.settings.SaveSettings(ctx, settings); err != nil {
		log.Printf("❌ UpdateSettings: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save catalog settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
