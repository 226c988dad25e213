package service

import "context"

// RenderSurface is the single off-screen render target used by one export run.
// Calls are strictly sequential: Acquire, then Render/WaitForAssets/ApplyExportCorrections/Capture
// once per page, then Release.
type RenderSurface interface {
	// Acquire sizes the surface to the exact physical page in CSS pixels
	Acquire(ctx context.Context, widthPx, heightPx int) error
	// Render replaces the surface content and returns once the new document is committed
	Render(ctx context.Context, html string) error
	// WaitForAssets blocks until every image has loaded or failed
	WaitForAssets(ctx context.Context) (AssetReport, error)
	// ApplyExportCorrections prepares a corrected clone for capture; the rendered page is left as is
	ApplyExportCorrections(ctx context.Context, c FidelityCorrections) error
	// Capture rasterizes the corrected clone at the given oversampling scale and returns PNG bytes
	Capture(ctx context.Context, scale float64) ([]byte, error)
	Release() error
}

// SurfaceProvider creates render surfaces
type SurfaceProvider interface {
	NewSurface(ctx context.Context) (RenderSurface, error)
}

// AssetReport summarizes the asset barrier for one page
type AssetReport struct {
	Total  int `json:"total"`
	Loaded int `json:"loaded"`
}

// Failed returns how many images settled with an error
func (r AssetReport) Failed() int {
	return r.Total - r.Loaded
}

// FidelityCorrections compensate for text drift between interactive layout and rasterized output.
// The values were calibrated against headless Chrome; other rasterizers need their own.
type FidelityCorrections struct {
	FontScale        float64
	LineHeight       float64
	LetterSpacingEm  float64
	ZeroInfoBoxModel bool
}

// Export defaults
const (
	DefaultFontScale    = 0.85
	DefaultCaptureScale = 3.0
	MinCaptureScale     = 1.0
	MaxCaptureScale     = 4.0
)

// DefaultCorrections returns the calibrated correction set
func DefaultCorrections() FidelityCorrections {
	return FidelityCorrections{
		FontScale:        DefaultFontScale,
		LineHeight:       1.1,
		LetterSpacingEm:  -0.01,
		ZeroInfoBoxModel: true,
	}
}
