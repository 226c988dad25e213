package models

import "strings"

// Export formats
const (
	ExportFormatPDF = "pdf"
	ExportFormatPNG = "png"
)

// Page range modes
const (
	RangeCurrent = "current"
	RangeAll     = "all"
	RangeCustom  = "custom"
)

// Quality bounds for JPEG-compressed PDF frames
const (
	MinExportQuality     = 0.1
	MaxExportQuality     = 1.0
	DefaultExportQuality = 0.92
)

// ExportRequest represents a user-chosen export action. It is never persisted.
type ExportRequest struct {
	Format      string  `json:"format"`
	Quality     float64 `json:"quality"`
	Range       string  `json:"range"`
	CustomRange string  `json:"customRange"`
	// CurrentPage is the page the user is looking at when the export starts
	CurrentPage int `json:"currentPage"`
}

// Normalize lowercases enums and clamps values into their domain
func (r *ExportRequest) Normalize() {
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format != ExportFormatPNG {
		r.Format = ExportFormatPDF
	}

	r.Range = strings.ToLower(strings.TrimSpace(r.Range))
	switch r.Range {
	case RangeCurrent, RangeAll, RangeCustom:
	default:
		r.Range = RangeCurrent
	}

	if r.Quality == 0 {
		r.Quality = DefaultExportQuality
	}
	if r.Quality < MinExportQuality {
		r.Quality = MinExportQuality
	}
	if r.Quality > MaxExportQuality {
		r.Quality = MaxExportQuality
	}

	if r.CurrentPage < 1 {
		r.CurrentPage = 1
	}
}

// ExportState is a step of the export state machine
type ExportState string

const (
	StateIdle             ExportState = "idle"
	StateResolvingPages   ExportState = "resolving_pages"
	StateFetchingFullData ExportState = "fetching_full_data"
	StateRenderingPage    ExportState = "rendering_page"
	StateWaitingForAssets ExportState = "waiting_for_assets"
	StateCorrecting       ExportState = "correcting"
	StateCapturing        ExportState = "capturing"
	StateAssembling       ExportState = "assembling"
	StateFinalizing       ExportState = "finalizing"
	StateDone             ExportState = "done"
	StateFailed           ExportState = "failed"
)

// ExportJob is the runtime record of one export invocation
type ExportJob struct {
	Format    string
	Pages     []int
	Completed int
	State     ExportState
}

// Total returns the number of pages the job will produce
func (j *ExportJob) Total() int {
	return len(j.Pages)
}

// ExportProgress is an observable snapshot of a running export
type ExportProgress struct {
	State     ExportState `json:"state"`
	Page      int         `json:"page,omitempty"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
	Message   string      `json:"message,omitempty"`
}

// ExportResult describes the artifacts produced by a successful export
type ExportResult struct {
	Format string `json:"format"`
	Pages  []int  `json:"pages"`
	// Files lists the artifact names in emission order
	Files []string `json:"files"`
}
