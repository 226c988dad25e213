package service

import "errors"

// Sentinel errors for export operations.
var (
	ErrExportInProgress = errors.New("an export is already running")
	ErrSurfaceStart     = errors.New("failed to start render surface")
	ErrFetchProducts    = errors.New("failed to load the full product list")
	ErrRenderPage       = errors.New("failed to render page")
	ErrCapturePage      = errors.New("failed to capture page")
	ErrAssemble         = errors.New("failed to assemble export")
	ErrSaveArtifact     = errors.New("failed to save export")
	ErrExportCanceled   = errors.New("export canceled")
)

// userMessages maps fatal export errors to the single message shown to the user
var userMessages = []struct {
	err error
	msg string
}{
	{ErrExportInProgress, "Another export is already running. Please wait for it to finish."},
	{ErrSurfaceStart, "The export renderer could not be started."},
	{ErrFetchProducts, "Could not load the product list for export."},
	{ErrRenderPage, "A catalog page could not be rendered."},
	{ErrCapturePage, "A catalog page could not be captured."},
	{ErrAssemble, "The export file could not be assembled."},
	{ErrSaveArtifact, "The export file could not be saved."},
	{ErrExportCanceled, "The export was canceled."},
}

// UserMessage returns a human-readable message for an export failure
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "The export failed."
}
