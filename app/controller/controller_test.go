package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog-studio/app/controller"
	"catalog-studio/app/router"
	"catalog-studio/layout"
	"catalog-studio/models"
	"catalog-studio/repository"
	"catalog-studio/service"
)

type memoryProducts struct {
	mu    sync.Mutex
	items map[string]models.Product
}

func newMemoryProducts(n int) *memoryProducts {
	m := &memoryProducts{items: make(map[string]models.Product)}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("P-%03d", i)
		m.items[id] = models.Product{ID: id, Description: fmt.Sprintf("Product %d", i)}
	}
	return m
}

func (m *memoryProducts) sorted() []models.Product {
	out := make([]models.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryProducts) ListProducts(ctx context.Context, q models.ProductQuery) (*models.ProductListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	if q.PageSize < 1 {
		q.PageSize = 9
	}
	total := layout.TotalPages(len(all), q.PageSize)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > total {
		q.Page = total
	}
	page := layout.SlicePage(all, q.Page, q.PageSize)
	return &models.ProductListResult{
		Items:       page.Items,
		TotalCount:  len(all),
		CurrentPage: q.Page,
		TotalPages:  total,
		PageSize:    q.PageSize,
	}, nil
}

func (m *memoryProducts) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memoryProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrProductNotFound, id)
	}
	return &p, nil
}

func (m *memoryProducts) Create(ctx context.Context, req models.ProductWriteRequest) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[req.ID]; ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrDuplicateProduct, req.ID)
	}
	p := models.Product{ID: req.ID, Description: req.Description, Category: req.Category, Image: req.Image}
	m.items[p.ID] = p
	return &p, nil
}

func (m *memoryProducts) Update(ctx context.Context, id string, req models.ProductWriteRequest) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrProductNotFound, id)
	}
	p := models.Product{ID: id, Description: req.Description, Category: req.Category, Image: req.Image}
	m.items[id] = p
	return &p, nil
}

func (m *memoryProducts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: %s", repository.ErrProductNotFound, id)
	}
	delete(m.items, id)
	return nil
}

type memorySettings struct {
	mu       sync.Mutex
	settings models.CatalogSettings
}

func (m *memorySettings) GetSettings(ctx context.Context) (models.CatalogSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *memorySettings) SaveSettings(ctx context.Context, s models.CatalogSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

type stubSurface struct {
	frame []byte
}

func (s *stubSurface) Acquire(ctx context.Context, w, h int) error { return nil }

func (s *stubSurface) Render(ctx context.Context, html string) error { return nil }

func (s *stubSurface) WaitForAssets(ctx context.Context) (service.AssetReport, error) {
	return service.AssetReport{}, nil
}

func (s *stubSurface) ApplyExportCorrections(ctx context.Context, c service.FidelityCorrections) error {
	return nil
}

func (s *stubSurface) Capture(ctx context.Context, scale float64) ([]byte, error) {
	return s.frame, nil
}

func (s *stubSurface) Release() error { return nil }

type stubProvider struct {
	frame []byte
}

func (p stubProvider) NewSurface(ctx context.Context) (service.RenderSurface, error) {
	return &stubSurface{frame: p.frame}, nil
}

func framePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 6))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.NRGBA{A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

type testApp struct {
	handler  http.Handler
	products *memoryProducts
	settings *memorySettings
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	products := newMemoryProducts(20)
	settings := &memorySettings{settings: models.DefaultSettings()}

	renderer, err := service.NewPageRenderer()
	if err != nil {
		t.Fatalf("NewPageRenderer: %v", err)
	}
	exporter := service.NewExportService(stubProvider{frame: framePNG(t)}, products, nil, renderer, service.DefaultExportConfig())
	sessions := controller.NewExportSessionStore(time.Minute)
	warmer := service.NewDownloadService(service.NewImageInliner("", nil, nil))

	mux := http.NewServeMux()
	router.SetupRoutes(mux, &router.Controllers{
		Catalog:  controller.NewCatalogController(products, settings, exporter, renderer, sessions),
		Download: controller.NewDownloadController(sessions, products, warmer),
		Product:  controller.NewProductController(products, settings),
		Settings: controller.NewSettingsController(settings),
	})
	return &testApp{handler: mux, products: products, settings: settings}
}

func (a *testApp) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/ping", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("ping = %d %s", rec.Code, rec.Body.String())
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/catalog/preview?page=2&zoom=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content type = %s", rec.Header().Get("Content-Type"))
	}
	for _, want := range []string{`data-product="P-010"`, "scale(2)", "Page 2 of 3"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview missing %q", want)
		}
	}

	if rec := app.do(t, http.MethodGet, "/catalog/preview?page=zero", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid page status = %d", rec.Code)
	}
	if rec := app.do(t, http.MethodPost, "/catalog/preview", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST preview status = %d", rec.Code)
	}
}

func TestExportPDF(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/catalog/export", `{"format":"pdf","range":"all","quality":0.8,"currentPage":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "catalog.pdf") {
		t.Errorf("disposition = %s", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}

	status := app.do(t, http.MethodGet, "/catalog/export/status", "")
	var st service.ExportStatus
	if err := json.Unmarshal(status.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Busy || st.Progress.State != models.StateDone || st.Progress.Total != 3 {
		t.Errorf("status = %+v", st)
	}
}

func TestExportPNGAndDownload(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/catalog/export", `{"format":"png","range":"custom","customRange":"2-3","currentPage":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SessionID  string                `json:"sessionId"`
		TotalPages int                   `json:"totalPages"`
		Pages      []controller.PageLink `json:"pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" || resp.TotalPages != 2 || len(resp.Pages) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Pages[0].Page != 2 || resp.Pages[0].Filename != "catalog_page_2.png" {
		t.Errorf("first link = %+v", resp.Pages[0])
	}

	dl := app.do(t, http.MethodGet, resp.Pages[1].URL, "")
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d: %s", dl.Code, dl.Body.String())
	}
	if dl.Header().Get("Content-Type") != "image/png" {
		t.Errorf("download content type = %s", dl.Header().Get("Content-Type"))
	}
	if !strings.Contains(dl.Header().Get("Content-Disposition"), "catalog_page_3.png") {
		t.Errorf("download disposition = %s", dl.Header().Get("Content-Disposition"))
	}

	missing := app.do(t, http.MethodGet, fmt.Sprintf("/catalog/png-page?session=%s&page=1", resp.SessionID), "")
	if missing.Code != http.StatusNotFound {
		t.Errorf("page outside export status = %d", missing.Code)
	}
}

func TestDownloadPNGPage_Errors(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/catalog/png-page?page=1", http.StatusBadRequest},
		{"/catalog/png-page?session=abc&page=x", http.StatusBadRequest},
		{"/catalog/png-page?session=unknown&page=1", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := app.do(t, http.MethodGet, tt.target, ""); rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.target, rec.Code, tt.want)
		}
	}
}

func TestExport_InvalidBody(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	if rec := app.do(t, http.MethodPost, "/catalog/export", "{"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSettings_PartialUpdate(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(t, http.MethodPut, "/catalog/settings", `{"columns":2,"watermarkOpacity":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	saved, _ := app.settings.GetSettings(context.Background())
	if saved.Columns != 2 || saved.Rows != 3 {
		t.Errorf("grid = %dx%d, want 2x3", saved.Columns, saved.Rows)
	}
	if saved.WatermarkOpacity != 1 {
		t.Errorf("opacity = %v, want clamped to 1", saved.WatermarkOpacity)
	}

	get := app.do(t, http.MethodGet, "/catalog/settings", "")
	var got models.CatalogSettings
	if err := json.Unmarshal(get.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Columns != 2 {
		t.Errorf("GET columns = %d", got.Columns)
	}

	if rec := app.do(t, http.MethodPut, "/catalog/settings", "not json"); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid payload status = %d", rec.Code)
	}
	if rec := app.do(t, http.MethodDelete, "/catalog/settings", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d", rec.Code)
	}
}

func TestProducts_CRUD(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	list := app.do(t, http.MethodGet, "/products?page=3", "")
	var page models.ProductListResult
	if err := json.Unmarshal(list.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.PageSize != 9 || page.TotalPages != 3 || len(page.Items) != 2 {
		t.Errorf("list = %+v", page)
	}

	created := app.do(t, http.MethodPost, "/products", `{"id":"NEW-1","description":"Fresh"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", created.Code, created.Body.String())
	}
	if dup := app.do(t, http.MethodPost, "/products", `{"id":"NEW-1"}`); dup.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", dup.Code)
	}
	if noID := app.do(t, http.MethodPost, "/products", `{"description":"x"}`); noID.Code != http.StatusBadRequest {
		t.Errorf("missing id status = %d", noID.Code)
	}

	updated := app.do(t, http.MethodPut, "/products/NEW-1", `{"description":"Updated"}`)
	if updated.Code != http.StatusOK || !strings.Contains(updated.Body.String(), "Updated") {
		t.Errorf("update = %d %s", updated.Code, updated.Body.String())
	}

	if got := app.do(t, http.MethodGet, "/products/NEW-1", ""); got.Code != http.StatusOK {
		t.Errorf("get status = %d", got.Code)
	}
	if del := app.do(t, http.MethodDelete, "/products/NEW-1", ""); del.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", del.Code)
	}
	if gone := app.do(t, http.MethodGet, "/products/NEW-1", ""); gone.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", gone.Code)
	}
	if bad := app.do(t, http.MethodGet, "/products?pageSize=abc", ""); bad.Code != http.StatusBadRequest {
		t.Errorf("invalid pageSize status = %d", bad.Code)
	}
}

func TestWarmImages(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/catalog/images/warm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Total   int `json:"total"`
		Skipped int `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// test products carry no images
	if resp.Total != 20 || resp.Skipped != 20 {
		t.Errorf("response = %+v", resp)
	}

	if rec := app.do(t, http.MethodGet, "/catalog/images/warm", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}
}
