package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ArtifactSink receives finished export artifacts
type ArtifactSink interface {
	// WritePNG stores one page image and returns its artifact name
	WritePNG(ctx context.Context, pageNumber int, data []byte) (string, error)
	// WritePDF stores the assembled document and returns its artifact name
	WritePDF(ctx context.Context, data []byte) (string, error)
}

// PNGFileName returns the artifact name of a page image
func PNGFileName(prefix string, pageNumber int) string {
	return fmt.Sprintf("%s_page_%d.png", prefix, pageNumber)
}

// PDFFileName returns the artifact name of the document
func PDFFileName(prefix string) string {
	return prefix + ".pdf"
}

// DirSink writes artifacts into a directory
type DirSink struct {
	Dir    string
	Prefix string
}

var _ ArtifactSink = (*DirSink)(nil)

// NewDirSink creates a DirSink, creating the directory if needed
func NewDirSink(dir, prefix string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if prefix == "" {
		prefix = "catalog"
	}
	return &DirSink{Dir: dir, Prefix: prefix}, nil
}

// WritePNG writes <prefix>_page_<n>.png
func (s *DirSink) WritePNG(ctx context.Context, pageNumber int, data []byte) (string, error) {
	return s.write(PNGFileName(s.Prefix, pageNumber), data)
}

// WritePDF writes <prefix>.pdf
func (s *DirSink) WritePDF(ctx context.Context, data []byte) (string, error) {
	return s.write(PDFFileName(s.Prefix), data)
}

func (s *DirSink) write(name string, data []byte) (string, error) {
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("✓ Export artifact saved: %s (%d bytes)", path, len(data))
	return path, nil
}

// MemorySink keeps artifacts in memory, for serving them over HTTP
type MemorySink struct {
	Prefix string

	mu   sync.RWMutex
	pngs map[int][]byte
	pdf  []byte
}

var _ ArtifactSink = (*MemorySink)(nil)

// NewMemorySink creates an empty MemorySink
func NewMemorySink(prefix string) *MemorySink {
	if prefix == "" {
		prefix = "catalog"
	}
	return &MemorySink{Prefix: prefix, pngs: make(map[int][]byte)}
}

// WritePNG stores a page image
func (s *MemorySink) WritePNG(ctx context.Context, pageNumber int, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pngs[pageNumber] = data
	return PNGFileName(s.Prefix, pageNumber), nil
}

// WritePDF stores the document
func (s *MemorySink) WritePDF(ctx context.Context, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdf = data
	return PDFFileName(s.Prefix), nil
}

// PNG returns the stored image for a page
func (s *MemorySink) PNG(pageNumber int) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.pngs[pageNumber]
	return data, ok
}

// PDF returns the stored document
func (s *MemorySink) PDF() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pdf, s.pdf != nil
}

// PNGPages returns the stored page numbers in ascending order
func (s *MemorySink) PNGPages() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages := make([]int, 0, len(s.pngs))
	for n := range s.pngs {
		pages = append(pages, n)
	}
	sort.Ints(pages)
	return pages
}
