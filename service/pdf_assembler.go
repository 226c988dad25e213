package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

var whiteBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// PDFAssembler accumulates one JPEG frame per page into a single portrait document
type PDFAssembler struct {
	pdf      *gofpdf.Fpdf
	widthMm  float64
	heightMm float64
	pages    int
}

// NewPDFAssembler opens an empty document with the given fixed page size
func NewPDFAssembler(widthMm, heightMm float64, title string) *PDFAssembler {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: widthMm, Ht: heightMm},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("catalog-studio", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	return &PDFAssembler{
		pdf:      pdf,
		widthMm:  widthMm,
		heightMm: heightMm,
	}
}

// AppendFrame encodes a captured page bitmap as JPEG at quality (0.1-1.0) and adds it as a new page
func (a *PDFAssembler) AppendFrame(pageNumber int, pngData []byte, quality float64) error {
	frame, err := EncodeJPEGFrame(pngData, quality)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("catalog-page-%d", pageNumber)
	opts := gofpdf.ImageOptions{ImageType: "JPG"}

	a.pdf.AddPage()
	a.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(frame))
	a.pdf.ImageOptions(name, 0, 0, a.widthMm, a.heightMm, false, opts, 0, "")
	if err := a.pdf.Error(); err != nil {
		return fmt.Errorf("failed to add page %d: %w", pageNumber, err)
	}

	a.pages++
	return nil
}

// PageCount returns how many frames were appended
func (a *PDFAssembler) PageCount() int {
	return a.pages
}

// Bytes serializes the document. The assembler must not be used afterwards.
func (a *PDFAssembler) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEGFrame converts a PNG capture into a JPEG frame at quality 0.1-1.0
func EncodeJPEGFrame(pngData []byte, quality float64) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}

	// JPEG has no alpha: flatten onto white so transparent areas do not turn black
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), whiteBackground)
	flat = imaging.Overlay(flat, img, image.Point{}, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(jpegQuality(quality))); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func jpegQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	if q < 10 {
		return 10
	}
	if q > 100 {
		return 100
	}
	return q
}
