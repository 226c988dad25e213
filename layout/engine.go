package layout

import (
	"fmt"
	"strings"

	"catalog-studio/models"
	"catalog-studio/utils"
)

// Physical page: A4 portrait
const (
	PageWidthMm  = 210.0
	PageHeightMm = 297.0
)

// Reserved region heights and the card image/info split
const (
	headerHeightMm = 22.0
	footerHeightMm = 10.0
	infoStripRatio = 0.25

	idShareWithID          = 30.0
	descriptionShareWithID = 70.0

	noImageLabel = "No image"
)

// PageWidthPx and PageHeightPx are the fixed export dimensions in CSS pixels
var (
	PageWidthPx  = utils.MmToPxInt(PageWidthMm)
	PageHeightPx = utils.MmToPxInt(PageHeightMm)
)

// Insets holds the four page margins in pixels
type Insets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// HeaderRegion is the top band of a page; its height is reserved even when empty
type HeaderRegion struct {
	Text           string  `json:"text"`
	TextAlign      string  `json:"textAlign"`
	JustifyContent string  `json:"justifyContent"`
	FontSizePx     float64 `json:"fontSizePx"`
	Color          string  `json:"color"`
	LogoURL        string  `json:"logoUrl,omitempty"`
	HeightPx       float64 `json:"heightPx"`
}

// FooterRegion is the bottom band of a page
type FooterRegion struct {
	Text           string  `json:"text"`
	TextAlign      string  `json:"textAlign"`
	JustifyContent string  `json:"justifyContent"`
	ShowPageNumber bool    `json:"showPageNumber"`
	PageLabel      string  `json:"pageLabel,omitempty"`
	HeightPx       float64 `json:"heightPx"`
}

// InfoSplit is the width share (percent) of the id and description cells
type InfoSplit struct {
	IDPercent          float64 `json:"idPercent"`
	DescriptionPercent float64 `json:"descriptionPercent"`
}

// Cell is one grid slot. Empty cells are placeholders that keep the grid rectangular.
type Cell struct {
	Index        int            `json:"index"`
	Row          int            `json:"row"`
	Column       int            `json:"column"`
	Empty        bool           `json:"empty"`
	Product      models.Product `json:"product"`
	HasImage     bool           `json:"hasImage"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	NoImageLabel string         `json:"noImageLabel,omitempty"`
}

// GridRegion is the content grid, always exactly Columns x Rows cells
type GridRegion struct {
	Columns        int       `json:"columns"`
	Rows           int       `json:"rows"`
	GapPx          float64   `json:"gapPx"`
	WidthPx        float64   `json:"widthPx"`
	HeightPx       float64   `json:"heightPx"`
	CellWidthPx    float64   `json:"cellWidthPx"`
	CellHeightPx   float64   `json:"cellHeightPx"`
	ImageHeightPx  float64   `json:"imageHeightPx"`
	InfoHeightPx   float64   `json:"infoHeightPx"`
	ShowID         bool      `json:"showId"`
	Split          InfoSplit `json:"split"`
	Cells          []Cell    `json:"cells"`
	PopulatedSlots int       `json:"populatedSlots"`
	EmptySlots     int       `json:"emptySlots"`
}

// PageLayout is the structural description of one printable page
type PageLayout struct {
	PageNumber int          `json:"pageNumber"`
	TotalPages int          `json:"totalPages"`
	WidthPx    int          `json:"widthPx"`
	HeightPx   int          `json:"heightPx"`
	Margins    Insets       `json:"margins"`
	Header     HeaderRegion `json:"header"`
	Grid       GridRegion   `json:"grid"`
	Footer     FooterRegion `json:"footer"`
	Styles     CardStyles   `json:"styles"`
	Watermark  *Watermark   `json:"watermark,omitempty"`
}

// BuildPage lays out one page. It is pure: identical inputs give identical layouts.
func BuildPage(page models.Page, totalPages int, settings models.CatalogSettings) PageLayout {
	settings.Normalize()

	if totalPages < 1 {
		totalPages = 1
	}
	pageNumber := page.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}

	margins := Insets{
		Top:    utils.Round2(utils.MmToPx(settings.MarginTop)),
		Right:  utils.Round2(utils.MmToPx(settings.MarginRight)),
		Bottom: utils.Round2(utils.MmToPx(settings.MarginBottom)),
		Left:   utils.Round2(utils.MmToPx(settings.MarginLeft)),
	}

	headerAlign := ResolveTextAlign(settings.HeaderAlign)
	header := HeaderRegion{
		Text:           settings.HeaderText,
		TextAlign:      headerAlign,
		JustifyContent: justifyFor(headerAlign),
		FontSizePx:     settings.HeaderTextSize,
		Color:          settings.HeaderColor,
		LogoURL:        strings.TrimSpace(settings.HeaderLogo),
		HeightPx:       utils.Round2(utils.MmToPx(headerHeightMm)),
	}

	footerAlign := ResolveTextAlign(settings.FooterAlign)
	footer := FooterRegion{
		Text:           settings.FooterText,
		TextAlign:      footerAlign,
		JustifyContent: justifyFor(footerAlign),
		ShowPageNumber: settings.ShowPageNumber,
		HeightPx:       utils.Round2(utils.MmToPx(footerHeightMm)),
	}
	if settings.ShowPageNumber {
		footer.PageLabel = fmt.Sprintf("Page %d of %d", pageNumber, totalPages)
	}

	grid := buildGrid(page.Items, settings, gridArea{
		Width:  float64(PageWidthPx) - margins.Left - margins.Right,
		Height: float64(PageHeightPx) - margins.Top - margins.Bottom - header.HeightPx - footer.HeightPx,
	})

	return PageLayout{
		PageNumber: pageNumber,
		TotalPages: totalPages,
		WidthPx:    PageWidthPx,
		HeightPx:   PageHeightPx,
		Margins:    margins,
		Header:     header,
		Grid:       grid,
		Footer:     footer,
		Styles:     ResolveStyles(settings),
		Watermark:  GenerateWatermark(settings),
	}
}

// gridArea is the space left for the grid once margins, header and footer are taken
type gridArea struct {
	Width  float64
	Height float64
}

func buildGrid(items []models.Product, settings models.CatalogSettings, area gridArea) GridRegion {
	columns, rows := settings.Columns, settings.Rows
	perPage := columns * rows
	if len(items) > perPage {
		items = items[:perPage]
	}

	gap := utils.MmToPx(settings.GapMm)
	width := maxFloat(area.Width, 0)
	height := maxFloat(area.Height, 0)
	cellWidth := maxFloat((width-gap*float64(columns-1))/float64(columns), 0)
	cellHeight := maxFloat((height-gap*float64(rows-1))/float64(rows), 0)
	infoHeight := cellHeight * infoStripRatio

	split := InfoSplit{IDPercent: idShareWithID, DescriptionPercent: descriptionShareWithID}
	if !settings.ShowProductID {
		split = InfoSplit{IDPercent: 0, DescriptionPercent: 100}
	}

	cells := make([]Cell, perPage)
	for i := range cells {
		cell := Cell{Index: i, Row: i / columns, Column: i % columns}
		if i < len(items) {
			product := items[i]
			cell.Product = product
			image := strings.TrimSpace(product.Image)
			if image != "" {
				cell.HasImage = true
				cell.ImageURL = image
			} else {
				cell.NoImageLabel = noImageLabel
			}
		} else {
			cell.Empty = true
		}
		cells[i] = cell
	}

	return GridRegion{
		Columns:        columns,
		Rows:           rows,
		GapPx:          utils.Round2(gap),
		WidthPx:        utils.Round2(width),
		HeightPx:       utils.Round2(height),
		CellWidthPx:    utils.Round2(cellWidth),
		CellHeightPx:   utils.Round2(cellHeight),
		ImageHeightPx:  utils.Round2(cellHeight - infoHeight),
		InfoHeightPx:   utils.Round2(infoHeight),
		ShowID:         settings.ShowProductID,
		Split:          split,
		Cells:          cells,
		PopulatedSlots: len(items),
		EmptySlots:     perPage - len(items),
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
