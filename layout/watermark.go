package layout

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"catalog-studio/models"
	"catalog-studio/utils"
)

// Text badge geometry. The badge font size is fixed and never follows card settings.
const (
	badgeSizePx     = 300
	badgeFontSizePx = 24
	badgeAngleDeg   = -45
	badgeColor      = "#6b7280"
)

// Layer order inside a page
const (
	ZIndexBackground = 0
	ZIndexWatermark  = 1
	ZIndexContent    = 2
)

// Watermark is a tileable background image descriptor
type Watermark struct {
	Type       string  `json:"type"`
	ImageURL   string  `json:"imageUrl"`
	TileSizePx float64 `json:"tileSizePx"`
	Opacity    float64 `json:"opacity"`
	Repeat     string  `json:"repeat"`
	ZIndex     int     `json:"zIndex"`
}

// GenerateWatermark returns the watermark descriptor, or nil when nothing should be drawn
func GenerateWatermark(settings models.CatalogSettings) *Watermark {
	if !settings.WatermarkEnabled {
		return nil
	}

	opacity := settings.WatermarkOpacity
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}

	if settings.WatermarkType == models.WatermarkTypeLogo {
		logo := strings.TrimSpace(settings.WatermarkLogo)
		if logo == "" {
			logo = strings.TrimSpace(settings.HeaderLogo)
		}
		if logo == "" {
			return nil
		}
		size := settings.WatermarkSizeMm
		if size <= 0 {
			size = models.DefaultSettings().WatermarkSizeMm
		}
		return &Watermark{
			Type:       models.WatermarkTypeLogo,
			ImageURL:   logo,
			TileSizePx: utils.Round2(utils.MmToPx(size)),
			Opacity:    opacity,
			Repeat:     "repeat",
			ZIndex:     ZIndexWatermark,
		}
	}

	text := strings.TrimSpace(settings.WatermarkText)
	if text == "" {
		return nil
	}
	return &Watermark{
		Type:       models.WatermarkTypeText,
		ImageURL:   textBadgeDataURI(text),
		TileSizePx: badgeSizePx,
		Opacity:    opacity,
		Repeat:     "repeat",
		ZIndex:     ZIndexWatermark,
	}
}

// textBadgeDataURI renders the diagonal text badge as a self-contained SVG data URI
func textBadgeDataURI(text string) string {
	center := badgeSizePx / 2
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<text x="%d" y="%d" font-family="Helvetica, Arial, sans-serif" font-size="%d" fill="%s" `+
			`text-anchor="middle" dominant-baseline="middle" transform="rotate(%d %d %d)">%s</text></svg>`,
		badgeSizePx, badgeSizePx, badgeSizePx, badgeSizePx,
		center, center, badgeFontSizePx, badgeColor,
		badgeAngleDeg, center, center, html.EscapeString(text),
	)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
