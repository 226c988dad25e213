package layout

import (
	"strings"

	"catalog-studio/models"
)

// BoxStyle describes the card container
type BoxStyle struct {
	Background     string  `json:"background"`
	BorderWidthPx  float64 `json:"borderWidthPx"`
	BorderColor    string  `json:"borderColor"`
	BorderRadiusPx float64 `json:"borderRadiusPx"`
	Shadow         string  `json:"shadow"`
}

// TextCellStyle describes the id and description cells of the info strip
type TextCellStyle struct {
	Background string  `json:"background"`
	Color      string  `json:"color"`
	FontSizePx float64 `json:"fontSizePx"`
	// TextAlign is the CSS text-align value (left|center|right)
	TextAlign string `json:"textAlign"`
	// JustifyContent mirrors TextAlign on the flex main axis
	JustifyContent string `json:"justifyContent"`
	// AlignItems is the cross-axis box alignment (flex-start|center|flex-end)
	AlignItems string `json:"alignItems"`
}

// EmptyCellStyle describes the placeholder drawn in unused grid slots
type EmptyCellStyle struct {
	BorderStyle string  `json:"borderStyle"`
	BorderColor string  `json:"borderColor"`
	Opacity     float64 `json:"opacity"`
}

// CardStyles is the resolved, immutable style set for one settings object
type CardStyles struct {
	Variant         string         `json:"variant"`
	Container       BoxStyle       `json:"container"`
	ImageBackground string         `json:"imageBackground"`
	ID              TextCellStyle  `json:"id"`
	Description     TextCellStyle  `json:"description"`
	Empty           EmptyCellStyle `json:"empty"`
}

const (
	emptyCellOpacity = 0.35
	emptyCellBorder  = "#9ca3af"
)

var variantShadows = map[string]string{
	models.CardStyleClassic: "0 1px 3px rgba(0, 0, 0, 0.12)",
	models.CardStyleModern:  "0 6px 16px rgba(0, 0, 0, 0.18)",
	models.CardStyleMinimal: "none",
}

// ResolveStyles maps settings to concrete per-element styles.
// Unknown enum values fall back to center alignment and the classic variant.
func ResolveStyles(settings models.CatalogSettings) CardStyles {
	variant := strings.ToLower(strings.TrimSpace(settings.CardStyle))
	shadow, ok := variantShadows[variant]
	if !ok {
		variant = models.CardStyleClassic
		shadow = variantShadows[variant]
	}

	borderWidth := settings.CardBorderWidth
	if borderWidth < 0 {
		borderWidth = 0
	}
	radius := settings.CardBorderRadius
	if radius < 0 {
		radius = 0
	}

	idAlign := ResolveTextAlign(settings.IDAlign)
	descAlign := ResolveTextAlign(settings.DescriptionAlign)

	return CardStyles{
		Variant: variant,
		Container: BoxStyle{
			// the image area fills most of the card
			Background:     settings.ImageBgColor,
			BorderWidthPx:  borderWidth,
			BorderColor:    settings.CardBorderColor,
			BorderRadiusPx: radius,
			Shadow:         shadow,
		},
		ImageBackground: settings.ImageBgColor,
		ID: TextCellStyle{
			Background:     settings.IDBgColor,
			Color:          settings.IDTextColor,
			FontSizePx:     settings.IDFontSize,
			TextAlign:      idAlign,
			JustifyContent: justifyFor(idAlign),
			AlignItems:     ResolveBoxAlign(settings.IDVerticalAlign),
		},
		Description: TextCellStyle{
			Background:     settings.DescriptionBgColor,
			Color:          settings.DescriptionTextColor,
			FontSizePx:     settings.DescriptionFontSize,
			TextAlign:      descAlign,
			JustifyContent: justifyFor(descAlign),
			AlignItems:     ResolveBoxAlign(settings.DescriptionVerticalAlign),
		},
		Empty: EmptyCellStyle{
			BorderStyle: "dashed",
			BorderColor: emptyCellBorder,
			Opacity:     emptyCellOpacity,
		},
	}
}

// ResolveTextAlign maps left|center|right to a CSS text-align value
func ResolveTextAlign(align string) string {
	switch strings.ToLower(strings.TrimSpace(align)) {
	case "left":
		return "left"
	case "right":
		return "right"
	default:
		return "center"
	}
}

// ResolveBoxAlign maps start|center|end to a CSS cross-axis alignment
func ResolveBoxAlign(align string) string {
	switch strings.ToLower(strings.TrimSpace(align)) {
	case "start":
		return "flex-start"
	case "end":
		return "flex-end"
	default:
		return "center"
	}
}

func justifyFor(textAlign string) string {
	switch textAlign {
	case "left":
		return "flex-start"
	case "right":
		return "flex-end"
	default:
		return "center"
	}
}
