package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Card style variants
const (
	CardStyleClassic = "classic"
	CardStyleModern  = "modern"
	CardStyleMinimal = "minimal"
)

// Watermark types
const (
	WatermarkTypeText = "text"
	WatermarkTypeLogo = "logo"
)

// CatalogSettings is the flat configuration aggregate used to lay out catalog pages.
// Every field has a default (see DefaultSettings); partial payloads are decoded over it.
type CatalogSettings struct {
	// Page geometry (mm)
	MarginTop    float64 `json:"marginTop" yaml:"marginTop"`
	MarginRight  float64 `json:"marginRight" yaml:"marginRight"`
	MarginBottom float64 `json:"marginBottom" yaml:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft" yaml:"marginLeft"`

	// Grid
	Columns int     `json:"columns" yaml:"columns"`
	Rows    int     `json:"rows" yaml:"rows"`
	GapMm   float64 `json:"gap" yaml:"gap"`

	// Header
	HeaderText     string  `json:"headerText" yaml:"headerText"`
	HeaderAlign    string  `json:"headerAlign" yaml:"headerAlign"`
	HeaderTextSize float64 `json:"headerTextSize" yaml:"headerTextSize"`
	HeaderColor    string  `json:"headerColor" yaml:"headerColor"`
	HeaderLogo     string  `json:"headerLogo" yaml:"headerLogo"`

	// Footer
	FooterText     string `json:"footerText" yaml:"footerText"`
	FooterAlign    string `json:"footerAlign" yaml:"footerAlign"`
	ShowPageNumber bool   `json:"showPageNumber" yaml:"showPageNumber"`

	// Card
	CardStyle                string  `json:"cardStyle" yaml:"cardStyle"`
	CardBorderWidth          float64 `json:"cardBorderWidth" yaml:"cardBorderWidth"`
	CardBorderColor          string  `json:"cardBorderColor" yaml:"cardBorderColor"`
	CardBorderRadius         float64 `json:"cardBorderRadius" yaml:"cardBorderRadius"`
	ImageBgColor             string  `json:"imageBgColor" yaml:"imageBgColor"`
	IDBgColor                string  `json:"idBgColor" yaml:"idBgColor"`
	DescriptionBgColor       string  `json:"descriptionBgColor" yaml:"descriptionBgColor"`
	IDTextColor              string  `json:"idTextColor" yaml:"idTextColor"`
	DescriptionTextColor     string  `json:"descriptionTextColor" yaml:"descriptionTextColor"`
	IDFontSize               float64 `json:"idFontSize" yaml:"idFontSize"`
	IDAlign                  string  `json:"idAlign" yaml:"idAlign"`
	IDVerticalAlign          string  `json:"idVerticalAlign" yaml:"idVerticalAlign"`
	DescriptionFontSize      float64 `json:"descriptionFontSize" yaml:"descriptionFontSize"`
	DescriptionAlign         string  `json:"descriptionAlign" yaml:"descriptionAlign"`
	DescriptionVerticalAlign string  `json:"descriptionVerticalAlign" yaml:"descriptionVerticalAlign"`
	ShowProductID            bool    `json:"showProductId" yaml:"showProductId"`

	// Watermark
	WatermarkEnabled bool    `json:"watermarkEnabled" yaml:"watermarkEnabled"`
	WatermarkType    string  `json:"watermarkType" yaml:"watermarkType"`
	WatermarkText    string  `json:"watermarkText" yaml:"watermarkText"`
	WatermarkLogo    string  `json:"watermarkLogo" yaml:"watermarkLogo"`
	WatermarkOpacity float64 `json:"watermarkOpacity" yaml:"watermarkOpacity"`
	WatermarkSizeMm  float64 `json:"watermarkSizeMm" yaml:"watermarkSizeMm"`
}

// DefaultSettings returns a fully populated, layout-valid settings object
func DefaultSettings() CatalogSettings {
	return CatalogSettings{
		MarginTop:    10,
		MarginRight:  10,
		MarginBottom: 10,
		MarginLeft:   10,

		Columns: 3,
		Rows:    3,
		GapMm:   4,

		HeaderText:     "Product Catalog",
		HeaderAlign:    "center",
		HeaderTextSize: 24,
		HeaderColor:    "#1f2937",

		FooterAlign:    "center",
		ShowPageNumber: true,

		CardStyle:                CardStyleClassic,
		CardBorderWidth:          1,
		CardBorderColor:          "#e5e7eb",
		CardBorderRadius:         8,
		ImageBgColor:             "#ffffff",
		IDBgColor:                "#f3f4f6",
		DescriptionBgColor:       "#ffffff",
		IDTextColor:              "#111827",
		DescriptionTextColor:     "#374151",
		IDFontSize:               12,
		IDAlign:                  "center",
		IDVerticalAlign:          "center",
		DescriptionFontSize:      11,
		DescriptionAlign:         "left",
		DescriptionVerticalAlign: "center",
		ShowProductID:            true,

		WatermarkEnabled: false,
		WatermarkType:    WatermarkTypeText,
		WatermarkText:    "SAMPLE",
		WatermarkOpacity: 0.1,
		WatermarkSizeMm:  40,
	}
}

// ItemsPerPage is the single source of truth for pagination size
func (s CatalogSettings) ItemsPerPage() int {
	return s.Columns * s.Rows
}

// MergeSettingsJSON decodes a partial JSON payload over the defaults.
// Fields absent from the payload (or null) keep their default value.
func MergeSettingsJSON(raw []byte) (CatalogSettings, error) {
	settings := DefaultSettings()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to decode settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

// MergeSettingsYAML decodes a partial YAML document over the defaults
func MergeSettingsYAML(raw []byte) (CatalogSettings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to decode settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

// Normalize replaces out-of-domain values with safe defaults.
// Stored payloads can be stale or edited by hand, so nothing here is an error.
func (s *CatalogSettings) Normalize() {
	d := DefaultSettings()

	if s.MarginTop < 0 {
		s.MarginTop = 0
	}
	if s.MarginRight < 0 {
		s.MarginRight = 0
	}
	if s.MarginBottom < 0 {
		s.MarginBottom = 0
	}
	if s.MarginLeft < 0 {
		s.MarginLeft = 0
	}

	if s.Columns < 1 {
		s.Columns = d.Columns
	}
	if s.Columns > MaxGridDimension {
		s.Columns = MaxGridDimension
	}
	if s.Rows < 1 {
		s.Rows = d.Rows
	}
	if s.Rows > MaxGridDimension {
		s.Rows = MaxGridDimension
	}
	if s.GapMm < 0 {
		s.GapMm = 0
	}

	if s.HeaderTextSize <= 0 {
		s.HeaderTextSize = d.HeaderTextSize
	}
	if s.HeaderColor == "" {
		s.HeaderColor = d.HeaderColor
	}

	switch s.CardStyle {
	case CardStyleClassic, CardStyleModern, CardStyleMinimal:
	default:
		s.CardStyle = d.CardStyle
	}
	if s.CardBorderWidth < 0 {
		s.CardBorderWidth = 0
	}
	if s.CardBorderRadius < 0 {
		s.CardBorderRadius = 0
	}
	s.CardBorderColor = orDefault(s.CardBorderColor, d.CardBorderColor)
	s.ImageBgColor = orDefault(s.ImageBgColor, d.ImageBgColor)
	s.IDBgColor = orDefault(s.IDBgColor, d.IDBgColor)
	s.DescriptionBgColor = orDefault(s.DescriptionBgColor, d.DescriptionBgColor)
	s.IDTextColor = orDefault(s.IDTextColor, d.IDTextColor)
	s.DescriptionTextColor = orDefault(s.DescriptionTextColor, d.DescriptionTextColor)
	if s.IDFontSize <= 0 {
		s.IDFontSize = d.IDFontSize
	}
	if s.DescriptionFontSize <= 0 {
		s.DescriptionFontSize = d.DescriptionFontSize
	}

	switch s.WatermarkType {
	case WatermarkTypeText, WatermarkTypeLogo:
	default:
		s.WatermarkType = d.WatermarkType
	}
	if s.WatermarkOpacity < 0 {
		s.WatermarkOpacity = 0
	}
	if s.WatermarkOpacity > 1 {
		s.WatermarkOpacity = 1
	}
	if s.WatermarkSizeMm <= 0 {
		s.WatermarkSizeMm = d.WatermarkSizeMm
	}
}

// MaxGridDimension caps columns and rows so a page never degenerates into slivers
const MaxGridDimension = 12

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
