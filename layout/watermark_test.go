package layout

import (
	"encoding/base64"
	"strings"
	"testing"

	"catalog-studio/models"
)

func TestGenerateWatermark_Disabled(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.WatermarkEnabled = false

	if got := GenerateWatermark(settings); got != nil {
		t.Fatalf("GenerateWatermark() = %+v, want nil", got)
	}

	page := BuildPage(models.Page{PageNumber: 1}, 1, settings)
	if page.Watermark != nil {
		t.Error("disabled watermark must not add a layer to the page")
	}
}

func TestGenerateWatermark_Text(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.WatermarkEnabled = true
	settings.WatermarkType = models.WatermarkTypeText
	settings.WatermarkText = "Tom & Jerry <draft>"
	settings.WatermarkOpacity = 0.2
	settings.IDFontSize = 40

	got := GenerateWatermark(settings)
	if got == nil {
		t.Fatal("GenerateWatermark() = nil")
	}
	if got.TileSizePx != 300 || got.Repeat != "repeat" || got.Opacity != 0.2 {
		t.Errorf("descriptor = %+v", got)
	}
	if got.ZIndex >= ZIndexContent || got.ZIndex <= ZIndexBackground {
		t.Errorf("ZIndex = %d must sit between background and content", got.ZIndex)
	}

	const prefix = "data:image/svg+xml;base64,"
	if !strings.HasPrefix(got.ImageURL, prefix) {
		t.Fatalf("ImageURL = %q", got.ImageURL)
	}
	svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got.ImageURL, prefix))
	if err != nil {
		t.Fatalf("decode svg: %v", err)
	}
	for _, want := range []string{"rotate(-45", `font-size="24"`, "Tom &amp; Jerry &lt;draft&gt;"} {
		if !strings.Contains(string(svg), want) {
			t.Errorf("svg missing %q: %s", want, svg)
		}
	}
}

func TestGenerateWatermark_Logo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		logo       string
		headerLogo string
		wantURL    string
		wantNil    bool
	}{
		{name: "dedicated logo", logo: "/uploads/wm.png", headerLogo: "/uploads/header.png", wantURL: "/uploads/wm.png"},
		{name: "falls back to header logo", headerLogo: "/uploads/header.png", wantURL: "/uploads/header.png"},
		{name: "no logo at all", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := models.DefaultSettings()
			settings.WatermarkEnabled = true
			settings.WatermarkType = models.WatermarkTypeLogo
			settings.WatermarkLogo = tt.logo
			settings.HeaderLogo = tt.headerLogo
			settings.WatermarkSizeMm = 50

			got := GenerateWatermark(settings)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("GenerateWatermark() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("GenerateWatermark() = nil")
			}
			if got.ImageURL != tt.wantURL {
				t.Errorf("ImageURL = %q, want %q", got.ImageURL, tt.wantURL)
			}
			if got.TileSizePx != 188.98 {
				t.Errorf("TileSizePx = %v, want 188.98", got.TileSizePx)
			}
		})
	}
}

func TestGenerateWatermark_OpacityClamped(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.WatermarkEnabled = true
	settings.WatermarkOpacity = 3

	if got := GenerateWatermark(settings); got == nil || got.Opacity != 1 {
		t.Errorf("GenerateWatermark() = %+v, want opacity 1", got)
	}
}
