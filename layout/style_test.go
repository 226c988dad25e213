package layout

import (
	"testing"

	"catalog-studio/models"
)

func TestResolveTextAlign(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"left":    "left",
		"center":  "center",
		"right":   "right",
		" RIGHT ": "right",
		"justify": "center",
		"":        "center",
	}
	for in, want := range tests {
		if got := ResolveTextAlign(in); got != want {
			t.Errorf("ResolveTextAlign(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveBoxAlign(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"start":  "flex-start",
		"center": "center",
		"end":    "flex-end",
		"top":    "center",
		"":       "center",
	}
	for in, want := range tests {
		if got := ResolveBoxAlign(in); got != want {
			t.Errorf("ResolveBoxAlign(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveStyles(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.CardStyle = models.CardStyleMinimal
	settings.IDAlign = "left"
	settings.IDVerticalAlign = "end"
	settings.DescriptionFontSize = 14
	settings.CardBorderWidth = 2

	got := ResolveStyles(settings)

	if got.Container.Shadow != "none" {
		t.Errorf("minimal shadow = %q, want none", got.Container.Shadow)
	}
	if got.Container.BorderWidthPx != 2 {
		t.Errorf("BorderWidthPx = %v, want 2", got.Container.BorderWidthPx)
	}
	if got.ID.TextAlign != "left" || got.ID.JustifyContent != "flex-start" {
		t.Errorf("ID alignment = %q/%q", got.ID.TextAlign, got.ID.JustifyContent)
	}
	if got.ID.AlignItems != "flex-end" {
		t.Errorf("ID AlignItems = %q, want flex-end", got.ID.AlignItems)
	}
	if got.Description.FontSizePx != 14 {
		t.Errorf("Description font = %v, want 14", got.Description.FontSizePx)
	}
}

func TestResolveStyles_UnknownVariant(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.CardStyle = "neon"

	got := ResolveStyles(settings)
	if got.Variant != models.CardStyleClassic {
		t.Errorf("Variant = %q, want classic", got.Variant)
	}
	if got.Container.Shadow == "" {
		t.Error("classic variant should carry a shadow")
	}
}

func TestResolveStyles_ContainerBackground(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.ImageBgColor = "#fafafa"
	settings.DescriptionBgColor = "#ff0000"

	got := ResolveStyles(settings)
	if got.Container.Background != "#fafafa" {
		t.Errorf("Container.Background = %q, want image background #fafafa", got.Container.Background)
	}
	if got.Description.Background != "#ff0000" {
		t.Errorf("Description.Background = %q, want #ff0000", got.Description.Background)
	}
}
