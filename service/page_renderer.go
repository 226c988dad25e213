package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"catalog-studio/layout"
)

//go:embed templates/page.html
var templateFS embed.FS

// Preview zoom bounds. Zoom only ever applies to the interactive preview.
const (
	MinPreviewZoom = 0.25
	MaxPreviewZoom = 3.0
)

// PageRenderer materializes a page layout into a standalone HTML document
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the embedded page template
func NewPageRenderer() (*PageRenderer, error) {
	tmpl, err := template.New("page.html").Funcs(pageFuncs).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// RenderExport renders the page at its fixed physical pixel size, with no scale transform
func (r *PageRenderer) RenderExport(l layout.PageLayout) (string, error) {
	return r.render(l, false, 1)
}

// RenderPreview renders the page for interactive viewing at the given zoom
func (r *PageRenderer) RenderPreview(l layout.PageLayout, zoom float64) (string, error) {
	return r.render(l, true, ClampZoom(zoom))
}

func (r *PageRenderer) render(l layout.PageLayout, interactive bool, zoom float64) (string, error) {
	data := struct {
		Layout      layout.PageLayout
		Interactive bool
		Zoom        float64
	}{
		Layout:      l,
		Interactive: interactive,
		Zoom:        zoom,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// ClampZoom keeps the preview zoom in a usable band; zero means 100%
func ClampZoom(zoom float64) float64 {
	if zoom == 0 {
		return 1
	}
	if zoom < MinPreviewZoom {
		return MinPreviewZoom
	}
	if zoom > MaxPreviewZoom {
		return MaxPreviewZoom
	}
	return zoom
}

var pageFuncs = template.FuncMap{
	"zoomStyle": func(zoom float64) template.CSS {
		return template.CSS(fmt.Sprintf("transform: scale(%g); transform-origin: top left;", zoom))
	},
	"pageStyle": func(l layout.PageLayout) template.CSS {
		return template.CSS(fmt.Sprintf(
			"width: %dpx; height: %dpx; padding: %gpx %gpx %gpx %gpx; z-index: %d;",
			l.WidthPx, l.HeightPx, l.Margins.Top, l.Margins.Right, l.Margins.Bottom, l.Margins.Left,
			layout.ZIndexBackground,
		))
	},
	"watermarkStyle": func(w *layout.Watermark) template.CSS {
		return template.CSS(fmt.Sprintf(
			`z-index: %d; background-image: url("%s"); background-repeat: %s; background-size: %gpx %gpx; opacity: %g;`,
			w.ZIndex, cssURL(w.ImageURL), w.Repeat, w.TileSizePx, w.TileSizePx, w.Opacity,
		))
	},
	"contentStyle": func() template.CSS {
		return template.CSS(fmt.Sprintf("z-index: %d;", layout.ZIndexContent))
	},
	"headerStyle": func(h layout.HeaderRegion) template.CSS {
		return template.CSS(fmt.Sprintf(
			"height: %gpx; justify-content: %s; text-align: %s; font-size: %gpx; color: %s;",
			h.HeightPx, h.JustifyContent, h.TextAlign, h.FontSizePx, cssColor(h.Color),
		))
	},
	"gridStyle": func(g layout.GridRegion) template.CSS {
		return template.CSS(fmt.Sprintf(
			"width: %gpx; height: %gpx; gap: %gpx; grid-template-columns: repeat(%d, %gpx); grid-template-rows: repeat(%d, %gpx);",
			g.WidthPx, g.HeightPx, g.GapPx, g.Columns, g.CellWidthPx, g.Rows, g.CellHeightPx,
		))
	},
	"cardStyle": func(s layout.CardStyles) template.CSS {
		return template.CSS(fmt.Sprintf(
			"background: %s; border: %gpx solid %s; border-radius: %gpx; box-shadow: %s;",
			cssColor(s.Container.Background), s.Container.BorderWidthPx, cssColor(s.Container.BorderColor),
			s.Container.BorderRadiusPx, s.Container.Shadow,
		))
	},
	"emptyStyle": func(s layout.CardStyles) template.CSS {
		return template.CSS(fmt.Sprintf(
			"border: 1px %s %s; border-radius: %gpx; opacity: %g;",
			s.Empty.BorderStyle, cssColor(s.Empty.BorderColor), s.Container.BorderRadiusPx, s.Empty.Opacity,
		))
	},
	"imageBoxStyle": func(g layout.GridRegion, s layout.CardStyles) template.CSS {
		return template.CSS(fmt.Sprintf("height: %gpx; background: %s;", g.ImageHeightPx, cssColor(s.ImageBackground)))
	},
	"infoStyle": func(g layout.GridRegion) template.CSS {
		return template.CSS(fmt.Sprintf("height: %gpx;", g.InfoHeightPx))
	},
	"textCellStyle": func(c layout.TextCellStyle, widthPercent float64) template.CSS {
		return template.CSS(fmt.Sprintf(
			"width: %g%%; background: %s; color: %s; font-size: %gpx; text-align: %s; justify-content: %s; align-items: %s;",
			widthPercent, cssColor(c.Background), cssColor(c.Color), c.FontSizePx, c.TextAlign, c.JustifyContent, c.AlignItems,
		))
	},
	"footerStyle": func(f layout.FooterRegion) template.CSS {
		return template.CSS(fmt.Sprintf("height: %gpx; justify-content: %s; text-align: %s;", f.HeightPx, f.JustifyContent, f.TextAlign))
	},
	"imageSrc": imageSrc,
}

var cssColorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\(\s*[0-9.]+%?\s*,\s*[0-9.]+%?\s*,\s*[0-9.]+%?\s*(,\s*[0-9.]+\s*)?\))$`)

// cssColor passes through hex, named and rgb()/rgba() colors; anything else becomes inherit
func cssColor(c string) string {
	c = strings.TrimSpace(c)
	if cssColorPattern.MatchString(c) {
		return c
	}
	return "inherit"
}

// imageSrc admits http(s), relative paths and raster/svg data URIs
func imageSrc(src string) template.URL {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.HasPrefix(lower, "data:image/"):
	case strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//"):
	default:
		return ""
	}
	return template.URL(src)
}

// cssURL makes an image source safe to embed inside url("...")
func cssURL(src string) string {
	safe := string(imageSrc(src))
	return strings.NewReplacer(`"`, "%22", `\`, "%5C", "\n", "", "\r", "").Replace(safe)
}
