package layout

import (
	"reflect"
	"testing"

	"catalog-studio/models"
)

func TestBuildPage_SlotsAlwaysFillGrid(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	perPage := settings.ItemsPerPage()

	for count := 0; count <= perPage; count++ {
		page := models.Page{PageNumber: 1, Items: makeProducts(count)}
		got := BuildPage(page, 1, settings)

		if len(got.Grid.Cells) != perPage {
			t.Fatalf("count=%d: len(Cells) = %d, want %d", count, len(got.Grid.Cells), perPage)
		}
		if got.Grid.PopulatedSlots+got.Grid.EmptySlots != perPage {
			t.Fatalf("count=%d: populated %d + empty %d != %d",
				count, got.Grid.PopulatedSlots, got.Grid.EmptySlots, perPage)
		}
		if got.Grid.PopulatedSlots != count {
			t.Errorf("count=%d: PopulatedSlots = %d", count, got.Grid.PopulatedSlots)
		}
	}
}

func TestBuildPage_RowMajorOrder(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.Columns = 2
	settings.Rows = 3
	page := models.Page{PageNumber: 1, Items: makeProducts(4)}

	got := BuildPage(page, 1, settings)

	wantPositions := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}
	for i, cell := range got.Grid.Cells {
		if cell.Row != wantPositions[i][0] || cell.Column != wantPositions[i][1] {
			t.Errorf("cell %d at (%d,%d), want (%d,%d)", i, cell.Row, cell.Column, wantPositions[i][0], wantPositions[i][1])
		}
		wantEmpty := i >= 4
		if cell.Empty != wantEmpty {
			t.Errorf("cell %d Empty = %v, want %v", i, cell.Empty, wantEmpty)
		}
	}
	if got.Grid.Cells[3].Product.ID != "P-004" {
		t.Errorf("cell 3 product = %q, want P-004", got.Grid.Cells[3].Product.ID)
	}
}

func TestBuildPage_EmptyPageIsAllPlaceholders(t *testing.T) {
	t.Parallel()

	got := BuildPage(models.Page{PageNumber: 7}, 3, models.DefaultSettings())

	for _, cell := range got.Grid.Cells {
		if !cell.Empty {
			t.Fatalf("cell %d should be an empty placeholder", cell.Index)
		}
	}
	if got.Styles.Empty.BorderStyle != "dashed" {
		t.Errorf("placeholder border = %q, want dashed", got.Styles.Empty.BorderStyle)
	}
}

func TestBuildPage_InfoSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		showID bool
		want   InfoSplit
	}{
		{name: "id shown", showID: true, want: InfoSplit{IDPercent: 30, DescriptionPercent: 70}},
		{name: "id hidden", showID: false, want: InfoSplit{IDPercent: 0, DescriptionPercent: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := models.DefaultSettings()
			settings.ShowProductID = tt.showID

			got := BuildPage(models.Page{PageNumber: 1, Items: makeProducts(1)}, 1, settings)
			if got.Grid.Split != tt.want {
				t.Errorf("Split = %+v, want %+v", got.Grid.Split, tt.want)
			}
		})
	}
}

func TestBuildPage_NoImagePlaceholder(t *testing.T) {
	t.Parallel()

	items := []models.Product{
		{ID: "A", Description: "with image", Image: "https://example.com/a.jpg"},
		{ID: "B", Description: "without image"},
	}
	got := BuildPage(models.Page{PageNumber: 1, Items: items}, 1, models.DefaultSettings())

	if !got.Grid.Cells[0].HasImage || got.Grid.Cells[0].ImageURL != items[0].Image {
		t.Errorf("cell 0 = %+v, want image %q", got.Grid.Cells[0], items[0].Image)
	}
	if got.Grid.Cells[1].HasImage || got.Grid.Cells[1].NoImageLabel == "" {
		t.Errorf("cell 1 should carry the no-image label: %+v", got.Grid.Cells[1])
	}
}

func TestBuildPage_Footer(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.FooterText = "www.example.com"
	settings.FooterAlign = "right"

	got := BuildPage(models.Page{PageNumber: 2}, 5, settings)
	if got.Footer.PageLabel != "Page 2 of 5" {
		t.Errorf("PageLabel = %q", got.Footer.PageLabel)
	}
	if got.Footer.TextAlign != "right" {
		t.Errorf("TextAlign = %q, want right", got.Footer.TextAlign)
	}

	settings.ShowPageNumber = false
	got = BuildPage(models.Page{PageNumber: 2}, 5, settings)
	if got.Footer.PageLabel != "" {
		t.Errorf("PageLabel = %q, want empty when page numbers are hidden", got.Footer.PageLabel)
	}
}

func TestBuildPage_FixedPixelGeometry(t *testing.T) {
	t.Parallel()

	got := BuildPage(models.Page{PageNumber: 1}, 1, models.DefaultSettings())
	if got.WidthPx != 794 || got.HeightPx != 1123 {
		t.Errorf("page = %dx%d, want 794x1123", got.WidthPx, got.HeightPx)
	}
	if got.Grid.CellWidthPx <= 0 || got.Grid.CellHeightPx <= 0 {
		t.Errorf("cell size must be positive, got %vx%v", got.Grid.CellWidthPx, got.Grid.CellHeightPx)
	}
}

func TestBuildPage_Idempotent(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.WatermarkEnabled = true
	page := models.Page{PageNumber: 1, Items: makeProducts(5)}

	first := BuildPage(page, 2, settings)
	second := BuildPage(page, 2, settings)
	if !reflect.DeepEqual(first, second) {
		t.Error("BuildPage is not deterministic for identical input")
	}
}

func TestBuildPage_InvalidSettingsStillLayOut(t *testing.T) {
	t.Parallel()

	settings := models.DefaultSettings()
	settings.Columns = 0
	settings.Rows = -2
	settings.CardStyle = "baroque"

	got := BuildPage(models.Page{PageNumber: 1}, 1, settings)
	if got.Grid.Columns < 1 || got.Grid.Rows < 1 {
		t.Fatalf("grid %dx%d must be at least 1x1", got.Grid.Columns, got.Grid.Rows)
	}
	if got.Styles.Variant != models.CardStyleClassic {
		t.Errorf("Variant = %q, want classic", got.Styles.Variant)
	}
}
