package engine

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/geom"
	"github.com/piwi3910/atlaspack/internal/model"
)

func defaultTestSettings() model.PackSettings {
	s := model.DefaultSettings()
	// Simplify for testing: no padding, no margin
	s.Padding = 0
	s.Margin = 0
	return s
}

func TestOptimize_SingleSheetSingleItem(t *testing.T) {
	opt := New(defaultTestSettings())
	items := []model.Item{model.NewItem("A", 500, 300, 1)}
	sheets := []model.Sheet{model.NewSheet("Atlas", 1000, 600, 1)}

	result := opt.Optimize(items, sheets)

	require.Len(t, result.Sheets, 1)
	assert.Len(t, result.Unplaced, 0)
	require.Len(t, result.Sheets[0].Placements, 1)
	assert.Equal(t, "A", result.Sheets[0].Placements[0].Item.Label)
	assert.Equal(t, geom.NewRect(0, 0, 500, 300), result.Sheets[0].Placements[0].Rect)
}

func TestOptimize_MultipleSheetSizes_SelectsSmallestAdequate(t *testing.T) {
	opt := New(defaultTestSettings())

	items := []model.Item{
		model.NewItem("Small1", 200, 100, 1),
		model.NewItem("Small2", 150, 100, 1),
	}
	sheets := []model.Sheet{
		model.NewSheet("Large", 2048, 2048, 2),
		model.NewSheet("Small", 512, 512, 2),
	}

	result := opt.Optimize(items, sheets)

	require.Len(t, result.Unplaced, 0, "all items should be placed")
	require.Len(t, result.Sheets, 1)
	assert.Equal(t, "Small", result.Sheets[0].Sheet.Label, "should use the small sheet")
}

func TestOptimize_MultipleSheetSizes_LargeItemForcesLargeSheet(t *testing.T) {
	opt := New(defaultTestSettings())

	items := []model.Item{model.NewItem("Big", 1000, 1000, 1)}
	sheets := []model.Sheet{
		model.NewSheet("Small", 512, 512, 1),
		model.NewSheet("Large", 2048, 2048, 1),
	}

	result := opt.Optimize(items, sheets)

	require.Len(t, result.Unplaced, 0)
	require.Len(t, result.Sheets, 1)
	assert.Equal(t, 2048, result.Sheets[0].Sheet.Width, "large item should go on large sheet")
}

func TestOptimize_AllItemsUnplaceable(t *testing.T) {
	opt := New(defaultTestSettings())

	items := []model.Item{model.NewItem("Huge", 5000, 3000, 1)}
	sheets := []model.Sheet{model.NewSheet("Small", 1000, 500, 1)}

	result := opt.Optimize(items, sheets)

	assert.Len(t, result.Sheets, 0, "no sheets should be used")
	assert.Len(t, result.Unplaced, 1)
}

func TestOptimize_OversizedItemDoesNotBlockOthers(t *testing.T) {
	opt := New(defaultTestSettings())

	items := []model.Item{
		model.NewItem("Huge", 5000, 3000, 1),
		model.NewItem("Tile", 100, 100, 2),
	}
	sheets := []model.Sheet{model.NewSheet("Small", 1000, 500, 1)}

	result := opt.Optimize(items, sheets)

	require.Len(t, result.Sheets, 1)
	assert.Len(t, result.Sheets[0].Placements, 2)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "Huge", result.Unplaced[0].Label)
}

func TestOptimize_EmptyInputs(t *testing.T) {
	opt := New(defaultTestSettings())

	result := opt.Optimize(nil, []model.Sheet{model.NewSheet("S", 1000, 500, 1)})
	assert.Len(t, result.Sheets, 0)
	assert.Len(t, result.Unplaced, 0)

	result = opt.Optimize([]model.Item{model.NewItem("A", 100, 100, 1)}, nil)
	assert.Len(t, result.Sheets, 0)
	assert.Len(t, result.Unplaced, 1)
}

func TestOptimize_QuantityExpansion(t *testing.T) {
	opt := New(defaultTestSettings())

	items := []model.Item{model.NewItem("A", 500, 300, 3)}
	sheets := []model.Sheet{model.NewSheet("Atlas", 2048, 1024, 2)}

	result := opt.Optimize(items, sheets)

	assert.Equal(t, 3, result.PlacedCount(), "all 3 copies should be placed")
	assert.Len(t, result.Unplaced, 0)
	for _, p := range result.Sheets[0].Placements {
		assert.Equal(t, 1, p.Item.Quantity)
	}
}

func TestOptimize_WithPaddingAndMargin(t *testing.T) {
	settings := defaultTestSettings()
	settings.Padding = 3
	settings.Margin = 10
	settings.AllowRotate = false
	opt := New(settings)

	// Usable: 1000 - 2*10 = 980 wide, 500 - 2*10 = 480 tall.
	// With padding 977x477 needs exactly 980x480.
	sheets := []model.Sheet{model.NewSheet("Atlas", 1000, 500, 1)}

	result := opt.Optimize([]model.Item{model.NewItem("Tight", 977, 477, 1)}, sheets)
	require.Len(t, result.Unplaced, 0, "item should fit with padding and margin")
	require.Len(t, result.Sheets, 1)
	assert.Equal(t, geom.NewRect(10, 10, 977, 477), result.Sheets[0].Placements[0].Rect)

	result = opt.Optimize([]model.Item{model.NewItem("TooWide", 978, 477, 1)}, sheets)
	assert.Len(t, result.Unplaced, 1, "one pixel over must not fit")
}

func TestOptimize_PaddingExcludedFromRect(t *testing.T) {
	settings := defaultTestSettings()
	settings.Padding = 2
	opt := New(settings)

	items := []model.Item{model.NewItem("Tile", 10, 10, 2)}
	result := opt.Optimize(items, []model.Sheet{model.NewSheet("Atlas", 100, 100, 1)})

	require.Len(t, result.Sheets, 1)
	ps := result.Sheets[0].Placements
	require.Len(t, ps, 2)
	assert.Equal(t, geom.NewRect(0, 0, 10, 10), ps[0].Rect)
	assert.Equal(t, geom.NewRect(12, 0, 10, 10), ps[1].Rect)
}

func TestOptimize_FreeRegionsInSheetCoordinates(t *testing.T) {
	settings := defaultTestSettings()
	settings.Margin = 5
	opt := New(settings)

	result := opt.Optimize(
		[]model.Item{model.NewItem("Column", 40, 90, 1)},
		[]model.Sheet{model.NewSheet("Atlas", 100, 100, 1)},
	)

	require.Len(t, result.Sheets, 1)
	sr := result.Sheets[0]
	assert.Equal(t, geom.NewRect(5, 5, 40, 90), sr.Placements[0].Rect)
	assert.Equal(t, []geom.Rect{geom.NewRect(45, 5, 50, 90)}, sr.Free)
}

func TestOptimize_Rotation(t *testing.T) {
	opt := New(defaultTestSettings())

	// 800x400 won't fit a 500x1000 sheet as is but fits rotated.
	items := []model.Item{model.NewItem("Rotatable", 800, 400, 1)}
	sheets := []model.Sheet{model.NewSheet("Atlas", 500, 1000, 1)}

	result := opt.Optimize(items, sheets)

	require.Len(t, result.Unplaced, 0, "item should fit when rotated")
	require.Len(t, result.Sheets, 1)
	p := result.Sheets[0].Placements[0]
	assert.True(t, p.Rotated, "item should be rotated")
	assert.Equal(t, geom.Sz(400, 800), p.Rect.Size)
}

func TestOptimize_NoRotatePreventsRotation(t *testing.T) {
	opt := New(defaultTestSettings())

	it := model.NewItem("Locked", 800, 400, 1)
	it.NoRotate = true
	result := opt.Optimize([]model.Item{it}, []model.Sheet{model.NewSheet("Atlas", 500, 1000, 1)})

	assert.Len(t, result.Unplaced, 1, "locked item should not fit")
}

func TestOptimize_RotationDisabledGlobally(t *testing.T) {
	settings := defaultTestSettings()
	settings.AllowRotate = false
	opt := New(settings)

	result := opt.Optimize(
		[]model.Item{model.NewItem("Wide", 800, 400, 1)},
		[]model.Sheet{model.NewSheet("Atlas", 500, 1000, 1)},
	)

	assert.Len(t, result.Unplaced, 1)
}

func TestOptimize_SquareItemsNeverRotated(t *testing.T) {
	opt := New(defaultTestSettings())

	result := opt.Optimize(
		[]model.Item{model.NewItem("Square", 64, 64, 20)},
		[]model.Sheet{model.NewSheet("Atlas", 256, 256, 2)},
	)

	for _, sr := range result.Sheets {
		for _, p := range sr.Placements {
			assert.False(t, p.Rotated)
		}
	}
}

func TestSelectBestSheet_TrialPackingPreference(t *testing.T) {
	opt := New(defaultTestSettings())

	sheets := []model.Sheet{
		model.NewSheet("Large", 2048, 2048, 1),
		model.NewSheet("Small", 600, 400, 1),
	}
	items := []model.Item{
		model.NewItem("A", 300, 400, 1),
		model.NewItem("B", 300, 400, 1),
	}

	idx := opt.selectBestSheet(sheets, items)
	require.GreaterOrEqual(t, idx, 0)
	// Both items fill the small sheet exactly.
	assert.Equal(t, "Small", sheets[idx].Label, "trial packing should prefer the small sheet")
}

func TestSelectBestSheet_NoCandidates(t *testing.T) {
	opt := New(defaultTestSettings())

	sheets := []model.Sheet{model.NewSheet("Tiny", 100, 100, 1)}
	items := []model.Item{model.NewItem("Big", 500, 500, 1)}

	assert.Equal(t, -1, opt.selectBestSheet(sheets, items))
}

func TestSelectBestSheet_EmptyInputs(t *testing.T) {
	opt := New(defaultTestSettings())

	assert.Equal(t, -1, opt.selectBestSheet(nil, nil))
	assert.Equal(t, -1, opt.selectBestSheet([]model.Sheet{}, nil))
	assert.Equal(t, -1, opt.selectBestSheet(nil, []model.Item{}))
}

func TestOptimize_SheetPoolDepletion(t *testing.T) {
	opt := New(defaultTestSettings())

	items := []model.Item{model.NewItem("A", 500, 500, 3)}
	sheets := []model.Sheet{
		model.NewSheet("Small", 600, 600, 1),
		model.NewSheet("Large", 1200, 1200, 1),
	}

	result := opt.Optimize(items, sheets)

	require.Len(t, result.Unplaced, 0, "all items should be placed")
	assert.Len(t, result.Sheets, 2)
}

func TestOptimize_Efficiency(t *testing.T) {
	opt := New(defaultTestSettings())

	result := opt.Optimize(
		[]model.Item{model.NewItem("Half", 1000, 500, 1)},
		[]model.Sheet{model.NewSheet("Atlas", 1000, 1000, 1)},
	)

	require.Len(t, result.Sheets, 1)
	assert.InDelta(t, 50.0, result.TotalEfficiency(), 0.01)
}

func TestOptimize_NoOverlapWithPadding(t *testing.T) {
	settings := defaultTestSettings()
	settings.Padding = 1
	settings.Margin = 3
	opt := New(settings)

	rng := rand.New(rand.NewSource(11))
	var items []model.Item
	for i := 0; i < 60; i++ {
		items = append(items, model.NewItem("T", 4+rng.Intn(60), 4+rng.Intn(60), 1))
	}
	sheets := []model.Sheet{model.NewSheet("Atlas", 256, 256, 4)}

	result := opt.Optimize(items, sheets)
	assert.Equal(t, len(items), result.PlacedCount()+len(result.Unplaced))

	usable := geom.NewRect(3, 3, 250, 250)
	for _, sr := range result.Sheets {
		var padded []geom.Rect
		for _, p := range sr.Placements {
			r := geom.Rect{Origin: p.Rect.Origin, Size: p.Rect.Size.Grow(settings.Padding)}
			require.True(t, usable.Contains(r), "placement %s escapes the usable area", r)
			for _, prev := range padded {
				require.False(t, prev.Overlaps(r), "%s overlaps %s", r, prev)
			}
			padded = append(padded, r)
		}
	}
}

func TestOptimize_LogsPerSheet(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	opt := New(defaultTestSettings(), WithLogger(logger))
	opt.Optimize(
		[]model.Item{model.NewItem("A", 10, 10, 1)},
		[]model.Sheet{model.NewSheet("Atlas", 64, 64, 1)},
	)

	assert.Contains(t, buf.String(), "packed sheet")
	assert.Contains(t, buf.String(), "Atlas")
}

func TestSortItems(t *testing.T) {
	base := []model.Item{
		{Label: "A", Width: 10, Height: 50}, // area 500
		{Label: "B", Width: 40, Height: 20}, // area 800
		{Label: "C", Width: 30, Height: 30}, // area 900
	}

	tests := []struct {
		key  model.SortKey
		want []string
	}{
		{model.SortArea, []string{"C", "B", "A"}},
		{model.SortMaxSide, []string{"A", "B", "C"}},
		{model.SortHeight, []string{"A", "C", "B"}},
		{model.SortWidth, []string{"B", "C", "A"}},
		{model.SortNone, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			items := append([]model.Item(nil), base...)
			sortItems(items, tt.key)
			var got []string
			for _, it := range items {
				got = append(got, it.Label)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

// ─── Group Matching Tests ──────────────────────────────────────────

func TestGroupItems_NoGroups(t *testing.T) {
	items := []model.Item{model.NewItem("A", 50, 30, 1), model.NewItem("B", 40, 20, 1)}
	sheets := []model.Sheet{model.NewSheet("Atlas", 100, 60, 1)}

	groups := groupItems(items, sheets)

	require.Len(t, groups, 1, "should be a single group when nothing is grouped")
	assert.Len(t, groups[0].items, 2)
	assert.Len(t, groups[0].sheets, 1)
}

func TestGroupItems_MultipleGroups(t *testing.T) {
	ui := model.NewItem("Button", 50, 30, 1)
	ui.Group = "ui"
	fx := model.NewItem("Spark", 40, 20, 1)
	fx.Group = "fx"

	uiSheet := model.NewSheet("UI", 100, 60, 1)
	uiSheet.Group = "ui"
	fxSheet := model.NewSheet("FX", 100, 60, 1)
	fxSheet.Group = "fx"

	groups := groupItems([]model.Item{ui, fx}, []model.Sheet{uiSheet, fxSheet})

	require.Len(t, groups, 2)
	assert.Equal(t, "fx", groups[0].name)
	assert.Equal(t, "Spark", groups[0].items[0].Label)
	assert.Equal(t, "ui", groups[1].name)
	assert.Equal(t, "Button", groups[1].items[0].Label)
}

func TestGroupItems_UniversalItemsAndSheets(t *testing.T) {
	loose := model.NewItem("Loose", 50, 30, 1)
	ui := model.NewItem("Button", 40, 20, 1)
	ui.Group = "ui"

	anySheet := model.NewSheet("Any", 100, 60, 3)

	groups := groupItems([]model.Item{loose, ui}, []model.Sheet{anySheet})

	require.Len(t, groups, 2)
	assert.Equal(t, "ui", groups[0].name)
	assert.Len(t, groups[0].sheets, 1, "universal sheets serve every group")
	assert.Equal(t, "Loose", groups[1].items[0].Label)
}

func TestOptimize_GroupedItemsStayOnTheirSheets(t *testing.T) {
	opt := New(defaultTestSettings())

	ui := model.NewItem("Button", 50, 30, 1)
	ui.Group = "ui"
	fx := model.NewItem("Spark", 40, 20, 1)
	fx.Group = "fx"

	uiSheet := model.NewSheet("UI", 100, 60, 1)
	uiSheet.Group = "ui"
	fxSheet := model.NewSheet("FX", 100, 60, 1)
	fxSheet.Group = "fx"

	result := opt.Optimize([]model.Item{ui, fx}, []model.Sheet{uiSheet, fxSheet})

	require.Len(t, result.Unplaced, 0)
	require.Len(t, result.Sheets, 2, "each group should use its own sheet")
	for _, sr := range result.Sheets {
		for _, p := range sr.Placements {
			assert.Equal(t, p.Item.Group, sr.Sheet.Group)
		}
	}
}

func TestOptimize_WrongGroupNotUsed(t *testing.T) {
	opt := New(defaultTestSettings())

	ui := model.NewItem("Button", 50, 30, 1)
	ui.Group = "ui"
	fxSheet := model.NewSheet("FX", 100, 60, 1)
	fxSheet.Group = "fx"

	result := opt.Optimize([]model.Item{ui}, []model.Sheet{fxSheet})

	assert.Len(t, result.Unplaced, 1)
	assert.Len(t, result.Sheets, 0)
}

func TestOptimize_UniversalSheetsSharedAcrossGroups(t *testing.T) {
	opt := New(defaultTestSettings())

	ui := model.NewItem("Button", 80, 50, 1)
	ui.Group = "ui"
	fx := model.NewItem("Spark", 80, 50, 1)
	fx.Group = "fx"
	anySheet := model.NewSheet("Any", 100, 60, 1)

	result := opt.Optimize([]model.Item{ui, fx}, []model.Sheet{anySheet})

	require.Len(t, result.Sheets, 1, "the single universal sheet is used once")
	assert.Equal(t, "Spark", result.Sheets[0].Placements[0].Item.Label, "groups pack in name order")
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "Button", result.Unplaced[0].Label)
}

func TestAvailableSheets(t *testing.T) {
	a := model.NewSheet("A", 100, 100, 3)
	b := model.NewSheet("B", 50, 50, 2)
	left := map[string]int{sheetKey(a): 1, sheetKey(b): 0}

	got := availableSheets([]model.Sheet{a, b}, left)

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Label)
	assert.Equal(t, 1, got[0].Quantity)
	assert.Equal(t, 1, left[sheetKey(a)], "the shared budget is not modified")
}
