package export

import (
	"github.com/piwi3910/atlaspack/internal/geom"
	"github.com/piwi3910/atlaspack/internal/model"
)

// buildTestResult creates a two-sheet result with one rotated placement.
func buildTestResult() model.PackResult {
	return model.PackResult{
		Sheets: []model.SheetResult{
			{
				Sheet: model.Sheet{ID: "s1", Label: "Characters", Width: 512, Height: 256, Quantity: 1},
				Placements: []model.Placement{
					{
						Item: model.Item{ID: "i1", Label: "hero_idle", Width: 64, Height: 96, Quantity: 1, Group: "chars"},
						Rect: geom.NewRect(0, 0, 64, 96),
					},
					{
						Item:    model.Item{ID: "i2", Label: "hero_run", Width: 96, Height: 64, Quantity: 1},
						Rect:    geom.NewRect(66, 0, 64, 96),
						Rotated: true,
					},
					{
						Item: model.Item{ID: "i3", Label: "coin", Width: 16, Height: 16, Quantity: 1},
						Rect: geom.NewRect(0, 98, 16, 16),
					},
				},
				Free: []geom.Rect{geom.NewRect(132, 0, 380, 256)},
			},
			{
				Sheet: model.Sheet{ID: "s2", Label: "UI", Width: 128, Height: 128, Quantity: 1},
				Placements: []model.Placement{
					{
						Item: model.Item{ID: "i4", Label: "button", Width: 100, Height: 30, Quantity: 1},
						Rect: geom.NewRect(0, 0, 100, 30),
					},
				},
			},
		},
	}
}
