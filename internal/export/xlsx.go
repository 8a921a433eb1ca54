package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/atlaspack/internal/model"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

// ExportXLSX writes one row per placement and a per-sheet summary to an
// Excel workbook.
func ExportXLSX(path string, result model.PackResult) error {
	if len(result.Sheets) == 0 {
		return ErrNoSheets
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headers := []interface{}{"Sheet", "Sheet Label", "Item", "X", "Y", "Width", "Height", "Rotated", "Group"}
	if err := writeRow(f, placementsSheet, 1, headers); err != nil {
		return err
	}
	if err := f.SetRowStyle(placementsSheet, 1, 1, bold); err != nil {
		return err
	}

	row := 2
	for i, sr := range result.Sheets {
		for _, p := range sr.Placements {
			cells := []interface{}{
				i + 1, sr.Sheet.Label, p.Item.Label,
				p.Rect.Origin.X, p.Rect.Origin.Y, p.Rect.Size.Width, p.Rect.Size.Height,
				p.Rotated, p.Item.Group,
			}
			if err := writeRow(f, placementsSheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	summary := []interface{}{"Sheet", "Label", "Width", "Height", "Items", "Used Area", "Efficiency %"}
	if err := writeRow(f, summarySheet, 1, summary); err != nil {
		return err
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, bold); err != nil {
		return err
	}
	for i, sr := range result.Sheets {
		cells := []interface{}{
			i + 1, sr.Sheet.Label, sr.Sheet.Width, sr.Sheet.Height,
			len(sr.Placements), sr.UsedArea(), round1(sr.Efficiency()),
		}
		if err := writeRow(f, summarySheet, i+2, cells); err != nil {
			return err
		}
	}

	totalRow := len(result.Sheets) + 3
	totals := []interface{}{"Total", "", "", "", result.PlacedCount(), "", round1(result.TotalEfficiency())}
	if err := writeRow(f, summarySheet, totalRow, totals); err != nil {
		return err
	}
	if len(result.Unplaced) > 0 {
		note := fmt.Sprintf("%d item(s) could not be placed", len(result.Unplaced))
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", totalRow+1), note); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
