package model

import "math"

// SheetEstimate holds the results of an area-based sheet count estimate.
type SheetEstimate struct {
	TotalItemArea     int     `json:"total_item_area"`     // Area of all items including padding (px²)
	ItemCount         int     `json:"item_count"`          // Items after quantity expansion
	SheetArea         int     `json:"sheet_area"`          // Usable area of one sheet (px²)
	SheetsNeededExact float64 `json:"sheets_needed_exact"` // Exact fractional number of sheets
	SheetsNeededMin   int     `json:"sheets_needed_min"`   // Lower bound (ceiling of exact)
	SheetsWithSlack   int     `json:"sheets_with_slack"`   // Recommended sheets including slack
	SlackPercent      float64 `json:"slack_percent"`       // Slack factor applied (e.g., 15 for 15%)
	Padding           int     `json:"padding"`             // Padding used in calculation
	Oversized         int     `json:"oversized"`           // Items that cannot fit a sheet in any orientation
}

// CalculateSheetEstimate computes how many sheets a set of items will need.
// Packing is never perfect, so the slack percentage is added on top of the
// pure area bound. Padding, margin and rotation come from settings; margins
// shrink the usable sheet area.
func CalculateSheetEstimate(items []Item, sheetWidth, sheetHeight int, settings PackSettings, slackPercent float64) SheetEstimate {
	padding := settings.Padding
	usableW := sheetWidth - 2*settings.Margin
	usableH := sheetHeight - 2*settings.Margin

	var totalArea, count, oversized int
	for _, it := range items {
		w := it.Width + padding
		h := it.Height + padding
		totalArea += w * h * it.Quantity
		count += it.Quantity

		fitsNormal := w <= usableW && h <= usableH
		fitsRotated := settings.CanRotate(it) && h <= usableW && w <= usableH
		if !fitsNormal && !fitsRotated {
			oversized += it.Quantity
		}
	}

	if usableW <= 0 || usableH <= 0 {
		return SheetEstimate{
			TotalItemArea: totalArea,
			ItemCount:     count,
			SlackPercent:  slackPercent,
			Padding:       padding,
			Oversized:     oversized,
		}
	}

	sheetArea := usableW * usableH
	exact := float64(totalArea) / float64(sheetArea)
	minSheets := int(math.Ceil(exact))

	slackFactor := 1.0 + (slackPercent / 100.0)
	withSlack := int(math.Ceil(exact * slackFactor))
	if withSlack < minSheets {
		withSlack = minSheets
	}

	return SheetEstimate{
		TotalItemArea:     totalArea,
		ItemCount:         count,
		SheetArea:         sheetArea,
		SheetsNeededExact: exact,
		SheetsNeededMin:   minSheets,
		SheetsWithSlack:   withSlack,
		SlackPercent:      slackPercent,
		Padding:           padding,
		Oversized:         oversized,
	}
}
