package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut is a free region left on a packed sheet that is large enough to
// hold more items later, e.g. when the atlas is extended at runtime.
type Offcut struct {
	ID         string `json:"id"`
	SheetLabel string `json:"sheet_label"` // Which sheet it came from
	SheetIndex int    `json:"sheet_index"` // Index of the source sheet in the result
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Area returns the area of the offcut in px².
func (o Offcut) Area() int {
	return o.Width * o.Height
}

// ToSheet converts an offcut into a sheet for a follow-up packing run.
func (o Offcut) ToSheet() Sheet {
	return NewSheet("Offcut "+o.SheetLabel, o.Width, o.Height, 1)
}

// MinOffcutSide is the default minimum width and height of a reusable offcut.
const MinOffcutSide = 16

// DetectOffcuts returns the free regions of a sheet whose sides are both at
// least minSide, largest first.
func DetectOffcuts(sr SheetResult, sheetIndex, minSide int) []Offcut {
	var offcuts []Offcut
	for _, r := range sr.Free {
		if r.Size.Width < minSide || r.Size.Height < minSide {
			continue
		}
		offcuts = append(offcuts, Offcut{
			ID:         uuid.New().String()[:8],
			SheetLabel: sr.Sheet.Label,
			SheetIndex: sheetIndex,
			X:          r.Origin.X,
			Y:          r.Origin.Y,
			Width:      r.Size.Width,
			Height:     r.Size.Height,
		})
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

// DetectAllOffcuts finds offcuts across all sheets in a packing result.
func DetectAllOffcuts(result PackResult, minSide int) []Offcut {
	var all []Offcut
	for i, sheet := range result.Sheets {
		all = append(all, DetectOffcuts(sheet, i, minSide)...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts in px².
func TotalOffcutArea(offcuts []Offcut) int {
	total := 0
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
