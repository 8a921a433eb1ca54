// Package verify checks a packing result against the rules the packer
// promises: placements stay inside the usable area, never overlap (padding
// included), keep their group and only rotate when allowed.
package verify

import (
	"fmt"

	"github.com/piwi3910/atlaspack/internal/geom"
	"github.com/piwi3910/atlaspack/internal/model"
)

// Kind classifies a layout problem.
type Kind string

const (
	KindOutside    Kind = "outside"    // Padded rect leaves the sheet
	KindMargin     Kind = "margin"     // Padded rect reaches into the margin
	KindOverlap    Kind = "overlap"    // Two padded rects share area
	KindSize       Kind = "size"       // Placed size does not match the item
	KindRotation   Kind = "rotation"   // Rotated although rotation is not allowed
	KindGroup      Kind = "group"      // Item placed on a sheet of another group
	KindDuplicated Kind = "duplicated" // Item ID placed more often than requested
)

// Issue is one problem found in a layout.
type Issue struct {
	Kind       Kind      `json:"kind"`
	SheetIndex int       `json:"sheet_index"`
	SheetLabel string    `json:"sheet_label"`
	ItemIndex  int       `json:"item_index"`
	ItemLabel  string    `json:"item_label"`
	OtherLabel string    `json:"other_label,omitempty"` // Second item for overlaps
	Rect       geom.Rect `json:"rect"`
}

// Check inspects every placement of result. When items is non-nil, placements
// are also counted against the requested quantity per item ID. An empty slice
// means the layout is valid for settings.
func Check(result model.PackResult, settings model.PackSettings, items []model.Item) []Issue {
	var issues []Issue
	placedCount := make(map[string]int)
	requested := make(map[string]int)
	for _, it := range items {
		requested[it.ID] += it.Quantity
	}

	for sheetIdx, sr := range result.Sheets {
		sheetRect := geom.NewRect(0, 0, sr.Sheet.Width, sr.Sheet.Height)
		inner := geom.NewRect(settings.Margin, settings.Margin,
			sr.Sheet.Width-2*settings.Margin, sr.Sheet.Height-2*settings.Margin)

		padded := make([]geom.Rect, len(sr.Placements))
		for i, p := range sr.Placements {
			padded[i] = geom.Rect{Origin: p.Rect.Origin, Size: p.Rect.Size.Grow(settings.Padding)}

			issue := Issue{
				SheetIndex: sheetIdx,
				SheetLabel: sr.Sheet.Label,
				ItemIndex:  i,
				ItemLabel:  p.Item.Label,
				Rect:       p.Rect,
			}
			add := func(k Kind) {
				issue.Kind = k
				issues = append(issues, issue)
			}

			switch {
			case !sheetRect.Contains(padded[i]):
				add(KindOutside)
			case !inner.Contains(padded[i]):
				add(KindMargin)
			}

			want := p.Item.Size()
			if p.Rotated {
				want = want.Rotate()
			}
			if !p.Rect.Size.Eq(want) {
				add(KindSize)
			}
			if p.Rotated && !settings.CanRotate(p.Item) {
				add(KindRotation)
			}
			if sr.Sheet.Group != "" && p.Item.Group != sr.Sheet.Group {
				add(KindGroup)
			}

			if items != nil {
				placedCount[p.Item.ID]++
				if placedCount[p.Item.ID] > requested[p.Item.ID] {
					add(KindDuplicated)
				}
			}
		}

		for i := range padded {
			for j := i + 1; j < len(padded); j++ {
				if !padded[i].Overlaps(padded[j]) {
					continue
				}
				issues = append(issues, Issue{
					Kind:       KindOverlap,
					SheetIndex: sheetIdx,
					SheetLabel: sr.Sheet.Label,
					ItemIndex:  i,
					ItemLabel:  sr.Placements[i].Item.Label,
					OtherLabel: sr.Placements[j].Item.Label,
					Rect:       sr.Placements[i].Rect,
				})
			}
		}
	}

	return deduplicate(issues)
}

// deduplicate keeps at most one issue per (sheet, item, kind, other) tuple.
func deduplicate(issues []Issue) []Issue {
	type key struct {
		sheet int
		item  int
		kind  Kind
		other string
	}
	seen := make(map[key]bool)
	var out []Issue

	for _, is := range issues {
		k := key{is.SheetIndex, is.ItemIndex, is.Kind, is.OtherLabel}
		if !seen[k] {
			seen[k] = true
			out = append(out, is)
		}
	}
	return out
}

// FormatIssues produces one human-readable line per issue.
func FormatIssues(issues []Issue) []string {
	lines := make([]string, 0, len(issues))
	for _, is := range issues {
		prefix := fmt.Sprintf("Sheet %d (%s): %q at %s", is.SheetIndex+1, is.SheetLabel, is.ItemLabel, is.Rect)
		var msg string
		switch is.Kind {
		case KindOutside:
			msg = "extends past the sheet edge"
		case KindMargin:
			msg = "reaches into the sheet margin"
		case KindOverlap:
			msg = fmt.Sprintf("overlaps %q", is.OtherLabel)
		case KindSize:
			msg = "does not match the item size"
		case KindRotation:
			msg = "is rotated but may not be"
		case KindGroup:
			msg = "belongs to another group"
		case KindDuplicated:
			msg = "is placed more often than requested"
		default:
			msg = string(is.Kind)
		}
		lines = append(lines, prefix+" "+msg)
	}
	return lines
}
