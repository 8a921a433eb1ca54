package model

import (
	"github.com/google/uuid"

	"github.com/piwi3910/atlaspack/internal/geom"
)

// Item represents one requested rectangle, e.g. a sprite or lightmap tile.
type Item struct {
	ID       string `json:"id" toml:"id"`
	Label    string `json:"label" toml:"label"`
	Width    int    `json:"width" toml:"width"`   // px
	Height   int    `json:"height" toml:"height"` // px
	Quantity int    `json:"quantity" toml:"quantity"`
	NoRotate bool   `json:"no_rotate,omitempty" toml:"no_rotate,omitempty"` // Must keep its orientation
	Group    string `json:"group,omitempty" toml:"group,omitempty"`         // Only packed onto sheets of the same group
}

func NewItem(label string, w, h, qty int) Item {
	return Item{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Size returns the item's unrotated dimensions.
func (it Item) Size() geom.Size {
	return geom.Sz(it.Width, it.Height)
}

// Sheet represents an available packing surface, e.g. one atlas page.
type Sheet struct {
	ID       string `json:"id" toml:"id"`
	Label    string `json:"label" toml:"label"`
	Width    int    `json:"width" toml:"width"`   // px
	Height   int    `json:"height" toml:"height"` // px
	Quantity int    `json:"quantity" toml:"quantity"`
	Group    string `json:"group,omitempty" toml:"group,omitempty"`
}

func NewSheet(label string, w, h, qty int) Sheet {
	return Sheet{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Size returns the sheet dimensions.
func (s Sheet) Size() geom.Size {
	return geom.Sz(s.Width, s.Height)
}

// Algorithm represents the optimizer algorithm to use.
type Algorithm string

const (
	AlgorithmBSP     Algorithm = "bsp"     // Greedy binary space partitioning (fast)
	AlgorithmGenetic Algorithm = "genetic" // Genetic search over insertion orders (slower, often better)
)

// SortKey selects the order in which the greedy optimizer feeds items to a sheet.
type SortKey string

const (
	SortArea    SortKey = "area"
	SortMaxSide SortKey = "max-side"
	SortHeight  SortKey = "height"
	SortWidth   SortKey = "width"
	SortNone    SortKey = "none" // Keep input order
)

// SortKeys lists every accepted sort key.
func SortKeys() []SortKey {
	return []SortKey{SortArea, SortMaxSide, SortHeight, SortWidth, SortNone}
}

// PackSettings holds the optimizer configuration.
type PackSettings struct {
	Algorithm   Algorithm `json:"algorithm" toml:"algorithm"`
	Padding     int       `json:"padding" toml:"padding"`           // Gap added right of and below every item (px)
	Margin      int       `json:"margin" toml:"margin"`             // Reserved border on each sheet edge (px)
	Sort        SortKey   `json:"sort" toml:"sort"`                 // Greedy feed order
	AllowRotate bool      `json:"allow_rotate" toml:"allow_rotate"` // Global switch for 90 degree rotation
	Seed        int64     `json:"seed" toml:"seed"`                 // Genetic algorithm RNG seed
	Generations int       `json:"generations" toml:"generations"`   // Genetic generations, 0 = scale with item count
}

func DefaultSettings() PackSettings {
	return PackSettings{
		Algorithm:   AlgorithmBSP,
		Padding:     2,
		Margin:      0,
		Sort:        SortArea,
		AllowRotate: true,
		Seed:        42,
	}
}

// CanRotate reports whether the item may be placed turned by 90 degrees.
func (s PackSettings) CanRotate(it Item) bool {
	return s.AllowRotate && !it.NoRotate && it.Width != it.Height
}

// Placement represents a single item placed on a sheet.
type Placement struct {
	Item    Item      `json:"item" toml:"item"`
	Rect    geom.Rect `json:"rect" toml:"rect"`       // Sheet-absolute, padding excluded
	Rotated bool      `json:"rotated" toml:"rotated"` // Whether the item was turned 90°
}

// SheetResult represents one sheet with its placed items.
type SheetResult struct {
	Sheet      Sheet       `json:"sheet" toml:"sheet"`
	Placements []Placement `json:"placements" toml:"placements"`
	Free       []geom.Rect `json:"free,omitempty" toml:"free,omitempty"` // Unused regions left on the sheet
}

// UsedArea returns the total area covered by placed items.
func (sr SheetResult) UsedArea() int {
	total := 0
	for _, p := range sr.Placements {
		total += p.Rect.Size.Area()
	}
	return total
}

// TotalArea returns the sheet area.
func (sr SheetResult) TotalArea() int {
	return sr.Sheet.Size().Area()
}

// Efficiency returns the usage percentage.
func (sr SheetResult) Efficiency() float64 {
	ta := sr.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(sr.UsedArea()) / float64(ta) * 100.0
}

// PackResult holds the full solution.
type PackResult struct {
	Sheets   []SheetResult `json:"sheets" toml:"sheets"`
	Unplaced []Item        `json:"unplaced" toml:"unplaced"`
}

// TotalEfficiency returns overall usage percentage across all used sheets.
func (pr PackResult) TotalEfficiency() float64 {
	var used, total int
	for _, s := range pr.Sheets {
		used += s.UsedArea()
		total += s.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100.0
}

// PlacedCount returns the number of placements across all sheets.
func (pr PackResult) PlacedCount() int {
	n := 0
	for _, s := range pr.Sheets {
		n += len(s.Placements)
	}
	return n
}

// Project ties everything together for save/load.
type Project struct {
	Name     string       `json:"name" toml:"name"`
	Items    []Item       `json:"items" toml:"items"`
	Sheets   []Sheet      `json:"sheets" toml:"sheets"`
	Settings PackSettings `json:"settings" toml:"settings"`
	Result   *PackResult  `json:"result,omitempty" toml:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Items:    []Item{},
		Sheets:   []Sheet{},
		Settings: DefaultSettings(),
	}
}
