package model

import "github.com/google/uuid"

// SheetPreset represents a reusable sheet definition, e.g. a common
// texture size.
type SheetPreset struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Group  string `json:"group,omitempty"`
}

// NewSheetPreset creates a new SheetPreset with a generated ID.
func NewSheetPreset(name string, width, height int) SheetPreset {
	return SheetPreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Width:  width,
		Height: height,
	}
}

// ToSheet converts a SheetPreset into a Sheet with the given quantity.
func (sp SheetPreset) ToSheet(qty int) Sheet {
	sheet := NewSheet(sp.Name, sp.Width, sp.Height, qty)
	sheet.Group = sp.Group
	return sheet
}

// Inventory holds the user's saved sheet presets.
type Inventory struct {
	Sheets []SheetPreset `json:"sheets"`
}

// DefaultInventory returns an inventory populated with common GPU texture sizes.
func DefaultInventory() Inventory {
	return Inventory{
		Sheets: []SheetPreset{
			NewSheetPreset("Atlas 256", 256, 256),
			NewSheetPreset("Atlas 512", 512, 512),
			NewSheetPreset("Atlas 1024", 1024, 1024),
			NewSheetPreset("Atlas 2048", 2048, 2048),
			NewSheetPreset("Atlas 4096", 4096, 4096),
			NewSheetPreset("Lightmap 1024x512", 1024, 512),
		},
	}
}

// FindSheetByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindSheetByID(id string) *SheetPreset {
	for i := range inv.Sheets {
		if inv.Sheets[i].ID == id {
			return &inv.Sheets[i]
		}
	}
	return nil
}

// FindSheetByName returns a pointer to the first preset with the given name, or nil.
func (inv *Inventory) FindSheetByName(name string) *SheetPreset {
	for i := range inv.Sheets {
		if inv.Sheets[i].Name == name {
			return &inv.Sheets[i]
		}
	}
	return nil
}

// SheetNames returns the preset names in inventory order.
func (inv *Inventory) SheetNames() []string {
	names := make([]string, len(inv.Sheets))
	for i, s := range inv.Sheets {
		names[i] = s.Name
	}
	return names
}

// RemoveSheetByName removes the first preset with the given name.
// Returns true if one was removed.
func (inv *Inventory) RemoveSheetByName(name string) bool {
	for i := range inv.Sheets {
		if inv.Sheets[i].Name == name {
			inv.Sheets = append(inv.Sheets[:i], inv.Sheets[i+1:]...)
			return true
		}
	}
	return false
}
