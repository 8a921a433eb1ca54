package project

import (
	"path/filepath"

	"github.com/piwi3910/atlaspack/internal/model"
)

// DefaultInventoryPath returns ~/.atlaspack/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the sheet presets to path.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSONFile(path, inv)
}

// LoadInventory reads the presets at path.
// A missing file yields the default presets; nothing is written.
func LoadInventory(path string) (model.Inventory, error) {
	var inv model.Inventory
	found, err := readJSONFile(path, &inv)
	if err != nil {
		return model.Inventory{}, err
	}
	if !found {
		return model.DefaultInventory(), nil
	}
	return inv, nil
}

// ImportInventory merges the presets stored at path into existing.
// Presets whose ID is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	imported, err := LoadInventory(path)
	if err != nil {
		return existing, err
	}
	return MergeInventory(existing, imported), nil
}

// MergeInventory appends the presets of b that a does not already hold.
func MergeInventory(a, b model.Inventory) model.Inventory {
	ids := make(map[string]bool, len(a.Sheets))
	for _, s := range a.Sheets {
		ids[s.ID] = true
	}
	for _, s := range b.Sheets {
		if !ids[s.ID] {
			a.Sheets = append(a.Sheets, s)
			ids[s.ID] = true
		}
	}
	return a
}
