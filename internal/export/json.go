package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/piwi3910/atlaspack/internal/geom"
	"github.com/piwi3910/atlaspack/internal/model"
)

// AtlasMap is the machine-readable layout consumed by game and UI tooling.
type AtlasMap struct {
	Meta     AtlasMeta    `json:"meta"`
	Sheets   []AtlasSheet `json:"sheets"`
	Unplaced []AtlasFrame `json:"unplaced"`
}

type AtlasMeta struct {
	App         string  `json:"app"`
	Algorithm   string  `json:"algorithm"`
	Padding     int     `json:"padding"`
	Margin      int     `json:"margin"`
	AllowRotate bool    `json:"allow_rotate"`
	Efficiency  float64 `json:"efficiency"`
}

type AtlasSheet struct {
	Index      int          `json:"index"`
	Label      string       `json:"label"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Group      string       `json:"group,omitempty"`
	Efficiency float64      `json:"efficiency"`
	Frames     []AtlasFrame `json:"frames"`
}

// AtlasFrame is one item on a sheet. Coordinates are sheet pixels with the
// origin top-left; W and H are the placed (possibly rotated) dimensions.
type AtlasFrame struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w"`
	H        int    `json:"h"`
	Rotated  bool   `json:"rotated,omitempty"`
	NoRotate bool   `json:"no_rotate,omitempty"`
	Group    string `json:"group,omitempty"`
}

// BuildAtlasMap converts a packing result into its exported form.
func BuildAtlasMap(result model.PackResult, settings model.PackSettings) AtlasMap {
	m := AtlasMap{
		Meta: AtlasMeta{
			App:         "atlaspack",
			Algorithm:   string(settings.Algorithm),
			Padding:     settings.Padding,
			Margin:      settings.Margin,
			AllowRotate: settings.AllowRotate,
			Efficiency:  result.TotalEfficiency(),
		},
		Sheets:   make([]AtlasSheet, 0, len(result.Sheets)),
		Unplaced: make([]AtlasFrame, 0, len(result.Unplaced)),
	}

	for i, sr := range result.Sheets {
		sheet := AtlasSheet{
			Index:      i + 1,
			Label:      sr.Sheet.Label,
			Width:      sr.Sheet.Width,
			Height:     sr.Sheet.Height,
			Group:      sr.Sheet.Group,
			Efficiency: sr.Efficiency(),
			Frames:     make([]AtlasFrame, 0, len(sr.Placements)),
		}
		for _, p := range sr.Placements {
			sheet.Frames = append(sheet.Frames, AtlasFrame{
				ID:       p.Item.ID,
				Label:    p.Item.Label,
				X:        p.Rect.Origin.X,
				Y:        p.Rect.Origin.Y,
				W:        p.Rect.Size.Width,
				H:        p.Rect.Size.Height,
				Rotated:  p.Rotated,
				NoRotate: p.Item.NoRotate,
				Group:    p.Item.Group,
			})
		}
		m.Sheets = append(m.Sheets, sheet)
	}

	for _, it := range result.Unplaced {
		m.Unplaced = append(m.Unplaced, AtlasFrame{
			ID:       it.ID,
			Label:    it.Label,
			W:        it.Width,
			H:        it.Height,
			NoRotate: it.NoRotate,
			Group:    it.Group,
		})
	}
	return m
}

// WriteJSON writes the atlas map as indented JSON.
func WriteJSON(w io.Writer, result model.PackResult, settings model.PackSettings) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildAtlasMap(result, settings))
}

// ExportJSON writes the atlas map to path.
func ExportJSON(path string, result model.PackResult, settings model.PackSettings) error {
	if len(result.Sheets) == 0 && len(result.Unplaced) == 0 {
		return ErrNoSheets
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, result, settings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadAtlasMap decodes an atlas map written by WriteJSON. Documents from
// other producers fail with ErrNotAtlasMap.
func ReadAtlasMap(r io.Reader) (AtlasMap, error) {
	var m AtlasMap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return AtlasMap{}, fmt.Errorf("decode atlas map: %w", err)
	}
	if m.Meta.App != "atlaspack" {
		return AtlasMap{}, ErrNotAtlasMap
	}
	return m, nil
}

// LoadAtlasMap reads an atlas map from path.
func LoadAtlasMap(path string) (AtlasMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return AtlasMap{}, err
	}
	defer f.Close()
	return ReadAtlasMap(f)
}

// Result rebuilds the packing result. Item sizes are restored to their
// unrotated dimensions; quantities are one per frame.
func (m AtlasMap) Result() model.PackResult {
	result := model.PackResult{
		Sheets:   make([]model.SheetResult, 0, len(m.Sheets)),
		Unplaced: make([]model.Item, 0, len(m.Unplaced)),
	}
	for _, s := range m.Sheets {
		sr := model.SheetResult{
			Sheet: model.Sheet{Label: s.Label, Width: s.Width, Height: s.Height, Quantity: 1, Group: s.Group},
		}
		for _, f := range s.Frames {
			it := frameItem(f)
			sr.Placements = append(sr.Placements, model.Placement{
				Item:    it,
				Rect:    geom.NewRect(f.X, f.Y, f.W, f.H),
				Rotated: f.Rotated,
			})
		}
		result.Sheets = append(result.Sheets, sr)
	}
	for _, f := range m.Unplaced {
		result.Unplaced = append(result.Unplaced, frameItem(f))
	}
	return result
}

// Settings returns the packing settings recorded in the map. Sort order and
// seed are not recorded and keep their defaults.
func (m AtlasMap) Settings() model.PackSettings {
	s := model.DefaultSettings()
	if m.Meta.Algorithm != "" {
		s.Algorithm = model.Algorithm(m.Meta.Algorithm)
	}
	s.Padding = m.Meta.Padding
	s.Margin = m.Meta.Margin
	s.AllowRotate = m.Meta.AllowRotate
	return s
}

func frameItem(f AtlasFrame) model.Item {
	it := model.Item{
		ID:       f.ID,
		Label:    f.Label,
		Width:    f.W,
		Height:   f.H,
		Quantity: 1,
		NoRotate: f.NoRotate,
		Group:    f.Group,
	}
	if f.Rotated {
		it.Width, it.Height = f.H, f.W
	}
	return it
}
