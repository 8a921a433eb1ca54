package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/atlaspack/internal/model"
)

// Format is the on-disk encoding of a project file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from the file extension; anything other
// than .toml is JSON.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// SaveProject writes p to path, creating parent directories as needed.
func SaveProject(path string, p model.Project) error {
	var data []byte
	switch FormatFor(path) {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
		data = buf.Bytes()
	default:
		var err error
		data, err = json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project file. Settings missing from the file fall back
// to model.DefaultSettings, and items or sheets without a quantity count once.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, err
	}

	p := model.NewProject()
	switch FormatFor(path) {
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	default:
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	for i := range p.Items {
		if p.Items[i].Quantity <= 0 {
			p.Items[i].Quantity = 1
		}
	}
	for i := range p.Sheets {
		if p.Sheets[i].Quantity <= 0 {
			p.Sheets[i].Quantity = 1
		}
	}
	return p, nil
}
