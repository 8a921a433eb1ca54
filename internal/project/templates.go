package project

import (
	"path/filepath"

	"github.com/piwi3910/atlaspack/internal/model"
)

// DefaultTemplatePath returns ~/.atlaspack/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSONFile(path, store)
}

// LoadTemplates returns an empty store when nothing has been saved yet.
func LoadTemplates(path string) (model.TemplateStore, error) {
	store := model.NewTemplateStore()
	if _, err := readJSONFile(path, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.ProjectTemplate{}
	}
	return store, nil
}
