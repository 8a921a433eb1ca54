package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate is a reusable project: items, sheets and settings,
// without a packing result.
type ProjectTemplate struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	Items       []Item       `json:"items"`
	Sheets      []Sheet      `json:"sheets"`
	Settings    PackSettings `json:"settings"`
}

func NewProjectTemplate(name, description string, p Project) ProjectTemplate {
	return ProjectTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Items:       append([]Item{}, p.Items...),
		Sheets:      append([]Sheet{}, p.Sheets...),
		Settings:    p.Settings,
	}
}

// ToProject creates a new Project from this template.
// Items and sheets get fresh IDs so they are independent of the template.
func (t ProjectTemplate) ToProject(name string) Project {
	items := make([]Item, len(t.Items))
	for i, it := range t.Items {
		items[i] = NewItem(it.Label, it.Width, it.Height, it.Quantity)
		items[i].NoRotate = it.NoRotate
		items[i].Group = it.Group
	}

	sheets := make([]Sheet, len(t.Sheets))
	for i, s := range t.Sheets {
		sheets[i] = NewSheet(s.Label, s.Width, s.Height, s.Quantity)
		sheets[i].Group = s.Group
	}

	return Project{
		Name:     name,
		Items:    items,
		Sheets:   sheets,
		Settings: t.Settings,
	}
}

// TemplateStore holds a collection of project templates.
type TemplateStore struct {
	Templates []ProjectTemplate `json:"templates"`
}

func NewTemplateStore() TemplateStore {
	return TemplateStore{Templates: []ProjectTemplate{}}
}

// Put adds t, replacing any template that already has the same name.
func (ts *TemplateStore) Put(t ProjectTemplate) {
	for i := range ts.Templates {
		if ts.Templates[i].Name == t.Name {
			ts.Templates[i] = t
			return
		}
	}
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by name. Returns true if found and removed.
func (ts *TemplateStore) Remove(name string) bool {
	for i, t := range ts.Templates {
		if t.Name == name {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}
