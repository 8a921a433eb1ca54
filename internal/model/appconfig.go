package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default packing settings applied to new projects
	DefaultAlgorithm   Algorithm `json:"default_algorithm"`
	DefaultPadding     int       `json:"default_padding"`
	DefaultMargin      int       `json:"default_margin"`
	DefaultSort        SortKey   `json:"default_sort"`
	DefaultAllowRotate bool      `json:"default_allow_rotate"`
	DefaultSheetPreset string    `json:"default_sheet_preset"` // Name of a SheetPreset used when --sheet is omitted

	// Application preferences
	LogLevel       string   `json:"log_level"` // "debug", "info", "warn", "error"
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAlgorithm:   defaults.Algorithm,
		DefaultPadding:     defaults.Padding,
		DefaultMargin:      defaults.Margin,
		DefaultSort:        defaults.Sort,
		DefaultAllowRotate: defaults.AllowRotate,
		DefaultSheetPreset: "Atlas 2048",
		LogLevel:           "info",
		RecentProjects:     []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.Algorithm = c.DefaultAlgorithm
	s.Padding = c.DefaultPadding
	s.Margin = c.DefaultMargin
	s.Sort = c.DefaultSort
	s.AllowRotate = c.DefaultAllowRotate
}

// maxRecentProjects bounds the RecentProjects list.
const maxRecentProjects = 10

// AddRecentProject moves path to the front of RecentProjects, dropping
// duplicates and trimming the list.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentProjects {
		recent = recent[:maxRecentProjects]
	}
	c.RecentProjects = recent
}
