package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultStrategy    string  `json:"default_strategy"`
	DefaultKerfWidth   float64 `json:"default_kerf_width"`
	DefaultEdgeTrim    float64 `json:"default_edge_trim"`
	DefaultWasteFactor float64 `json:"default_waste_factor"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	HistoryLimit   int      `json:"history_limit"` // Max retained optimization runs, 0 = unlimited
}

// DefaultAppConfig returns an AppConfig matching DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultStrategy:    string(defaults.Strategy),
		DefaultKerfWidth:   defaults.KerfWidth,
		DefaultEdgeTrim:    defaults.EdgeTrim,
		DefaultWasteFactor: defaults.WasteFactor,
		RecentProjects:     []string{},
		HistoryLimit:       100,
	}
}

// ApplyToSettings copies the config defaults into a Settings struct.
// Used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultStrategy != "" {
		s.Strategy = Strategy(c.DefaultStrategy)
	}
	s.KerfWidth = c.DefaultKerfWidth
	s.EdgeTrim = c.DefaultEdgeTrim
	s.WasteFactor = c.DefaultWasteFactor
}
