// Package project handles persistence of projects, the stock catalog, and
// application configuration as JSON files under the user's config directory.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// SaveProject writes a project to the specified JSON file. It creates
// parent directories if they do not exist.
func SaveProject(path string, p model.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project from the specified JSON file.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	return p, nil
}

// AddRecentProject prepends a project path to the recent list, deduplicating
// and capping at maxRecent entries.
func AddRecentProject(config *model.AppConfig, path string) {
	const maxRecent = 10

	recent := []string{path}
	for _, r := range config.RecentProjects {
		if r != path {
			recent = append(recent, r)
		}
	}
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	config.RecentProjects = recent
}
