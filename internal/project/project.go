// Package project handles persistence: project files, the shared offcut
// pool, and optimization config in YAML. All engine computation happens on
// loaded data; nothing here blocks an optimization run.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/workshopos/cutengine/internal/model"
)

// Project bundles everything a cutlist project owns: the parts to cut, the
// material palette, linked design items, the optimization config, and the
// latest results with their snapshot.
type Project struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Parts            []model.Part             `json:"parts"`
	MaterialMappings []model.MaterialMapping  `json:"material_mappings,omitempty"`
	DesignItems      []model.DesignItem       `json:"design_items,omitempty"`
	Config           model.OptimizationConfig `json:"config"`
	State            model.ProjectState       `json:"state"`
	CreatedAt        time.Time                `json:"created_at"`
	ModifiedAt       time.Time                `json:"modified_at"`
}

// NewProject creates an empty project with the default stock catalog.
func NewProject(name string) Project {
	now := time.Now().UTC()
	return Project{
		ID:         uuid.New().String()[:8],
		Name:       name,
		Config:     model.DefaultConfig(),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// DefaultDataDir returns the directory holding cutengine data files.
// On all platforms this is ~/.cutengine/
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cutengine")
}

// Save writes the project to the given path as indented JSON, creating
// parent directories as needed. ModifiedAt is stamped on every save.
func Save(path string, p Project) error {
	p.ModifiedAt = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project from the given path.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if p.ID == "" {
		return Project{}, fmt.Errorf("invalid project file: missing id field")
	}
	return p, nil
}
