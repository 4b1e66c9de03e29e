package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/workshopos/cutengine/internal/model"
)

// PoolFile is the on-disk format of the shared offcut pool.
type PoolFile struct {
	Version string         `json:"version"`
	SavedAt time.Time      `json:"saved_at"`
	Offcuts []model.Offcut `json:"offcuts"`
}

const poolFileVersion = "1"

// DefaultPoolPath returns the default file path for the offcut pool,
// located at ~/.cutengine/offcuts.json.
func DefaultPoolPath() string {
	return filepath.Join(DefaultDataDir(), "offcuts.json")
}

// SavePool writes the offcut pool to the specified JSON file. The previous
// file, if any, is kept as a timestamped backup alongside it: the pool is
// shared across projects, so a bad write must never lose claims.
func SavePool(path string, offcuts []model.Offcut) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pool directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		backup := fmt.Sprintf("%s.%s.bak", path, time.Now().UTC().Format("20060102-150405"))
		if err := os.Rename(path, backup); err != nil {
			return fmt.Errorf("failed to back up pool file: %w", err)
		}
	}

	file := PoolFile{
		Version: poolFileVersion,
		SavedAt: time.Now().UTC(),
		Offcuts: offcuts,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pool: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pool file: %w", err)
	}
	return nil
}

// LoadPool reads the offcut pool from the specified JSON file. A missing
// file is an empty pool, not an error.
func LoadPool(path string) ([]model.Offcut, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pool file: %w", err)
	}
	var file PoolFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pool file: %w", err)
	}
	return file.Offcuts, nil
}
