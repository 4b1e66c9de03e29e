package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshopos/cutengine/internal/model"
)

func TestNewProject_Defaults(t *testing.T) {
	p := NewProject("Kitchen")

	assert.Len(t, p.ID, 8)
	assert.Equal(t, "Kitchen", p.Name)
	assert.NotEmpty(t, p.Config.StockSheets)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProject_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "project.json")

	p := NewProject("Wardrobe")
	p.Parts = []model.Part{model.NewPart("Side", 600, 400, 2)}
	p.DesignItems = []model.DesignItem{{ID: "d1", Name: "Carcass", Revision: 3}}
	p.State.Estimation = &model.EstimationResult{Version: 2, ValidAt: time.Now().UTC(), TotalSheets: 1}

	require.NoError(t, Save(path, p))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, p.Name, loaded.Name)
	require.Len(t, loaded.Parts, 1)
	assert.Equal(t, p.Parts[0].ID, loaded.Parts[0].ID)
	require.NotNil(t, loaded.State.Estimation)
	assert.Equal(t, 2, loaded.State.Estimation.Version)
	assert.Equal(t, 3, loaded.DesignItems[0].Revision)
}

func TestProject_LoadRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x"}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestProject_LoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestPool_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offcuts.json")
	now := time.Now().UTC().Truncate(time.Second)
	offcuts := []model.Offcut{
		{ID: "a1b2c3d4", Material: "Plywood", Length: 400, Width: 300, Thickness: 18, Available: true, CreatedAt: now},
	}

	require.NoError(t, SavePool(path, offcuts))

	loaded, err := LoadPool(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a1b2c3d4", loaded[0].ID)
	assert.True(t, loaded[0].Available)
}

func TestPool_MissingFileIsEmptyPool(t *testing.T) {
	loaded, err := LoadPool(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestPool_SaveKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offcuts.json")

	require.NoError(t, SavePool(path, []model.Offcut{{ID: "first"}}))
	require.NoError(t, SavePool(path, []model.Offcut{{ID: "second"}}))

	matches, err := filepath.Glob(path + ".*.bak")
	require.NoError(t, err)
	assert.Len(t, matches, 1, "the previous pool file survives as a backup")

	loaded, err := LoadPool(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "second", loaded[0].ID)
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := model.DefaultConfig()
	cfg.Kerf = 2.8
	cfg.GrainMatching = true
	cfg.StockSheets = []model.StockSheet{{
		ID: "ply-2440", Label: "Plywood", MaterialID: "Plywood",
		Length: 2440, Width: 1220, Thickness: 18, Quantity: 10, CostPerSheet: 85,
	}}

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2.8, loaded.Kerf)
	assert.True(t, loaded.GrainMatching)
	require.Len(t, loaded.StockSheets, 1)
	assert.Equal(t, "ply-2440", loaded.StockSheets[0].ID)
	assert.Equal(t, "Plywood", loaded.StockSheets[0].MaterialID)
	assert.Equal(t, 10, loaded.StockSheets[0].Quantity)
	assert.Equal(t, cfg.MinimumUsableCutoff, loaded.MinimumUsableCutoff)
}

func TestConfig_MissingFileReturnsDefaults(t *testing.T) {
	loaded, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.StockSheets)
	assert.Equal(t, model.DefaultConfig().Kerf, loaded.Kerf)
}
