package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/workshopos/cutengine/internal/model"
)

// yamlConfig mirrors model.OptimizationConfig with YAML field names. The
// engine types keep JSON tags only; the YAML surface lives here so config
// files stay readable without leaking serialization concerns into the model.
type yamlConfig struct {
	Kerf            float64     `yaml:"kerf"`
	GrainMatching   bool        `yaml:"grain_matching"`
	AllowRotation   bool        `yaml:"allow_rotation"`
	PrioritizeGrain bool        `yaml:"prioritize_grain"`
	TargetYield     float64     `yaml:"target_yield"`
	MinimumCutoff   yamlCutoff  `yaml:"minimum_usable_cutoff"`
	EdgeBanding     yamlBanding `yaml:"edge_banding"`
	StockSheets     []yamlStock `yaml:"stock_sheets"`
}

type yamlCutoff struct {
	Length float64 `yaml:"length"`
	Width  float64 `yaml:"width"`
}

type yamlBanding struct {
	WastePercent float64 `yaml:"waste_percent"`
	CostPerMeter float64 `yaml:"cost_per_meter"`
}

type yamlStock struct {
	ID           string  `yaml:"id"`
	Label        string  `yaml:"label"`
	Material     string  `yaml:"material"`
	Length       float64 `yaml:"length"`
	Width        float64 `yaml:"width"`
	Thickness    float64 `yaml:"thickness"`
	Quantity     int     `yaml:"quantity"`
	CostPerSheet float64 `yaml:"cost_per_sheet"`
}

// DefaultConfigPath returns the default path for the optimization config
// file, located at ~/.cutengine/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// SaveConfig persists an optimization config to the given path as YAML,
// creating parent directories as needed.
func SaveConfig(path string, cfg model.OptimizationConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	yc := yamlConfig{
		Kerf:            cfg.Kerf,
		GrainMatching:   cfg.GrainMatching,
		AllowRotation:   cfg.AllowRotation,
		PrioritizeGrain: cfg.PrioritizeGrain,
		TargetYield:     cfg.TargetYield,
		MinimumCutoff:   yamlCutoff{Length: cfg.MinimumUsableCutoff.Length, Width: cfg.MinimumUsableCutoff.Width},
		EdgeBanding:     yamlBanding{WastePercent: cfg.EdgeBanding.WastePercent, CostPerMeter: cfg.EdgeBanding.CostPerMeter},
	}
	for _, s := range cfg.StockSheets {
		yc.StockSheets = append(yc.StockSheets, yamlStock{
			ID:           s.ID,
			Label:        s.Label,
			Material:     s.MaterialID,
			Length:       s.Length,
			Width:        s.Width,
			Thickness:    s.Thickness,
			Quantity:     s.Quantity,
			CostPerSheet: s.CostPerSheet,
		})
	}

	data, err := yaml.Marshal(yc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConfig reads an optimization config from the given path. If the file
// does not exist, it returns DefaultConfig with no error.
func LoadConfig(path string) (model.OptimizationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return model.OptimizationConfig{}, err
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return model.OptimizationConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := model.OptimizationConfig{
		Kerf:            yc.Kerf,
		GrainMatching:   yc.GrainMatching,
		AllowRotation:   yc.AllowRotation,
		PrioritizeGrain: yc.PrioritizeGrain,
		TargetYield:     yc.TargetYield,
		MinimumUsableCutoff: model.Cutoff{
			Length: yc.MinimumCutoff.Length,
			Width:  yc.MinimumCutoff.Width,
		},
		EdgeBanding: model.EdgeBandingSettings{
			WastePercent: yc.EdgeBanding.WastePercent,
			CostPerMeter: yc.EdgeBanding.CostPerMeter,
		},
	}
	for _, s := range yc.StockSheets {
		cfg.StockSheets = append(cfg.StockSheets, model.StockSheet{
			ID:           s.ID,
			Label:        s.Label,
			MaterialID:   s.Material,
			Length:       s.Length,
			Width:        s.Width,
			Thickness:    s.Thickness,
			Quantity:     s.Quantity,
			CostPerSheet: s.CostPerSheet,
		})
	}
	if len(cfg.StockSheets) == 0 {
		cfg.StockSheets = model.DefaultStockCatalog()
	}
	return cfg, nil
}
