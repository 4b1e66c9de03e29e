// Package model holds the domain types shared by the nesting engine, the
// cut sequencer, the invalidation detector and the offcut tracker. All
// lengths are millimeters, costs are abstract currency units, percentages
// are 0-100 floats.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// Grain represents the grain direction constraint for a part. Stock sheets
// are assumed to have their grain running along the sheet length, so a part
// whose grain runs along its own length is aligned when placed unrotated.
type Grain int

const (
	GrainNone   Grain = iota // No grain constraint, can rotate freely
	GrainLength              // Grain runs along the part length
	GrainWidth               // Grain runs along the part width
)

func (g Grain) String() string {
	switch g {
	case GrainLength:
		return "Length"
	case GrainWidth:
		return "Width"
	default:
		return "None"
	}
}

// Part represents a required panel piece to be cut. Quantity expands into
// that many identical placement requests when submitted to a run.
type Part struct {
	ID           string           `json:"id"`
	Label        string           `json:"label"`
	Length       float64          `json:"length"`
	Width        float64          `json:"width"`
	Thickness    float64          `json:"thickness"`
	MaterialID   string           `json:"material_id"`
	Quantity     int              `json:"quantity"`
	Grain        Grain            `json:"grain"`
	DesignItemID string           `json:"design_item_id,omitempty"`
	EdgeBanding  EdgeBandingFlags `json:"edge_banding"`
}

// NewPart creates a part with a generated ID and no grain constraint.
func NewPart(label string, length, width float64, qty int) Part {
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Width:    width,
		Quantity: qty,
		Grain:    GrainNone,
	}
}

// Area returns the area of a single piece in square mm.
func (p Part) Area() float64 { return p.Length * p.Width }

// StockSheet represents a purchasable sheet type. Quantity <= 0 means the
// supply is uncapped.
type StockSheet struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	MaterialID   string  `json:"material_id"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Thickness    float64 `json:"thickness"`
	Quantity     int     `json:"quantity"`
	CostPerSheet float64 `json:"cost_per_sheet"`
}

// NewStockSheet creates a stock sheet type with a generated ID.
func NewStockSheet(label, materialID string, length, width float64, qty int) StockSheet {
	return StockSheet{
		ID:         uuid.New().String()[:8],
		Label:      label,
		MaterialID: materialID,
		Length:     length,
		Width:      width,
		Quantity:   qty,
	}
}

// Area returns the sheet area in square mm.
func (s StockSheet) Area() float64 { return s.Length * s.Width }

// Uncapped reports whether the sheet type has unlimited supply.
func (s StockSheet) Uncapped() bool { return s.Quantity <= 0 }

// MatchesMaterial reports whether a part of the given material and thickness
// can be cut from this sheet type. Empty material and zero thickness act as
// wildcards on either side.
func (s StockSheet) MatchesMaterial(materialID string, thickness float64) bool {
	if s.MaterialID != "" && materialID != "" && !strings.EqualFold(s.MaterialID, materialID) {
		return false
	}
	if s.Thickness != 0 && thickness != 0 && s.Thickness != thickness {
		return false
	}
	return true
}

// CanPlaceWithGrain returns which orientations keep a part's grain aligned
// with the sheet grain: normal (length along sheet length) and rotated.
// Parts without a grain constraint are aligned either way.
func CanPlaceWithGrain(g Grain) (normal, rotated bool) {
	switch g {
	case GrainLength:
		return true, false
	case GrainWidth:
		return false, true
	default:
		return true, true
	}
}

// Cutoff holds the minimum usable offcut dimensions. A waste region whose
// long side exceeds Length and short side exceeds Width is kept as reusable.
type Cutoff struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// EdgeBandingSettings configures the edge banding takeoff included with
// estimation results.
type EdgeBandingSettings struct {
	WastePercent float64 `json:"waste_percent"`
	CostPerMeter float64 `json:"cost_per_meter"`
}

// OptimizationConfig is supplied by the caller and never mutated by the
// engine.
type OptimizationConfig struct {
	Kerf                float64             `json:"kerf"`
	StockSheets         []StockSheet        `json:"stock_sheets"`
	GrainMatching       bool                `json:"grain_matching"`
	EdgeBanding         EdgeBandingSettings `json:"edge_banding"`
	TargetYield         float64             `json:"target_yield"`
	AllowRotation       bool                `json:"allow_rotation"`
	PrioritizeGrain     bool                `json:"prioritize_grain"`
	MinimumUsableCutoff Cutoff              `json:"minimum_usable_cutoff"`
}

// DefaultConfig returns a config with common panel-saw defaults and the
// standard stock catalog.
func DefaultConfig() OptimizationConfig {
	return OptimizationConfig{
		Kerf:                3.2,
		StockSheets:         DefaultStockCatalog(),
		AllowRotation:       true,
		TargetYield:         70.0,
		MinimumUsableCutoff: Cutoff{Length: 150, Width: 75},
		EdgeBanding:         EdgeBandingSettings{WastePercent: 10},
	}
}

// Validate fails fast on configurations no packing attempt should see.
func (c OptimizationConfig) Validate() error {
	var problems []string
	if c.Kerf < 0 {
		problems = append(problems, "kerf must not be negative")
	}
	if len(c.StockSheets) == 0 {
		problems = append(problems, "stock catalog is empty")
	}
	for _, s := range c.StockSheets {
		if s.Length <= 0 || s.Width <= 0 {
			problems = append(problems, "stock sheet "+s.ID+" has non-positive dimensions")
		}
		if s.CostPerSheet < 0 {
			problems = append(problems, "stock sheet "+s.ID+" has negative cost")
		}
	}
	if c.TargetYield < 0 || c.TargetYield > 100 {
		problems = append(problems, "target yield must be between 0 and 100")
	}
	if c.MinimumUsableCutoff.Length < 0 || c.MinimumUsableCutoff.Width < 0 {
		problems = append(problems, "minimum usable cutoff must not be negative")
	}
	if len(problems) > 0 {
		return &InvalidConfigError{Problems: problems}
	}
	return nil
}

// FindStockSheet returns the stock sheet type with the given ID, or nil.
func (c OptimizationConfig) FindStockSheet(id string) *StockSheet {
	for i := range c.StockSheets {
		if c.StockSheets[i].ID == id {
			return &c.StockSheets[i]
		}
	}
	return nil
}

// DefaultStockCatalog returns common sheet sizes used as a starting catalog.
func DefaultStockCatalog() []StockSheet {
	mk := func(label, material string, l, w, t, cost float64) StockSheet {
		s := NewStockSheet(label, material, l, w, 0)
		s.Thickness = t
		s.CostPerSheet = cost
		return s
	}
	return []StockSheet{
		mk("Plywood 2440x1220 18mm", "Plywood", 2440, 1220, 18, 85),
		mk("Plywood 1220x610 18mm", "Plywood", 1220, 610, 18, 28),
		mk("MDF 2440x1220 18mm", "MDF", 2440, 1220, 18, 42),
		mk("MDF 1220x610 18mm", "MDF", 1220, 610, 18, 15),
		mk("Melamine 2440x1220 16mm", "Melamine", 2440, 1220, 16, 55),
	}
}

// MaterialMapping links a design palette color to a concrete material. The
// design collaborator supplies these; the engine only hashes them for
// invalidation.
type MaterialMapping struct {
	PaletteColor string `json:"palette_color"`
	MaterialID   string `json:"material_id"`
}

// DesignItem is the engine-visible slice of a linked design document: its
// identity and a revision counter bumped by the design collaborator on every
// edit.
type DesignItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Revision int    `json:"revision"`
}
