package model

import (
	"fmt"
	"time"

	"github.com/workshopos/cutengine/internal/geometry"
)

// PlacementRequest is one physical instance of a part needing a location,
// created by expanding Part.Quantity.
type PlacementRequest struct {
	PartID       string  `json:"part_id"`
	Instance     int     `json:"instance"`
	Label        string  `json:"label"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Thickness    float64 `json:"thickness"`
	MaterialID   string  `json:"material_id"`
	Grain        Grain   `json:"grain"`
	DesignItemID string  `json:"design_item_id,omitempty"`
}

// ExpandParts turns a parts list into one placement request per physical
// piece, in input order.
func ExpandParts(parts []Part) []PlacementRequest {
	var requests []PlacementRequest
	for _, p := range parts {
		for i := 0; i < p.Quantity; i++ {
			requests = append(requests, PlacementRequest{
				PartID:       p.ID,
				Instance:     i,
				Label:        p.Label,
				Length:       p.Length,
				Width:        p.Width,
				Thickness:    p.Thickness,
				MaterialID:   p.MaterialID,
				Grain:        p.Grain,
				DesignItemID: p.DesignItemID,
			})
		}
	}
	return requests
}

// ID returns the stable identifier of this placement request.
func (r PlacementRequest) ID() string {
	return fmt.Sprintf("%s#%d", r.PartID, r.Instance)
}

// Area returns the piece area in square mm.
func (r PlacementRequest) Area() float64 { return r.Length * r.Width }

// Placement fixes one placement request at a position on a sheet.
type Placement struct {
	Request      PlacementRequest `json:"request"`
	X            float64          `json:"x"`
	Y            float64          `json:"y"`
	Rotated      bool             `json:"rotated"`
	GrainAligned bool             `json:"grain_aligned"`
}

// PlacedLength returns the extent along X considering rotation.
func (p Placement) PlacedLength() float64 {
	if p.Rotated {
		return p.Request.Width
	}
	return p.Request.Length
}

// PlacedWidth returns the extent along Y considering rotation.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Request.Length
	}
	return p.Request.Width
}

// Rect returns the occupied rectangle (kerf excluded).
func (p Placement) Rect() geometry.Rect {
	return geometry.Rect{X: p.X, Y: p.Y, Length: p.PlacedLength(), Width: p.PlacedWidth()}
}

// WasteRegion is a rectangle of a nesting sheet not covered by any placement.
// Reusable regions become offcuts when the result is harvested.
type WasteRegion struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Area     float64 `json:"area"`
	Reusable bool    `json:"reusable"`
}

// NestingSheet is one physical sheet instance in a production result, owned
// exclusively by that result.
type NestingSheet struct {
	ID                 string           `json:"id"`
	StockSheetID       string           `json:"stock_sheet_id"`
	Length             float64          `json:"length"`
	Width              float64          `json:"width"`
	Placements         []Placement      `json:"placements"`
	WasteRegions       []WasteRegion    `json:"waste_regions"`
	UtilizationPercent float64          `json:"utilization_percent"`
	Splits             []geometry.Split `json:"splits"`
}

// PlacedArea returns the total area covered by placements, kerf excluded.
func (s NestingSheet) PlacedArea() float64 {
	var total float64
	for _, p := range s.Placements {
		total += p.PlacedLength() * p.PlacedWidth()
	}
	return total
}

// Area returns the sheet area in square mm.
func (s NestingSheet) Area() float64 { return s.Length * s.Width }

// CutType classifies a cut operation.
type CutType string

const (
	CutRip      CutType = "rip"      // Vertical cut, parallel to the sheet width
	CutCrosscut CutType = "crosscut" // Horizontal cut, parallel to the sheet length
	CutTrim     CutType = "trim"     // Separates a part or offcut from excess only
)

// CutOperation is one ordered step of a sheet's cut sequence. Sequence
// numbers are dense per sheet and start at 0. The blade consumes the kerf on
// the far side of the recorded line.
type CutOperation struct {
	SheetID          string   `json:"sheet_id"`
	Sequence         int      `json:"sequence"`
	Type             CutType  `json:"type"`
	StartX           float64  `json:"start_x"`
	StartY           float64  `json:"start_y"`
	EndX             float64  `json:"end_x"`
	EndY             float64  `json:"end_y"`
	ResultingPartIDs []string `json:"resulting_part_ids"`
}

// SheetSummary aggregates estimation output per material and thickness.
type SheetSummary struct {
	MaterialID   string  `json:"material_id"`
	Thickness    float64 `json:"thickness"`
	StockSheetID string  `json:"stock_sheet_id"`
	SheetsUsed   int     `json:"sheets_used"`
	SheetCost    float64 `json:"sheet_cost"`
	WastePercent float64 `json:"waste_percent"`
}

// EstimationResult is the fast approximate answer used for quoting. A result
// is current iff InvalidatedAt is unset.
type EstimationResult struct {
	Version             int                 `json:"version"`
	ValidAt             time.Time           `json:"valid_at"`
	InvalidatedAt       *time.Time          `json:"invalidated_at,omitempty"`
	InvalidationReasons []string            `json:"invalidation_reasons,omitempty"`
	Summaries           []SheetSummary      `json:"summaries"`
	TotalSheets         int                 `json:"total_sheets"`
	WastePercent        float64             `json:"waste_percent"`
	RoughCost           float64             `json:"rough_cost"`
	EdgeBanding         *EdgeBandingSummary `json:"edge_banding,omitempty"`
}

// Current reports whether the result is still trustworthy.
func (r *EstimationResult) Current() bool { return r != nil && r.InvalidatedAt == nil }

// Invalidate marks the result stale. Reasons accumulate across detections.
func (r *EstimationResult) Invalidate(at time.Time, reasons []string) {
	if r == nil {
		return
	}
	if r.InvalidatedAt == nil {
		t := at
		r.InvalidatedAt = &t
	}
	r.InvalidationReasons = append(r.InvalidationReasons, reasons...)
}

// ProductionResult is the exact nesting used on the shop floor.
type ProductionResult struct {
	Version             int            `json:"version"`
	ValidAt             time.Time      `json:"valid_at"`
	InvalidatedAt       *time.Time     `json:"invalidated_at,omitempty"`
	InvalidationReasons []string       `json:"invalidation_reasons,omitempty"`
	Sheets              []NestingSheet `json:"sheets"`
	UtilizationPercent  float64        `json:"utilization_percent"`
	TotalCost           float64        `json:"total_cost"`
}

// Current reports whether the result is still trustworthy.
func (r *ProductionResult) Current() bool { return r != nil && r.InvalidatedAt == nil }

// Invalidate marks the result stale. Reasons accumulate across detections.
func (r *ProductionResult) Invalidate(at time.Time, reasons []string) {
	if r == nil {
		return
	}
	if r.InvalidatedAt == nil {
		t := at
		r.InvalidatedAt = &t
	}
	r.InvalidationReasons = append(r.InvalidationReasons, reasons...)
}

// TotalPlacements returns the number of placed pieces across all sheets.
func (r *ProductionResult) TotalPlacements() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, s := range r.Sheets {
		total += len(s.Placements)
	}
	return total
}

// ProjectSnapshot is a deterministic digest of the mutable optimization
// inputs, used only for equality comparison between successive states.
type ProjectSnapshot struct {
	PartsHash            string    `json:"parts_hash"`
	TotalParts           int       `json:"total_parts"`
	MaterialMappingsHash string    `json:"material_mappings_hash"`
	ConfigHash           string    `json:"config_hash"`
	DesignItemIDs        []string  `json:"design_item_ids"`
	DesignItemsHash      string    `json:"design_items_hash"`
	TakenAt              time.Time `json:"taken_at"`
}

// ProjectState is the previously persisted optimization state of a project:
// the latest results and any downstream Katana BOM export derived from them.
type ProjectState struct {
	Estimation     *EstimationResult `json:"estimation,omitempty"`
	Production     *ProductionResult `json:"production,omitempty"`
	KatanaExportID string            `json:"katana_export_id,omitempty"`
	LastSnapshot   *ProjectSnapshot  `json:"last_snapshot,omitempty"`
}

// HasAnyRun reports whether any optimization has ever completed for the
// project.
func (s ProjectState) HasAnyRun() bool {
	return s.Estimation != nil || s.Production != nil
}
