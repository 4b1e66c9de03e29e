package model

import (
	"fmt"
	"strings"
)

// UnplaceablePart describes one part that cannot fit any configured stock
// sheet in any permitted orientation.
type UnplaceablePart struct {
	PartID string  `json:"part_id"`
	Label  string  `json:"label"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Reason string  `json:"reason"`
}

// UnplaceablePartsError enumerates every unplaceable part of a run so the
// caller can present all problems at once.
type UnplaceablePartsError struct {
	Parts []UnplaceablePart
}

func (e *UnplaceablePartsError) Error() string {
	if len(e.Parts) == 1 {
		p := e.Parts[0]
		return fmt.Sprintf("part %q (%.0fx%.0fmm) cannot be placed: %s", p.Label, p.Length, p.Width, p.Reason)
	}
	labels := make([]string, len(e.Parts))
	for i, p := range e.Parts {
		labels[i] = p.Label
	}
	return fmt.Sprintf("%d parts cannot be placed: %s", len(e.Parts), strings.Join(labels, ", "))
}

// InsufficientStockError reports that the required part area exceeds what
// the configured stock supply can cover. The run is aborted; a partial
// nesting is not useful to production.
type InsufficientStockError struct {
	MaterialID    string
	Thickness     float64
	RequiredArea  float64 // square mm
	AvailableArea float64 // square mm
}

// Shortfall returns the uncovered area in square mm.
func (e *InsufficientStockError) Shortfall() float64 {
	return e.RequiredArea - e.AvailableArea
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for material %q (%.1fmm): short by %.0f sq mm",
		e.MaterialID, e.Thickness, e.Shortfall())
}

// ConcurrentModificationError reports a lost race on an offcut claim. The
// caller should retry the claim against fresh state, never the whole
// nesting.
type ConcurrentModificationError struct {
	OffcutID string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("offcut %s was modified concurrently", e.OffcutID)
}

// InvalidConfigError reports configuration problems detected before any
// packing attempt.
type InvalidConfigError struct {
	Problems []string
}

func (e *InvalidConfigError) Error() string {
	return "invalid optimization config: " + strings.Join(e.Problems, "; ")
}
