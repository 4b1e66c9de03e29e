package engine

import (
	"fmt"
	"math"

	"github.com/workshopos/cutengine/internal/geometry"
	"github.com/workshopos/cutengine/internal/model"
)

// Violation kinds reported by Validate.
const (
	ViolationMissingPlacement   = "missing_placement"
	ViolationDuplicatePlacement = "duplicate_placement"
	ViolationUnknownPlacement   = "unknown_placement"
	ViolationOverlap            = "overlap"
	ViolationOutOfBounds        = "out_of_bounds"
	ViolationAreaMismatch       = "area_mismatch"
)

// Violation describes one structural defect found in a production result.
type Violation struct {
	SheetID string
	Kind    string
	Detail  string
}

// areaTolerance is the relative slack allowed on the per-sheet area
// identity.
const areaTolerance = 1e-6

// Validate audits a production result against the structural invariant:
// every placement request appears exactly once, no two placements on a sheet
// overlap when inflated by half the kerf on every side, every placement lies
// within its sheet, and placed area plus waste area equals the sheet area.
func Validate(result model.ProductionResult, parts []model.Part, kerf float64) []Violation {
	var violations []Violation

	expected := make(map[string]int)
	for _, r := range model.ExpandParts(parts) {
		expected[r.ID()] = 0
	}
	for _, sheet := range result.Sheets {
		for _, p := range sheet.Placements {
			id := p.Request.ID()
			if _, ok := expected[id]; !ok {
				violations = append(violations, Violation{
					SheetID: sheet.ID, Kind: ViolationUnknownPlacement,
					Detail: fmt.Sprintf("placement %s does not correspond to any input part", id),
				})
				continue
			}
			expected[id]++
		}
	}
	for id, count := range expected {
		switch {
		case count == 0:
			violations = append(violations, Violation{
				Kind:   ViolationMissingPlacement,
				Detail: fmt.Sprintf("request %s was never placed", id),
			})
		case count > 1:
			violations = append(violations, Violation{
				Kind:   ViolationDuplicatePlacement,
				Detail: fmt.Sprintf("request %s placed %d times", id, count),
			})
		}
	}

	for _, sheet := range result.Sheets {
		bounds := geometry.Rect{Length: sheet.Length, Width: sheet.Width}
		for i, p := range sheet.Placements {
			if !bounds.Contains(p.Rect()) {
				violations = append(violations, Violation{
					SheetID: sheet.ID, Kind: ViolationOutOfBounds,
					Detail: fmt.Sprintf("placement %s extends past the sheet edge", p.Request.ID()),
				})
			}
			for j := i + 1; j < len(sheet.Placements); j++ {
				q := sheet.Placements[j]
				if inflate(p.Rect(), kerf/2).Overlaps(inflate(q.Rect(), kerf/2)) {
					violations = append(violations, Violation{
						SheetID: sheet.ID, Kind: ViolationOverlap,
						Detail: fmt.Sprintf("placements %s and %s overlap within kerf clearance",
							p.Request.ID(), q.Request.ID()),
					})
				}
			}
		}

		var wasteArea float64
		for _, w := range sheet.WasteRegions {
			wasteArea += w.Area
		}
		total := sheet.PlacedArea() + wasteArea
		if sheet.Area() > 0 && math.Abs(total-sheet.Area()) > sheet.Area()*areaTolerance {
			violations = append(violations, Violation{
				SheetID: sheet.ID, Kind: ViolationAreaMismatch,
				Detail: fmt.Sprintf("placed %.1f + waste %.1f != sheet %.1f sq mm",
					sheet.PlacedArea(), wasteArea, sheet.Area()),
			})
		}
	}
	return violations
}

// inflate grows a rectangle by d on every side.
func inflate(r geometry.Rect, d float64) geometry.Rect {
	return geometry.Rect{X: r.X - d, Y: r.Y - d, Length: r.Length + 2*d, Width: r.Width + 2*d}
}
