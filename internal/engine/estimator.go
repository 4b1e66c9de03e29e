package engine

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/workshopos/cutengine/internal/geometry"
	"github.com/workshopos/cutengine/internal/model"
)

// Estimator computes the fast approximate sheet count and waste estimate
// used during quoting. It runs a single-pass shelf packing against the
// cheapest matching stock sheet per material group and never promises exact
// placements, which keeps it cheap enough to re-run on every edit.
type Estimator struct {
	cfg model.OptimizationConfig
}

// NewEstimator returns an estimator for the given config.
func NewEstimator(cfg model.OptimizationConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// partGroup collects the parts of one (material, thickness) combination.
type partGroup struct {
	materialID string
	thickness  float64
	parts      []model.Part
}

// Estimate returns per-material sheet counts, an overall waste percentage
// and a rough cost. Unplaceable parts are reported collectively, never
// silently dropped.
func (e *Estimator) Estimate(parts []model.Part) (model.EstimationResult, error) {
	if err := e.cfg.Validate(); err != nil {
		return model.EstimationResult{}, err
	}

	groups := groupParts(parts)

	var unplaceable []model.UnplaceablePart
	var summaries []model.SheetSummary
	var totalSheets int
	var totalPartArea, totalSheetArea, roughCost float64

	for _, g := range groups {
		stock, ok := e.cheapestStock(g)
		if !ok {
			for _, p := range g.parts {
				unplaceable = append(unplaceable, model.UnplaceablePart{
					PartID: p.ID, Label: p.Label, Length: p.Length, Width: p.Width,
					Reason: "no stock sheet matches the part material and thickness",
				})
			}
			continue
		}

		var fitting []model.Part
		for _, p := range g.parts {
			if e.orientationFor(p, stock) == nil {
				unplaceable = append(unplaceable, model.UnplaceablePart{
					PartID: p.ID, Label: p.Label, Length: p.Length, Width: p.Width,
					Reason: "part exceeds every compatible stock sheet size",
				})
				continue
			}
			fitting = append(fitting, p)
		}
		if len(fitting) == 0 {
			continue
		}

		sheets, partArea := e.shelfPack(fitting, stock)
		sheetArea := float64(sheets) * stock.Area()
		waste := 0.0
		if sheetArea > 0 {
			waste = (1.0 - partArea/sheetArea) * 100.0
		}
		summaries = append(summaries, model.SheetSummary{
			MaterialID:   g.materialID,
			Thickness:    g.thickness,
			StockSheetID: stock.ID,
			SheetsUsed:   sheets,
			SheetCost:    float64(sheets) * stock.CostPerSheet,
			WastePercent: waste,
		})
		totalSheets += sheets
		totalPartArea += partArea
		totalSheetArea += sheetArea
		roughCost += float64(sheets) * stock.CostPerSheet
	}

	if len(unplaceable) > 0 {
		return model.EstimationResult{}, &model.UnplaceablePartsError{Parts: unplaceable}
	}

	result := model.EstimationResult{
		Version:     1,
		ValidAt:     time.Now().UTC(),
		Summaries:   summaries,
		TotalSheets: totalSheets,
		RoughCost:   roughCost,
	}
	if totalSheetArea > 0 {
		result.WastePercent = (1.0 - totalPartArea/totalSheetArea) * 100.0
	}

	banding := model.CalculateEdgeBanding(parts, e.cfg.EdgeBanding)
	if banding.PartCount > 0 {
		result.EdgeBanding = &banding
		result.RoughCost += banding.Cost
	}
	return result, nil
}

// groupParts splits a parts list into (material, thickness) groups in
// deterministic order.
func groupParts(parts []model.Part) []partGroup {
	type key struct {
		material  string
		thickness float64
	}
	byKey := make(map[key][]model.Part)
	for _, p := range parts {
		k := key{strings.ToLower(p.MaterialID), p.Thickness}
		byKey[k] = append(byKey[k], p)
	}
	keys := make([]key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].material != keys[j].material {
			return keys[i].material < keys[j].material
		}
		return keys[i].thickness < keys[j].thickness
	})
	groups := make([]partGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, partGroup{materialID: k.material, thickness: k.thickness, parts: byKey[k]})
	}
	return groups
}

// cheapestStock picks the matching stock type with the lowest per-sheet
// cost; ties fall to the smaller sheet, then the stock ID.
func (e *Estimator) cheapestStock(g partGroup) (model.StockSheet, bool) {
	var best model.StockSheet
	found := false
	for _, s := range e.cfg.StockSheets {
		if !s.MatchesMaterial(g.materialID, g.thickness) {
			continue
		}
		if !found {
			best, found = s, true
			continue
		}
		if s.CostPerSheet < best.CostPerSheet ||
			(s.CostPerSheet == best.CostPerSheet && s.Area() < best.Area()) ||
			(s.CostPerSheet == best.CostPerSheet && s.Area() == best.Area() && s.ID < best.ID) {
			best = s
		}
	}
	return best, found
}

// orientationFor returns the shelf orientation for a part on the given
// stock: the permitted orientation with the smaller shelf height that fits
// the sheet, or nil when none fits.
func (e *Estimator) orientationFor(p model.Part, stock model.StockSheet) *orientation {
	normalAligned, rotatedAligned := model.CanPlaceWithGrain(p.Grain)
	full := geometry.Rect{Length: stock.Length, Width: stock.Width}

	var candidates []orientation
	if !e.cfg.GrainMatching || normalAligned {
		candidates = append(candidates, orientation{length: p.Length, width: p.Width, aligned: normalAligned})
	}
	if e.cfg.AllowRotation && p.Length != p.Width {
		if !e.cfg.GrainMatching || rotatedAligned {
			candidates = append(candidates, orientation{length: p.Width, width: p.Length, rotated: true, aligned: rotatedAligned})
		}
	}

	var best *orientation
	for i := range candidates {
		o := candidates[i]
		if !geometry.Fits(o.length, o.width, full, e.cfg.Kerf) {
			continue
		}
		if best == nil || o.width < best.width {
			best = &candidates[i]
		}
	}
	return best
}

// shelfPack runs the single-pass shelf approximation: pieces sorted by area
// descending fill rows along the sheet length; a new shelf opens when the
// row is full and a new sheet when the shelves exceed the sheet width.
// Returns the sheet count upper bound and the total part area.
func (e *Estimator) shelfPack(parts []model.Part, stock model.StockSheet) (int, float64) {
	type piece struct {
		length, width float64
	}
	var pieces []piece
	var partArea float64
	for _, p := range parts {
		o := e.orientationFor(p, stock)
		for i := 0; i < p.Quantity; i++ {
			pieces = append(pieces, piece{length: o.length, width: o.width})
			partArea += p.Area()
		}
	}
	sort.SliceStable(pieces, func(i, j int) bool {
		return pieces[i].length*pieces[i].width > pieces[j].length*pieces[j].width
	})

	kerf := e.cfg.Kerf
	sheets := 1
	x, y, shelfH := 0.0, 0.0, 0.0
	for _, pc := range pieces {
		pl := pc.length + kerf
		pw := pc.width + kerf
		if x+pc.length > stock.Length+geometry.Epsilon {
			y += shelfH
			x, shelfH = 0, 0
		}
		if y+pc.width > stock.Width+geometry.Epsilon {
			sheets++
			x, y, shelfH = 0, 0, 0
		}
		x += pl
		shelfH = math.Max(shelfH, pw)
	}
	return sheets, partArea
}
