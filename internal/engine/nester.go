// Package engine implements the two packing stages: the shelf-packing
// estimator used for quoting and the exact guillotine nester used for
// production.
package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/workshopos/cutengine/internal/geometry"
	"github.com/workshopos/cutengine/internal/model"
)

// Nester computes exact, deterministic production nestings. Identical inputs
// always produce identical output.
type Nester struct {
	cfg model.OptimizationConfig
}

// NewNester returns a nester for the given config.
func NewNester(cfg model.OptimizationConfig) *Nester {
	return &Nester{cfg: cfg}
}

// orientation is one way a placement request can lie on a sheet.
type orientation struct {
	length, width float64
	rotated       bool
	aligned       bool
}

// openSheet is one physical sheet being packed.
type openSheet struct {
	stock      model.StockSheet
	free       []geometry.Rect
	placements []model.Placement
	splits     []geometry.Split
}

// requestGroup holds the placement requests and compatible stock types for
// one (material, thickness) combination. Groups never share sheets.
// materialID is the lowercased grouping key; displayMaterial keeps the
// caller's casing for error reporting.
type requestGroup struct {
	materialID      string
	displayMaterial string
	thickness       float64
	requests        []model.PlacementRequest
	stocks          []model.StockSheet
}

// Nest places every part instance on a concrete sheet and records the
// guillotine splits that isolate it. It returns a structured error when any
// part is unplaceable or the configured stock supply cannot cover the
// required area; partial nestings are never returned.
func (n *Nester) Nest(parts []model.Part) (model.ProductionResult, error) {
	if err := n.cfg.Validate(); err != nil {
		return model.ProductionResult{}, err
	}

	requests := model.ExpandParts(parts)
	groups := groupRequests(requests, n.cfg.StockSheets)

	if err := n.scanUnplaceable(groups); err != nil {
		return model.ProductionResult{}, err
	}

	supply := make(map[string]int, len(n.cfg.StockSheets))
	for _, s := range n.cfg.StockSheets {
		if s.Uncapped() {
			supply[s.ID] = math.MaxInt32
		} else {
			supply[s.ID] = s.Quantity
		}
	}

	if err := checkStockArea(groups, supply); err != nil {
		return model.ProductionResult{}, err
	}

	result := model.ProductionResult{Version: 1, ValidAt: time.Now().UTC()}
	sheetIndex := 0
	for _, g := range groups {
		sheets, err := n.packGroup(g, supply)
		if err != nil {
			return model.ProductionResult{}, err
		}
		for _, sh := range sheets {
			result.Sheets = append(result.Sheets, n.finalizeSheet(sh, sheetIndex))
			result.TotalCost += sh.stock.CostPerSheet
			sheetIndex++
		}
	}

	var placed, total float64
	for _, s := range result.Sheets {
		placed += s.PlacedArea()
		total += s.Area()
	}
	if total > 0 {
		result.UtilizationPercent = placed / total * 100.0
	}
	return result, nil
}

// groupRequests splits requests and stocks into (material, thickness)
// groups in deterministic order. Requests with an empty material go into a
// catch-all group packed last, against the full catalog.
func groupRequests(requests []model.PlacementRequest, stocks []model.StockSheet) []requestGroup {
	type key struct {
		material  string
		thickness float64
	}
	byKey := make(map[key][]model.PlacementRequest)
	display := make(map[key]string)
	var universal []model.PlacementRequest
	for _, r := range requests {
		if r.MaterialID == "" {
			universal = append(universal, r)
			continue
		}
		k := key{strings.ToLower(r.MaterialID), r.Thickness}
		if _, ok := display[k]; !ok {
			display[k] = r.MaterialID
		}
		byKey[k] = append(byKey[k], r)
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

	var groups []requestGroup
	for _, k := range keys {
		g := requestGroup{materialID: k.material, displayMaterial: display[k], thickness: k.thickness, requests: byKey[k]}
		for _, s := range stocks {
			if s.MatchesMaterial(k.material, k.thickness) {
				g.stocks = append(g.stocks, s)
			}
		}
		groups = append(groups, g)
	}
	if len(universal) > 0 {
		groups = append(groups, requestGroup{requests: universal, stocks: stocks})
	}
	return groups
}

// orientations returns the ways a request may lie on a sheet, in the order
// they are tried: unrotated first, then rotated. Rotation is skipped for
// squares and gated by the rotation and grain-matching settings.
func (n *Nester) orientations(r model.PlacementRequest) []orientation {
	normalAligned, rotatedAligned := model.CanPlaceWithGrain(r.Grain)

	var out []orientation
	if !n.cfg.GrainMatching || normalAligned {
		out = append(out, orientation{length: r.Length, width: r.Width, aligned: normalAligned})
	}
	if n.cfg.AllowRotation && r.Length != r.Width {
		if !n.cfg.GrainMatching || rotatedAligned {
			out = append(out, orientation{length: r.Width, width: r.Length, rotated: true, aligned: rotatedAligned})
		}
	}
	return out
}

// alignedOnly filters orientations down to grain-preserving ones.
func alignedOnly(orients []orientation) []orientation {
	var out []orientation
	for _, o := range orients {
		if o.aligned {
			out = append(out, o)
		}
	}
	return out
}

// scanUnplaceable collects every request that cannot fit any compatible
// stock sheet in any permitted orientation.
func (n *Nester) scanUnplaceable(groups []requestGroup) error {
	var bad []model.UnplaceablePart
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, r := range g.requests {
			if seen[r.PartID] {
				continue
			}
			orients := n.orientations(r)
			reason := ""
			switch {
			case len(g.stocks) == 0:
				reason = "no stock sheet matches the part material and thickness"
			case len(orients) == 0:
				reason = "grain constraint forbids every permitted orientation"
			case !fitsAnyStock(orients, g.stocks, n.cfg.Kerf):
				reason = "part exceeds every compatible stock sheet size"
			}
			if reason != "" {
				seen[r.PartID] = true
				bad = append(bad, model.UnplaceablePart{
					PartID: r.PartID,
					Label:  r.Label,
					Length: r.Length,
					Width:  r.Width,
					Reason: reason,
				})
			}
		}
	}
	if len(bad) > 0 {
		return &model.UnplaceablePartsError{Parts: bad}
	}
	return nil
}

func fitsAnyStock(orients []orientation, stocks []model.StockSheet, kerf float64) bool {
	for _, s := range stocks {
		full := geometry.Rect{Length: s.Length, Width: s.Width}
		for _, o := range orients {
			if geometry.Fits(o.length, o.width, full, kerf) {
				return true
			}
		}
	}
	return false
}

// checkStockArea aborts early when the capped supply cannot possibly cover
// the required part area, reporting the shortfall per group.
func checkStockArea(groups []requestGroup, supply map[string]int) error {
	for _, g := range groups {
		var required float64
		for _, r := range g.requests {
			required += r.Area()
		}
		available := 0.0
		uncapped := false
		for _, s := range g.stocks {
			if s.Uncapped() {
				uncapped = true
				break
			}
			available += float64(supply[s.ID]) * s.Area()
		}
		if !uncapped && required > available {
			return &model.InsufficientStockError{
				MaterialID:    g.displayMaterial,
				Thickness:     g.thickness,
				RequiredArea:  required,
				AvailableArea: available,
			}
		}
	}
	return nil
}

// packGroup packs one material group onto its own sheets. The request order
// and all tie-breaks are deterministic.
func (n *Nester) packGroup(g requestGroup, supply map[string]int) ([]*openSheet, error) {
	requests := make([]model.PlacementRequest, len(g.requests))
	copy(requests, g.requests)
	sort.Slice(requests, func(i, j int) bool {
		ai, aj := requests[i].Area(), requests[j].Area()
		if ai != aj {
			return ai > aj
		}
		ei := math.Max(requests[i].Length, requests[i].Width)
		ej := math.Max(requests[j].Length, requests[j].Width)
		if ei != ej {
			return ei > ej
		}
		if requests[i].PartID != requests[j].PartID {
			return requests[i].PartID < requests[j].PartID
		}
		return requests[i].Instance < requests[j].Instance
	})

	var sheets []*openSheet
	for idx, r := range requests {
		orients := n.orientations(r)

		// With PrioritizeGrain, grain-preserving orientations get first
		// claim on the free rectangles; any permitted orientation is the
		// fallback, recorded as not grain-aligned.
		tried := [][]orientation{orients}
		if n.cfg.PrioritizeGrain && !n.cfg.GrainMatching && r.Grain != model.GrainNone {
			tried = [][]orientation{alignedOnly(orients), orients}
		}

		placed := false
		for _, candidates := range tried {
			if n.placeBest(sheets, r, candidates) {
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		sheet, err := n.openNewSheet(g, supply, orients, requests[idx:])
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
		for _, candidates := range tried {
			if n.placeBest([]*openSheet{sheet}, r, candidates) {
				placed = true
				break
			}
		}
		if !placed {
			// openNewSheet guarantees the request fits a fresh sheet.
			return nil, fmt.Errorf("request %s did not fit a fresh sheet", r.ID())
		}
	}
	return sheets, nil
}

// placeBest finds the (sheet, free rect, orientation) combination with the
// minimum leftover area and places the request there. Ties keep the earliest
// candidate: sheets in opening order, free rects in list order, unrotated
// before rotated.
func (n *Nester) placeBest(sheets []*openSheet, r model.PlacementRequest, orients []orientation) bool {
	bestSheet, bestRect := -1, -1
	var bestOrient orientation
	bestLeftover := math.Inf(1)

	for si, sheet := range sheets {
		for ri, rect := range sheet.free {
			for _, o := range orients {
				if !geometry.Fits(o.length, o.width, rect, n.cfg.Kerf) {
					continue
				}
				leftover := rect.Area() - o.length*o.width
				if leftover < bestLeftover {
					bestLeftover = leftover
					bestSheet, bestRect, bestOrient = si, ri, o
				}
			}
		}
	}
	if bestSheet < 0 {
		return false
	}

	sheet := sheets[bestSheet]
	rect := sheet.free[bestRect]
	placedRect := geometry.Rect{X: rect.X, Y: rect.Y, Length: bestOrient.length, Width: bestOrient.width}

	aligned := bestOrient.aligned || r.Grain == model.GrainNone
	sheet.placements = append(sheet.placements, model.Placement{
		Request:      r,
		X:            rect.X,
		Y:            rect.Y,
		Rotated:      bestOrient.rotated,
		GrainAligned: aligned,
	})

	residuals, splits := geometry.SubtractPlacement(rect, placedRect, n.cfg.Kerf)
	replaced := make([]geometry.Rect, 0, len(sheet.free)+len(residuals)-1)
	replaced = append(replaced, sheet.free[:bestRect]...)
	replaced = append(replaced, residuals...)
	replaced = append(replaced, sheet.free[bestRect+1:]...)
	sheet.free = replaced
	sheet.splits = append(sheet.splits, splits...)
	return true
}

// openNewSheet opens the cheapest compatible stock type that still has
// supply and fits the request. Cost ties fall to the smaller sheet, then the
// stock ID.
func (n *Nester) openNewSheet(g requestGroup, supply map[string]int,
	orients []orientation, remaining []model.PlacementRequest) (*openSheet, error) {

	candidates := make([]model.StockSheet, 0, len(g.stocks))
	for _, s := range g.stocks {
		if supply[s.ID] <= 0 {
			continue
		}
		full := geometry.Rect{Length: s.Length, Width: s.Width}
		for _, o := range orients {
			if geometry.Fits(o.length, o.width, full, n.cfg.Kerf) {
				candidates = append(candidates, s)
				break
			}
		}
	}
	if len(candidates) == 0 {
		// The pre-scan proved the part fits some configured sheet, so this
		// is exhausted supply, not an unplaceable part.
		var required, available float64
		for _, req := range remaining {
			required += req.Area()
		}
		for _, s := range g.stocks {
			available += float64(supply[s.ID]) * s.Area()
		}
		return nil, &model.InsufficientStockError{
			MaterialID:    g.displayMaterial,
			Thickness:     g.thickness,
			RequiredArea:  required,
			AvailableArea: available,
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CostPerSheet != candidates[j].CostPerSheet {
			return candidates[i].CostPerSheet < candidates[j].CostPerSheet
		}
		if candidates[i].Area() != candidates[j].Area() {
			return candidates[i].Area() < candidates[j].Area()
		}
		return candidates[i].ID < candidates[j].ID
	})

	stock := candidates[0]
	supply[stock.ID]--
	return &openSheet{
		stock: stock,
		free:  []geometry.Rect{{Length: stock.Length, Width: stock.Width}},
	}, nil
}

// finalizeSheet converts a packed sheet into its result form: waste regions
// are the exact disjoint complement of the placements, so placed area plus
// waste area equals the sheet area.
func (n *Nester) finalizeSheet(sheet *openSheet, index int) model.NestingSheet {
	full := geometry.Rect{Length: sheet.stock.Length, Width: sheet.stock.Width}
	placedRects := make([]geometry.Rect, len(sheet.placements))
	for i, p := range sheet.placements {
		placedRects[i] = p.Rect()
	}

	var waste []model.WasteRegion
	for _, r := range geometry.SubtractAll(full, placedRects) {
		waste = append(waste, model.WasteRegion{
			X:        r.X,
			Y:        r.Y,
			Length:   r.Length,
			Width:    r.Width,
			Area:     r.Area(),
			Reusable: geometry.ClassifyWaste(r, n.cfg.MinimumUsableCutoff.Length, n.cfg.MinimumUsableCutoff.Width),
		})
	}

	out := model.NestingSheet{
		ID:           fmt.Sprintf("sheet-%03d", index),
		StockSheetID: sheet.stock.ID,
		Length:       sheet.stock.Length,
		Width:        sheet.stock.Width,
		Placements:   sheet.placements,
		WasteRegions: waste,
		Splits:       sheet.splits,
	}
	if area := out.Area(); area > 0 {
		out.UtilizationPercent = out.PlacedArea() / area * 100.0
	}
	return out
}
