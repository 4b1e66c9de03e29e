package invalidate

import (
	"github.com/workshopos/cutengine/internal/model"
)

// Trigger identifies what kind of input change invalidated a result.
type Trigger string

const (
	TriggerPartAdded             Trigger = "PART_ADDED"
	TriggerPartRemoved           Trigger = "PART_REMOVED"
	TriggerPartDimensionsChanged Trigger = "PART_DIMENSIONS_CHANGED"
	TriggerPaletteMappingChanged Trigger = "PALETTE_MAPPING_CHANGED"
	TriggerStockConfigChanged    Trigger = "STOCK_CONFIG_CHANGED"
	TriggerDesignItemAdded       Trigger = "DESIGN_ITEM_ADDED"
	TriggerDesignItemRemoved     Trigger = "DESIGN_ITEM_REMOVED"
	TriggerDesignItemModified    Trigger = "DESIGN_ITEM_MODIFIED"
	TriggerKatanaBOMStale        Trigger = "KATANA_BOM_STALE"
)

// InvalidationResult is the pure decision output of Detect. Reasons are
// derived separately (see Explain) so the decision logic stays free of
// presentation concerns.
type InvalidationResult struct {
	EstimationInvalidated bool
	ProductionInvalidated bool
	KatanaBOMInvalidated  bool
	Triggers              []Trigger
}

// Detect compares two successive snapshots and decides which results are
// stale. The rules are evaluated independently; several triggers can
// co-occur. With no previous snapshot or no prior optimization state nothing
// is invalidated: there is nothing to protect yet.
func Detect(prev *model.ProjectSnapshot, curr model.ProjectSnapshot, state model.ProjectState) InvalidationResult {
	var res InvalidationResult
	if prev == nil || !state.HasAnyRun() {
		return res
	}

	invalidateBoth := func(t ...Trigger) {
		res.EstimationInvalidated = true
		res.ProductionInvalidated = true
		res.Triggers = append(res.Triggers, t...)
	}

	if prev.PartsHash != curr.PartsHash {
		switch {
		case curr.TotalParts > prev.TotalParts:
			invalidateBoth(TriggerPartAdded)
		case curr.TotalParts < prev.TotalParts:
			invalidateBoth(TriggerPartRemoved)
		default:
			invalidateBoth(TriggerPartDimensionsChanged)
		}
	}
	if prev.MaterialMappingsHash != curr.MaterialMappingsHash {
		invalidateBoth(TriggerPaletteMappingChanged)
	}
	if prev.ConfigHash != curr.ConfigHash {
		invalidateBoth(TriggerStockConfigChanged)
	}
	if prev.DesignItemsHash != curr.DesignItemsHash {
		added, removed := diffIDs(prev.DesignItemIDs, curr.DesignItemIDs)
		switch {
		case added && removed:
			invalidateBoth(TriggerDesignItemAdded, TriggerDesignItemRemoved)
		case added:
			invalidateBoth(TriggerDesignItemAdded)
		case removed:
			invalidateBoth(TriggerDesignItemRemoved)
		default:
			invalidateBoth(TriggerDesignItemModified)
		}
	}

	// A stale nesting must never reach downstream procurement.
	if res.ProductionInvalidated && state.KatanaExportID != "" {
		res.KatanaBOMInvalidated = true
		res.Triggers = append(res.Triggers, TriggerKatanaBOMStale)
	}
	return res
}

// diffIDs reports whether the current ID set gained and/or lost members
// relative to the previous one.
func diffIDs(prev, curr []string) (added, removed bool) {
	prevSet := make(map[string]bool, len(prev))
	for _, id := range prev {
		prevSet[id] = true
	}
	currSet := make(map[string]bool, len(curr))
	for _, id := range curr {
		currSet[id] = true
		if !prevSet[id] {
			added = true
		}
	}
	for _, id := range prev {
		if !currSet[id] {
			removed = true
		}
	}
	return added, removed
}

// Apply marks the project's results stale according to a detection outcome.
// Completing a new run is the only way back to current; acknowledging the
// flag is not.
func Apply(state *model.ProjectState, res InvalidationResult, snapshot model.ProjectSnapshot) {
	reasons := Explain(res)
	if res.EstimationInvalidated {
		state.Estimation.Invalidate(snapshot.TakenAt, reasons)
	}
	if res.ProductionInvalidated {
		state.Production.Invalidate(snapshot.TakenAt, reasons)
	}
	snap := snapshot
	state.LastSnapshot = &snap
}
