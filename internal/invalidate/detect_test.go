package invalidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshopos/cutengine/internal/model"
)

func fixtureParts() []model.Part {
	return []model.Part{
		{ID: "p1", Label: "Side", Length: 600, Width: 400, Quantity: 2, MaterialID: "Plywood", Thickness: 18},
		{ID: "p2", Label: "Top", Length: 800, Width: 500, Quantity: 1, MaterialID: "Plywood", Thickness: 18},
	}
}

func fixtureState() model.ProjectState {
	return model.ProjectState{
		Estimation: &model.EstimationResult{Version: 1, ValidAt: time.Now()},
		Production: &model.ProductionResult{Version: 1, ValidAt: time.Now()},
	}
}

func snapshotAt(t *testing.T, parts []model.Part, mappings []model.MaterialMapping,
	cfg model.OptimizationConfig, items []model.DesignItem) model.ProjectSnapshot {
	t.Helper()
	return ComputeSnapshot(parts, mappings, cfg, items, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
}

func TestComputeSnapshot_OrderIndependent(t *testing.T) {
	parts := fixtureParts()
	reversed := []model.Part{parts[1], parts[0]}
	cfg := model.DefaultConfig()

	a := snapshotAt(t, parts, nil, cfg, nil)
	b := snapshotAt(t, reversed, nil, cfg, nil)

	assert.Equal(t, a.PartsHash, b.PartsHash, "part order must not affect the snapshot")
	assert.Equal(t, 3, a.TotalParts, "total counts physical pieces")
}

func TestComputeSnapshot_SensitiveToDimensionChange(t *testing.T) {
	parts := fixtureParts()
	cfg := model.DefaultConfig()
	before := snapshotAt(t, parts, nil, cfg, nil)

	parts[0].Length = 650
	after := snapshotAt(t, parts, nil, cfg, nil)

	assert.NotEqual(t, before.PartsHash, after.PartsHash)
	assert.Equal(t, before.TotalParts, after.TotalParts)
}

func TestDetect_NoPreviousSnapshotIsNoop(t *testing.T) {
	curr := snapshotAt(t, fixtureParts(), nil, model.DefaultConfig(), nil)

	res := Detect(nil, curr, fixtureState())

	assert.False(t, res.EstimationInvalidated)
	assert.False(t, res.ProductionInvalidated)
	assert.Empty(t, res.Triggers)
}

func TestDetect_NoRunsMeansNothingToProtect(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)
	curr := snapshotAt(t, fixtureParts()[:1], nil, cfg, nil)

	res := Detect(&prev, curr, model.ProjectState{})

	assert.Empty(t, res.Triggers)
}

func TestDetect_IdenticalSnapshotsNoop(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)
	curr := snapshotAt(t, fixtureParts(), nil, cfg, nil)

	res := Detect(&prev, curr, fixtureState())

	assert.False(t, res.EstimationInvalidated)
	assert.False(t, res.ProductionInvalidated)
	assert.Empty(t, res.Triggers)
}

func TestDetect_PartAdded(t *testing.T) {
	cfg := model.DefaultConfig()
	parts := fixtureParts()
	prev := snapshotAt(t, parts, nil, cfg, nil)

	added := append(fixtureParts(), model.Part{ID: "p3", Label: "Shelf", Length: 700, Width: 300, Quantity: 1})
	curr := snapshotAt(t, added, nil, cfg, nil)

	res := Detect(&prev, curr, fixtureState())

	assert.True(t, res.EstimationInvalidated)
	assert.True(t, res.ProductionInvalidated)
	assert.Equal(t, []Trigger{TriggerPartAdded}, res.Triggers)
}

func TestDetect_PartRemoved(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)
	curr := snapshotAt(t, fixtureParts()[:1], nil, cfg, nil)

	res := Detect(&prev, curr, fixtureState())

	assert.Equal(t, []Trigger{TriggerPartRemoved}, res.Triggers)
}

func TestDetect_PartDimensionsChanged(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)

	changed := fixtureParts()
	changed[1].Width = 550
	curr := snapshotAt(t, changed, nil, cfg, nil)

	res := Detect(&prev, curr, fixtureState())

	assert.Equal(t, []Trigger{TriggerPartDimensionsChanged}, res.Triggers)
}

func TestDetect_PaletteMappingChanged(t *testing.T) {
	cfg := model.DefaultConfig()
	mappings := []model.MaterialMapping{{PaletteColor: "oak", MaterialID: "Plywood"}}
	prev := snapshotAt(t, fixtureParts(), mappings, cfg, nil)

	remapped := []model.MaterialMapping{{PaletteColor: "oak", MaterialID: "MDF"}}
	curr := snapshotAt(t, fixtureParts(), remapped, cfg, nil)

	res := Detect(&prev, curr, fixtureState())

	assert.Equal(t, []Trigger{TriggerPaletteMappingChanged}, res.Triggers)
}

func TestDetect_StockConfigChanged(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)

	cfg.Kerf = 2.8
	curr := snapshotAt(t, fixtureParts(), nil, cfg, nil)

	res := Detect(&prev, curr, fixtureState())

	assert.Equal(t, []Trigger{TriggerStockConfigChanged}, res.Triggers)
}

func TestDetect_DesignItemLifecycle(t *testing.T) {
	cfg := model.DefaultConfig()
	parts := fixtureParts()
	itemA := model.DesignItem{ID: "d1", Name: "Cabinet", Revision: 1}
	itemB := model.DesignItem{ID: "d2", Name: "Drawer", Revision: 1}

	prev := snapshotAt(t, parts, nil, cfg, []model.DesignItem{itemA})

	addCase := snapshotAt(t, parts, nil, cfg, []model.DesignItem{itemA, itemB})
	assert.Equal(t, []Trigger{TriggerDesignItemAdded}, Detect(&prev, addCase, fixtureState()).Triggers)

	removeCase := snapshotAt(t, parts, nil, cfg, nil)
	assert.Equal(t, []Trigger{TriggerDesignItemRemoved}, Detect(&prev, removeCase, fixtureState()).Triggers)

	modified := itemA
	modified.Revision = 2
	modifyCase := snapshotAt(t, parts, nil, cfg, []model.DesignItem{modified})
	assert.Equal(t, []Trigger{TriggerDesignItemModified}, Detect(&prev, modifyCase, fixtureState()).Triggers)

	swapCase := snapshotAt(t, parts, nil, cfg, []model.DesignItem{itemB})
	assert.ElementsMatch(t, []Trigger{TriggerDesignItemAdded, TriggerDesignItemRemoved},
		Detect(&prev, swapCase, fixtureState()).Triggers)
}

func TestDetect_KatanaBOMStaleOnlyWithExport(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)
	curr := snapshotAt(t, fixtureParts()[:1], nil, cfg, nil)

	plain := Detect(&prev, curr, fixtureState())
	assert.False(t, plain.KatanaBOMInvalidated, "no export means no BOM to go stale")

	exported := fixtureState()
	exported.KatanaExportID = "katana-42"
	withExport := Detect(&prev, curr, exported)
	assert.True(t, withExport.KatanaBOMInvalidated)
	assert.Contains(t, withExport.Triggers, TriggerKatanaBOMStale)
}

func TestDetect_MultipleTriggersAccumulate(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)

	changed := fixtureParts()[:1]
	cfg.Kerf = 2.0
	curr := snapshotAt(t, changed, nil, cfg, nil)

	res := Detect(&prev, curr, fixtureState())

	assert.ElementsMatch(t, []Trigger{TriggerPartRemoved, TriggerStockConfigChanged}, res.Triggers)
}

func TestApply_MarksResultsStaleAndStoresSnapshot(t *testing.T) {
	cfg := model.DefaultConfig()
	prev := snapshotAt(t, fixtureParts(), nil, cfg, nil)
	curr := snapshotAt(t, fixtureParts()[:1], nil, cfg, nil)

	state := fixtureState()
	res := Detect(&prev, curr, state)
	require.True(t, res.EstimationInvalidated)

	Apply(&state, res, curr)

	assert.False(t, state.Estimation.Current())
	assert.False(t, state.Production.Current())
	assert.Equal(t, []string{"parts were removed from the cutlist"}, state.Estimation.InvalidationReasons)
	require.NotNil(t, state.LastSnapshot)
	assert.Equal(t, curr.PartsHash, state.LastSnapshot.PartsHash)
}

func TestExplain_UnknownTriggerFallsBackToName(t *testing.T) {
	reasons := Explain(InvalidationResult{Triggers: []Trigger{TriggerPartAdded, Trigger("SOMETHING_ELSE")}})

	require.Len(t, reasons, 2)
	assert.Equal(t, "parts were added to the cutlist", reasons[0])
	assert.Equal(t, "SOMETHING_ELSE", reasons[1])
}
