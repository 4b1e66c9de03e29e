package invalidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/workshopos/cutengine/internal/model"
)

func staleEstimation() *model.EstimationResult {
	r := &model.EstimationResult{Version: 1, ValidAt: time.Now()}
	r.Invalidate(time.Now(), []string{"parts were added to the cutlist"})
	return r
}

func staleProduction() *model.ProductionResult {
	r := &model.ProductionResult{Version: 1, ValidAt: time.Now()}
	r.Invalidate(time.Now(), []string{"parts were added to the cutlist"})
	return r
}

func TestResultStates(t *testing.T) {
	assert.Equal(t, StateNoRun, EstimationState(nil))
	assert.Equal(t, StateCurrent, EstimationState(&model.EstimationResult{}))
	assert.Equal(t, StateStale, EstimationState(staleEstimation()))

	assert.Equal(t, StateNoRun, ProductionState(nil))
	assert.Equal(t, StateCurrent, ProductionState(&model.ProductionResult{}))
	assert.Equal(t, StateStale, ProductionState(staleProduction()))
}

func TestProject_FreshProjectAllRedAndGrey(t *testing.T) {
	s := Project(model.ProjectState{})

	assert.Equal(t, StatusRed, s.Estimation, "estimation never ran")
	assert.Equal(t, StatusGrey, s.Production, "production waits for an estimate first")
	assert.Equal(t, StatusGrey, s.Katana)
	assert.Equal(t, StatusRed, s.Overall)
}

func TestProject_EstimationDoneProductionPending(t *testing.T) {
	s := Project(model.ProjectState{
		Estimation: &model.EstimationResult{Version: 1},
	})

	assert.Equal(t, StatusGreen, s.Estimation)
	assert.Equal(t, StatusRed, s.Production, "an estimate exists but no nesting was run")
	assert.Equal(t, StatusRed, s.Overall)
}

func TestProject_BothCurrentIsGreen(t *testing.T) {
	s := Project(model.ProjectState{
		Estimation: &model.EstimationResult{Version: 1},
		Production: &model.ProductionResult{Version: 1},
	})

	assert.Equal(t, StatusGreen, s.Estimation)
	assert.Equal(t, StatusGreen, s.Production)
	assert.Equal(t, StatusGrey, s.Katana, "nothing exported yet")
	assert.Equal(t, StatusGreen, s.Overall, "katana grey does not hold back the overall light")
}

func TestProject_StaleResultsAmber(t *testing.T) {
	s := Project(model.ProjectState{
		Estimation: staleEstimation(),
		Production: staleProduction(),
	})

	assert.Equal(t, StatusAmber, s.Estimation)
	assert.Equal(t, StatusAmber, s.Production)
	assert.Equal(t, StatusAmber, s.Overall)
}

func TestProject_KatanaFollowsProduction(t *testing.T) {
	current := Project(model.ProjectState{
		Estimation:     &model.EstimationResult{Version: 1},
		Production:     &model.ProductionResult{Version: 1},
		KatanaExportID: "katana-42",
	})
	assert.Equal(t, StatusGreen, current.Katana)
	assert.Equal(t, StatusGreen, current.Overall)

	stale := Project(model.ProjectState{
		Estimation:     &model.EstimationResult{Version: 1},
		Production:     staleProduction(),
		KatanaExportID: "katana-42",
	})
	assert.Equal(t, StatusAmber, stale.Katana, "an export from a stale nesting is suspect")
	assert.Equal(t, StatusAmber, stale.Overall)
}

func TestProject_AnyRedDominates(t *testing.T) {
	s := Project(model.ProjectState{
		Estimation: staleEstimation(),
	})

	assert.Equal(t, StatusAmber, s.Estimation)
	assert.Equal(t, StatusRed, s.Production)
	assert.Equal(t, StatusRed, s.Overall)
}
