package invalidate

import (
	"github.com/workshopos/cutengine/internal/model"
)

// Status is a red/amber/green/grey indicator for one optimization surface.
type Status string

const (
	StatusRed   Status = "red"
	StatusAmber Status = "amber"
	StatusGreen Status = "green"
	StatusGrey  Status = "grey"
)

// ResultState is the lifecycle of a single optimization result.
type ResultState string

const (
	StateNoRun   ResultState = "no-run"
	StateCurrent ResultState = "current"
	StateStale   ResultState = "stale"
)

// EstimationState reports where an estimation result sits in its lifecycle.
func EstimationState(r *model.EstimationResult) ResultState {
	switch {
	case r == nil:
		return StateNoRun
	case r.Current():
		return StateCurrent
	default:
		return StateStale
	}
}

// ProductionState reports where a production result sits in its lifecycle.
func ProductionState(r *model.ProductionResult) ResultState {
	switch {
	case r == nil:
		return StateNoRun
	case r.Current():
		return StateCurrent
	default:
		return StateStale
	}
}

// StatusSet is the projected dashboard state for one project.
type StatusSet struct {
	Estimation Status `json:"estimation"`
	Production Status `json:"production"`
	Katana     Status `json:"katana"`
	Overall    Status `json:"overall"`
}

// Project maps result lifecycle states onto dashboard statuses. A production
// result that was never run shows grey while estimation is also absent, and
// red once an estimation exists without a matching production run. The Katana
// indicator stays grey until a BOM has been exported.
func Project(state model.ProjectState) StatusSet {
	var s StatusSet

	est := EstimationState(state.Estimation)
	switch est {
	case StateNoRun:
		s.Estimation = StatusRed
	case StateStale:
		s.Estimation = StatusAmber
	case StateCurrent:
		s.Estimation = StatusGreen
	}

	switch ProductionState(state.Production) {
	case StateNoRun:
		if est == StateNoRun {
			s.Production = StatusGrey
		} else {
			s.Production = StatusRed
		}
	case StateStale:
		s.Production = StatusAmber
	case StateCurrent:
		s.Production = StatusGreen
	}

	switch {
	case state.KatanaExportID == "":
		s.Katana = StatusGrey
	case state.Production != nil && !state.Production.Current():
		s.Katana = StatusAmber
	default:
		s.Katana = StatusGreen
	}

	s.Overall = overall(s)
	return s
}

func overall(s StatusSet) Status {
	statuses := []Status{s.Estimation, s.Production, s.Katana}
	for _, st := range statuses {
		if st == StatusRed {
			return StatusRed
		}
	}
	for _, st := range statuses {
		if st == StatusAmber {
			return StatusAmber
		}
	}
	if s.Estimation == StatusGreen && s.Production == StatusGreen {
		return StatusGreen
	}
	return StatusGrey
}
