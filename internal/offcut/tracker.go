package offcut

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workshopos/cutengine/internal/model"
)

// Tracker manages the global offcut pool shared across projects. All state
// transitions go through the tracker so two projects can never claim the
// same offcut: MarkUsed is an atomic read-modify-write and reports a
// ConcurrentModificationError when the offcut is already consumed.
type Tracker struct {
	mu      sync.Mutex
	offcuts map[string]*model.Offcut
	now     func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		offcuts: make(map[string]*model.Offcut),
		now:     time.Now,
	}
}

// Load seeds the tracker with previously persisted offcuts, replacing any
// entry with the same ID.
func (t *Tracker) Load(offcuts []model.Offcut) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range offcuts {
		o := offcuts[i]
		t.offcuts[o.ID] = &o
	}
}

// Harvest creates one available offcut per reusable waste region in the
// nesting result. Material and thickness come from the stock sheet the
// region was cut from; regions on unknown sheets are skipped.
func (t *Tracker) Harvest(result *model.ProductionResult, cfg model.OptimizationConfig, originProjectID string) []model.Offcut {
	if result == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var harvested []model.Offcut
	for _, sheet := range result.Sheets {
		stock := cfg.FindStockSheet(sheet.StockSheetID)
		if stock == nil {
			continue
		}
		for _, region := range sheet.WasteRegions {
			if !region.Reusable {
				continue
			}
			o := model.Offcut{
				ID:              uuid.New().String()[:8],
				Material:        stock.MaterialID,
				Length:          region.Length,
				Width:           region.Width,
				Thickness:       stock.Thickness,
				Available:       true,
				OriginProjectID: originProjectID,
				CreatedAt:       t.now(),
			}
			t.offcuts[o.ID] = &o
			harvested = append(harvested, o)
		}
	}
	return harvested
}

// MarkUsed claims an available offcut for a project. Claiming an offcut that
// is already consumed returns a ConcurrentModificationError so the caller
// can retry against fresh pool state.
func (t *Tracker) MarkUsed(offcutID, projectID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	o, ok := t.offcuts[offcutID]
	if !ok {
		return &model.ConcurrentModificationError{OffcutID: offcutID}
	}
	if !o.Available {
		return &model.ConcurrentModificationError{OffcutID: offcutID}
	}
	now := t.now()
	o.Available = false
	o.ConsumedByProjectID = projectID
	o.ConsumedAt = &now
	return nil
}

// MarkAvailable returns a consumed offcut to the pool, for example when the
// claiming project is re-nested without it.
func (t *Tracker) MarkAvailable(offcutID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	o, ok := t.offcuts[offcutID]
	if !ok {
		return &model.ConcurrentModificationError{OffcutID: offcutID}
	}
	o.Available = true
	o.ConsumedByProjectID = ""
	o.ConsumedAt = nil
	return nil
}

// Query returns the available offcuts for a material, matched
// case-insensitively and sorted largest area first so callers see the most
// useful pieces at the top.
func (t *Tracker) Query(material string) []model.Offcut {
	t.mu.Lock()
	defer t.mu.Unlock()

	var matches []model.Offcut
	for _, o := range t.offcuts {
		if o.Available && strings.EqualFold(o.Material, material) {
			matches = append(matches, *o)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Area() != matches[j].Area() {
			return matches[i].Area() > matches[j].Area()
		}
		return matches[i].ID < matches[j].ID
	})
	return matches
}

// All returns every offcut in the pool, consumed ones included, sorted by
// creation time then ID. Used for persistence and reporting.
func (t *Tracker) All() []model.Offcut {
	t.mu.Lock()
	defer t.mu.Unlock()

	all := make([]model.Offcut, 0, len(t.offcuts))
	for _, o := range t.offcuts {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

// Get returns a copy of one offcut by ID.
func (t *Tracker) Get(offcutID string) (model.Offcut, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	o, ok := t.offcuts[offcutID]
	if !ok {
		return model.Offcut{}, false
	}
	return *o, true
}
