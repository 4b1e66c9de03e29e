// Package invalidate decides when previously computed optimization results
// can no longer be trusted. It hashes the mutable inputs into a
// ProjectSnapshot, diffs successive snapshots into machine-readable
// triggers, and projects the resulting state into the red/amber/green/grey
// readiness statuses the UI consumes.
package invalidate

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/workshopos/cutengine/internal/model"
)

// ComputeSnapshot produces a deterministic digest of the mutable
// optimization inputs. Slices are sorted by their identity before hashing so
// the snapshot is order-stable; the snapshot is only ever compared for
// equality, never interpreted.
func ComputeSnapshot(parts []model.Part, mappings []model.MaterialMapping,
	cfg model.OptimizationConfig, items []model.DesignItem, takenAt time.Time) model.ProjectSnapshot {

	sortedParts := append([]model.Part(nil), parts...)
	sort.Slice(sortedParts, func(i, j int) bool { return sortedParts[i].ID < sortedParts[j].ID })

	sortedMappings := append([]model.MaterialMapping(nil), mappings...)
	sort.Slice(sortedMappings, func(i, j int) bool {
		return sortedMappings[i].PaletteColor < sortedMappings[j].PaletteColor
	})

	sortedItems := append([]model.DesignItem(nil), items...)
	sort.Slice(sortedItems, func(i, j int) bool { return sortedItems[i].ID < sortedItems[j].ID })

	ids := make([]string, len(sortedItems))
	for i, it := range sortedItems {
		ids[i] = it.ID
	}

	totalParts := 0
	for _, p := range parts {
		totalParts += p.Quantity
	}

	return model.ProjectSnapshot{
		PartsHash:            contentHash(sortedParts),
		TotalParts:           totalParts,
		MaterialMappingsHash: contentHash(sortedMappings),
		ConfigHash:           contentHash(cfg),
		DesignItemIDs:        ids,
		DesignItemsHash:      contentHash(sortedItems),
		TakenAt:              takenAt,
	}
}

// contentHash returns a stable 64-bit content hash over the canonical JSON
// encoding of v. Struct fields marshal in declaration order and map keys
// sort, so equal values always hash equal. Not cryptographic; it only needs
// to make collisions unlikely at project data volumes.
func contentHash(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only unmarshalable types can fail here, which would be a
		// programming error in the snapshot inputs.
		panic(fmt.Sprintf("invalidate: cannot hash value: %v", err))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
