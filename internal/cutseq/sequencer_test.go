package cutseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshopos/cutengine/internal/engine"
	"github.com/workshopos/cutengine/internal/model"
)

func nestedSheet(t *testing.T, parts []model.Part, kerf float64) model.NestingSheet {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Kerf = kerf
	cfg.StockSheets = []model.StockSheet{{
		ID: "ply-2440", MaterialID: "Plywood", Length: 2440, Width: 1220, Thickness: 18, CostPerSheet: 85,
	}}

	result, err := engine.NewNester(cfg).Nest(parts)
	require.NoError(t, err)
	require.Len(t, result.Sheets, 1)
	return result.Sheets[0]
}

func plyPart(label string, length, width float64, qty int) model.Part {
	p := model.NewPart(label, length, width, qty)
	p.MaterialID = "Plywood"
	p.Thickness = 18
	return p
}

func TestSequence_DenseSequenceNumbers(t *testing.T) {
	sheet := nestedSheet(t, []model.Part{plyPart("Panel", 600, 400, 4)}, 3.2)

	ops := Sequence(sheet, 3.2)
	require.NotEmpty(t, ops)
	for i, op := range ops {
		assert.Equal(t, i, op.Sequence, "sequence numbers are dense from 0")
		assert.Equal(t, sheet.ID, op.SheetID)
	}
}

func TestSequence_FirstCutIsRipAtFirstPartEdge(t *testing.T) {
	sheet := nestedSheet(t, []model.Part{plyPart("Panel", 600, 400, 4)}, 3.2)

	ops := Sequence(sheet, 3.2)
	first := ops[0]
	assert.Equal(t, 600.0, first.StartX)
	assert.Equal(t, first.StartX, first.EndX, "a rip runs parallel to the Y axis")
	assert.Equal(t, 0.0, first.StartY)
	assert.Equal(t, 1220.0, first.EndY, "the first cut spans the full sheet")
}

func TestSequence_SingleFullWidthPartYieldsTrims(t *testing.T) {
	// One part in a corner: every cut only separates it from waste.
	sheet := nestedSheet(t, []model.Part{plyPart("Panel", 600, 400, 1)}, 3.2)

	ops := Sequence(sheet, 3.2)
	require.NotEmpty(t, ops)
	for _, op := range ops {
		assert.Equal(t, model.CutTrim, op.Type)
	}
}

func TestSequence_CutSeparatingPartsIsRipOrCrosscut(t *testing.T) {
	sheet := nestedSheet(t, []model.Part{plyPart("Panel", 600, 400, 4)}, 3.2)

	ops := Sequence(sheet, 3.2)
	kinds := map[model.CutType]int{}
	for _, op := range ops {
		kinds[op.Type]++
	}
	assert.NotZero(t, kinds[model.CutRip]+kinds[model.CutCrosscut],
		"cuts with parts on both sides are classified by direction")
}

func TestSequence_ResultingPartIDsNameAdjacentPlacements(t *testing.T) {
	sheet := nestedSheet(t, []model.Part{plyPart("Panel", 600, 400, 2)}, 3.2)

	ops := Sequence(sheet, 3.2)
	named := map[string]bool{}
	for _, op := range ops {
		for _, id := range op.ResultingPartIDs {
			named[id] = true
		}
	}
	for _, p := range sheet.Placements {
		assert.True(t, named[p.Request.ID()], "every placement is produced by some cut")
	}
}

func TestSequenceAll_CoversEverySheet(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.StockSheets = []model.StockSheet{{
		ID: "ply-2440", MaterialID: "Plywood", Length: 2440, Width: 1220, Thickness: 18,
	}}
	result, err := engine.NewNester(cfg).Nest([]model.Part{plyPart("Big", 1800, 1100, 3)})
	require.NoError(t, err)
	require.Greater(t, len(result.Sheets), 1)

	ops := SequenceAll(result, cfg.Kerf)
	seen := map[string]bool{}
	for _, op := range ops {
		seen[op.SheetID] = true
	}
	for _, sheet := range result.Sheets {
		assert.True(t, seen[sheet.ID])
	}
}

func TestReplay_ReproducesNesting(t *testing.T) {
	kerf := 3.2
	sheet := nestedSheet(t, []model.Part{
		plyPart("A", 600, 400, 3),
		plyPart("B", 900, 450, 2),
		plyPart("C", 350, 200, 4),
	}, kerf)

	ops := Sequence(sheet, kerf)
	pieces, err := Replay(sheet.Length, sheet.Width, kerf, ops)
	require.NoError(t, err)

	assert.True(t, ReproducesPlacements(pieces, sheet),
		"replaying the cut list must reproduce every placement")
}

func TestReplay_KerfConsumedBetweenPieces(t *testing.T) {
	// A single rip at x=600 on a 2440x1220 sheet with 3.2mm kerf.
	ops := []model.CutOperation{{
		SheetID: "sheet-000", Sequence: 0, Type: model.CutRip,
		StartX: 600, StartY: 0, EndX: 600, EndY: 1220,
	}}

	pieces, err := Replay(2440, 1220, 3.2, ops)
	require.NoError(t, err)

	require.Len(t, pieces, 2)
	assert.Equal(t, 600.0, pieces[0].Length)
	assert.Equal(t, 603.2, pieces[1].X)
	assert.InDelta(t, 2440-603.2, pieces[1].Length, 1e-9)
}

func TestReplay_RejectsNonSpanningCut(t *testing.T) {
	// The second cut stops halfway through the right piece.
	ops := []model.CutOperation{
		{Sequence: 0, StartX: 600, StartY: 0, EndX: 600, EndY: 1220},
		{Sequence: 1, StartX: 1200, StartY: 0, EndX: 1200, EndY: 500},
	}

	_, err := Replay(2440, 1220, 3.2, ops)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not span")
}

func TestReplay_RejectsCutOutsideAnyPiece(t *testing.T) {
	ops := []model.CutOperation{
		{Sequence: 0, StartX: 2500, StartY: 0, EndX: 2500, EndY: 1220},
	}

	_, err := Replay(2440, 1220, 3.2, ops)
	require.Error(t, err)
}
