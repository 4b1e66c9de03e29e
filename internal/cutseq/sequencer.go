// Package cutseq turns a nested sheet into an ordered, physically
// realizable list of guillotine cuts and can replay such a list to verify it
// reproduces the nesting.
package cutseq

import (
	"github.com/workshopos/cutengine/internal/geometry"
	"github.com/workshopos/cutengine/internal/model"
)

// edgeTol is the coordinate slack used when matching cut lines against
// placement edges and regions.
const edgeTol = 0.01

// Sequence converts a nesting sheet's recorded packing splits into cut
// operations. Sequence numbers are dense, start at 0, and follow split
// order, so both pieces of every earlier cut exist before any later cut
// references them. A cut separating placements on both sides is a rip
// (vertical) or crosscut (horizontal); a cut with parts on one side only
// merely trims excess and is tagged trim.
func Sequence(sheet model.NestingSheet, kerf float64) []model.CutOperation {
	ops := make([]model.CutOperation, 0, len(sheet.Splits))
	for i, sp := range sheet.Splits {
		op := model.CutOperation{
			SheetID:  sheet.ID,
			Sequence: i,
			Type:     classify(sp, sheet.Placements),
		}
		if sp.Vertical {
			op.StartX, op.StartY = sp.Pos, sp.Region.Y
			op.EndX, op.EndY = sp.Pos, sp.Region.Bottom()
		} else {
			op.StartX, op.StartY = sp.Region.X, sp.Pos
			op.EndX, op.EndY = sp.Region.Right(), sp.Pos
		}
		op.ResultingPartIDs = partsAtCut(sp, sheet.Placements, kerf)
		ops = append(ops, op)
	}
	return ops
}

// SequenceAll emits the cut sequences for every sheet of a production
// result, in sheet order.
func SequenceAll(result model.ProductionResult, kerf float64) []model.CutOperation {
	var ops []model.CutOperation
	for _, sheet := range result.Sheets {
		ops = append(ops, Sequence(sheet, kerf)...)
	}
	return ops
}

// classify decides rip/crosscut/trim by counting placements on each side of
// the cut within its region.
func classify(sp geometry.Split, placements []model.Placement) model.CutType {
	near, far := 0, 0
	for _, p := range placements {
		r := p.Rect()
		if !r.Overlaps(sp.Region) {
			continue
		}
		var center float64
		if sp.Vertical {
			center = r.X + r.Length/2
		} else {
			center = r.Y + r.Width/2
		}
		if center < sp.Pos {
			near++
		} else {
			far++
		}
	}
	if near == 0 || far == 0 {
		return model.CutTrim
	}
	if sp.Vertical {
		return model.CutRip
	}
	return model.CutCrosscut
}

// partsAtCut returns the IDs of placements whose boundary this cut creates:
// those ending at the cut line and those starting just past the kerf.
func partsAtCut(sp geometry.Split, placements []model.Placement, kerf float64) []string {
	var ids []string
	for _, p := range placements {
		r := p.Rect()
		if !r.Overlaps(sp.Region) {
			continue
		}
		var nearEdge, farEdge float64
		if sp.Vertical {
			nearEdge, farEdge = r.Right(), r.X
		} else {
			nearEdge, farEdge = r.Bottom(), r.Y
		}
		if abs(nearEdge-sp.Pos) < edgeTol || abs(farEdge-(sp.Pos+kerf)) < edgeTol {
			ids = append(ids, p.Request.ID())
		}
	}
	return ids
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
