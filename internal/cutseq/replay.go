package cutseq

import (
	"fmt"

	"github.com/workshopos/cutengine/internal/geometry"
	"github.com/workshopos/cutengine/internal/model"
)

// Replay applies a cut sequence to a fresh sheet of the given size. Every
// cut must span the full extent of exactly one existing piece (the
// guillotine property); the blade consumes kerf on the far side of the cut
// line. It returns the resulting pieces, or an error naming the first cut
// that is not physically realizable.
func Replay(sheetLength, sheetWidth, kerf float64, ops []model.CutOperation) ([]geometry.Rect, error) {
	pieces := []geometry.Rect{{Length: sheetLength, Width: sheetWidth}}

	for _, op := range ops {
		vertical := abs(op.StartX-op.EndX) < edgeTol
		idx := -1
		for i, r := range pieces {
			if spansPiece(op, r, vertical) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("cut %d on sheet %s does not span any piece", op.Sequence, op.SheetID)
		}

		r := pieces[idx]
		var near, farPiece geometry.Rect
		if vertical {
			pos := op.StartX
			near = geometry.Rect{X: r.X, Y: r.Y, Length: pos - r.X, Width: r.Width}
			farPiece = geometry.Rect{X: pos + kerf, Y: r.Y, Length: r.Right() - (pos + kerf), Width: r.Width}
		} else {
			pos := op.StartY
			near = geometry.Rect{X: r.X, Y: r.Y, Length: r.Length, Width: pos - r.Y}
			farPiece = geometry.Rect{X: r.X, Y: pos + kerf, Length: r.Length, Width: r.Bottom() - (pos + kerf)}
		}

		replaced := append([]geometry.Rect{}, pieces[:idx]...)
		if near.Length > geometry.Epsilon && near.Width > geometry.Epsilon {
			replaced = append(replaced, near)
		}
		if farPiece.Length > geometry.Epsilon && farPiece.Width > geometry.Epsilon {
			replaced = append(replaced, farPiece)
		}
		replaced = append(replaced, pieces[idx+1:]...)
		pieces = replaced
	}
	return pieces, nil
}

// spansPiece reports whether the cut runs through the piece interior and
// covers its full extent along the cut axis.
func spansPiece(op model.CutOperation, r geometry.Rect, vertical bool) bool {
	if vertical {
		return op.StartX > r.X+geometry.Epsilon && op.StartX < r.Right()-geometry.Epsilon &&
			op.StartY < r.Y+edgeTol && op.EndY > r.Bottom()-edgeTol
	}
	return op.StartY > r.Y+geometry.Epsilon && op.StartY < r.Bottom()-geometry.Epsilon &&
		op.StartX < r.X+edgeTol && op.EndX > r.Right()-edgeTol
}

// ReproducesPlacements reports whether replayed pieces contain every
// placement boundary of the sheet: for each placement there must be a piece
// matching its rectangle within tolerance.
func ReproducesPlacements(pieces []geometry.Rect, sheet model.NestingSheet) bool {
	for _, p := range sheet.Placements {
		want := p.Rect()
		found := false
		for _, r := range pieces {
			if abs(r.X-want.X) < edgeTol && abs(r.Y-want.Y) < edgeTol &&
				abs(r.Length-want.Length) < edgeTol && abs(r.Width-want.Width) < edgeTol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
