// Package geometry provides the kerf-aware rectangle primitives used by the
// packing engine and the cut sequencer. Coordinates are in millimeters; X runs
// along the sheet length, Y along the sheet width.
package geometry

// Epsilon absorbs floating-point noise in dimension comparisons.
const Epsilon = 0.001

// MinUsableDim is the smallest residual dimension (mm) worth tracking as a
// free rectangle during packing. Slivers below this can never hold a part.
const MinUsableDim = 1.0

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// Right returns the X coordinate of the rectangle's far edge.
func (r Rect) Right() float64 { return r.X + r.Length }

// Bottom returns the Y coordinate of the rectangle's far edge.
func (r Rect) Bottom() float64 { return r.Y + r.Width }

// Area returns the rectangle area in square mm.
func (r Rect) Area() float64 { return r.Length * r.Width }

// Overlaps reports whether two rectangles share interior area (touching
// edges do not count).
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right()-Epsilon && r.Right() > o.X+Epsilon &&
		r.Y < o.Bottom()-Epsilon && r.Bottom() > o.Y+Epsilon
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return r.X <= o.X+Epsilon && r.Y <= o.Y+Epsilon &&
		r.Right() >= o.Right()-Epsilon && r.Bottom() >= o.Bottom()-Epsilon
}

// Fits reports whether a part of the given dimensions, inflated by kerf on
// its far sides, fits inside the free rectangle.
func Fits(length, width float64, free Rect, kerf float64) bool {
	return length+kerf <= free.Length+Epsilon && width+kerf <= free.Width+Epsilon
}

// Split records one guillotine cut performed while subdividing a free
// rectangle. Vertical splits run parallel to the Y axis (a rip); horizontal
// splits run parallel to the X axis (a crosscut). Pos is the coordinate of
// the near side of the cut; the blade consumes [Pos, Pos+kerf]. Region is
// the free rectangle the cut spans.
type Split struct {
	Vertical bool    `json:"vertical"`
	Pos      float64 `json:"pos"`
	Region   Rect    `json:"region"`
}

// SubtractPlacement splits a free rectangle around a placed part, inflated by
// kerf on its +X and +Y sides (the near sides were separated by earlier
// cuts). Splitting is guillotine-style: the axis whose leftover is larger is
// cut first so the bigger residual stays whole. It returns the residual free
// rectangles (slivers under MinUsableDim are dropped) together with the
// ordered splits that produced them.
func SubtractPlacement(free, placed Rect, kerf float64) ([]Rect, []Split) {
	occ := Rect{X: placed.X, Y: placed.Y, Length: placed.Length + kerf, Width: placed.Width + kerf}
	if occ.Right() > free.Right() {
		occ.Length = free.Right() - occ.X
	}
	if occ.Bottom() > free.Bottom() {
		occ.Width = free.Bottom() - occ.Y
	}

	hLeft := free.Right() - occ.Right()
	vLeft := free.Bottom() - occ.Bottom()

	var rects []Rect
	var splits []Split

	if hLeft >= vLeft {
		// Rip first: the right residual keeps the full region width.
		column := free
		if hLeft > Epsilon {
			splits = append(splits, Split{Vertical: true, Pos: placed.X + placed.Length, Region: free})
			rects = append(rects, Rect{X: occ.Right(), Y: free.Y, Length: hLeft, Width: free.Width})
			// The rip consumed its kerf; the remaining column ends at the
			// part edge.
			column.Length = placed.Length
		}
		if vLeft > Epsilon {
			splits = append(splits, Split{Vertical: false, Pos: placed.Y + placed.Width, Region: column})
			rects = append(rects, Rect{X: occ.X, Y: occ.Bottom(), Length: column.Length, Width: vLeft})
		}
	} else {
		// Crosscut first: the bottom residual keeps the full region length.
		row := free
		if vLeft > Epsilon {
			splits = append(splits, Split{Vertical: false, Pos: placed.Y + placed.Width, Region: free})
			rects = append(rects, Rect{X: free.X, Y: occ.Bottom(), Length: free.Length, Width: vLeft})
			row.Width = placed.Width
		}
		if hLeft > Epsilon {
			splits = append(splits, Split{Vertical: true, Pos: placed.X + placed.Length, Region: row})
			rects = append(rects, Rect{X: occ.Right(), Y: occ.Y, Length: hLeft, Width: row.Width})
		}
	}

	kept := rects[:0]
	for _, r := range rects {
		if r.Length > MinUsableDim && r.Width > MinUsableDim {
			kept = append(kept, r)
		}
	}
	return kept, splits
}

// SubtractRect removes sub from base, returning up to four disjoint
// rectangles that exactly partition the remainder. Used to compute waste
// regions as the exact complement of the placements on a sheet.
func SubtractRect(base, sub Rect) []Rect {
	if !base.Overlaps(sub) {
		return []Rect{base}
	}

	ix := max(base.X, sub.X)
	iy := max(base.Y, sub.Y)
	iRight := min(base.Right(), sub.Right())
	iBottom := min(base.Bottom(), sub.Bottom())

	var result []Rect

	// Left strip, full base height.
	if ix > base.X+Epsilon {
		result = append(result, Rect{X: base.X, Y: base.Y, Length: ix - base.X, Width: base.Width})
	}
	// Right strip, full base height.
	if iRight < base.Right()-Epsilon {
		result = append(result, Rect{X: iRight, Y: base.Y, Length: base.Right() - iRight, Width: base.Width})
	}
	// Top strip, between the side strips.
	if iy > base.Y+Epsilon {
		result = append(result, Rect{X: ix, Y: base.Y, Length: iRight - ix, Width: iy - base.Y})
	}
	// Bottom strip, between the side strips.
	if iBottom < base.Bottom()-Epsilon {
		result = append(result, Rect{X: ix, Y: iBottom, Length: iRight - ix, Width: base.Bottom() - iBottom})
	}

	return result
}

// SubtractAll removes every sub rectangle from base, returning a disjoint
// partition of whatever remains.
func SubtractAll(base Rect, subs []Rect) []Rect {
	remaining := []Rect{base}
	for _, sub := range subs {
		var next []Rect
		for _, r := range remaining {
			next = append(next, SubtractRect(r, sub)...)
		}
		remaining = next
	}
	return remaining
}

// ClassifyWaste reports whether a waste region is large enough to keep as a
// reusable offcut. The comparison is orientation-normalized: the region's
// long side must exceed the cutoff length and its short side the cutoff
// width.
func ClassifyWaste(region Rect, cutoffLength, cutoffWidth float64) bool {
	long := max(region.Length, region.Width)
	short := min(region.Length, region.Width)
	return long > cutoffLength && short > cutoffWidth
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
