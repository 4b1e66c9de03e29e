package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRect_Overlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Length: 100, Width: 100}

	assert.True(t, a.Overlaps(Rect{X: 50, Y: 50, Length: 100, Width: 100}))
	assert.False(t, a.Overlaps(Rect{X: 100, Y: 0, Length: 100, Width: 100}), "touching edges do not overlap")
	assert.False(t, a.Overlaps(Rect{X: 200, Y: 200, Length: 10, Width: 10}))
}

func TestRect_Contains(t *testing.T) {
	a := Rect{X: 0, Y: 0, Length: 100, Width: 100}

	assert.True(t, a.Contains(Rect{X: 10, Y: 10, Length: 50, Width: 50}))
	assert.True(t, a.Contains(a), "a rect contains itself")
	assert.False(t, a.Contains(Rect{X: 90, Y: 90, Length: 20, Width: 20}))
}

func TestFits_KerfOnFarSides(t *testing.T) {
	free := Rect{X: 0, Y: 0, Length: 103.2, Width: 53.2}

	assert.True(t, Fits(100, 50, free, 3.2))
	assert.False(t, Fits(101, 50, free, 3.2))
	assert.True(t, Fits(103.2, 53.2, free, 0), "exact fit without kerf")
}

func TestSubtractPlacement_RipFirstWhenHorizontalLeftoverLarger(t *testing.T) {
	free := Rect{X: 0, Y: 0, Length: 2440, Width: 1220}
	placed := Rect{X: 0, Y: 0, Length: 600, Width: 400}
	kerf := 3.2

	rects, splits := SubtractPlacement(free, placed, kerf)

	require.Len(t, splits, 2)
	assert.True(t, splits[0].Vertical, "larger horizontal leftover rips first")
	assert.Equal(t, 600.0, splits[0].Pos)
	assert.Equal(t, free, splits[0].Region)
	assert.False(t, splits[1].Vertical)
	assert.Equal(t, 400.0, splits[1].Pos)
	// The second cut spans only the column left of the rip.
	assert.Equal(t, 600.0, splits[1].Region.Length)

	require.Len(t, rects, 2)
	right := rects[0]
	assert.Equal(t, 603.2, right.X)
	assert.Equal(t, 1220.0, right.Width, "rip residual keeps full region width")
	below := rects[1]
	assert.Equal(t, 403.2, below.Y)
	assert.Equal(t, 600.0, below.Length)
}

func TestSubtractPlacement_CrosscutFirstWhenVerticalLeftoverLarger(t *testing.T) {
	free := Rect{X: 0, Y: 0, Length: 800, Width: 1200}
	placed := Rect{X: 0, Y: 0, Length: 700, Width: 300}

	rects, splits := SubtractPlacement(free, placed, 3)

	require.Len(t, splits, 2)
	assert.False(t, splits[0].Vertical, "larger vertical leftover crosscuts first")
	assert.Equal(t, free, splits[0].Region)
	assert.True(t, splits[1].Vertical)
	assert.Equal(t, 300.0, splits[1].Region.Width)

	require.Len(t, rects, 2)
	assert.Equal(t, 800.0, rects[0].Length, "crosscut residual keeps full region length")
	assert.Equal(t, 300.0, rects[1].Width)
}

func TestSubtractPlacement_FlushFitEmitsNoCut(t *testing.T) {
	free := Rect{X: 0, Y: 0, Length: 500, Width: 300}
	placed := Rect{X: 0, Y: 0, Length: 500, Width: 300}

	rects, splits := SubtractPlacement(free, placed, 3)

	assert.Empty(t, rects)
	assert.Empty(t, splits, "a flush placement needs no further cuts")
}

func TestSubtractPlacement_SliversDropped(t *testing.T) {
	// The leftover after kerf is under MinUsableDim in both directions.
	free := Rect{X: 0, Y: 0, Length: 504, Width: 304}
	placed := Rect{X: 0, Y: 0, Length: 500, Width: 300}

	rects, _ := SubtractPlacement(free, placed, 3.2)

	assert.Empty(t, rects)
}

func TestSubtractRect_PartitionsComplementExactly(t *testing.T) {
	base := Rect{X: 0, Y: 0, Length: 1000, Width: 800}
	sub := Rect{X: 200, Y: 100, Length: 300, Width: 400}

	pieces := SubtractRect(base, sub)

	var total float64
	for i, p := range pieces {
		total += p.Area()
		for j := i + 1; j < len(pieces); j++ {
			assert.False(t, p.Overlaps(pieces[j]), "pieces must be disjoint")
		}
		assert.False(t, p.Overlaps(sub), "pieces must not cover the subtracted rect")
	}
	assert.InDelta(t, base.Area()-sub.Area(), total, 1e-9)
}

func TestSubtractRect_NoOverlapReturnsBase(t *testing.T) {
	base := Rect{X: 0, Y: 0, Length: 100, Width: 100}
	pieces := SubtractRect(base, Rect{X: 500, Y: 500, Length: 10, Width: 10})

	require.Len(t, pieces, 1)
	assert.Equal(t, base, pieces[0])
}

func TestSubtractAll_ComplementOfSeveralPlacements(t *testing.T) {
	base := Rect{X: 0, Y: 0, Length: 1000, Width: 600}
	subs := []Rect{
		{X: 0, Y: 0, Length: 400, Width: 300},
		{X: 500, Y: 0, Length: 200, Width: 600},
		{X: 0, Y: 350, Length: 100, Width: 250},
	}

	pieces := SubtractAll(base, subs)

	var covered float64
	for _, s := range subs {
		covered += s.Area()
	}
	var remaining float64
	for i, p := range pieces {
		remaining += p.Area()
		for j := i + 1; j < len(pieces); j++ {
			assert.False(t, p.Overlaps(pieces[j]))
		}
		for _, s := range subs {
			assert.False(t, p.Overlaps(s))
		}
	}
	assert.InDelta(t, base.Area()-covered, remaining, 1e-9)
}

func TestClassifyWaste_OrientationNormalized(t *testing.T) {
	// The region's long side compares against the cutoff length regardless of
	// which axis it lies on.
	assert.True(t, ClassifyWaste(Rect{Length: 400, Width: 300}, 150, 75))
	assert.True(t, ClassifyWaste(Rect{Length: 300, Width: 400}, 150, 75))
	assert.False(t, ClassifyWaste(Rect{Length: 100, Width: 50}, 150, 75))
	assert.False(t, ClassifyWaste(Rect{Length: 400, Width: 75}, 150, 75), "short side must exceed the cutoff width")
}
