package engine

import (
	"math/rand"
	"testing"

	"github.com/piwi3910/atlaspack/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpace_ExactFitConsumesWholeSurface(t *testing.T) {
	s := NewSpace(geom.Sz(10, 10))

	r, ok := s.Insert(geom.Sz(10, 10))
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(0, 0, 10, 10), r)

	_, ok = s.Insert(geom.Sz(1, 1))
	assert.False(t, ok, "a full surface has no room left")
}

func TestSpace_VerticalSplitScenario(t *testing.T) {
	s := NewSpace(geom.Sz(10, 10))

	r, ok := s.Insert(geom.Sz(4, 10))
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(0, 0, 4, 10), r)

	r, ok = s.Insert(geom.Sz(6, 10))
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(4, 0, 6, 10), r)

	_, ok = s.Insert(geom.Sz(1, 1))
	assert.False(t, ok)
	assert.Equal(t, 1.0, s.Utilization())
}

func TestSpace_HorizontalSplitOnTie(t *testing.T) {
	s := NewSpace(geom.Sz(10, 10))

	// Leftover 6x6: equal slack splits horizontally, so child 1 is the row below.
	r, ok := s.Insert(geom.Sz(4, 4))
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(0, 0, 4, 4), r)

	r, ok = s.Insert(geom.Sz(10, 6))
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(0, 4, 10, 6), r)

	r, ok = s.Insert(geom.Sz(6, 4))
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(4, 0, 6, 4), r)
}

func TestSpace_FirstChildPreferred(t *testing.T) {
	s := NewSpace(geom.Sz(10, 10))

	_, ok := s.Insert(geom.Sz(2, 10))
	require.True(t, ok)

	// Only the 8x10 column is free; the placement lands at its origin.
	r, ok := s.Insert(geom.Sz(3, 3))
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 2, Y: 0}, r.Origin)
}

func TestSpace_ExactFitDoesNotSplit(t *testing.T) {
	s := NewSpace(geom.Sz(10, 10))

	_, ok := s.Insert(geom.Sz(4, 10))
	require.True(t, ok)

	free := s.FreeRects()
	require.Len(t, free, 1)
	leaves := s.Leaves()
	depth := s.Depth()

	r, ok := s.Insert(free[0].Size)
	require.True(t, ok)
	assert.Equal(t, free[0], r)
	assert.Equal(t, leaves, s.Leaves(), "exact fit must not create nodes")
	assert.Equal(t, depth, s.Depth())
	assert.Empty(t, s.FreeRects())
}

func TestSpace_OversizeAlwaysFails(t *testing.T) {
	s := NewSpace(geom.Sz(10, 10))

	for _, size := range []geom.Size{geom.Sz(11, 1), geom.Sz(1, 11), geom.Sz(11, 11)} {
		_, ok := s.Insert(size)
		assert.False(t, ok, "size %s", size)
	}
	assert.Equal(t, 1, s.Leaves(), "failed inserts must not split the root")

	_, ok := s.Insert(geom.Sz(3, 3))
	require.True(t, ok)
	_, ok = s.Insert(geom.Sz(11, 2))
	assert.False(t, ok)
}

func TestSpace_SizeIsFixed(t *testing.T) {
	s := NewSpace(geom.Sz(64, 32))
	assert.Equal(t, geom.Sz(64, 32), s.Size())

	_, _ = s.Insert(geom.Sz(8, 8))
	assert.Equal(t, geom.Sz(64, 32), s.Size())
}

func TestSpace_FitsDoesNotMutate(t *testing.T) {
	s := NewSpace(geom.Sz(10, 10))

	assert.True(t, s.Fits(geom.Sz(5, 5)))
	assert.False(t, s.Fits(geom.Sz(11, 5)))
	assert.Equal(t, 1, s.Leaves())
	assert.Equal(t, 0, s.UsedArea())
}

func TestSpace_OrderSensitivity(t *testing.T) {
	a, b := geom.Sz(3, 7), geom.Sz(6, 2)

	first := NewSpace(geom.Sz(10, 10))
	ra1, ok1 := first.Insert(a)
	rb1, ok2 := first.Insert(b)
	require.True(t, ok1 && ok2)

	second := NewSpace(geom.Sz(10, 10))
	rb2, ok3 := second.Insert(b)
	ra2, ok4 := second.Insert(a)
	require.True(t, ok3 && ok4)

	assert.False(t, ra1.Overlaps(rb1))
	assert.False(t, ra2.Overlaps(rb2))
	assert.NotEqual(t, ra1, ra2, "layout depends on insertion order")
}

func TestSpace_Deterministic(t *testing.T) {
	sizes := randomSizes(rand.New(rand.NewSource(7)), 200, 24)

	run := func() []geom.Rect {
		s := NewSpace(geom.Sz(128, 128))
		var out []geom.Rect
		for _, size := range sizes {
			if r, ok := s.Insert(size); ok {
				out = append(out, r)
			}
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestSpace_NoOverlapAndContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	surface := geom.Sz(256, 192)

	for round := 0; round < 20; round++ {
		s := NewSpace(surface)
		bounds := geom.Rect{Size: surface}
		var placed []geom.Rect
		used := 0

		for _, size := range randomSizes(rng, 150, 48) {
			r, ok := s.Insert(size)
			if !ok {
				continue
			}
			require.True(t, r.Size.Eq(size), "placement must have the requested size")
			require.True(t, bounds.Contains(r), "placement %s escapes the surface", r)
			for _, prev := range placed {
				require.False(t, prev.Overlaps(r), "placement %s overlaps %s", r, prev)
			}
			placed = append(placed, r)
			used += size.Area()
		}

		assert.Equal(t, used, s.UsedArea())
		for _, free := range s.FreeRects() {
			for _, p := range placed {
				assert.False(t, free.Overlaps(p), "free leaf %s overlaps placement %s", free, p)
			}
		}
	}
}

func TestSpace_WalkTilesSurface(t *testing.T) {
	s := NewSpace(geom.Sz(50, 40))
	for _, size := range randomSizes(rand.New(rand.NewSource(3)), 30, 20) {
		_, _ = s.Insert(size)
	}

	area := 0
	s.Walk(func(b geom.Rect, _ bool) {
		area += b.Size.Area()
	})
	assert.Equal(t, 50*40, area, "leaves must exactly partition the surface")
}

func randomSizes(rng *rand.Rand, n, maxSide int) []geom.Size {
	sizes := make([]geom.Size, n)
	for i := range sizes {
		sizes[i] = geom.Sz(1+rng.Intn(maxSide), 1+rng.Intn(maxSide))
	}
	return sizes
}
