package engine

import "github.com/piwi3910/atlaspack/internal/geom"

// node is one region of a packing surface. A node is either a leaf, free or
// taken, or an internal node whose two children exactly tile its bounds.
type node struct {
	bounds   geom.Rect
	children [2]*node
	taken    bool
}

func (n *node) isLeaf() bool {
	return n.children[0] == nil
}

// insert places a rectangle of the given size somewhere inside n.
// Internal nodes always try child 0 before child 1. A free leaf that matches
// exactly is consumed whole; a larger one is split along the axis with more
// leftover and the placement recurses into child 0. Equal leftovers split
// horizontally.
func (n *node) insert(size geom.Size) (geom.Rect, bool) {
	if !n.isLeaf() {
		if r, ok := n.children[0].insert(size); ok {
			return r, true
		}
		return n.children[1].insert(size)
	}

	if n.taken {
		return geom.Rect{}, false
	}
	if !size.Fits(n.bounds.Size) {
		return geom.Rect{}, false
	}
	if n.bounds.Size.Eq(size) {
		n.taken = true
		return n.bounds, true
	}

	origin := n.bounds.Origin
	full := n.bounds.Size
	left := full.Sub(size)

	if left.Width > left.Height {
		// Vertical cut: a column of the requested width, then the rest.
		n.children[0] = &node{bounds: geom.NewRect(origin.X, origin.Y, size.Width, full.Height)}
		n.children[1] = &node{bounds: geom.NewRect(origin.X+size.Width, origin.Y, left.Width, full.Height)}
	} else {
		// Horizontal cut: a row of the requested height, then the rest.
		n.children[0] = &node{bounds: geom.NewRect(origin.X, origin.Y, full.Width, size.Height)}
		n.children[1] = &node{bounds: geom.NewRect(origin.X, origin.Y+size.Height, full.Width, left.Height)}
	}

	return n.children[0].insert(size)
}

// probe returns the bounds of the leaf insert would use, without touching
// the tree.
func (n *node) probe(size geom.Size) (geom.Rect, bool) {
	if !n.isLeaf() {
		if r, ok := n.children[0].probe(size); ok {
			return r, true
		}
		return n.children[1].probe(size)
	}
	if n.taken || !size.Fits(n.bounds.Size) {
		return geom.Rect{}, false
	}
	return n.bounds, true
}

func (n *node) walk(fn func(bounds geom.Rect, taken bool)) {
	if n.isLeaf() {
		fn(n.bounds, n.taken)
		return
	}
	n.children[0].walk(fn)
	n.children[1].walk(fn)
}

func (n *node) depth() int {
	if n.isLeaf() {
		return 1
	}
	return 1 + max(n.children[0].depth(), n.children[1].depth())
}

// Space is a fixed-size packing surface. Rectangles are allocated
// incrementally and never move once placed.
//
// A Space is not safe for concurrent use; callers that share one across
// goroutines must serialise Insert themselves.
type Space struct {
	root node
}

// NewSpace creates an empty surface of the given size with its origin at (0, 0).
func NewSpace(size geom.Size) *Space {
	return &Space{root: node{bounds: geom.Rect{Size: size}}}
}

// Insert allocates a rectangle of the requested size. It returns false when
// there is no free region large enough; the surface is unchanged in that case.
// Identical insert sequences on equally sized spaces yield identical placements.
func (s *Space) Insert(size geom.Size) (geom.Rect, bool) {
	return s.root.insert(size)
}

// Size returns the dimensions of the whole surface.
func (s *Space) Size() geom.Size {
	return s.root.bounds.Size
}

// Fits reports whether Insert(size) would currently succeed.
func (s *Space) Fits(size geom.Size) bool {
	_, ok := s.root.probe(size)
	return ok
}

// Probe returns the free leaf that Insert(size) would carve the placement
// from, leaving the space untouched.
func (s *Space) Probe(size geom.Size) (geom.Rect, bool) {
	return s.root.probe(size)
}

// Walk visits every leaf region in search order.
func (s *Space) Walk(fn func(bounds geom.Rect, taken bool)) {
	s.root.walk(fn)
}

// FreeRects returns the bounds of every leaf not yet taken.
func (s *Space) FreeRects() []geom.Rect {
	var free []geom.Rect
	s.Walk(func(b geom.Rect, taken bool) {
		if !taken && !b.Size.IsZero() {
			free = append(free, b)
		}
	})
	return free
}

// UsedArea returns the total area of taken leaves.
func (s *Space) UsedArea() int {
	used := 0
	s.Walk(func(b geom.Rect, taken bool) {
		if taken {
			used += b.Size.Area()
		}
	})
	return used
}

// Utilization returns the fraction of the surface that is taken (0.0 to 1.0).
func (s *Space) Utilization() float64 {
	total := s.Size().Area()
	if total == 0 {
		return 0
	}
	return float64(s.UsedArea()) / float64(total)
}

// Leaves returns the number of leaf regions in the tree.
func (s *Space) Leaves() int {
	count := 0
	s.Walk(func(geom.Rect, bool) { count++ })
	return count
}

// Depth returns the height of the tree; an untouched space has depth 1.
func (s *Space) Depth() int {
	return s.root.depth()
}
