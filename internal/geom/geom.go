// Package geom provides the integer point, size and rectangle value types
// shared by the packer and its importers and exporters.
package geom

import "fmt"

// Point is a location on the packing surface in whole units (pixels).
type Point struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Size is a width and height in whole units.
type Size struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Eq reports whether s and o have identical dimensions.
func (s Size) Eq(o Size) bool {
	return s.Width == o.Width && s.Height == o.Height
}

// Fits reports whether s fits inside o along both axes.
func (s Size) Fits(o Size) bool {
	return s.Width <= o.Width && s.Height <= o.Height
}

// Sub returns the leftover of s after carving o out of it.
// Components may be negative when o does not fit.
func (s Size) Sub(o Size) Size {
	return Size{Width: s.Width - o.Width, Height: s.Height - o.Height}
}

// Area returns width times height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Rotate returns s turned by 90 degrees.
func (s Size) Rotate() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// Grow adds n to both dimensions.
func (s Size) Grow(n int) Size {
	return Size{Width: s.Width + n, Height: s.Height + n}
}

// IsZero reports whether either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// IsSquare reports whether rotating s would leave it unchanged.
func (s Size) IsSquare() bool {
	return s.Width == s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an origin plus a size. The right and bottom edges are exclusive.
type Rect struct {
	Origin Point `json:"origin" toml:"origin"`
	Size   Size  `json:"size" toml:"size"`
}

// NewRect builds a rectangle from its origin and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.Origin.X + r.Size.Width
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Origin.Y + r.Size.Height
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.Origin.X >= r.Origin.X && o.Origin.Y >= r.Origin.Y &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Overlaps reports whether r and o share interior area. Rectangles that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Origin.X < o.Right() && o.Origin.X < r.Right() &&
		r.Origin.Y < o.Bottom() && o.Origin.Y < r.Bottom()
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Origin: r.Origin.Add(d), Size: r.Size}
}

func (r Rect) String() string {
	return fmt.Sprintf("%s+%s", r.Origin, r.Size)
}
