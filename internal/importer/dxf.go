package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/atlaspack/internal/model"
)

// dxfEpsilon is the distance under which two endpoints are treated as one.
const dxfEpsilon = 0.01

type point struct{ x, y float64 }

type segment struct{ start, end point }

// shape is a closed outline reduced to what packing needs: its bounding box.
type shape struct {
	min, max point
}

func (s shape) width() float64  { return s.max.x - s.min.x }
func (s shape) height() float64 { return s.max.y - s.min.y }

func shapeOf(pts []point) shape {
	s := shape{min: pts[0], max: pts[0]}
	for _, p := range pts[1:] {
		s.min.x = math.Min(s.min.x, p.x)
		s.min.y = math.Min(s.min.y, p.y)
		s.max.x = math.Max(s.max.x, p.x)
		s.max.y = math.Max(s.max.y, p.y)
	}
	return s
}

// ImportDXF reads closed shapes from a DXF drawing. Every LWPOLYLINE, CIRCLE
// and chain of connected LINE/ARC entities becomes one item sized to its
// bounding box, rounded up to whole units.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []shape
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			pts := lwPolylinePoints(e)
			if len(pts) >= 2 {
				shapes = append(shapes, shapeOf(pts))
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 2 vertices")
			}

		case *entity.Circle:
			c := point{e.Center[0], e.Center[1]}
			shapes = append(shapes, shape{
				min: point{c.x - e.Radius, c.y - e.Radius},
				max: point{c.x + e.Radius, c.y + e.Radius},
			})

		case *entity.Arc:
			pts := arcPoints(e, 32)
			for i := 0; i+1 < len(pts); i++ {
				segments = append(segments, segment{pts[i], pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	for _, chain := range chainSegments(segments) {
		shapes = append(shapes, shapeOf(chain))
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, s := range shapes {
		if s.width() < dxfEpsilon || s.height() < dxfEpsilon {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", s.width(), s.height()))
			continue
		}
		w := int(math.Ceil(s.width() - dxfEpsilon))
		h := int(math.Ceil(s.height() - dxfEpsilon))
		result.Items = append(result.Items, model.NewItem(fmt.Sprintf("DXF Item %d", i+1), w, h, 1))
	}

	return result
}

// lwPolylinePoints returns the polyline vertices, with bulged edges sampled
// so that arcs bowing outwards widen the bounding box.
func lwPolylinePoints(lw *entity.LwPolyline) []point {
	var pts []point
	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		cur := point{lw.Vertices[i][0], lw.Vertices[i][1]}
		pts = append(pts, cur)

		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			next := lw.Vertices[(i+1)%n]
			pts = append(pts, bulgePoints(cur, point{next[0], next[1]}, lw.Bulges[i], 32)...)
		}
	}
	return pts
}

// bulgePoints samples the arc between p1 and p2 described by a DXF bulge,
// the tangent of a quarter of the included angle.
func bulgePoints(p1, p2 point, bulge float64, segments int) []point {
	dx, dy := p2.x-p1.x, p2.y-p1.y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return nil
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	px, py := -dy/chord, dx/chord
	if bulge > 0 {
		px, py = -px, -py
	}
	dist := radius - sagitta
	cx := (p1.x+p2.x)/2 + px*dist
	cy := (p1.y+p2.y)/2 + py*dist

	start := math.Atan2(p1.y-cy, p1.x-cx)
	end := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	}
	if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make([]point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := start + float64(i)/float64(segments)*(end-start)
		pts = append(pts, point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}

func arcPoints(a *entity.Arc, segments int) []point {
	cx, cy, r := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}

	pts := make([]point, segments+1)
	for i := range pts {
		ang := start + float64(i)/float64(segments)*(end-start)
		pts[i] = point{cx + r*math.Cos(ang), cy + r*math.Sin(ang)}
	}
	return pts
}

// chainSegments joins segments end to end into closed point chains.
// Open chains are dropped. Chains are returned largest bounding box first.
func chainSegments(segs []segment) [][]point {
	used := make([]bool, len(segs))
	var chains [][]point

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []point{segs[start].start, segs[start].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, s := range segs {
				if used[i] {
					continue
				}
				switch {
				case near(tail, s.start):
					chain = append(chain, s.end)
				case near(tail, s.end):
					chain = append(chain, s.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && near(chain[0], chain[len(chain)-1]) {
			chains = append(chains, chain[:len(chain)-1])
		}
	}

	sort.SliceStable(chains, func(i, j int) bool {
		a, b := shapeOf(chains[i]), shapeOf(chains[j])
		return a.width()*a.height() > b.width()*b.height()
	})
	return chains
}

func near(a, b point) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= dxfEpsilon
}
