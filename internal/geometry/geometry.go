// Package geometry provides the 2D primitives used for placement, occupancy
// and line-of-sight checks.
package geometry

import "math"

// ParallelEpsilon is the determinant magnitude below which two segments are
// treated as parallel and therefore non-intersecting. Collinear overlaps are
// not resolved.
const ParallelEpsilon = 1e-4

// Point is a position in world units
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p offset by dx, dy
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Segment is a line segment between two points
type Segment struct {
	A Point
	B Point
}

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// RectFromCenter builds a rectangle of the given size around center
func RectFromCenter(center Point, width, height float64) Rect {
	return Rect{
		X:      center.X - width/2,
		Y:      center.Y - height/2,
		Width:  width,
		Height: height,
	}
}

// Left returns the minimum x coordinate
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum x coordinate
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the minimum y coordinate
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the maximum y coordinate
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inset shrinks the rectangle by margin on every side. The result never has
// negative size; an over-inset collapses onto the center.
func (r Rect) Inset(margin float64) Rect {
	w := math.Max(r.Width-2*margin, 0)
	h := math.Max(r.Height-2*margin, 0)
	return RectFromCenter(r.Center(), w, h)
}

// Edges returns the four boundary segments: top, right, bottom, left
func (r Rect) Edges() [4]Segment {
	tl := Point{X: r.Left(), Y: r.Top()}
	tr := Point{X: r.Right(), Y: r.Top()}
	br := Point{X: r.Right(), Y: r.Bottom()}
	bl := Point{X: r.Left(), Y: r.Bottom()}
	return [4]Segment{
		{A: tl, B: tr},
		{A: tr, B: br},
		{A: bl, B: br},
		{A: tl, B: bl},
	}
}

// Overlaps reports whether two rectangles share any area or boundary
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() <= o.Right() && r.Right() >= o.Left() &&
		r.Top() <= o.Bottom() && r.Bottom() >= o.Top()
}

// PointInRect reports whether p lies in r. The boundary counts as inside.
func PointInRect(p Point, r Rect) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Distance returns the Euclidean distance between p and q
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// SegmentsIntersect reports whether segment a1-a2 crosses segment b1-b2 using
// the parametric form. Near-parallel pairs are reported as non-intersecting.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	denom := (b2.Y-b1.Y)*(a2.X-a1.X) - (b2.X-b1.X)*(a2.Y-a1.Y)
	if math.Abs(denom) < ParallelEpsilon {
		return false
	}

	ua := ((b2.X-b1.X)*(a1.Y-b1.Y) - (b2.Y-b1.Y)*(a1.X-b1.X)) / denom
	ub := ((a2.X-a1.X)*(a1.Y-b1.Y) - (a2.Y-a1.Y)*(a1.X-b1.X)) / denom

	return ua >= 0 && ua <= 1 && ub >= 0 && ub <= 1
}

// SegmentIntersectsRect reports whether the segment a-b crosses any of the
// four edges of r. A segment lying entirely inside r does not count.
func SegmentIntersectsRect(a, b Point, r Rect) bool {
	for _, edge := range r.Edges() {
		if SegmentsIntersect(a, b, edge.A, edge.B) {
			return true
		}
	}
	return false
}

// Clamp limits p to the rectangle bounds
func Clamp(p Point, bounds Rect) Point {
	return Point{
		X: math.Min(math.Max(p.X, bounds.Left()), bounds.Right()),
		Y: math.Min(math.Max(p.Y, bounds.Top()), bounds.Bottom()),
	}
}
