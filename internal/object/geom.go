package object

import "math"

// Point is a coordinate in the editor's display space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned bounding box in display space.
type Box struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside the box expanded by tol on every side.
func (b Box) Contains(p Point, tol float64) bool {
	return p.X >= b.X-tol && p.X <= b.X+b.W+tol &&
		p.Y >= b.Y-tol && p.Y <= b.Y+b.H+tol
}

// Union returns the smallest box covering both b and o.
func (b Box) Union(o Box) Box {
	x0 := math.Min(b.X, o.X)
	y0 := math.Min(b.Y, o.Y)
	x1 := math.Max(b.X+b.W, o.X+o.W)
	y1 := math.Max(b.Y+b.H, o.Y+o.H)
	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Expand grows the box by d on every side.
func (b Box) Expand(d float64) Box {
	return Box{X: b.X - d, Y: b.Y - d, W: b.W + 2*d, H: b.H + 2*d}
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	cx := a.X + t*dx
	cy := a.Y + t*dy
	return math.Hypot(p.X-cx, p.Y-cy)
}

// pointInTriangle uses sign tests against each edge.
func pointInTriangle(p, a, b, c Point) bool {
	sign := func(p1, p2, p3 Point) float64 {
		return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
	}
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
