// Package object defines the closed set of drawable annotation variants and
// their shared attribute contract. Everything outside this package works with
// the Object interface; variant-specific geometry stays behind it.
package object

import (
	"math"

	"github.com/google/uuid"
)

// Kind tags each drawable variant in the snapshot format.
type Kind string

const (
	KindStroke  Kind = "stroke"
	KindLine    Kind = "line"
	KindArrow   Kind = "arrow"
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindText    Kind = "text"
	KindGroup   Kind = "group"
)

// Attrs are the attributes every drawable shares. Color is a hex string from
// the session palette; Width is the stroke width in display pixels.
type Attrs struct {
	ID         string  `json:"id"`
	Color      string  `json:"color"`
	Width      float64 `json:"width"`
	Selectable bool    `json:"selectable"`
	Evented    bool    `json:"evented"`
}

// NewAttrs builds attributes for a freshly drawn object. New objects are
// interactive until a tool switch flips the flags.
func NewAttrs(color string, width float64) Attrs {
	return Attrs{
		ID:         uuid.NewString(),
		Color:      color,
		Width:      width,
		Selectable: true,
		Evented:    true,
	}
}

// Object is the contract shared by all drawable variants.
type Object interface {
	Kind() Kind
	Attributes() *Attrs
	Bounds() Box
	Contains(p Point, tol float64) bool
	Translate(dx, dy float64)
}

// Stroke is a freehand path of ordered points.
type Stroke struct {
	Attrs
	Points []Point `json:"points"`
}

func NewStroke(a Attrs, start Point) *Stroke {
	return &Stroke{Attrs: a, Points: []Point{start}}
}

func (s *Stroke) Kind() Kind         { return KindStroke }
func (s *Stroke) Attributes() *Attrs { return &s.Attrs }

func (s *Stroke) Append(p Point) { s.Points = append(s.Points, p) }

func (s *Stroke) Bounds() Box {
	if len(s.Points) == 0 {
		return Box{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (s *Stroke) Contains(p Point, tol float64) bool {
	reach := tol + s.Width/2
	if len(s.Points) == 1 {
		return math.Hypot(p.X-s.Points[0].X, p.Y-s.Points[0].Y) <= reach
	}
	for i := 0; i < len(s.Points)-1; i++ {
		if segmentDistance(p, s.Points[i], s.Points[i+1]) <= reach {
			return true
		}
	}
	return false
}

func (s *Stroke) Translate(dx, dy float64) {
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
}

// Line is a straight segment between two endpoints.
type Line struct {
	Attrs
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func NewLine(a Attrs, from Point) *Line {
	return &Line{Attrs: a, X1: from.X, Y1: from.Y, X2: from.X, Y2: from.Y}
}

func (l *Line) Kind() Kind         { return KindLine }
func (l *Line) Attributes() *Attrs { return &l.Attrs }

func (l *Line) SetEnd(p Point) { l.X2, l.Y2 = p.X, p.Y }

func (l *Line) Bounds() Box {
	x := math.Min(l.X1, l.X2)
	y := math.Min(l.Y1, l.Y2)
	return Box{X: x, Y: y, W: math.Abs(l.X2 - l.X1), H: math.Abs(l.Y2 - l.Y1)}
}

func (l *Line) Contains(p Point, tol float64) bool {
	return segmentDistance(p, Point{l.X1, l.Y1}, Point{l.X2, l.Y2}) <= tol+l.Width/2
}

func (l *Line) Translate(dx, dy float64) {
	l.X1 += dx
	l.Y1 += dy
	l.X2 += dx
	l.Y2 += dy
}

// Arrow is the filled triangular head placed at a line's end point. A finished
// arrow annotation is a Group of {Line, Arrow} so both move and delete as one.
type Arrow struct {
	Attrs
	X     float64 `json:"x"`     // tip
	Y     float64 `json:"y"`     // tip
	Angle float64 `json:"angle"` // radians, direction the head points
	Size  float64 `json:"size"`
}

func NewArrow(a Attrs, tip Point, angle, size float64) *Arrow {
	return &Arrow{Attrs: a, X: tip.X, Y: tip.Y, Angle: angle, Size: size}
}

func (a *Arrow) Kind() Kind         { return KindArrow }
func (a *Arrow) Attributes() *Attrs { return &a.Attrs }

// Vertices returns tip and the two base corners of the head triangle.
func (a *Arrow) Vertices() [3]Point {
	dx := math.Cos(a.Angle)
	dy := math.Sin(a.Angle)
	tip := Point{a.X, a.Y}
	b1 := Point{a.X - a.Size*dx + a.Size*0.5*dy, a.Y - a.Size*dy - a.Size*0.5*dx}
	b2 := Point{a.X - a.Size*dx - a.Size*0.5*dy, a.Y - a.Size*dy + a.Size*0.5*dx}
	return [3]Point{tip, b1, b2}
}

func (a *Arrow) Bounds() Box {
	v := a.Vertices()
	minX := math.Min(v[0].X, math.Min(v[1].X, v[2].X))
	minY := math.Min(v[0].Y, math.Min(v[1].Y, v[2].Y))
	maxX := math.Max(v[0].X, math.Max(v[1].X, v[2].X))
	maxY := math.Max(v[0].Y, math.Max(v[1].Y, v[2].Y))
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (a *Arrow) Contains(p Point, tol float64) bool {
	v := a.Vertices()
	return pointInTriangle(p, v[0], v[1], v[2]) || a.Bounds().Contains(p, tol)
}

func (a *Arrow) Translate(dx, dy float64) {
	a.X += dx
	a.Y += dy
}

// Rect is an axis-aligned rectangle outline. W and H are always non-negative;
// the tool normalizes drag direction before storing them.
type Rect struct {
	Attrs
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func NewRect(a Attrs, origin Point) *Rect {
	return &Rect{Attrs: a, X: origin.X, Y: origin.Y}
}

func (r *Rect) Kind() Kind         { return KindRect }
func (r *Rect) Attributes() *Attrs { return &r.Attrs }

func (r *Rect) Bounds() Box { return Box{X: r.X, Y: r.Y, W: r.W, H: r.H} }

func (r *Rect) Contains(p Point, tol float64) bool {
	return r.Bounds().Contains(p, tol+r.Width/2)
}

func (r *Rect) Translate(dx, dy float64) {
	r.X += dx
	r.Y += dy
}

// Ellipse stores the top-left of its bounding box plus non-negative radii.
type Ellipse struct {
	Attrs
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

func NewEllipse(a Attrs, origin Point) *Ellipse {
	return &Ellipse{Attrs: a, X: origin.X, Y: origin.Y}
}

func (e *Ellipse) Kind() Kind         { return KindEllipse }
func (e *Ellipse) Attributes() *Attrs { return &e.Attrs }

func (e *Ellipse) Bounds() Box { return Box{X: e.X, Y: e.Y, W: 2 * e.RX, H: 2 * e.RY} }

func (e *Ellipse) Contains(p Point, tol float64) bool {
	reach := tol + e.Width/2
	rx := e.RX + reach
	ry := e.RY + reach
	if rx <= 0 || ry <= 0 {
		return false
	}
	nx := (p.X - (e.X + e.RX)) / rx
	ny := (p.Y - (e.Y + e.RY)) / ry
	return nx*nx+ny*ny <= 1
}

func (e *Ellipse) Translate(dx, dy float64) {
	e.X += dx
	e.Y += dy
}

// Text is a single line of text anchored at its top-left corner. The font
// family is fixed by the renderer; only the size travels with the object.
type Text struct {
	Attrs
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
}

func NewText(a Attrs, anchor Point, content string, fontSize float64) *Text {
	return &Text{Attrs: a, X: anchor.X, Y: anchor.Y, Content: content, FontSize: fontSize}
}

func (t *Text) Kind() Kind         { return KindText }
func (t *Text) Attributes() *Attrs { return &t.Attrs }

// Bounds approximates the rendered extent from the glyph count; hit testing
// does not need exact font metrics.
func (t *Text) Bounds() Box {
	w := 0.6 * t.FontSize * float64(len([]rune(t.Content)))
	return Box{X: t.X, Y: t.Y, W: w, H: 1.2 * t.FontSize}
}

func (t *Text) Contains(p Point, tol float64) bool {
	return t.Bounds().Contains(p, tol)
}

func (t *Text) Translate(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// Group treats an ordered set of children as one selectable unit.
type Group struct {
	Attrs
	Children []Object `json:"-"`
}

func NewGroup(a Attrs, children ...Object) *Group {
	return &Group{Attrs: a, Children: children}
}

func (g *Group) Kind() Kind         { return KindGroup }
func (g *Group) Attributes() *Attrs { return &g.Attrs }

func (g *Group) Bounds() Box {
	if len(g.Children) == 0 {
		return Box{}
	}
	b := g.Children[0].Bounds()
	for _, c := range g.Children[1:] {
		b = b.Union(c.Bounds())
	}
	return b
}

func (g *Group) Contains(p Point, tol float64) bool {
	for _, c := range g.Children {
		if c.Contains(p, tol) {
			return true
		}
	}
	return false
}

func (g *Group) Translate(dx, dy float64) {
	for _, c := range g.Children {
		c.Translate(dx, dy)
	}
}
