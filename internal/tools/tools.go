// Package tools interprets pointer gestures according to the active tool and
// mutates the scene graph. Handlers return side-effect instructions instead of
// acting on history or the UI themselves; the editor controller applies them.
package tools

import (
	"math"

	"ChartMark/internal/object"
	"ChartMark/internal/scene"
)

// Tool is the active input-interpretation mode.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolPencil  Tool = "pencil"
	ToolLine    Tool = "line"
	ToolArrow   Tool = "arrow"
	ToolRect    Tool = "rect"
	ToolEllipse Tool = "ellipse"
	ToolText    Tool = "text"
)

// Settings is the session-scoped drawing configuration consumed by every new
// object.
type Settings struct {
	Color         string
	Width         float64
	FontSize      float64
	ArrowHeadSize float64
}

// Result tells the controller what a pointer event caused. Commit means a
// gesture finished and the scene should be snapshotted; EditText asks the
// host to open in-place editing for a freshly created text object.
type Result struct {
	Redraw   bool
	Commit   bool
	EditText *object.Text
}

// Machine drives one scene through the seven tool modes. Tool switches are
// explicit and never inferred from input.
type Machine struct {
	scene    *scene.Scene
	settings Settings
	tool     Tool

	// gesture state, valid between pointer down and up
	active   object.Object
	start    object.Point
	dragging bool
	moved    bool
}

func NewMachine(s *scene.Scene, settings Settings) *Machine {
	m := &Machine{scene: s, settings: settings}
	m.SetTool(ToolSelect)
	return m
}

func (m *Machine) Tool() Tool { return m.tool }

// SetTool switches modes. Entering a drawing tool makes existing objects
// non-interactive so new shapes can be drawn over them; entering select mode
// restores interactivity. Existing geometry is never touched.
func (m *Machine) SetTool(t Tool) {
	m.tool = t
	m.active = nil
	m.dragging = false
	m.moved = false
	if t == ToolSelect {
		m.scene.SetInteractive(true)
	} else {
		m.scene.SetInteractive(false)
		m.scene.ClearSelection()
	}
}

func (m *Machine) SetSettings(s Settings) { m.settings = s }

func (m *Machine) Settings() Settings { return m.settings }

func (m *Machine) attrs() object.Attrs {
	return object.NewAttrs(m.settings.Color, m.settings.Width)
}

// PointerDown begins a gesture at p.
func (m *Machine) PointerDown(p object.Point) Result {
	m.start = p
	m.moved = false

	switch m.tool {
	case ToolSelect:
		hit := m.scene.HitTest(p)
		if hit == nil {
			m.dragging = false
			m.scene.ClearSelection()
			return Result{Redraw: true}
		}
		m.scene.Select(hit.Attributes().ID)
		m.dragging = true
		return Result{Redraw: true}
	case ToolPencil:
		s := object.NewStroke(m.attrs(), p)
		m.scene.Add(s)
		m.active = s
		return Result{Redraw: true}
	case ToolLine, ToolArrow:
		l := object.NewLine(m.attrs(), p)
		m.scene.Add(l)
		m.active = l
		return Result{Redraw: true}
	case ToolRect:
		r := object.NewRect(m.attrs(), p)
		m.scene.Add(r)
		m.active = r
		return Result{Redraw: true}
	case ToolEllipse:
		e := object.NewEllipse(m.attrs(), p)
		m.scene.Add(e)
		m.active = e
		return Result{Redraw: true}
	case ToolText:
		if m.scene.HitTest(p) != nil {
			return Result{}
		}
		t := object.NewText(m.attrs(), p, "Text", m.settings.FontSize)
		m.scene.Add(t)
		return Result{Redraw: true, EditText: t}
	}
	return Result{}
}

// PointerMove updates the in-progress gesture at p.
func (m *Machine) PointerMove(p object.Point) Result {
	switch m.tool {
	case ToolSelect:
		if !m.dragging {
			return Result{}
		}
		dx := p.X - m.start.X
		dy := p.Y - m.start.Y
		if dx == 0 && dy == 0 {
			return Result{}
		}
		for _, id := range m.scene.SelectedIDs() {
			if o := m.scene.Find(id); o != nil {
				o.Translate(dx, dy)
			}
		}
		m.start = p
		m.moved = true
		return Result{Redraw: true}
	case ToolPencil:
		if s, ok := m.active.(*object.Stroke); ok {
			s.Append(p)
			return Result{Redraw: true}
		}
	case ToolLine, ToolArrow:
		if l, ok := m.active.(*object.Line); ok {
			l.SetEnd(p)
			return Result{Redraw: true}
		}
	case ToolRect:
		if r, ok := m.active.(*object.Rect); ok {
			// Normalize so width/height stay non-negative whatever the
			// drag direction; the origin shifts instead.
			r.X = math.Min(m.start.X, p.X)
			r.Y = math.Min(m.start.Y, p.Y)
			r.W = math.Abs(p.X - m.start.X)
			r.H = math.Abs(p.Y - m.start.Y)
			return Result{Redraw: true}
		}
	case ToolEllipse:
		if e, ok := m.active.(*object.Ellipse); ok {
			e.X = math.Min(m.start.X, p.X)
			e.Y = math.Min(m.start.Y, p.Y)
			e.RX = math.Abs(p.X-m.start.X) / 2
			e.RY = math.Abs(p.Y-m.start.Y) / 2
			return Result{Redraw: true}
		}
	}
	return Result{}
}

// PointerUp finalizes the gesture at p. Finished drawing gestures request a
// snapshot; a select drag commits only if something actually moved.
// Zero-size shapes are kept as degenerate objects rather than discarded.
func (m *Machine) PointerUp(p object.Point) Result {
	switch m.tool {
	case ToolSelect:
		wasDrag := m.dragging && m.moved
		m.dragging = false
		m.moved = false
		return Result{Redraw: wasDrag, Commit: wasDrag}
	case ToolPencil, ToolLine, ToolRect, ToolEllipse:
		if m.active == nil {
			return Result{}
		}
		m.active = nil
		return Result{Redraw: true, Commit: true}
	case ToolArrow:
		l, ok := m.active.(*object.Line)
		if !ok {
			return Result{}
		}
		m.active = nil
		m.finishArrow(l)
		return Result{Redraw: true, Commit: true}
	}
	return Result{}
}

// finishArrow replaces the bare line with a Group of {line, head}. The head is
// a fixed-size triangle oriented along the line's direction at its end point.
// The bare line is never a valid terminal state for the arrow tool.
func (m *Machine) finishArrow(l *object.Line) {
	angle := math.Atan2(l.Y2-l.Y1, l.X2-l.X1)
	head := object.NewArrow(m.attrs(), object.Point{X: l.X2, Y: l.Y2}, angle, m.settings.ArrowHeadSize)
	m.scene.Remove(l.Attributes().ID)
	group := object.NewGroup(m.attrs(), l, head)
	m.scene.Add(group)
}

// CancelGesture abandons any in-progress gesture, removing the object it was
// building. Used when the pointer leaves the surface mid-drag.
func (m *Machine) CancelGesture() Result {
	m.dragging = false
	m.moved = false
	if m.active == nil {
		return Result{}
	}
	m.scene.Remove(m.active.Attributes().ID)
	m.active = nil
	return Result{Redraw: true}
}
