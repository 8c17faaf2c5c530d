// Package scene owns the ordered object sequence layered over the background
// image, plus selection state and hit testing. Slice order is paint order;
// objects are only ever appended or removed, never reordered.
package scene

import (
	"fmt"
	"image"

	"ChartMark/internal/object"
	"ChartMark/internal/render"
)

// HitTolerance is the pick radius around thin geometry, in display pixels.
const HitTolerance = 4.0

// Scene is the background plus the annotation objects drawn over it. All
// object coordinates are in display space; the fit scale records how the
// background was shrunk to the viewport so Flatten can invert it.
type Scene struct {
	bg       image.Image
	fitScale float64
	objects  []object.Object
	selected map[string]bool
	renderer *render.Renderer
}

func New(bg image.Image, fitScale float64, r *render.Renderer) *Scene {
	return &Scene{
		bg:       bg,
		fitScale: fitScale,
		selected: make(map[string]bool),
		renderer: r,
	}
}

func (s *Scene) Background() image.Image { return s.bg }

func (s *Scene) FitScale() float64 { return s.fitScale }

// DisplaySize is the background size after fit scaling, in display pixels.
func (s *Scene) DisplaySize() (int, int) {
	b := s.bg.Bounds()
	return int(float64(b.Dx()) * s.fitScale), int(float64(b.Dy()) * s.fitScale)
}

// Objects returns the sequence in paint order. The slice is a copy; the
// objects themselves are shared.
func (s *Scene) Objects() []object.Object {
	out := make([]object.Object, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *Scene) Len() int { return len(s.objects) }

// Add appends an object at the top of the paint order.
func (s *Scene) Add(o object.Object) {
	s.objects = append(s.objects, o)
}

// Remove drops the objects with the given IDs; absent IDs are ignored.
// Removed objects also leave the selection.
func (s *Scene) Remove(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.objects[:0]
	for _, o := range s.objects {
		if drop[o.Attributes().ID] {
			delete(s.selected, o.Attributes().ID)
			continue
		}
		kept = append(kept, o)
	}
	s.objects = kept
}

// Find returns the object with the given ID, or nil.
func (s *Scene) Find(id string) object.Object {
	for _, o := range s.objects {
		if o.Attributes().ID == id {
			return o
		}
	}
	return nil
}

// SetInteractive flips the selectable and evented flags on every object.
// Drawing tools turn interactivity off so new shapes never collide with
// existing ones; the select tool turns it back on. Geometry is untouched.
func (s *Scene) SetInteractive(on bool) {
	for _, o := range s.objects {
		a := o.Attributes()
		a.Selectable = on
		a.Evented = on
	}
}

// HitTest returns the topmost evented object within tolerance of p, or nil.
func (s *Scene) HitTest(p object.Point) object.Object {
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if !o.Attributes().Evented {
			continue
		}
		if o.Contains(p, HitTolerance) {
			return o
		}
	}
	return nil
}

// Select makes the object with the given ID the sole selection. Objects with
// the selectable flag off are refused.
func (s *Scene) Select(id string) bool {
	o := s.Find(id)
	if o == nil || !o.Attributes().Selectable {
		return false
	}
	s.selected = map[string]bool{id: true}
	return true
}

func (s *Scene) ClearSelection() {
	s.selected = make(map[string]bool)
}

// SelectedIDs returns the IDs of selected objects in paint order.
func (s *Scene) SelectedIDs() []string {
	var ids []string
	for _, o := range s.objects {
		if s.selected[o.Attributes().ID] {
			ids = append(ids, o.Attributes().ID)
		}
	}
	return ids
}

// SelectedSet exposes the selection for rendering.
func (s *Scene) SelectedSet() map[string]bool {
	out := make(map[string]bool, len(s.selected))
	for id := range s.selected {
		out[id] = true
	}
	return out
}

// Snapshot serializes the object sequence. The background is excluded: it is
// invariant for the session.
func (s *Scene) Snapshot() ([]byte, error) {
	data, err := object.Encode(s.objects)
	if err != nil {
		return nil, fmt.Errorf("scene snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the object sequence with the contents of a snapshot and
// clears the selection. Decoding builds fresh values, so history entries
// never alias the live scene.
func (s *Scene) Restore(snapshot []byte) error {
	objs, err := object.Decode(snapshot)
	if err != nil {
		return fmt.Errorf("scene restore: %w", err)
	}
	s.objects = objs
	s.ClearSelection()
	return nil
}

// Flatten composites the background and all objects into one raster at the
// background's native resolution, regardless of the display scale.
func (s *Scene) Flatten() (image.Image, error) {
	return s.renderer.Flatten(s.bg, s.objects, s.fitScale)
}

// Overlay renders the annotation layer at display size for the host UI.
func (s *Scene) Overlay() *image.RGBA {
	w, h := s.DisplaySize()
	return s.renderer.Overlay(w, h, s.objects, s.selected)
}
