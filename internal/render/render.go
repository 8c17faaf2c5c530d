// Package render rasterizes annotation objects with gg. One renderer serves
// both the live display overlay and the final flatten, so what is saved is
// exactly what was drawn, only at the background's native resolution.
package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"ChartMark/internal/object"
)

const selectionColor = "#1e88e5"

// Renderer draws object sequences into gg contexts. The font family for text
// annotations is fixed to Go Regular.
type Renderer struct {
	font *truetype.Font
}

func New() (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{font: f}, nil
}

func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Overlay renders the objects onto a transparent image of the given display
// size, outlining any selected objects. The host composites it over the
// scaled background.
func (r *Renderer) Overlay(w, h int, objs []object.Object, selected map[string]bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(img)
	for _, o := range objs {
		r.draw(dc, o, 1)
		if selected[o.Attributes().ID] {
			r.drawSelection(dc, o)
		}
	}
	return img
}

// Flatten composites the background and all objects at the background's
// native resolution. Objects live in display space, so every coordinate is
// divided by the display scale on the way in.
func (r *Renderer) Flatten(bg image.Image, objs []object.Object, displayScale float64) (image.Image, error) {
	if bg == nil {
		return nil, fmt.Errorf("flatten: no background image")
	}
	if displayScale <= 0 {
		return nil, fmt.Errorf("flatten: invalid display scale %v", displayScale)
	}
	b := bg.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(bg, -b.Min.X, -b.Min.Y)
	for _, o := range objs {
		r.draw(dc, o, 1/displayScale)
	}
	return dc.Image(), nil
}

// draw renders one object with every coordinate, stroke width and font size
// multiplied by scale.
func (r *Renderer) draw(dc *gg.Context, o object.Object, scale float64) {
	attrs := o.Attributes()
	dc.SetHexColor(attrs.Color)
	dc.SetLineWidth(attrs.Width * scale)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	switch v := o.(type) {
	case *object.Stroke:
		if len(v.Points) == 1 {
			dc.DrawPoint(v.Points[0].X*scale, v.Points[0].Y*scale, attrs.Width*scale/2)
			dc.Fill()
			return
		}
		for i, p := range v.Points {
			if i == 0 {
				dc.MoveTo(p.X*scale, p.Y*scale)
			} else {
				dc.LineTo(p.X*scale, p.Y*scale)
			}
		}
		dc.Stroke()
	case *object.Line:
		dc.DrawLine(v.X1*scale, v.Y1*scale, v.X2*scale, v.Y2*scale)
		dc.Stroke()
	case *object.Arrow:
		verts := v.Vertices()
		dc.MoveTo(verts[0].X*scale, verts[0].Y*scale)
		dc.LineTo(verts[1].X*scale, verts[1].Y*scale)
		dc.LineTo(verts[2].X*scale, verts[2].Y*scale)
		dc.ClosePath()
		dc.Fill()
	case *object.Rect:
		dc.DrawRectangle(v.X*scale, v.Y*scale, v.W*scale, v.H*scale)
		dc.Stroke()
	case *object.Ellipse:
		dc.DrawEllipse((v.X+v.RX)*scale, (v.Y+v.RY)*scale, v.RX*scale, v.RY*scale)
		dc.Stroke()
	case *object.Text:
		dc.SetFontFace(r.face(v.FontSize * scale))
		// DrawString anchors at the baseline; the object stores its top-left.
		dc.DrawString(v.Content, v.X*scale, (v.Y+v.FontSize)*scale)
	case *object.Group:
		for _, c := range v.Children {
			r.draw(dc, c, scale)
		}
	}
}

func (r *Renderer) drawSelection(dc *gg.Context, o object.Object) {
	b := o.Bounds().Expand(4)
	dc.SetHexColor(selectionColor)
	dc.SetLineWidth(1)
	dc.SetDash(4, 3)
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.Stroke()
	dc.SetDash()
}
