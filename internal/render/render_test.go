package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartMark/internal/object"
)

func redLine(x1, y1, x2, y2 float64) *object.Line {
	l := &object.Line{Attrs: object.NewAttrs("#ff0000", 8), X1: x1, Y1: y1, X2: x2, Y2: y2}
	return l
}

func whiteBackground(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func TestOverlay_TransparentOutsideObjects(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	ov := r.Overlay(100, 100, []object.Object{redLine(10, 50, 90, 50)}, nil)
	require.Equal(t, 100, ov.Bounds().Dx())

	_, _, _, a := ov.At(5, 5).RGBA()
	assert.Zero(t, a, "pixels away from objects stay transparent")

	_, _, _, a = ov.At(50, 50).RGBA()
	assert.NotZero(t, a, "the line must be painted")
}

func TestOverlay_MarksSelection(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	l := redLine(20, 20, 80, 20)
	plain := r.Overlay(100, 100, []object.Object{l}, nil)
	selected := r.Overlay(100, 100, []object.Object{l}, map[string]bool{l.Attributes().ID: true})

	diff := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if plain.RGBAAt(x, y) != selected.RGBAAt(x, y) {
				diff++
			}
		}
	}
	assert.Greater(t, diff, 0, "selection outline must add pixels")
}

func TestFlatten_ScalesBackToSourceResolution(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	// A 100x100 background shown at half scale: the line drawn across the
	// display midline must land on the source midline after flattening.
	line := redLine(5, 25, 45, 25)
	img, err := r.Flatten(whiteBackground(100, 100), []object.Object{line}, 0.5)
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 100, img.Bounds().Dy())

	red, g, _, _ := img.At(50, 50).RGBA()
	assert.Greater(t, red, g, "line lands at the scaled-up position")

	red, g, b, _ := img.At(50, 90).RGBA()
	assert.Equal(t, red, g, "far from the line the background stays white")
	assert.Equal(t, g, b)
}

func TestFlatten_ErrorCases(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Flatten(nil, nil, 1)
	assert.Error(t, err)

	_, err = r.Flatten(whiteBackground(10, 10), nil, 0)
	assert.Error(t, err)
}

func TestDraw_AllVariants(t *testing.T) {
	// Smoke: every variant renders without panicking, including nested groups.
	r, err := New()
	require.NoError(t, err)

	stroke := object.NewStroke(object.NewAttrs("#000000", 2), object.Point{X: 1, Y: 1})
	stroke.Append(object.Point{X: 9, Y: 9})
	head := object.NewArrow(object.NewAttrs("#000000", 2), object.Point{X: 40, Y: 40}, 1.1, 10)
	group := object.NewGroup(object.NewAttrs("#000000", 2), redLine(20, 20, 40, 40), head)

	objs := []object.Object{
		stroke,
		object.NewStroke(object.NewAttrs("#000000", 4), object.Point{X: 30, Y: 5}), // single point
		group,
		&object.Rect{Attrs: object.NewAttrs("#1e88e5", 2), X: 10, Y: 10, W: 30, H: 20},
		&object.Ellipse{Attrs: object.NewAttrs("#43a047", 2), X: 5, Y: 5, RX: 20, RY: 10},
		object.NewText(object.NewAttrs("#000000", 2), object.Point{X: 10, Y: 60}, "breakout", 16),
	}

	ov := r.Overlay(120, 120, objs, nil)
	assert.NotNil(t, ov)

	var painted bool
	for i := 3; i < len(ov.Pix); i += 4 {
		if ov.Pix[i] != 0 {
			painted = true
			break
		}
	}
	assert.True(t, painted)
}
