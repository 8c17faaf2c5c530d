package editor

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartMark/internal/config"
	"ChartMark/internal/object"
	"ChartMark/internal/tools"
)

func newTestController(t *testing.T, save SaveFunc) *Controller {
	t.Helper()
	if save == nil {
		save = func([]byte) error { return nil }
	}
	c, err := New(config.Default(), zerolog.Nop(), save, nil)
	require.NoError(t, err)
	return c
}

func newReadyController(t *testing.T, save SaveFunc) *Controller {
	t.Helper()
	c := newTestController(t, save)
	require.NoError(t, c.SetBackground(image.NewRGBA(image.Rect(0, 0, 400, 300))))
	return c
}

// drawRect runs one full rectangle gesture.
func drawRect(c *Controller, x, y, x2, y2 float64) {
	c.SetTool(tools.ToolRect)
	c.PointerDown(x, y)
	c.PointerMove(x2, y2)
	c.PointerUp(x2, y2)
}

func TestInputRejectedBeforeReady(t *testing.T) {
	c := newTestController(t, nil)
	assert.Equal(t, StateLoading, c.State())

	c.SetTool(tools.ToolRect)
	c.PointerDown(10, 10)
	c.PointerMove(50, 50)
	c.PointerUp(50, 50)

	assert.Nil(t, c.Scene())
	assert.False(t, c.CanUndo())
	assert.Error(t, c.Save())
}

func TestFailLoad(t *testing.T) {
	c := newTestController(t, nil)
	c.FailLoad(errors.New("decode failed"))

	assert.Equal(t, StateFailed, c.State())
	assert.Error(t, c.LoadError())

	c.PointerDown(10, 10)
	assert.Nil(t, c.Scene())
}

func TestUndoRedo_RoundTrip(t *testing.T) {
	c := newReadyController(t, nil)

	const n = 8
	for i := 0; i < n; i++ {
		drawRect(c, float64(10*i), 10, float64(10*i)+5, 20)
	}
	require.Equal(t, n, c.Scene().Len())

	for i := 0; i < n; i++ {
		c.Undo()
	}
	assert.Equal(t, 0, c.Scene().Len(), "n undos return to the background-only state")
	assert.False(t, c.CanUndo())

	c.Undo() // boundary no-op
	assert.Equal(t, 0, c.Scene().Len())

	for i := 0; i < n; i++ {
		c.Redo()
	}
	assert.Equal(t, n, c.Scene().Len(), "n redos restore the final state")
	assert.False(t, c.CanRedo())
}

func TestNewActionAfterUndo_PrunesRedo(t *testing.T) {
	c := newReadyController(t, nil)

	drawRect(c, 10, 10, 50, 50)
	drawRect(c, 60, 60, 90, 90)
	c.Undo()
	require.True(t, c.CanRedo())

	drawRect(c, 100, 100, 120, 120)
	assert.False(t, c.CanRedo())
}

func TestDeleteSelected(t *testing.T) {
	c := newReadyController(t, nil)
	drawRect(c, 10, 10, 60, 60)

	c.SetTool(tools.ToolSelect)
	c.PointerDown(30, 30)
	c.PointerUp(30, 30)
	require.Len(t, c.Scene().SelectedIDs(), 1)

	c.DeleteSelected()
	assert.Equal(t, 0, c.Scene().Len())
	assert.True(t, c.CanUndo())

	c.Undo()
	assert.Equal(t, 1, c.Scene().Len(), "deletion is undoable")
}

func TestDeleteSelected_EmptySelectionIsNoOp(t *testing.T) {
	c := newReadyController(t, nil)
	drawRect(c, 10, 10, 60, 60)

	c.SetTool(tools.ToolSelect)
	canUndoBefore := c.CanUndo()
	canRedoBefore := c.CanRedo()

	c.DeleteSelected()

	assert.Equal(t, 1, c.Scene().Len())
	assert.Equal(t, canUndoBefore, c.CanUndo())
	assert.Equal(t, canRedoBefore, c.CanRedo())
}

func TestSave_NativeResolutionPNG(t *testing.T) {
	var saved []byte
	c := newTestController(t, func(data []byte) error {
		saved = data
		return nil
	})

	// Background larger than the default viewport, so it displays scaled.
	require.NoError(t, c.SetBackground(image.NewRGBA(image.Rect(0, 0, 2000, 1500))))
	dw, _ := c.DisplaySize()
	require.Less(t, dw, 2000, "test needs a scaled-down display")

	drawRect(c, 10, 10, 60, 60)
	require.NoError(t, c.Save())
	require.NotEmpty(t, saved)

	img, err := png.Decode(bytes.NewReader(saved))
	require.NoError(t, err)
	assert.Equal(t, 2000, img.Bounds().Dx())
	assert.Equal(t, 1500, img.Bounds().Dy())
}

func TestSave_CallbackFailureSurfaces(t *testing.T) {
	c := newReadyController(t, func([]byte) error {
		return errors.New("disk full")
	})
	err := c.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCommitText(t *testing.T) {
	c := newReadyController(t, nil)

	var editing *object.Text
	c.SetOnTextEdit(func(tx *object.Text) { editing = tx })

	c.SetTool(tools.ToolText)
	c.PointerDown(40, 50)
	require.NotNil(t, editing)
	assert.True(t, c.EditingText())
	assert.False(t, c.CanUndo(), "no snapshot until the edit commits")

	c.CommitText(editing.Attributes().ID, "entry at 42.1k")
	assert.False(t, c.EditingText())
	assert.True(t, c.CanUndo())

	got := c.Scene().Find(editing.Attributes().ID).(*object.Text)
	assert.Equal(t, "entry at 42.1k", got.Content)
}

func TestCommitText_EmptyRemovesObject(t *testing.T) {
	c := newReadyController(t, nil)

	var editing *object.Text
	c.SetOnTextEdit(func(tx *object.Text) { editing = tx })

	c.SetTool(tools.ToolText)
	c.PointerDown(40, 50)
	require.NotNil(t, editing)

	c.CommitText(editing.Attributes().ID, "")
	assert.Equal(t, 0, c.Scene().Len())
	assert.False(t, c.CanUndo())
}

func TestPointerInputSuspendedWhileEditingText(t *testing.T) {
	c := newReadyController(t, nil)
	c.SetTool(tools.ToolText)
	c.PointerDown(40, 50)
	require.True(t, c.EditingText())

	c.PointerDown(200, 200)
	assert.Equal(t, 1, c.Scene().Len(), "no new objects while an edit is active")
}

func TestHandleKey_Shortcuts(t *testing.T) {
	c := newReadyController(t, nil)
	drawRect(c, 10, 10, 60, 60)

	require.True(t, c.HandleKey(KeyEvent{Name: "z", Ctrl: true}))
	assert.Equal(t, 0, c.Scene().Len())

	require.True(t, c.HandleKey(KeyEvent{Name: "z", Ctrl: true, Shift: true}))
	assert.Equal(t, 1, c.Scene().Len())

	require.True(t, c.HandleKey(KeyEvent{Name: "z", Ctrl: true}))
	require.True(t, c.HandleKey(KeyEvent{Name: "y", Ctrl: true}))
	assert.Equal(t, 1, c.Scene().Len())

	assert.False(t, c.HandleKey(KeyEvent{Name: "z"}), "plain z is not a shortcut")
}

func TestHandleKey_DeleteOnlyInSelectMode(t *testing.T) {
	c := newReadyController(t, nil)
	drawRect(c, 10, 10, 60, 60)

	// Still in rect mode: delete is not dispatched.
	assert.False(t, c.HandleKey(KeyEvent{Name: "delete"}))

	c.SetTool(tools.ToolSelect)
	c.PointerDown(30, 30)
	c.PointerUp(30, 30)

	require.True(t, c.HandleKey(KeyEvent{Name: "backspace"}))
	assert.Equal(t, 0, c.Scene().Len())
}

func TestHandleKey_EscapeCancels(t *testing.T) {
	cancelled := false
	c, err := New(config.Default(), zerolog.Nop(), func([]byte) error { return nil }, func() { cancelled = true })
	require.NoError(t, err)
	require.NoError(t, c.SetBackground(image.NewRGBA(image.Rect(0, 0, 100, 100))))

	require.True(t, c.HandleKey(KeyEvent{Name: "escape"}))
	assert.True(t, cancelled)
	assert.Equal(t, StateClosed, c.State())
}

func TestOnChange_OncePerAction(t *testing.T) {
	c := newReadyController(t, nil)
	count := 0
	c.SetOnChange(func() { count++ })

	c.SetTool(tools.ToolRect)
	count = 0
	c.PointerUp(50, 50) // no gesture in progress: nothing changed
	assert.Equal(t, 0, count)

	c.PointerDown(10, 10)
	assert.Equal(t, 1, count)
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		want       float64
	}{
		{"fits naturally", 800, 600, 1280, 800, 1.0},
		{"width bound", 2560, 800, 1280, 800, 0.5},
		{"height bound", 800, 1600, 1280, 800, 0.5},
		{"both bound, tighter wins", 2560, 3200, 1280, 800, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, fitScale(tt.w, tt.h, tt.maxW, tt.maxH), 1e-9)
		})
	}
}
