package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"ChartMark/internal/editor"
	"ChartMark/internal/object"
)

// EditorWidget is the drawing surface: the scaled background image with the
// annotation overlay on top. Pointer events go straight to the controller.
type EditorWidget struct {
	widget.BaseWidget
	ctrl *editor.Controller

	background *canvas.Image
	overlay    *canvas.Image
	entry      *annotationEntry
	editingID  string
}

var _ fyne.Widget = (*EditorWidget)(nil)
var _ fyne.Draggable = (*EditorWidget)(nil)
var _ desktop.Mouseable = (*EditorWidget)(nil)

func NewEditorWidget(ctrl *editor.Controller) *EditorWidget {
	e := &EditorWidget{ctrl: ctrl}
	e.background = canvas.NewImageFromImage(nil)
	e.background.FillMode = canvas.ImageFillStretch
	e.overlay = canvas.NewImageFromImage(nil)
	e.overlay.FillMode = canvas.ImageFillStretch
	e.entry = newAnnotationEntry()
	e.entry.Hide()
	e.entry.onCommit = func(text string) { e.finishEdit(text, true) }
	e.entry.onCancel = func() { e.finishEdit("", false) }
	ctrl.SetOnTextEdit(e.beginEdit)
	e.ExtendBaseWidget(e)
	return e
}

func (e *EditorWidget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		e.ctrl.PointerDown(float64(ev.Position.X), float64(ev.Position.Y))
	}
}

func (e *EditorWidget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		e.ctrl.PointerUp(float64(ev.Position.X), float64(ev.Position.Y))
	}
}

func (e *EditorWidget) Dragged(ev *fyne.DragEvent) {
	e.ctrl.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
}

func (e *EditorWidget) DragEnd() {}

func (e *EditorWidget) MouseIn(*desktop.MouseEvent)    {}
func (e *EditorWidget) MouseOut()                      {}
func (e *EditorWidget) MouseMoved(*desktop.MouseEvent) {}

// beginEdit drops the in-place entry over a freshly created text object.
func (e *EditorWidget) beginEdit(t *object.Text) {
	e.editingID = t.Attributes().ID
	e.entry.SetText(t.Content)
	e.entry.Move(fyne.NewPos(float32(t.X), float32(t.Y)))
	e.entry.Resize(fyne.NewSize(180, 40))
	e.entry.Show()
	if c := fyne.CurrentApp().Driver().CanvasForObject(e); c != nil {
		c.Focus(e.entry)
	}
}

func (e *EditorWidget) finishEdit(text string, commit bool) {
	id := e.editingID
	if id == "" {
		return
	}
	e.editingID = ""
	e.entry.Hide()
	if commit {
		e.ctrl.CommitText(id, text)
	} else {
		e.ctrl.CancelText(id)
	}
	e.Refresh()
}

func (e *EditorWidget) CreateRenderer() fyne.WidgetRenderer {
	return &editorRenderer{w: e}
}

type editorRenderer struct {
	w *EditorWidget
}

func (r *editorRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.w.background, r.w.overlay, r.w.entry}
}

func (r *editorRenderer) Layout(fyne.Size) {
	dw, dh := r.w.ctrl.DisplaySize()
	size := fyne.NewSize(float32(dw), float32(dh))
	r.w.background.Resize(size)
	r.w.overlay.Resize(size)
}

func (r *editorRenderer) MinSize() fyne.Size {
	dw, dh := r.w.ctrl.DisplaySize()
	if dw == 0 || dh == 0 {
		return fyne.NewSize(400, 300)
	}
	return fyne.NewSize(float32(dw), float32(dh))
}

func (r *editorRenderer) Refresh() {
	if bg := r.w.ctrl.Background(); bg != nil && r.w.background.Image == nil {
		r.w.background.Image = bg
	}
	var ov image.Image
	if o := r.w.ctrl.Overlay(); o != nil {
		ov = o
	}
	r.w.overlay.Image = ov
	r.Layout(r.w.Size())
	canvas.Refresh(r.w.background)
	canvas.Refresh(r.w.overlay)
}

func (r *editorRenderer) Destroy() {}

// annotationEntry is a single-line entry that commits on Enter and cancels
// on Escape.
type annotationEntry struct {
	widget.Entry
	onCommit func(string)
	onCancel func()
}

func newAnnotationEntry() *annotationEntry {
	e := &annotationEntry{}
	e.ExtendBaseWidget(e)
	e.OnSubmitted = func(text string) {
		if e.onCommit != nil {
			e.onCommit(text)
		}
	}
	return e
}

func (e *annotationEntry) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape {
		if e.onCancel != nil {
			e.onCancel()
		}
		return
	}
	e.Entry.TypedKey(ev)
}
