// Package editor composes the scene graph, history and tool machine behind
// one controller, and owns the session lifecycle from image load to save or
// cancel.
package editor

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"ChartMark/internal/config"
	"ChartMark/internal/export"
	"ChartMark/internal/history"
	"ChartMark/internal/object"
	"ChartMark/internal/render"
	"ChartMark/internal/scene"
	"ChartMark/internal/tools"
)

// State is the session lifecycle. Drawing input is only accepted in
// StateReady; before the background has loaded and the canvas has been sized
// to it, every pointer and key event is rejected.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
	StateClosed
)

// SaveFunc receives the flattened raster as lossless PNG bytes.
type SaveFunc func(png []byte) error

// KeyEvent is the controller's view of a keyboard shortcut. Ctrl stands for
// either Ctrl or Cmd; Name is the lower-case key name.
type KeyEvent struct {
	Name  string
	Ctrl  bool
	Shift bool
}

// Controller routes host input through the tool machine and turns completed
// gestures into history snapshots. It is owned by a single interactive
// session and expects all calls on the UI event goroutine.
type Controller struct {
	cfg *config.Config
	log zerolog.Logger

	renderer *render.Renderer
	scene    *scene.Scene
	hist     *history.Manager
	machine  *tools.Machine

	state   State
	loadErr error

	tool     tools.Tool
	settings tools.Settings

	editingText string // ID of the text object being edited in place

	save       SaveFunc
	onCancel   func()
	onChange   func()
	onTextEdit func(*object.Text)
}

// New builds a controller in StateLoading. The session becomes interactive
// once SetBackground delivers the decoded image.
func New(cfg *config.Config, log zerolog.Logger, save SaveFunc, onCancel func()) (*Controller, error) {
	r, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	return &Controller{
		cfg:      cfg,
		log:      log.With().Str("component", "editor").Logger(),
		renderer: r,
		hist:     history.New(cfg.HistoryLimit),
		state:    StateLoading,
		tool:     tools.ToolSelect,
		settings: tools.Settings{
			Color:         cfg.Palette[0],
			Width:         cfg.StrokeWidths[0],
			FontSize:      cfg.FontSize,
			ArrowHeadSize: cfg.ArrowHeadSize,
		},
		save:     save,
		onCancel: onCancel,
	}, nil
}

// SetOnChange registers the redraw/state-sync hook. It fires exactly once per
// discrete user action.
func (c *Controller) SetOnChange(fn func()) { c.onChange = fn }

// SetOnTextEdit registers the hook that opens in-place text editing.
func (c *Controller) SetOnTextEdit(fn func(*object.Text)) { c.onTextEdit = fn }

// SetBackground moves the session to StateReady: it computes the viewport fit
// scale, builds the scene and seeds history with the background-only state.
func (c *Controller) SetBackground(img image.Image) error {
	if c.state != StateLoading {
		return fmt.Errorf("editor: background already set")
	}
	b := img.Bounds()
	fit := fitScale(b.Dx(), b.Dy(), c.cfg.MaxViewportWidth, c.cfg.MaxViewportHeight)
	c.scene = scene.New(img, fit, c.renderer)
	c.machine = tools.NewMachine(c.scene, c.settings)
	c.machine.SetTool(c.tool)
	if err := c.snapshot(); err != nil {
		return err
	}
	c.state = StateReady
	c.log.Info().
		Int("width", b.Dx()).Int("height", b.Dy()).
		Float64("fit_scale", fit).
		Msg("session ready")
	c.notify()
	return nil
}

// FailLoad records a background load failure. The editor stays open but
// refuses drawing input until cancelled.
func (c *Controller) FailLoad(err error) {
	c.state = StateFailed
	c.loadErr = err
	c.log.Error().Err(err).Msg("background load failed")
	c.notify()
}

func (c *Controller) State() State { return c.state }

func (c *Controller) LoadError() error { return c.loadErr }

func (c *Controller) ready() bool { return c.state == StateReady }

// PointerDown routes a press at display coordinates to the active tool.
func (c *Controller) PointerDown(x, y float64) {
	if !c.ready() || c.editingText != "" {
		return
	}
	c.apply(c.machine.PointerDown(object.Point{X: x, Y: y}))
}

func (c *Controller) PointerMove(x, y float64) {
	if !c.ready() || c.editingText != "" {
		return
	}
	c.apply(c.machine.PointerMove(object.Point{X: x, Y: y}))
}

func (c *Controller) PointerUp(x, y float64) {
	if !c.ready() || c.editingText != "" {
		return
	}
	c.apply(c.machine.PointerUp(object.Point{X: x, Y: y}))
}

func (c *Controller) apply(res tools.Result) {
	if res.EditText != nil {
		c.editingText = res.EditText.Attributes().ID
		if c.onTextEdit != nil {
			c.onTextEdit(res.EditText)
		}
	}
	if res.Commit {
		if err := c.snapshot(); err != nil {
			c.log.Error().Err(err).Msg("snapshot failed")
		}
	}
	if res.Redraw || res.Commit {
		c.notify()
	}
}

// CommitText finishes in-place editing. Committing empty content removes the
// object instead of keeping an invisible annotation; only a non-empty commit
// snapshots.
func (c *Controller) CommitText(id, content string) {
	if !c.ready() || c.editingText != id {
		return
	}
	c.editingText = ""
	t, ok := c.scene.Find(id).(*object.Text)
	if !ok {
		return
	}
	if content == "" {
		c.scene.Remove(id)
		c.notify()
		return
	}
	t.Content = content
	if err := c.snapshot(); err != nil {
		c.log.Error().Err(err).Msg("snapshot failed")
	}
	c.notify()
}

// CancelText abandons in-place editing and discards the placeholder object.
func (c *Controller) CancelText(id string) {
	if c.editingText != id {
		return
	}
	c.editingText = ""
	if c.ready() {
		c.scene.Remove(id)
	}
	c.notify()
}

// EditingText reports whether an in-place text edit is active; keyboard
// shortcuts are suspended while it is.
func (c *Controller) EditingText() bool { return c.editingText != "" }

func (c *Controller) snapshot() error {
	data, err := c.scene.Snapshot()
	if err != nil {
		return err
	}
	c.hist.Push(data)
	return nil
}

// Undo restores the previous snapshot; at the initial state it is a silent
// no-op.
func (c *Controller) Undo() {
	if !c.ready() {
		return
	}
	entry, ok := c.hist.Undo()
	if !ok {
		return
	}
	if err := c.scene.Restore(entry); err != nil {
		c.log.Error().Err(err).Msg("undo restore failed")
		return
	}
	c.notify()
}

// Redo restores the next snapshot; at the latest state it is a silent no-op.
func (c *Controller) Redo() {
	if !c.ready() {
		return
	}
	entry, ok := c.hist.Redo()
	if !ok {
		return
	}
	if err := c.scene.Restore(entry); err != nil {
		c.log.Error().Err(err).Msg("redo restore failed")
		return
	}
	c.notify()
}

func (c *Controller) CanUndo() bool { return c.ready() && c.hist.CanUndo() }

func (c *Controller) CanRedo() bool { return c.ready() && c.hist.CanRedo() }

// DeleteSelected removes the selected objects and snapshots. With an empty
// selection it leaves scene and history untouched.
func (c *Controller) DeleteSelected() {
	if !c.ready() {
		return
	}
	ids := c.scene.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	c.scene.Remove(ids...)
	if err := c.snapshot(); err != nil {
		c.log.Error().Err(err).Msg("snapshot failed")
	}
	c.notify()
}

func (c *Controller) SetTool(t tools.Tool) {
	c.tool = t
	if c.machine != nil {
		c.machine.SetTool(t)
	}
	c.notify()
}

func (c *Controller) Tool() tools.Tool { return c.tool }

func (c *Controller) SetColor(hex string) {
	c.settings.Color = hex
	if c.machine != nil {
		c.machine.SetSettings(c.settings)
	}
}

func (c *Controller) Color() string { return c.settings.Color }

func (c *Controller) SetWidth(w float64) {
	c.settings.Width = w
	if c.machine != nil {
		c.machine.SetSettings(c.settings)
	}
}

func (c *Controller) Width() float64 { return c.settings.Width }

// Save flattens the scene to the background's native resolution and hands the
// PNG bytes to the save callback. Failures are returned, never swallowed.
func (c *Controller) Save() error {
	if !c.ready() {
		return fmt.Errorf("editor: not ready")
	}
	img, err := c.scene.Flatten()
	if err != nil {
		return fmt.Errorf("editor save: %w", err)
	}
	data, err := export.PNG(img)
	if err != nil {
		return fmt.Errorf("editor save: %w", err)
	}
	if err := c.save(data); err != nil {
		return fmt.Errorf("editor save: %w", err)
	}
	c.log.Info().Int("bytes", len(data)).Msg("saved flattened image")
	return nil
}

// Flatten exposes the composited raster for alternative exports (PDF).
func (c *Controller) Flatten() (image.Image, error) {
	if !c.ready() {
		return nil, fmt.Errorf("editor: not ready")
	}
	return c.scene.Flatten()
}

// Cancel closes the session without saving.
func (c *Controller) Cancel() {
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	c.log.Info().Msg("session cancelled")
	if c.onCancel != nil {
		c.onCancel()
	}
}

// HandleKey dispatches the editor's keyboard shortcuts. It returns false for
// keys it does not own, and ignores everything while a text edit is active.
func (c *Controller) HandleKey(k KeyEvent) bool {
	if c.editingText != "" {
		return false
	}
	switch {
	case k.Name == "escape":
		c.Cancel()
		return true
	case k.Ctrl && k.Name == "z" && !k.Shift:
		c.Undo()
		return true
	case k.Ctrl && (k.Name == "y" || (k.Name == "z" && k.Shift)):
		c.Redo()
		return true
	case (k.Name == "delete" || k.Name == "backspace") && c.tool == tools.ToolSelect:
		c.DeleteSelected()
		return true
	}
	return false
}

// Overlay renders the annotation layer at display size.
func (c *Controller) Overlay() *image.RGBA {
	if !c.ready() {
		return nil
	}
	return c.scene.Overlay()
}

// Background returns the session's background image, or nil before ready.
func (c *Controller) Background() image.Image {
	if c.scene == nil {
		return nil
	}
	return c.scene.Background()
}

// DisplaySize is the fitted canvas size in display pixels.
func (c *Controller) DisplaySize() (int, int) {
	if c.scene == nil {
		return 0, 0
	}
	return c.scene.DisplaySize()
}

// Scene exposes the scene graph for tests and the host widget.
func (c *Controller) Scene() *scene.Scene { return c.scene }

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// fitScale computes how much the background must shrink to fit the viewport.
// Images smaller than the viewport are shown at natural size.
func fitScale(w, h, maxW, maxH int) float64 {
	s := 1.0
	if w > maxW {
		s = float64(maxW) / float64(w)
	}
	if sh := float64(maxH) / float64(h); h > maxH && sh < s {
		s = sh
	}
	return s
}
