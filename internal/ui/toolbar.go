package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ChartMark/internal/config"
	"ChartMark/internal/editor"
	"ChartMark/internal/tools"
)

var toolOrder = []tools.Tool{
	tools.ToolSelect,
	tools.ToolPencil,
	tools.ToolLine,
	tools.ToolArrow,
	tools.ToolRect,
	tools.ToolEllipse,
	tools.ToolText,
}

var toolLabels = map[tools.Tool]string{
	tools.ToolSelect:  "Select",
	tools.ToolPencil:  "Pencil",
	tools.ToolLine:    "Line",
	tools.ToolArrow:   "Arrow",
	tools.ToolRect:    "Rect",
	tools.ToolEllipse: "Ellipse",
	tools.ToolText:    "Text",
}

// Toolbar offers tool, color and width selection plus the session actions.
type Toolbar struct {
	container *fyne.Container

	undoBtn *widget.Button
	redoBtn *widget.Button
	status  *widget.Label
}

// NewToolbar wires the controls to the controller. Save and export actions
// are supplied by the app so the toolbar stays free of file handling.
func NewToolbar(ctrl *editor.Controller, cfg *config.Config, onSave, onExportPDF, onCancel func()) *Toolbar {
	t := &Toolbar{status: widget.NewLabel("Loading image...")}

	labels := make([]string, len(toolOrder))
	for i, tool := range toolOrder {
		labels[i] = toolLabels[tool]
	}
	toolRadio := widget.NewRadioGroup(labels, func(selected string) {
		for tool, label := range toolLabels {
			if label == selected {
				ctrl.SetTool(tool)
				return
			}
		}
	})
	toolRadio.Horizontal = true
	toolRadio.SetSelected(toolLabels[tools.ToolSelect])

	swatches := make([]fyne.CanvasObject, 0, len(cfg.Palette))
	for _, hex := range cfg.Palette {
		hex := hex
		swatches = append(swatches, newColorSwatch(parseHexColor(hex), func() {
			ctrl.SetColor(hex)
		}))
	}

	widths := make([]string, len(cfg.StrokeWidths))
	for i, w := range cfg.StrokeWidths {
		widths[i] = strconv.FormatFloat(w, 'f', -1, 64)
	}
	widthSelect := widget.NewSelect(widths, func(selected string) {
		if w, err := strconv.ParseFloat(selected, 64); err == nil {
			ctrl.SetWidth(w)
		}
	})
	widthSelect.SetSelected(widths[0])

	t.undoBtn = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), ctrl.Undo)
	t.redoBtn = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), ctrl.Redo)
	t.undoBtn.Disable()
	t.redoBtn.Disable()
	deleteBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), ctrl.DeleteSelected)
	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), onSave)
	pdfBtn := widget.NewButton("PDF", onExportPDF)
	cancelBtn := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), onCancel)

	t.container = container.NewVBox(
		container.NewHBox(
			toolRadio,
			widget.NewSeparator(),
			container.NewHBox(swatches...),
			widget.NewSeparator(),
			widget.NewLabel("Width:"),
			widthSelect,
		),
		container.NewHBox(
			t.undoBtn, t.redoBtn, deleteBtn,
			widget.NewSeparator(),
			saveBtn, pdfBtn, cancelBtn,
			layout.NewSpacer(),
			t.status,
		),
	)

	return t
}

func (t *Toolbar) Container() fyne.CanvasObject { return t.container }

// Sync refreshes control enablement from the controller after each action.
func (t *Toolbar) Sync(ctrl *editor.Controller) {
	if ctrl.CanUndo() {
		t.undoBtn.Enable()
	} else {
		t.undoBtn.Disable()
	}
	if ctrl.CanRedo() {
		t.redoBtn.Enable()
	} else {
		t.redoBtn.Disable()
	}
}

// SetStatus updates the status label.
func (t *Toolbar) SetStatus(text string) {
	t.status.SetText(text)
}

// colorSwatch is a tappable palette square.
type colorSwatch struct {
	widget.BaseWidget
	fill     color.Color
	onTapped func()
}

func newColorSwatch(c color.Color, tapped func()) *colorSwatch {
	s := &colorSwatch{fill: c, onTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.fill)
	rect.SetMinSize(fyne.NewSize(28, 28))
	rect.StrokeColor = color.Gray{Y: 120}
	rect.StrokeWidth = 1
	return widget.NewSimpleRenderer(rect)
}

func (s *colorSwatch) Tapped(*fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped()
	}
}

// parseHexColor reads #rgb, #rrggbb or #rrggbbaa; anything else is black.
func parseHexColor(s string) color.Color {
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("hex color %q", s)
	}
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}
