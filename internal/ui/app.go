package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"ChartMark/internal/config"
	"ChartMark/internal/editor"
	"ChartMark/internal/export"
	"ChartMark/internal/imageio"
)

// RunApp opens one annotation session over the referenced image and blocks
// until the window closes.
func RunApp(cfg *config.Config, log zerolog.Logger, imageRef string) error {
	a := app.New()
	win := a.NewWindow("ChartMark")

	var tb *Toolbar

	saveFn := func(data []byte) error {
		name := fmt.Sprintf("annotated-%s.png", time.Now().Format("20060102-150405"))
		path := filepath.Join(cfg.ExportDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := clipboard.WriteAll(path); err != nil {
			log.Warn().Err(err).Msg("clipboard unavailable")
		}
		tb.SetStatus("Saved " + path)
		log.Info().Str("path", path).Msg("exported png")
		return nil
	}

	ctrl, err := editor.New(cfg, log, saveFn, win.Close)
	if err != nil {
		return err
	}

	ew := NewEditorWidget(ctrl)

	onSave := func() {
		if err := ctrl.Save(); err != nil {
			dialog.ShowError(err, win)
		}
	}
	onExportPDF := func() {
		img, err := ctrl.Flatten()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		name := fmt.Sprintf("annotated-%s.pdf", time.Now().Format("20060102-150405"))
		path := filepath.Join(cfg.ExportDir, name)
		if err := export.WritePDF(path, img); err != nil {
			dialog.ShowError(err, win)
			return
		}
		tb.SetStatus("Exported " + path)
		log.Info().Str("path", path).Msg("exported pdf")
	}

	tb = NewToolbar(ctrl, cfg, onSave, onExportPDF, ctrl.Cancel)

	ctrl.SetOnChange(func() {
		ew.Refresh()
		tb.Sync(ctrl)
	})

	win.SetContent(container.NewBorder(
		tb.Container(), nil, nil, nil,
		container.NewScroll(container.NewCenter(ew)),
	))
	win.Resize(fyne.NewSize(float32(cfg.MaxViewportWidth), float32(cfg.MaxViewportHeight)))

	bindShortcuts(win, ctrl)

	// The image decode is the session's one asynchronous boundary; drawing
	// input stays rejected until it resolves.
	go func() {
		img, loadErr := imageio.Load(context.Background(), imageRef)
		fyne.Do(func() {
			if loadErr != nil {
				ctrl.FailLoad(loadErr)
				tb.SetStatus("Image load failed")
				dialog.ShowError(loadErr, win)
				return
			}
			if err := ctrl.SetBackground(img); err != nil {
				ctrl.FailLoad(err)
				dialog.ShowError(err, win)
				return
			}
			tb.SetStatus("Ready")
		})
	}()

	win.ShowAndRun()
	return nil
}

func bindShortcuts(win fyne.Window, ctrl *editor.Controller) {
	canv := win.Canvas()

	canv.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		ctrl.HandleKey(editor.KeyEvent{Name: "z", Ctrl: true})
	})
	canv.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift,
	}, func(fyne.Shortcut) {
		ctrl.HandleKey(editor.KeyEvent{Name: "z", Ctrl: true, Shift: true})
	})
	canv.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyY,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		ctrl.HandleKey(editor.KeyEvent{Name: "y", Ctrl: true})
	})

	// Typed keys only arrive here while no text entry has focus.
	canv.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			ctrl.HandleKey(editor.KeyEvent{Name: "escape"})
		case fyne.KeyDelete:
			ctrl.HandleKey(editor.KeyEvent{Name: "delete"})
		case fyne.KeyBackspace:
			ctrl.HandleKey(editor.KeyEvent{Name: "backspace"})
		}
	})
}
