// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mapscale/internal/app"
	"mapscale/internal/calibration"
	"mapscale/internal/image"
	"mapscale/internal/session"
	"mapscale/internal/version"
	"mapscale/pkg/geometry"
	"mapscale/ui/canvas"
	"mapscale/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	logger zerolog.Logger

	canvas      *canvas.CalibrationCanvas
	scaleField  *widget.Entry
	offsetField *widget.Entry
	hoverLabel  *widget.Label
	statusBar   *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, logger zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow(version.Name)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		logger: logger,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	cfg := state.Config()
	width := p.FloatWithFallback(prefs.KeyWindowWidth, float64(cfg.Window.Width))
	height := p.FloatWithFallback(prefs.KeyWindowHeight, float64(cfg.Window.Height))
	mw.Resize(fyne.NewSize(float32(width), float32(height)))

	mw.SetCloseIntercept(mw.onClose)

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	style, err := mw.state.Config().Render.Style()
	if err != nil {
		mw.logger.Warn().Err(err).Msg("MainWindow: using default overlay style")
	}
	mw.canvas = canvas.NewCalibrationCanvas(style)
	mw.canvas.OnHover(mw.onHover)

	mw.scaleField = readOnlyEntry()
	mw.offsetField = readOnlyEntry()
	mw.hoverLabel = widget.NewLabel("")
	mw.statusBar = widget.NewLabel("Ready")

	resetBtn := widget.NewButton("Reset", mw.onReset)
	copyBtn := widget.NewButton("Copy", mw.onCopy)

	fields := container.NewGridWithColumns(2,
		container.NewBorder(nil, nil, widget.NewLabel("Scale:"), nil, mw.scaleField),
		container.NewBorder(nil, nil, widget.NewLabel("Offset:"), nil, mw.offsetField),
	)
	bottom := container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewHBox(resetBtn, copyBtn), fields),
		container.NewBorder(nil, nil, nil, mw.hoverLabel, mw.statusBar),
	)

	content := container.NewBorder(
		nil,                         // top
		container.NewPadded(bottom), // bottom
		nil,                         // left
		nil,                         // right
		mw.canvas,                   // center
	)

	mw.SetContent(content)
}

func readOnlyEntry() *widget.Entry {
	e := widget.NewEntry()
	e.Disable()
	return e
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	quitItem := fyne.NewMenuItem("Quit", func() {
		mw.onClose()
		mw.app.Quit()
	})
	quitItem.IsQuit = true

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Marks...", mw.onOpenMarks),
		fyne.NewMenuItem("Open Map Image...", mw.onOpenImage),
		fyne.NewMenuItem("Fetch From Map API", mw.onFetch),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Overlay...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		quitItem,
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Copy Calibration", mw.onCopy),
		fyne.NewMenuItem("Reset Box", mw.onReset),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSessionReady, func(data interface{}) {
		sess, ok := data.(*session.Session)
		if !ok {
			return
		}
		bg := mw.state.Background
		if bg == nil {
			return
		}
		mw.canvas.SetSession(sess, bg.Image)
		mw.SetTitle(version.Name + " - " + filepath.Base(bg.Path))
		mw.updateStatus(fmt.Sprintf("%d marks over %dx%d image", sess.Marks().Len(), bg.Width(), bg.Height()))
	})

	mw.state.On(app.EventCalibrated, func(data interface{}) {
		if c, ok := data.(calibration.Calibration); ok {
			mw.showCalibration(c)
		}
	})

	mw.state.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Exported " + path)
		}
	})
}

// showCalibration fills the read-only fields, or the reason there are no numbers.
func (mw *MainWindow) showCalibration(c calibration.Calibration) {
	if err := c.Err(); err != nil {
		mw.scaleField.SetText(err.Error())
		mw.offsetField.SetText("")
		return
	}
	mw.scaleField.SetText(c.Scale.String())
	mw.offsetField.SetText(c.Offset.String())
}

func (mw *MainWindow) onHover(p geometry.Point2D, ok bool) {
	if !ok {
		mw.hoverLabel.SetText("")
		return
	}
	mw.hoverLabel.SetText(fmt.Sprintf("Mark %s", p))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// LoadInitial loads inputs from config and remembered files, falling back to
// the map API for anything still missing.
func (mw *MainWindow) LoadInitial(ctx context.Context) {
	cfg := mw.state.Config()
	if cfg.Marks.File == "" {
		if path, ok := mw.prefs.ExistingFile(prefs.KeyMarksFile); ok {
			cfg.Marks.File = path
		}
	}
	if cfg.Image.File == "" {
		if path, ok := mw.prefs.ExistingFile(prefs.KeyImageFile); ok {
			cfg.Image.File = path
		}
	}

	mw.updateStatus("Loading...")
	go func() {
		if err := mw.state.Fetch(ctx); err != nil {
			mw.logger.Error().Err(err).Msg("MainWindow: initial load failed")
			mw.updateStatus("Load failed")
			dialog.ShowError(err, mw.Window)
		}
	}()
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) openFile(exts []string, onPath func(path string) error, prefKey string) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()

		if err := onPath(path); err != nil {
			mw.logger.Error().Err(err).Str("path", path).Msg("MainWindow: open failed")
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.RememberFile(prefKey, path)
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// Menu action handlers

func (mw *MainWindow) onOpenMarks() {
	mw.openFile([]string{".json"}, mw.state.LoadMarksFile, prefs.KeyMarksFile)
}

func (mw *MainWindow) onOpenImage() {
	mw.openFile(image.SupportedFormats(), mw.state.LoadImageFile, prefs.KeyImageFile)
}

func (mw *MainWindow) onFetch() {
	cfg := mw.state.Config()
	cfg.Marks.File = ""
	cfg.Image.File = ""
	mw.updateStatus("Fetching map from " + cfg.API.BaseURL)

	go func() {
		if err := mw.state.Fetch(context.Background()); err != nil {
			mw.logger.Error().Err(err).Msg("MainWindow: fetch failed")
			mw.updateStatus("Fetch failed")
			dialog.ShowError(err, mw.Window)
		}
	}()
}

func (mw *MainWindow) onExport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.EqualFold(filepath.Ext(path), ".png") {
			path += ".png"
		}
		if err := mw.state.Export(path, mw.canvas.Viewport()); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
	}, mw.Window)

	fd.SetFileName("overlay.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onReset() {
	mw.canvas.Reset()
}

func (mw *MainWindow) onCopy() {
	c, err := mw.state.Calibration()
	if err != nil {
		mw.updateStatus(err.Error())
		return
	}
	mw.Clipboard().SetContent(c.String())
	mw.updateStatus("Calibration copied")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s v%s\n\n"+
			"Fit a box over a map image to find the scale and offset\n"+
			"from mark coordinates to image pixels.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Name, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

func (mw *MainWindow) onClose() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		mw.logger.Warn().Err(err).Msg("MainWindow: failed to save preferences")
	}
	mw.Close()
}
