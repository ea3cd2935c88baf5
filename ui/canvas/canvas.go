// Package canvas provides the calibration canvas: the fitted map image with
// the box and mark overlay, driven by pointer input.
package canvas

import (
	"image"
	"sync"

	"mapscale/internal/handle"
	"mapscale/internal/render"
	"mapscale/internal/session"
	"mapscale/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CalibrationCanvas renders a session and forwards pointer events to it.
// Positions arrive in device independent units and are scaled to raster
// pixels, which are the display space the session works in.
type CalibrationCanvas struct {
	widget.BaseWidget

	mu      sync.Mutex
	session *session.Session
	bg      image.Image
	style   render.Style

	raster *fynecanvas.Raster

	// Pixel size of the last rendered frame
	pixelSize geometry.Size

	cursor desktop.Cursor

	// Last rendered output for export and tests
	lastOutput *image.RGBA

	// Callbacks
	onUpdate func(up session.Update)
	onHover  func(markPoint geometry.Point2D, ok bool)
}

var (
	_ desktop.Mouseable  = (*CalibrationCanvas)(nil)
	_ desktop.Hoverable  = (*CalibrationCanvas)(nil)
	_ desktop.Cursorable = (*CalibrationCanvas)(nil)
	_ fyne.Draggable     = (*CalibrationCanvas)(nil)
)

// NewCalibrationCanvas creates an empty canvas drawing with style.
func NewCalibrationCanvas(style render.Style) *CalibrationCanvas {
	c := &CalibrationCanvas{
		style:  style,
		cursor: desktop.DefaultCursor,
	}

	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels

	c.ExtendBaseWidget(c)
	return c
}

// SetSession replaces the session and background being shown.
func (c *CalibrationCanvas) SetSession(sess *session.Session, bg image.Image) {
	c.mu.Lock()
	c.session = sess
	c.bg = bg
	c.cursor = desktop.DefaultCursor
	c.mu.Unlock()
	c.Refresh()
}

// SetStyle changes the overlay appearance.
func (c *CalibrationCanvas) SetStyle(style render.Style) {
	c.mu.Lock()
	c.style = style
	c.mu.Unlock()
	c.Refresh()
}

// OnUpdate registers a callback for every session update caused by input.
func (c *CalibrationCanvas) OnUpdate(callback func(up session.Update)) {
	c.onUpdate = callback
}

// OnHover registers a callback with the mark-space point under the pointer.
// ok is false when the pointer leaves or the calibration cannot be inverted.
func (c *CalibrationCanvas) OnHover(callback func(markPoint geometry.Point2D, ok bool)) {
	c.onHover = callback
}

// Reset returns the box to the full image.
func (c *CalibrationCanvas) Reset() {
	c.mu.Lock()
	sess := c.session
	var up session.Update
	if sess != nil {
		up = sess.Reset()
		c.cursor = desktop.DefaultCursor
	}
	c.mu.Unlock()

	if sess != nil {
		c.notify(up)
	}
}

// Viewport returns the display space size used for the last frame.
func (c *CalibrationCanvas) Viewport() geometry.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportLocked()
}

// RenderedOutput returns the last rendered frame.
func (c *CalibrationCanvas) RenderedOutput() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOutput
}

// Cursor implements desktop.Cursorable.
func (c *CalibrationCanvas) Cursor() desktop.Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// MouseDown implements desktop.Mouseable.
func (c *CalibrationCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.dispatch(session.PointerDown, ev.Position)
}

// MouseUp implements desktop.Mouseable.
func (c *CalibrationCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.dispatch(session.PointerUp, ev.Position)
}

// MouseIn implements desktop.Hoverable.
func (c *CalibrationCanvas) MouseIn(ev *desktop.MouseEvent) {
	c.dispatch(session.PointerMove, ev.Position)
}

// MouseMoved implements desktop.Hoverable.
func (c *CalibrationCanvas) MouseMoved(ev *desktop.MouseEvent) {
	c.dispatch(session.PointerMove, ev.Position)
}

// MouseOut implements desktop.Hoverable.
func (c *CalibrationCanvas) MouseOut() {
	if c.onHover != nil {
		c.onHover(geometry.Point2D{}, false)
	}
}

// Dragged implements fyne.Draggable, keeping the drag alive outside the widget.
func (c *CalibrationCanvas) Dragged(ev *fyne.DragEvent) {
	c.dispatch(session.PointerMove, ev.Position)
}

// DragEnd implements fyne.Draggable.
func (c *CalibrationCanvas) DragEnd() {
	c.dispatch(session.PointerUp, fyne.Position{})
}

// dispatch converts a widget position to display space and hands it to the session.
func (c *CalibrationCanvas) dispatch(kind session.EventKind, pos fyne.Position) {
	c.mu.Lock()
	sess := c.session
	if sess == nil {
		c.mu.Unlock()
		return
	}
	viewport := c.viewportLocked()
	if !viewport.IsPositive() {
		c.mu.Unlock()
		return
	}

	p := c.toDisplay(pos, viewport)
	up := sess.Handle(session.Event{Kind: kind, Position: p, Viewport: viewport})
	c.cursor = cursorFor(up.Cursor)
	markPoint, ok := sess.MarkAt(p, viewport)
	c.mu.Unlock()

	c.notify(up)
	if kind != session.PointerUp && c.onHover != nil {
		c.onHover(markPoint, ok)
	}
}

func (c *CalibrationCanvas) notify(up session.Update) {
	if up.Redraw {
		c.raster.Refresh()
	}
	if c.onUpdate != nil {
		c.onUpdate(up)
	}
}

// viewportLocked prefers the raster's pixel size and falls back to the
// widget size before the first frame.
func (c *CalibrationCanvas) viewportLocked() geometry.Size {
	if c.pixelSize.IsPositive() {
		return c.pixelSize
	}
	size := c.Size()
	return geometry.NewSize(float64(size.Width), float64(size.Height))
}

func (c *CalibrationCanvas) toDisplay(pos fyne.Position, viewport geometry.Size) geometry.Point2D {
	size := c.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
	}
	return geometry.Point2D{
		X: float64(pos.X) * viewport.Width / float64(size.Width),
		Y: float64(pos.Y) * viewport.Height / float64(size.Height),
	}
}

// draw is the raster drawing function.
func (c *CalibrationCanvas) draw(w, h int) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pixelSize = geometry.NewSize(float64(w), float64(h))

	var scene session.Scene
	if c.session != nil && w > 0 && h > 0 {
		scene = c.session.Scene(c.pixelSize)
	} else {
		scene = session.Scene{Viewport: c.pixelSize}
	}

	var bg image.Image
	if c.session != nil {
		bg = c.bg
	}
	c.lastOutput = render.Frame(bg, scene, c.style)
	return c.lastOutput
}

// cursorFor maps a resize hint onto the cursors the desktop driver offers.
// There are no diagonal resize cursors, so corners use the crosshair.
func cursorFor(hint handle.Cursor) desktop.Cursor {
	switch hint {
	case handle.CursorResizeNS:
		return desktop.VResizeCursor
	case handle.CursorResizeWE:
		return desktop.HResizeCursor
	case handle.CursorResizeNWSE, handle.CursorResizeNESW:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

// CreateRenderer implements fyne.Widget.
func (c *CalibrationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &calibrationCanvasRenderer{canvas: c}
}

type calibrationCanvasRenderer struct {
	canvas *CalibrationCanvas
}

func (r *calibrationCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *calibrationCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *calibrationCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *calibrationCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *calibrationCanvasRenderer) Destroy() {}
