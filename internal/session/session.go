// Package session drives an interactive calibration: it owns the calibration
// box, the handle currently held, and the calibration derived from them, and
// updates them in response to pointer events.
//
// A Session is not safe for concurrent use. Feed it events from the single
// goroutine that receives pointer input.
package session

import (
	"errors"
	"fmt"

	"mapscale/internal/calibration"
	"mapscale/internal/handle"
	"mapscale/internal/mark"
	"mapscale/internal/transform"
	"mapscale/pkg/geometry"

	"github.com/rs/zerolog"
)

// ErrInvalidImage is returned when the image geometry is not positive.
var ErrInvalidImage = errors.New("image dimensions must be positive")

// EventKind is the kind of pointer event fed to Handle.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
)

// Event is a pointer event in display space together with the viewport it
// was received in.
type Event struct {
	Kind     EventKind
	Position geometry.Point2D
	Viewport transform.Viewport
}

// Update tells the caller what to do after an event.
type Update struct {
	Redraw bool
	Cursor handle.Cursor
	// Hover is the grab location under the pointer, or the held one while dragging.
	Hover handle.GrabLocation
}

// EventType identifies notifications emitted by a session.
type EventType int

const (
	// EventCalibrated fires with the new calibration.Calibration whenever the box changes.
	EventCalibrated EventType = iota
	// EventGrabbed fires with the handle.GrabLocation picked up on pointer-down.
	EventGrabbed
	// EventReleased fires with the handle.GrabLocation let go on pointer-up.
	EventReleased
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Option configures a Session.
type Option func(*Session)

// WithGrabTolerance sets how close, in image pixels, the pointer must be to grab an edge.
func WithGrabTolerance(tolerance float64) Option {
	return func(s *Session) { s.tolerance = tolerance }
}

// WithMinBoxDimension sets the smallest width and height the box can be dragged to.
func WithMinBoxDimension(minBox float64) Option {
	return func(s *Session) { s.minBox = minBox }
}

// WithLogger sets the logger used for drag diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.log = logger }
}

// Session is one calibration of one image against one set of marks.
type Session struct {
	marks *mark.Store
	image transform.ImageGeometry

	box   calibration.Box
	held  handle.GrabLocation
	calib calibration.Calibration

	tolerance float64
	minBox    float64
	log       zerolog.Logger

	listeners map[EventType][]EventListener
}

// New creates a session with the box covering the whole image.
func New(marks *mark.Store, image transform.ImageGeometry, opts ...Option) (*Session, error) {
	if marks == nil || marks.Len() == 0 {
		return nil, mark.ErrNoMarks
	}
	if !image.IsPositive() {
		return nil, fmt.Errorf("%w: got %gx%g", ErrInvalidImage, image.Width, image.Height)
	}

	s := &Session{
		marks:     marks,
		image:     image,
		tolerance: handle.DefaultGrabTolerance,
		minBox:    DefaultMinBoxDimension,
		log:       zerolog.Nop(),
		listeners: make(map[EventType][]EventListener),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.box = calibration.FullImage(image)
	s.calib = calibration.Compute(s.box, marks.Extents())
	return s, nil
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

func (s *Session) emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// Box returns the current calibration box in image space.
func (s *Session) Box() calibration.Box {
	return s.box
}

// Calibration returns the calibration derived from the current box.
func (s *Session) Calibration() calibration.Calibration {
	return s.calib
}

// Held returns the grab location being dragged, or handle.None when idle.
func (s *Session) Held() handle.GrabLocation {
	return s.held
}

// Image returns the image geometry the session was created with.
func (s *Session) Image() transform.ImageGeometry {
	return s.image
}

// Marks returns the mark store.
func (s *Session) Marks() *mark.Store {
	return s.marks
}

// Handle dispatches a pointer event.
func (s *Session) Handle(ev Event) Update {
	switch ev.Kind {
	case PointerDown:
		return s.PointerDown(ev.Position, ev.Viewport)
	case PointerMove:
		return s.PointerMove(ev.Position, ev.Viewport)
	case PointerUp:
		return s.PointerUp()
	default:
		return Update{Cursor: handle.CursorFor(s.held), Hover: s.held}
	}
}

// PointerDown picks up whatever handle is under p. Nothing is held if p
// misses every edge.
func (s *Session) PointerDown(p geometry.Point2D, viewport transform.Viewport) Update {
	if !p.IsFinite() {
		return Update{Cursor: handle.CursorFor(s.held), Hover: s.held}
	}

	s.held = handle.HitTest(s.toImage(p, viewport), s.box, s.tolerance)
	if s.held != handle.None {
		s.log.Debug().Str("handle", s.held.String()).Msg("Session: grabbed")
		s.emit(EventGrabbed, s.held)
	}
	return Update{Cursor: handle.CursorFor(s.held), Hover: s.held}
}

// PointerMove drags the held handle to p, or reports the hover hint when
// nothing is held.
func (s *Session) PointerMove(p geometry.Point2D, viewport transform.Viewport) Update {
	if !p.IsFinite() {
		return Update{Cursor: handle.CursorFor(s.held), Hover: s.held}
	}

	imagePoint := s.toImage(p, viewport)

	if s.held == handle.None {
		hover := handle.HitTest(imagePoint, s.box, s.tolerance)
		return Update{Cursor: handle.CursorFor(hover), Hover: hover}
	}

	s.box = Resize(s.box, s.held, imagePoint, s.image, s.minBox)
	s.recalibrate()
	return Update{Redraw: true, Cursor: handle.CursorFor(s.held), Hover: s.held}
}

// PointerUp lets go of the held handle, if any.
func (s *Session) PointerUp() Update {
	if s.held != handle.None {
		s.log.Debug().
			Str("handle", s.held.String()).
			Stringer("calibration", s.calib).
			Msg("Session: released")
		s.emit(EventReleased, s.held)
	}
	s.held = handle.None
	return Update{Cursor: handle.CursorDefault, Hover: handle.None}
}

// Reset returns the box to the full image extent.
func (s *Session) Reset() Update {
	s.held = handle.None
	s.box = calibration.FullImage(s.image)
	s.recalibrate()
	return Update{Redraw: true, Cursor: handle.CursorDefault, Hover: handle.None}
}

// SetBox places the box at b (image space) as if its top-left and then its
// bottom-right corner had been dragged there from the full image, so the
// same clamps apply.
func (s *Session) SetBox(b calibration.Box) Update {
	s.held = handle.None
	box := calibration.FullImage(s.image)
	box = Resize(box, handle.TopLeft, b.TopLeft, s.image, s.minBox)
	box = Resize(box, handle.BottomRight, b.BottomRight, s.image, s.minBox)
	s.box = box
	s.recalibrate()
	return Update{Redraw: true, Cursor: handle.CursorDefault, Hover: handle.None}
}

func (s *Session) recalibrate() {
	s.calib = calibration.Compute(s.box, s.marks.Extents())
	if err := s.calib.Err(); err != nil {
		s.log.Warn().Err(err).Msg("Session: calibration is not finite")
	}
	s.emit(EventCalibrated, s.calib)
}

func (s *Session) toImage(p geometry.Point2D, viewport transform.Viewport) geometry.Point2D {
	return transform.DisplayToImage(p, s.image, viewport)
}
