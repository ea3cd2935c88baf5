// Package app provides application state: the loaded marks, the background
// map image, and the calibration session built from them.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mapscale/internal/calibration"
	"mapscale/internal/config"
	"mapscale/internal/image"
	"mapscale/internal/mapapi"
	"mapscale/internal/mark"
	"mapscale/internal/render"
	"mapscale/internal/session"
	"mapscale/internal/transform"

	"github.com/rs/zerolog"
)

// ErrNotReady is returned when an operation needs both marks and an image.
var ErrNotReady = errors.New("marks and map image must both be loaded")

// EventType identifies different application events.
type EventType int

const (
	EventMarksLoaded EventType = iota
	EventImageLoaded
	EventSessionReady
	EventCalibrated
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the loaded inputs and the active session.
type State struct {
	mu sync.RWMutex

	cfg    *config.Config
	logger zerolog.Logger

	Marks      *mark.Store
	MarksPath  string
	Background *image.Background
	Session    *session.Session

	listeners map[EventType][]EventListener
}

// NewState creates a new application state.
func NewState(cfg *config.Config, logger zerolog.Logger) *State {
	return &State{
		cfg:       cfg,
		logger:    logger,
		listeners: make(map[EventType][]EventListener),
	}
}

// Config returns the settings the state was created with.
func (s *State) Config() *config.Config {
	return s.cfg
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadMarksFile replaces the marks with the contents of a JSON file.
func (s *State) LoadMarksFile(path string) error {
	store, err := mark.LoadFile(path)
	if err != nil {
		return err
	}
	s.logger.Info().Str("path", path).Int("count", store.Len()).Msg("App: marks loaded")
	s.setMarks(store, path)
	return nil
}

// LoadImageFile replaces the background with a local image file.
func (s *State) LoadImageFile(path string) error {
	bg, err := image.Load(path)
	if err != nil {
		return err
	}
	s.logger.Info().Str("path", path).Int("width", bg.Width()).Int("height", bg.Height()).Msg("App: image loaded")
	s.setBackground(bg)
	return nil
}

// Fetch loads whatever the config does not point at locally from the map API:
// the points of interest, the map image, or both.
func (s *State) Fetch(ctx context.Context) error {
	if s.cfg.Marks.File != "" {
		if err := s.LoadMarksFile(s.cfg.Marks.File); err != nil {
			return err
		}
	}
	if s.cfg.Image.File != "" {
		if err := s.LoadImageFile(s.cfg.Image.File); err != nil {
			return err
		}
	}
	if s.cfg.Marks.File != "" && s.cfg.Image.File != "" {
		return nil
	}

	api := s.cfg.API
	client := mapapi.New(api.BaseURL, api.APIKey, api.Language, api.Timeout)

	s.logger.Info().Str("baseUrl", api.BaseURL).Str("language", api.Language).Msg("App: fetching map")
	info, err := client.Map(ctx)
	if err != nil {
		return err
	}

	if s.cfg.Marks.File == "" {
		store, err := mark.NewStore(info.POIs)
		if err != nil {
			return fmt.Errorf("map API: %w", err)
		}
		s.logger.Info().Int("count", store.Len()).Msg("App: points of interest fetched")
		s.setMarks(store, api.BaseURL)
	}

	if s.cfg.Image.File == "" {
		url := info.Images.POIs
		if url == "" {
			url = info.Images.Blank
		}
		if url == "" {
			return fmt.Errorf("map API: response has no image URL")
		}
		bg, err := client.Image(ctx, url)
		if err != nil {
			return err
		}
		s.logger.Info().Str("url", url).Int("width", bg.Width()).Int("height", bg.Height()).Msg("App: map image fetched")
		s.setBackground(bg)
	}

	return nil
}

func (s *State) setMarks(store *mark.Store, source string) {
	s.mu.Lock()
	s.Marks = store
	s.MarksPath = source
	s.mu.Unlock()

	s.Emit(EventMarksLoaded, store)
	s.rebuildSession()
}

func (s *State) setBackground(bg *image.Background) {
	s.mu.Lock()
	s.Background = bg
	s.mu.Unlock()

	s.Emit(EventImageLoaded, bg)
	s.rebuildSession()
}

// rebuildSession starts a fresh session once both inputs are present.
// Loading either input again resets the box to the full image.
func (s *State) rebuildSession() {
	s.mu.RLock()
	marks, bg := s.Marks, s.Background
	s.mu.RUnlock()

	if marks == nil || bg == nil {
		return
	}

	sess, err := session.New(marks, bg.Geometry(),
		session.WithGrabTolerance(s.cfg.Calibration.GrabTolerance),
		session.WithMinBoxDimension(s.cfg.Calibration.MinBoxDimension),
		session.WithLogger(s.logger),
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("App: cannot start session")
		return
	}

	sess.On(session.EventCalibrated, func(data interface{}) {
		s.Emit(EventCalibrated, data)
	})

	s.mu.Lock()
	s.Session = sess
	s.mu.Unlock()

	s.Emit(EventSessionReady, sess)
	s.Emit(EventCalibrated, sess.Calibration())
}

// Calibration returns the current calibration, or ErrNotReady.
func (s *State) Calibration() (calibration.Calibration, error) {
	s.mu.RLock()
	sess := s.Session
	s.mu.RUnlock()

	if sess == nil {
		return calibration.Calibration{}, ErrNotReady
	}
	return sess.Calibration(), nil
}

// Export renders the current scene at viewport size and writes it as PNG.
func (s *State) Export(path string, viewport transform.Viewport) error {
	s.mu.RLock()
	sess, bg := s.Session, s.Background
	s.mu.RUnlock()

	if sess == nil || bg == nil {
		return ErrNotReady
	}
	if !viewport.IsPositive() {
		viewport = bg.Geometry()
	}

	style, err := s.cfg.Render.Style()
	if err != nil {
		return err
	}

	frame := render.Frame(bg.Image, sess.Scene(viewport), style)
	if err := render.WritePNG(path, frame); err != nil {
		return err
	}

	s.logger.Info().Str("path", path).Msg("App: overlay exported")
	s.Emit(EventExported, path)
	return nil
}
