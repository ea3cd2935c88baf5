package session

import (
	"mapscale/internal/calibration"
	"mapscale/internal/handle"
	"mapscale/internal/mark"
	"mapscale/internal/transform"
	"mapscale/pkg/geometry"
)

// ScenePoint is a mark placed in display space.
type ScenePoint struct {
	ID       string
	Name     string
	Position geometry.Point2D
}

// Scene is everything a renderer needs to draw one frame, in display space.
type Scene struct {
	Viewport transform.Viewport

	// ImageTopLeft and ImageBottomRight bound the scaled background image.
	ImageTopLeft     geometry.Point2D
	ImageBottomRight geometry.Point2D

	// BoxTopLeft and BoxBottomRight are the calibration box handles.
	BoxTopLeft     geometry.Point2D
	BoxBottomRight geometry.Point2D

	Held        handle.GrabLocation
	Calibration calibration.Calibration
	Marks       []ScenePoint
}

// Scene places the box and every mark in display space for the given viewport.
// Marks keep their load order. When the calibration is not finite their
// positions are not finite either; renderers skip them.
func (s *Session) Scene(viewport transform.Viewport) Scene {
	imageTL, imageBR := transform.DisplayRect(s.image, viewport)

	scene := Scene{
		Viewport:         viewport,
		ImageTopLeft:     imageTL,
		ImageBottomRight: imageBR,
		BoxTopLeft:       transform.ImageToDisplay(s.box.TopLeft, s.image, viewport),
		BoxBottomRight:   transform.ImageToDisplay(s.box.BottomRight, s.image, viewport),
		Held:             s.held,
		Calibration:      s.calib,
		Marks:            make([]ScenePoint, 0, s.marks.Len()),
	}

	s.marks.Each(func(m mark.Mark) {
		scene.Marks = append(scene.Marks, ScenePoint{
			ID:       m.ID,
			Name:     m.Name,
			Position: transform.MarkToDisplay(m.Location.XY(), s.calib, s.image, viewport),
		})
	})

	return scene
}

// MarkAt returns the mark-space coordinate under a display-space point, for
// status readouts. It reports false while the calibration cannot be inverted.
func (s *Session) MarkAt(p geometry.Point2D, viewport transform.Viewport) (geometry.Point2D, bool) {
	return transform.DisplayToMark(p, s.calib, s.image, viewport)
}
