// Package handle classifies a pointer position against the edges and corners
// of the calibration box.
package handle

import (
	"math"

	"mapscale/internal/calibration"
	"mapscale/pkg/geometry"
)

// DefaultGrabTolerance is how close, in image pixels, the pointer must be to
// an edge to grab it.
const DefaultGrabTolerance = 15.0

// GrabLocation identifies which part of the calibration box, if any, is under
// the pointer or currently held.
type GrabLocation int

const (
	None GrabLocation = iota
	Top
	Bottom
	Left
	Right
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

func (g GrabLocation) String() string {
	switch g {
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case TopLeft:
		return "TopLeft"
	case TopRight:
		return "TopRight"
	case BottomLeft:
		return "BottomLeft"
	case BottomRight:
		return "BottomRight"
	default:
		return "None"
	}
}

// Affects reports which box edges moving this grab location adjusts.
func (g GrabLocation) Affects() (left, right, top, bottom bool) {
	left = g == Left || g == TopLeft || g == BottomLeft
	right = g == Right || g == TopRight || g == BottomRight
	top = g == Top || g == TopLeft || g == TopRight
	bottom = g == Bottom || g == BottomLeft || g == BottomRight
	return
}

// HitTest returns the edge or corner of box that p (in image space) grabs.
//
// On each axis the nearer edge wins, but only if it is strictly nearer than
// the opposite edge and strictly closer than tolerance. A pointer exactly
// between two edges grabs neither of them.
func HitTest(p geometry.Point2D, box calibration.Box, tolerance float64) GrabLocation {
	toLeft := math.Abs(box.TopLeft.X - p.X)
	toRight := math.Abs(box.BottomRight.X - p.X)
	toTop := math.Abs(box.TopLeft.Y - p.Y)
	toBottom := math.Abs(box.BottomRight.Y - p.Y)

	var left, right, top, bottom bool
	if toLeft < toRight && toLeft < tolerance {
		left = true
	} else if toRight < toLeft && toRight < tolerance {
		right = true
	}

	if toTop < toBottom && toTop < tolerance {
		top = true
	} else if toBottom < toTop && toBottom < tolerance {
		bottom = true
	}

	switch {
	case left && top:
		return TopLeft
	case left && bottom:
		return BottomLeft
	case right && top:
		return TopRight
	case right && bottom:
		return BottomRight
	case left:
		return Left
	case right:
		return Right
	case top:
		return Top
	case bottom:
		return Bottom
	default:
		return None
	}
}

// Cursor is a hover hint for a grab location. Front ends map it to their own
// cursor shapes.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorResizeNS
	CursorResizeWE
	CursorResizeNWSE
	CursorResizeNESW
)

func (c Cursor) String() string {
	switch c {
	case CursorResizeNS:
		return "ResizeNS"
	case CursorResizeWE:
		return "ResizeWE"
	case CursorResizeNWSE:
		return "ResizeNWSE"
	case CursorResizeNESW:
		return "ResizeNESW"
	default:
		return "Default"
	}
}

// CursorFor returns the hover hint shown while the pointer is over g.
func CursorFor(g GrabLocation) Cursor {
	switch g {
	case Left, Right:
		return CursorResizeWE
	case Top, Bottom:
		return CursorResizeNS
	case TopLeft, BottomRight:
		return CursorResizeNWSE
	case TopRight, BottomLeft:
		return CursorResizeNESW
	default:
		return CursorDefault
	}
}
