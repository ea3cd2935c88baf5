package session

import (
	"math"

	"mapscale/internal/calibration"
	"mapscale/internal/handle"
	"mapscale/pkg/geometry"
)

// DefaultMinBoxDimension keeps the box from collapsing, which would leave
// the calibration dividing by zero.
const DefaultMinBoxDimension = 5.0

// Resize moves the edges of box that g affects to p (image space).
//
// Each moved edge stays inside the image and at least minBox away from the
// opposite edge. If those two bounds ever conflict, the image edge wins.
func Resize(box calibration.Box, g handle.GrabLocation, p geometry.Point2D, image geometry.Size, minBox float64) calibration.Box {
	left, right, top, bottom := g.Affects()

	if left {
		box.TopLeft.X = math.Max(0, math.Min(p.X, box.BottomRight.X-minBox))
	}
	if right {
		box.BottomRight.X = math.Min(image.Width, math.Max(p.X, box.TopLeft.X+minBox))
	}
	if top {
		box.TopLeft.Y = math.Max(0, math.Min(p.Y, box.BottomRight.Y-minBox))
	}
	if bottom {
		box.BottomRight.Y = math.Min(image.Height, math.Max(p.Y, box.TopLeft.Y+minBox))
	}

	return box
}
