// Package transform converts points between the three coordinate spaces:
//
//   - mark space: the coordinates in the mark data, large signed floats
//   - image space: pixels of the background image, origin top-left
//   - display space: pixels of the viewport the image is drawn into
//
// The image is scaled uniformly to fit the viewport and centered in it, so
// display space adds one fit scale and a centering offset on top of image space.
//
// Every function here requires a viewport with positive width and height.
// A zero-area viewport makes the fit scale undefined and is not checked.
package transform

import (
	"math"

	"mapscale/internal/calibration"
	"mapscale/pkg/geometry"
)

// ImageGeometry is the natural pixel size of the background image.
type ImageGeometry = geometry.Size

// Viewport is the current size of the area the image is rendered into.
type Viewport = geometry.Size

// MarkToImage applies the calibration to a mark-space point.
func MarkToImage(p geometry.Point2D, calib calibration.Calibration) geometry.Point2D {
	return p.Mul(calib.Scale).Add(calib.Offset)
}

// FitScale returns the uniform scale that fits image inside viewport.
// Whichever direction has the most trouble fitting decides it.
func FitScale(image ImageGeometry, viewport Viewport) float64 {
	return math.Min(viewport.Width/image.Width, viewport.Height/image.Height)
}

// CenteringOffset returns where the scaled image's top-left corner sits in
// the viewport. One component is zero unless the aspect ratios match exactly.
func CenteringOffset(image ImageGeometry, viewport Viewport) geometry.Point2D {
	s := FitScale(image, viewport)
	return geometry.Point2D{
		X: (viewport.Width - image.Width*s) / 2,
		Y: (viewport.Height - image.Height*s) / 2,
	}
}

// ImageToDisplay maps an image-space point into the viewport.
func ImageToDisplay(p geometry.Point2D, image ImageGeometry, viewport Viewport) geometry.Point2D {
	return p.Scale(FitScale(image, viewport)).Add(CenteringOffset(image, viewport))
}

// DisplayToImage is the inverse of ImageToDisplay.
func DisplayToImage(p geometry.Point2D, image ImageGeometry, viewport Viewport) geometry.Point2D {
	return p.Sub(CenteringOffset(image, viewport)).Scale(1 / FitScale(image, viewport))
}

// DisplayRect returns the top-left and bottom-right corners of the scaled
// image inside the viewport.
func DisplayRect(image ImageGeometry, viewport Viewport) (topLeft, bottomRight geometry.Point2D) {
	topLeft = CenteringOffset(image, viewport)
	bottomRight = topLeft.Add(image.Point().Scale(FitScale(image, viewport)))
	return topLeft, bottomRight
}

// MarkToDisplay maps a mark-space point straight into the viewport.
func MarkToDisplay(p geometry.Point2D, calib calibration.Calibration, image ImageGeometry, viewport Viewport) geometry.Point2D {
	return ImageToDisplay(MarkToImage(p, calib), image, viewport)
}

// Composite returns the single affine transform equivalent to MarkToDisplay.
func Composite(calib calibration.Calibration, image ImageGeometry, viewport Viewport) geometry.AffineTransform {
	s := FitScale(image, viewport)
	c := CenteringOffset(image, viewport)

	markToImage := geometry.Translation(calib.Offset.X, calib.Offset.Y).
		Compose(geometry.Scale(calib.Scale.X, calib.Scale.Y))
	imageToDisplay := geometry.Translation(c.X, c.Y).Compose(geometry.Scale(s, s))

	return imageToDisplay.Compose(markToImage)
}

// DisplayToMark maps a viewport point back into mark space. It reports false
// when the calibration cannot be inverted.
func DisplayToMark(p geometry.Point2D, calib calibration.Calibration, image ImageGeometry, viewport Viewport) (geometry.Point2D, bool) {
	inv, ok := Composite(calib, image, viewport).Inverse()
	if !ok {
		return geometry.Point2D{}, false
	}
	return inv.Apply(p), true
}
