// Package calibration derives the mark-to-image scale and offset from the
// calibration box and the extents of the marks.
//
// The box corners are assumed to sit on the extreme marks: the top-left
// handle on (min x, min y) and the bottom-right handle on (max x, max y).
// With image = mark*scale + offset, both unknowns follow directly:
//
//	scale  = (bottomRight - topLeft) / (max - min)
//	offset = topLeft - min*scale
//
// X and Y are solved independently and may differ.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"mapscale/internal/mark"
	"mapscale/pkg/geometry"
)

// ErrUncalibratable is reported by Calibration.Err when the marks have no
// extent on an axis, so no scale can be derived for it.
var ErrUncalibratable = errors.New("uncalibratable")

// Box is the calibration rectangle in image space.
type Box struct {
	TopLeft     geometry.Point2D `json:"topLeft"`
	BottomRight geometry.Point2D `json:"bottomRight"`
}

// FullImage returns the box covering the whole image.
func FullImage(image geometry.Size) Box {
	return Box{BottomRight: image.Point()}
}

// Span returns the box width and height.
func (b Box) Span() geometry.Point2D {
	return b.BottomRight.Sub(b.TopLeft)
}

// Valid reports whether TopLeft is strictly above and left of BottomRight.
func (b Box) Valid() bool {
	return b.TopLeft.X < b.BottomRight.X && b.TopLeft.Y < b.BottomRight.Y
}

// Calibration holds the per-axis coefficients of image = mark*Scale + Offset.
// It is derived state: produce it with Compute, never edit it.
type Calibration struct {
	Scale  geometry.Point2D `json:"scale"`
	Offset geometry.Point2D `json:"offset"`
}

// Compute derives the calibration that maps ext onto box.
//
// When every mark shares a coordinate on an axis, that axis divides by zero
// and its scale and offset come out infinite or NaN. The values are returned
// as computed; use Err to detect it.
func Compute(box Box, ext mark.Extents) Calibration {
	scale := box.Span()
	span := ext.Span()
	scale.X /= span.X
	scale.Y /= span.Y

	return Calibration{
		Scale:  scale,
		Offset: box.TopLeft.Sub(ext.Min.Mul(scale)),
	}
}

// Finite reports whether every coefficient is a finite number.
func (c Calibration) Finite() bool {
	return c.Scale.IsFinite() && c.Offset.IsFinite()
}

// Err returns nil for a usable calibration, or an error wrapping
// ErrUncalibratable naming the degenerate axes.
func (c Calibration) Err() error {
	badX := !finite(c.Scale.X) || !finite(c.Offset.X)
	badY := !finite(c.Scale.Y) || !finite(c.Offset.Y)

	switch {
	case badX && badY:
		return fmt.Errorf("%w: marks have no extent on x or y", ErrUncalibratable)
	case badX:
		return fmt.Errorf("%w: marks have no extent on x", ErrUncalibratable)
	case badY:
		return fmt.Errorf("%w: marks have no extent on y", ErrUncalibratable)
	}
	return nil
}

// String formats scale and offset as shown in the calibration fields.
func (c Calibration) String() string {
	return fmt.Sprintf("scale %s offset %s", c.Scale, c.Offset)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
