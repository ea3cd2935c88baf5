package handle

import (
	"testing"

	"mapscale/internal/calibration"
	"mapscale/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

var box = calibration.Box{
	TopLeft:     geometry.NewPoint2D(100, 100),
	BottomRight: geometry.NewPoint2D(500, 300),
}

func TestHitTest(t *testing.T) {
	tests := []struct {
		name string
		p    geometry.Point2D
		want GrabLocation
	}{
		{"top-left corner", geometry.NewPoint2D(100, 100), TopLeft},
		{"top-right corner", geometry.NewPoint2D(505, 95), TopRight},
		{"bottom-left corner", geometry.NewPoint2D(90, 310), BottomLeft},
		{"bottom-right corner", geometry.NewPoint2D(499, 299), BottomRight},
		{"left edge", geometry.NewPoint2D(105, 200), Left},
		{"right edge", geometry.NewPoint2D(510, 200), Right},
		{"top edge", geometry.NewPoint2D(300, 86), Top},
		{"bottom edge", geometry.NewPoint2D(300, 314), Bottom},
		{"inside", geometry.NewPoint2D(300, 200), None},
		{"far outside", geometry.NewPoint2D(-500, -500), None},
		{"left edge outside box", geometry.NewPoint2D(88, 200), Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTest(tt.p, box, DefaultGrabTolerance))
		})
	}
}

func TestHitTest_ToleranceBoundary(t *testing.T) {
	// Exactly at tolerance does not grab.
	assert.Equal(t, None, HitTest(geometry.NewPoint2D(100-DefaultGrabTolerance, 200), box, DefaultGrabTolerance))
	assert.Equal(t, None, HitTest(geometry.NewPoint2D(300, 300+DefaultGrabTolerance), box, DefaultGrabTolerance))

	// One pixel closer does.
	assert.Equal(t, Left, HitTest(geometry.NewPoint2D(100-(DefaultGrabTolerance-1), 200), box, DefaultGrabTolerance))
	assert.Equal(t, Bottom, HitTest(geometry.NewPoint2D(300, 300+(DefaultGrabTolerance-1)), box, DefaultGrabTolerance))
}

func TestHitTest_EquidistantGrabsNeither(t *testing.T) {
	narrow := calibration.Box{
		TopLeft:     geometry.NewPoint2D(0, 0),
		BottomRight: geometry.NewPoint2D(20, 400),
	}

	// Both vertical edges are 10px away: neither wins the x axis.
	assert.Equal(t, None, HitTest(geometry.NewPoint2D(10, 200), narrow, DefaultGrabTolerance))
	// Slightly left of center, both within tolerance: the nearer one wins.
	assert.Equal(t, Left, HitTest(geometry.NewPoint2D(9, 200), narrow, DefaultGrabTolerance))
	// Equidistant on x does not stop the y axis from grabbing.
	assert.Equal(t, Top, HitTest(geometry.NewPoint2D(10, 3), narrow, DefaultGrabTolerance))
}

func TestHitTest_CustomTolerance(t *testing.T) {
	assert.Equal(t, None, HitTest(geometry.NewPoint2D(110, 200), box, 5))
	assert.Equal(t, Left, HitTest(geometry.NewPoint2D(110, 200), box, 30))
}

func TestGrabLocation_Affects(t *testing.T) {
	tests := []struct {
		g                        GrabLocation
		left, right, top, bottom bool
	}{
		{None, false, false, false, false},
		{Top, false, false, true, false},
		{Bottom, false, false, false, true},
		{Left, true, false, false, false},
		{Right, false, true, false, false},
		{TopLeft, true, false, true, false},
		{TopRight, false, true, true, false},
		{BottomLeft, true, false, false, true},
		{BottomRight, false, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			left, right, top, bottom := tt.g.Affects()
			assert.Equal(t, tt.left, left, "left")
			assert.Equal(t, tt.right, right, "right")
			assert.Equal(t, tt.top, top, "top")
			assert.Equal(t, tt.bottom, bottom, "bottom")
		})
	}
}

func TestCursorFor(t *testing.T) {
	assert.Equal(t, CursorDefault, CursorFor(None))
	assert.Equal(t, CursorResizeWE, CursorFor(Left))
	assert.Equal(t, CursorResizeWE, CursorFor(Right))
	assert.Equal(t, CursorResizeNS, CursorFor(Top))
	assert.Equal(t, CursorResizeNS, CursorFor(Bottom))
	assert.Equal(t, CursorResizeNWSE, CursorFor(TopLeft))
	assert.Equal(t, CursorResizeNWSE, CursorFor(BottomRight))
	assert.Equal(t, CursorResizeNESW, CursorFor(TopRight))
	assert.Equal(t, CursorResizeNESW, CursorFor(BottomLeft))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "BottomRight", BottomRight.String())
	assert.Equal(t, "None", GrabLocation(42).String())
	assert.Equal(t, "ResizeNESW", CursorResizeNESW.String())
	assert.Equal(t, "Default", Cursor(-1).String())
}
