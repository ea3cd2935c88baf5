package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint2D_Arithmetic(t *testing.T) {
	p := NewPoint2D(3, -4)

	assert.Equal(t, Point2D{X: 4, Y: -2}, p.Add(Point2D{X: 1, Y: 2}))
	assert.Equal(t, Point2D{X: 2, Y: -6}, p.Sub(Point2D{X: 1, Y: 2}))
	assert.Equal(t, Point2D{X: 6, Y: -8}, p.Scale(2))
	assert.Equal(t, Point2D{X: 1.5, Y: -12}, p.Mul(Point2D{X: 0.5, Y: 3}))
}

func TestPoint2D_IsFinite(t *testing.T) {
	assert.True(t, NewPoint2D(1, 2).IsFinite())
	assert.False(t, NewPoint2D(math.Inf(1), 2).IsFinite())
	assert.False(t, NewPoint2D(1, math.NaN()).IsFinite())
}

func TestPoint2D_String(t *testing.T) {
	assert.Equal(t, "{X=1.5, Y=-1000}", NewPoint2D(1.5, -1000).String())
}

func TestSize_IsPositive(t *testing.T) {
	assert.True(t, NewSize(1, 1).IsPositive())
	assert.False(t, NewSize(0, 1).IsPositive())
	assert.False(t, NewSize(1, -1).IsPositive())
}

func TestAffineTransform_ComposeAppliesRightFirst(t *testing.T) {
	scale := Scale(2, 3)
	move := Translation(10, 20)

	p := NewPoint2D(1, 1)
	assert.Equal(t, Point2D{X: 12, Y: 23}, move.Compose(scale).Apply(p))
	assert.Equal(t, Point2D{X: 22, Y: 63}, scale.Compose(move).Apply(p))
}

func TestAffineTransform_Inverse(t *testing.T) {
	tr := Translation(-5, 7).Compose(Scale(0.25, 4))

	inv, ok := tr.Inverse()
	require.True(t, ok)

	p := NewPoint2D(123.5, -88)
	back := inv.Apply(tr.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestAffineTransform_InverseSingular(t *testing.T) {
	_, ok := Scale(0, 1).Inverse()
	assert.False(t, ok)

	_, ok = Scale(math.Inf(1), 1).Inverse()
	assert.False(t, ok)
}

func TestIdentity(t *testing.T) {
	p := NewPoint2D(-7, 9)
	assert.Equal(t, p, Identity().Apply(p))
}
