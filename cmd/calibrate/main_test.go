package main

import (
	"testing"

	"mapscale/internal/calibration"
	"mapscale/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBox(t *testing.T) {
	box, err := parseBox("10, 20,300.5,400")
	require.NoError(t, err)
	assert.Equal(t, calibration.Box{
		TopLeft:     geometry.NewPoint2D(10, 20),
		BottomRight: geometry.NewPoint2D(300.5, 400),
	}, box)
}

func TestParseBox_SwappedCorners(t *testing.T) {
	box, err := parseBox("300,400,10,20")
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint2D(10, 20), box.TopLeft)
	assert.Equal(t, geometry.NewPoint2D(300, 400), box.BottomRight)
}

func TestParseBox_Errors(t *testing.T) {
	for _, in := range []string{"", "1,2,3", "1,2,3,4,5", "a,2,3,4", "1,2,NaN,4", "1,2,3,Inf"} {
		t.Run(in, func(t *testing.T) {
			_, err := parseBox(in)
			assert.Error(t, err)
		})
	}
}

func TestParseViewport(t *testing.T) {
	vp, err := parseViewport("1074X544")
	require.NoError(t, err)
	assert.Equal(t, geometry.NewSize(1074, 544), vp)

	for _, in := range []string{"1074", "0x544", "-1x5", "axb"} {
		_, err := parseViewport(in)
		assert.Error(t, err, in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 24))
	assert.Equal(t, "abc~", truncate("abcdefg", 4))
}
