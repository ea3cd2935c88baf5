package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mapscale/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func sample(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func TestDecode_Formats(t *testing.T) {
	src := sample(32, 16)

	var pngBuf, tiffBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))
	require.NoError(t, tiff.Encode(&tiffBuf, src, nil))
	require.NoError(t, bmp.Encode(&bmpBuf, src))

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", pngBuf.Bytes(), "png"},
		{"tiff", tiffBuf.Bytes(), "tiff"},
		{"bmp", bmpBuf.Bytes(), "bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg, err := DecodeBytes(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.format, bg.Format)
			assert.Equal(t, geometry.NewSize(32, 16), bg.Geometry())
		})
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := DecodeBytes([]byte("definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode image")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample(20, 10)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	bg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, bg.Path)
	assert.Equal(t, 20, bg.Width())
	assert.Equal(t, 10, bg.Height())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("/nonexistent/map.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open image")
}

func TestEmptyBackground(t *testing.T) {
	var bg Background
	assert.Equal(t, geometry.Size{}, bg.Geometry())
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("map_en.PNG"))
	assert.True(t, IsSupportedFormat("/tmp/scan.tif"))
	assert.True(t, IsSupportedFormat("pois.webp"))
	assert.False(t, IsSupportedFormat("marks.json"))
}
