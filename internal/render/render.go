// Package render draws a calibration scene into an RGBA frame: the fitted
// background image, the calibration box, and every mark with its label.
package render

import (
	"image"
	"image/color"
	"math"

	"mapscale/internal/session"
	"mapscale/pkg/colorutil"
	"mapscale/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Style controls the overlay appearance. Sizes are in frame pixels.
type Style struct {
	Background      color.RGBA
	BoxColor        color.RGBA
	BoxWidth        int
	MarkColor       color.RGBA
	MarkDiameter    int
	LabelColor      color.RGBA
	LabelBackground color.RGBA
	LabelOffset     int
}

// DefaultStyle returns a hot pink box, white dots, and black on white labels.
func DefaultStyle() Style {
	return Style{
		Background:      colorutil.Charcoal,
		BoxColor:        colorutil.HotPink,
		BoxWidth:        3,
		MarkColor:       colorutil.White,
		MarkDiameter:    10,
		LabelColor:      colorutil.Black,
		LabelBackground: colorutil.White,
		LabelOffset:     6,
	}
}

// Frame renders the scene at the size of its viewport. bg may be nil.
func Frame(bg image.Image, scene session.Scene, style Style) *image.RGBA {
	w := int(math.Ceil(scene.Viewport.Width))
	h := int(math.Ceil(scene.Viewport.Height))
	if w < 0 || h < 0 || !scene.Viewport.IsPositive() {
		w, h = 0, 0
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(out, out.Bounds(), style.Background)
	if w == 0 || h == 0 {
		return out
	}

	if bg != nil {
		drawBackground(out, bg, scene.ImageTopLeft, scene.ImageBottomRight)
	}

	drawBox(out, scene.BoxTopLeft, scene.BoxBottomRight, style.BoxColor, style.BoxWidth)

	face := basicfont.Face7x13
	for _, m := range scene.Marks {
		if !m.Position.IsFinite() {
			continue
		}
		x, y := round(m.Position.X), round(m.Position.Y)
		drawDot(out, m.Position, style.MarkDiameter, style.MarkColor)
		if m.Name != "" {
			drawLabel(out, face, m.Name, x+style.LabelOffset, y, style.LabelColor, style.LabelBackground)
		}
	}

	return out
}

func drawBackground(out *image.RGBA, bg image.Image, tl, br geometry.Point2D) {
	if !tl.IsFinite() || !br.IsFinite() {
		return
	}
	r := image.Rect(round(tl.X), round(tl.Y), round(br.X), round(br.Y))
	if r.Empty() {
		return
	}
	draw.ApproxBiLinear.Scale(out, r, bg, bg.Bounds(), draw.Src, nil)
}

// drawBox strokes the rectangle outline with the pen centered on each edge.
func drawBox(out *image.RGBA, tl, br geometry.Point2D, col color.RGBA, width int) {
	if !tl.IsFinite() || !br.IsFinite() || width <= 0 {
		return
	}
	x1, y1 := round(tl.X), round(tl.Y)
	x2, y2 := round(br.X), round(br.Y)
	lo := -width / 2
	hi := lo + width

	fillRect(out, image.Rect(x1+lo, y1+lo, x2+hi, y1+hi), col) // top
	fillRect(out, image.Rect(x1+lo, y2+lo, x2+hi, y2+hi), col) // bottom
	fillRect(out, image.Rect(x1+lo, y1+lo, x1+hi, y2+hi), col) // left
	fillRect(out, image.Rect(x2+lo, y1+lo, x2+hi, y2+hi), col) // right
}

// drawDot fills a circle of the given diameter centered on p.
func drawDot(out *image.RGBA, p geometry.Point2D, diameter int, col color.RGBA) {
	if diameter <= 0 {
		return
	}
	r := float64(diameter) / 2
	r2 := r * r
	bounds := out.Bounds()

	minX, maxX := int(math.Floor(p.X-r)), int(math.Ceil(p.X+r))
	minY, maxY := int(math.Floor(p.Y-r)), int(math.Ceil(p.Y+r))
	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - p.X
			dy := float64(y) + 0.5 - p.Y
			if dx*dx+dy*dy <= r2 {
				out.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLabel draws text starting at x, vertically centered on y, over a solid
// background box sized to the text.
func drawLabel(out *image.RGBA, face font.Face, text string, x, y int, fg, bg color.RGBA) {
	metrics := face.Metrics()
	height := metrics.Height.Ceil()
	width := font.MeasureString(face, text).Ceil()
	top := y - height/2

	fillRect(out, image.Rect(x, top, x+width, top+height), bg)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, top+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}

// LabelBounds returns the rectangle a label occupies when drawn for a mark at p.
func LabelBounds(text string, p geometry.Point2D, style Style) image.Rectangle {
	face := basicfont.Face7x13
	height := face.Metrics().Height.Ceil()
	width := font.MeasureString(face, text).Ceil()
	x := round(p.X) + style.LabelOffset
	top := round(p.Y) - height/2
	return image.Rect(x, top, x+width, top+height)
}

func fillRect(out *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(out, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func round(v float64) int {
	return int(math.Round(v))
}
