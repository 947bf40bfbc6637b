package display

import (
	"image"
	"image/color"
	"image/draw"
	"unicode/utf8"

	"github.com/aretw0/tinytop/pkg/ports"
)

// Logical canvas size. Fixed for the process lifetime.
const (
	Width  = 1024
	Height = 600
)

// Glyph cell size in logical pixels, used to lay out overlay text.
const (
	GlyphWidth  = 8
	GlyphHeight = 16
)

// Canvas is the Display Surface: a Width x Height RGBA raster plus a list of
// text runs drawn on top by the presenter.
type Canvas struct {
	img   *image.RGBA
	texts []ports.TextRun
}

var _ ports.Surface = (*Canvas)(nil)

// NewCanvas allocates the canvas, cleared to black.
func NewCanvas() *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, Width, Height))}
	c.Clear(Black)
	return c
}

// Size returns the logical canvas size.
func (c *Canvas) Size() (int, int) { return Width, Height }

// Image exposes the raster for presenters and tests.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Texts returns the text overlay of the current frame.
func (c *Canvas) Texts() []ports.TextRun { return c.texts }

// At returns the raster color at (x, y).
func (c *Canvas) At(x, y int) color.RGBA { return c.img.RGBAAt(x, y) }

// Clear fills the raster and drops the text overlay.
func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	c.texts = c.texts[:0]
}

// FillRect fills r clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) {
	r = r.Canon().Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// StrokeRect draws the outline of r with the given line width.
func (c *Canvas) StrokeRect(r image.Rectangle, col color.RGBA, width int) {
	if width < 1 {
		width = 1
	}
	r = r.Canon()
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), col)
	c.FillRect(image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// Line draws a line with a square brush of the given width (Bresenham).
func (c *Canvas) Line(x0, y0, x1, y1 int, col color.RGBA, width int) {
	if width < 1 {
		width = 1
	}
	half := width / 2
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if width == 1 {
			c.set(x0, y0, col)
		} else {
			c.FillRect(image.Rect(x0-half, y0-half, x0-half+width, y0-half+width), col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Circle draws a filled disc or a one-pixel ring.
func (c *Canvas) Circle(cx, cy, radius int, col color.RGBA, fill bool) {
	if radius <= 0 {
		return
	}
	r2 := radius * radius
	inner := (radius - 1) * (radius - 1)
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d := x*x + y*y
			if d > r2 {
				continue
			}
			if !fill && d < inner {
				continue
			}
			c.set(cx+x, cy+y, col)
		}
	}
}

// Text queues s at (x, y) in the overlay. Coordinates are the top-left
// corner of the first glyph cell.
func (c *Canvas) Text(x, y int, s string, col color.RGBA) {
	if s == "" {
		return
	}
	c.texts = append(c.texts, ports.TextRun{X: x, Y: y, Text: s, Color: col})
}

// TextCentered queues s horizontally centered at row y.
func (c *Canvas) TextCentered(y int, s string, col color.RGBA) {
	c.Text(CenterX(s), y, s, col)
}

// VerticalGradient fills the canvas from top to bottom color.
func (c *Canvas) VerticalGradient(top, bottom color.RGBA) {
	for y := 0; y < Height; y++ {
		c.FillRect(image.Rect(0, y, Width, y+1), Blend(top, bottom, float64(y)/Height))
	}
}

// CenterX returns the x coordinate that centers s on the canvas.
func CenterX(s string) int {
	return (Width - TextWidth(s)) / 2
}

// TextWidth returns the logical width of s in pixels.
func TextWidth(s string) int {
	return utf8.RuneCountInString(s) * GlyphWidth
}

func (c *Canvas) set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	c.img.SetRGBA(x, y, col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
