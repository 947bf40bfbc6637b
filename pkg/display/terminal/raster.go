package terminal

import (
	"image"
	"image/color"

	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/ports"
)

// cell is one terminal character. Raster cells use the upper half block with
// Top as foreground and Bottom as background; text cells show Ch in Top.
type cell struct {
	Top    color.RGBA
	Bottom color.RGBA
	Ch     rune
}

const halfBlock = '▀'

// rasterize samples the logical frame into cols x rows cells (two vertical
// samples per cell) and lays the text overlay on top.
func rasterize(frame image.Image, texts []ports.TextRun, cols, rows int) [][]cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	b := frame.Bounds()
	sample := func(col, sub int) color.RGBA {
		x := b.Min.X + (2*col+1)*b.Dx()/(2*cols)
		y := b.Min.Y + (2*sub+1)*b.Dy()/(4*rows)
		return color.RGBAModel.Convert(frame.At(x, y)).(color.RGBA)
	}

	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
		for c := range grid[r] {
			grid[r][c] = cell{Top: sample(c, 2*r), Bottom: sample(c, 2*r+1), Ch: halfBlock}
		}
	}

	for _, t := range texts {
		row := t.Y * rows / display.Height
		col := t.X * cols / display.Width
		if row < 0 || row >= rows {
			continue
		}
		for _, ch := range t.Text {
			if col >= cols {
				break
			}
			if col >= 0 {
				under := grid[row][col]
				grid[row][col] = cell{Top: t.Color, Bottom: under.Bottom, Ch: ch}
			}
			col++
		}
	}
	return grid
}
