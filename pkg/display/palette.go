package display

import "image/color"

// Common colors shared by the menu and bundled games.
var (
	Black     = color.RGBA{0, 0, 0, 255}
	White     = color.RGBA{255, 255, 255, 255}
	Red       = color.RGBA{255, 0, 0, 255}
	Green     = color.RGBA{0, 255, 0, 255}
	Blue      = color.RGBA{0, 0, 255, 255}
	Yellow    = color.RGBA{255, 255, 0, 255}
	Purple    = color.RGBA{128, 0, 128, 255}
	Orange    = color.RGBA{255, 165, 0, 255}
	Pink      = color.RGBA{255, 192, 203, 255}
	Gray      = color.RGBA{128, 128, 128, 255}
	LightGray = color.RGBA{200, 200, 200, 255}
	DarkGray  = color.RGBA{64, 64, 64, 255}

	SkyBlue     = color.RGBA{135, 206, 250, 255}
	LightBlue   = color.RGBA{173, 216, 230, 255}
	BrightGreen = color.RGBA{50, 205, 50, 255}
	SunnyYellow = color.RGBA{255, 215, 0, 255}
	Lavender    = color.RGBA{147, 112, 219, 255}
	DarkBlue    = color.RGBA{25, 25, 112, 255}
)

// Blend linearly interpolates between a and b; t is clamped to [0, 1].
func Blend(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-t) + float64(y)*t)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}
