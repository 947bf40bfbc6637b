package ports

import (
	"image"
	"image/color"

	"github.com/aretw0/tinytop/pkg/domain"
)

// Surface is the shared fixed-size drawing target. Its size never changes
// during the process lifetime.
type Surface interface {
	Size() (width, height int)
	Clear(c color.RGBA)
	FillRect(r image.Rectangle, c color.RGBA)
	StrokeRect(r image.Rectangle, c color.RGBA, width int)
	Line(x0, y0, x1, y1 int, c color.RGBA, width int)
	Circle(cx, cy, radius int, c color.RGBA, fill bool)
	Text(x, y int, s string, c color.RGBA)
	TextCentered(y int, s string, c color.RGBA)
}

// Presenter pushes a completed frame to the physical output.
type Presenter interface {
	Present(frame image.Image, texts []TextRun) error
}

// TextRun is a text overlay drawn on top of the raster at logical coordinates.
type TextRun struct {
	X, Y  int
	Text  string
	Color color.RGBA
}

// EventSource is the queue of normalized input events.
type EventSource interface {
	// Poll drains every pending event without blocking.
	Poll() []domain.InputEvent

	// Post enqueues an event without blocking. It reports false when the
	// queue is full and the event was dropped.
	Post(ev domain.InputEvent) bool
}
