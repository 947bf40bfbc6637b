package display

import (
	"image"

	"github.com/aretw0/tinytop/pkg/ports"
)

// Discard is a Presenter that drops frames. Used in headless mode.
var Discard ports.Presenter = discard{}

type discard struct{}

func (discard) Present(image.Image, []ports.TextRun) error { return nil }
