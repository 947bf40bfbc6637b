package doodletype

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"

	"github.com/aretw0/tinytop/pkg/ports"
	"gopkg.in/yaml.v3"
)

//go:embed doodles.yaml
var builtin []byte

// Doodle is a word and its line drawing.
type Doodle struct {
	Word string `yaml:"word"`
	// Strokes are polylines of [x, y] points in an arbitrary coordinate space.
	Strokes [][][]int `yaml:"strokes"`
}

// ParseDoodles decodes a YAML list of doodles. Entries without a word are
// rejected; duplicate words keep the first drawing.
func ParseDoodles(data []byte) ([]Doodle, error) {
	var list []Doodle
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse doodles: %w", err)
	}
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for i, d := range list {
		if d.Word == "" {
			return nil, fmt.Errorf("doodle %d has no word", i)
		}
		if seen[d.Word] {
			continue
		}
		seen[d.Word] = true
		out = append(out, d)
	}
	return out, nil
}

// Builtin returns the doodles compiled into the binary.
func Builtin() []Doodle {
	list, err := ParseDoodles(builtin)
	if err != nil {
		panic(err)
	}
	return list
}

func (d Doodle) points() int {
	n := 0
	for _, s := range d.Strokes {
		n += len(s)
	}
	return n
}

// bounds returns the bounding box of all points, at least 1x1.
func (d Doodle) bounds() (minX, minY, w, h int) {
	first := true
	var maxX, maxY int
	for _, s := range d.Strokes {
		for _, p := range s {
			if len(p) < 2 {
				continue
			}
			if first {
				minX, minY, maxX, maxY = p[0], p[1], p[0], p[1]
				first = false
				continue
			}
			minX, maxX = min(minX, p[0]), max(maxX, p[0])
			minY, maxY = min(minY, p[1]), max(maxY, p[1])
		}
	}
	return minX, minY, max(1, maxX-minX), max(1, maxY-minY)
}

// Size returns the drawn size of the doodle scaled so its longer side is
// size pixels, plus the line width on each side.
func (d Doodle) Size(size, width int) image.Point {
	if d.points() == 0 {
		return image.Pt(size, size)
	}
	_, _, w, h := d.bounds()
	scale := float64(size) / float64(max(w, h))
	return image.Pt(int(float64(w)*scale)+2*width, int(float64(h)*scale)+2*width)
}

// Draw renders the first progress fraction of the doodle's points with its
// top-left corner at origin. A doodle without points is drawn as a box.
func (d Doodle) Draw(s ports.Surface, origin image.Point, size int, c color.RGBA, width int, progress float64) {
	if d.points() == 0 {
		s.StrokeRect(image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}, c, width)
		return
	}
	minX, minY, w, h := d.bounds()
	scale := float64(size) / float64(max(w, h))
	at := func(p []int) image.Point {
		return image.Pt(
			origin.X+width+int(float64(p[0]-minX)*scale),
			origin.Y+width+int(float64(p[1]-minY)*scale),
		)
	}

	budget := int(float64(d.points()) * min(max(progress, 0), 1))
	for _, stroke := range d.Strokes {
		if budget < 2 {
			return
		}
		n := min(len(stroke), budget)
		budget -= n
		for i := 1; i < n; i++ {
			if len(stroke[i-1]) < 2 || len(stroke[i]) < 2 {
				continue
			}
			a, b := at(stroke[i-1]), at(stroke[i])
			s.Line(a.X, a.Y, b.X, b.Y, c, width)
		}
	}
}
