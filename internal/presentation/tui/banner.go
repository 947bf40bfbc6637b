package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Tiny Top banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	// Sky to sunshine, the menu palette.
	lines := []struct {
		text, color string
	}{
		{" _____ _             _____         ", "#87cefa"},
		{"|_   _(_)_ __  _   _|_   _|__  _ __ ", "#7ec8e3"},
		{"  | | | | '_ \\| | | | | |/ _ \\| '_ \\", "#32cd32"},
		{"  | | | | | | | |_| | | | (_) | |_) |", "#ffd700"},
		{"  |_| |_|_| |_|\\__, | |_|\\___/| .__/", "#ffa500"},
		{"               |___/          |_|   ", "#ffc0cb"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
