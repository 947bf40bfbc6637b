// Package display provides the fixed-size Display Surface shared by the menu
// and games: an RGBA raster with a text overlay, plus the input event queue.
//
// The canvas is created once and is never resized. Presenters (see the
// terminal subpackage) turn a finished canvas into real output.
package display
