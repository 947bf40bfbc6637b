/*
Package tinytop is a small game launcher for a fixed 1024x600 display.

It discovers games under a directory, shows a menu to pick one, hands the
shared drawing surface to the chosen game and runs its input, update and
render loop until the game finishes, then returns to the menu. A failing or
panicking game never takes the launcher down with it.

# Game Modules

A game is a directory holding a game.yaml manifest next to the Go package
that implements ports.Game. The package registers a factory under the
manifest's entry name from its init function:

	func init() {
		catalog.Register("snake", New)
	}

The manifest names the entry point and may carry free-form options that the
factory decodes with GameDescriptor.DecodeOptions:

	name: Snake
	entry: snake
	options:
	  cell_size: 20

# Usage

	launcher, err := tinytop.New("./games",
		tinytop.WithPresenter(term),
		tinytop.WithEvents(queue),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := launcher.Run(ctx); err != nil {
		log.Fatal(err)
	}

The tinytop command wires the terminal display, sound effects, the voice
service and the status server around the same Launcher.
*/
package tinytop
