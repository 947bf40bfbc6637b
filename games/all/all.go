// Package all registers every bundled game in the default catalog.
package all

import (
	_ "github.com/aretw0/tinytop/games/doodletype"
	_ "github.com/aretw0/tinytop/games/pong"
	_ "github.com/aretw0/tinytop/games/snake"
)
