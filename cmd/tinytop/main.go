package main

import (
	_ "github.com/aretw0/tinytop/games/all"
)

func main() {
	Execute()
}
