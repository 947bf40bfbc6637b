package tinytop_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/tinytop"
	"github.com/aretw0/tinytop/pkg/domain"
)

// ExampleNew lists the bundled games and drives one frame headlessly.
func ExampleNew() {
	launcher, err := tinytop.New("games")
	if err != nil {
		log.Fatal(err)
	}

	for _, g := range launcher.Descriptors() {
		fmt.Printf("%s: %s\n", g.ID, g.DisplayName)
	}

	launcher.Events().Post(domain.KeyPress(domain.KeyEnter))
	if _, err := launcher.Step(context.Background(), time.Second/60); err != nil {
		log.Fatal(err)
	}
	fmt.Println(launcher.Status().Mode, launcher.Status().GameID)

	// Output:
	// doodletype: Doodle Type
	// pong: Pong
	// snake: Snake
	// in_game doodletype
}
