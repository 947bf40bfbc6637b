package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/tinytop/internal/presentation/tui"
	"github.com/aretw0/tinytop/pkg/registry"
)

// List prints the games found under gamesDir and every directory that was
// skipped, as rendered markdown. With plain set the markdown is written as is.
func List(ctx context.Context, gamesDir string, w io.Writer, plain bool) error {
	if err := checkGamesDir(gamesDir); err != nil {
		return err
	}
	games, err := registry.New().Validate(ctx, gamesDir)

	var problems []string
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			problems = append(problems, e.Error())
		}
	} else if err != nil {
		return err
	}

	doc := tui.GamesMarkdown(gamesDir, games, problems)
	if plain {
		_, err := io.WriteString(w, doc)
		return err
	}
	out, err := tui.NewRenderer()(doc)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
