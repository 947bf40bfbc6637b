package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/tinytop/internal/presentation/tui"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamesMarkdown(t *testing.T) {
	md := tui.GamesMarkdown("games", []domain.GameDescriptor{
		{ID: "snake", DisplayName: "Snake", Entry: "snake", Description: "Eat | grow"},
	}, []string{"games/broken: missing entry"})

	assert.Contains(t, md, "| snake | Snake | snake | Eat \\| grow |")
	assert.Contains(t, md, "## Skipped")
	assert.Contains(t, md, "- games/broken: missing entry")
}

func TestGamesMarkdown_Empty(t *testing.T) {
	md := tui.GamesMarkdown("games", nil, nil)
	assert.Contains(t, md, "No games found!")
	assert.NotContains(t, md, "Skipped")
}

func TestRenderer(t *testing.T) {
	out, err := tui.NewRenderer()("# Hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_   _(_)_ __")
}
