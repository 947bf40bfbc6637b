package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// GamesMarkdown formats the discovered games and skipped directories as a
// markdown document.
func GamesMarkdown(root string, games []domain.GameDescriptor, problems []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Games in `%s`\n\n", root)

	if len(games) == 0 {
		b.WriteString("No games found! Add games to the games/ folder.\n")
	} else {
		b.WriteString("| ID | Name | Entry | Description |\n")
		b.WriteString("|----|------|-------|-------------|\n")
		for _, g := range games {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", g.ID, g.DisplayName, g.Entry, cell(g.Description))
		}
	}

	if len(problems) > 0 {
		b.WriteString("\n## Skipped\n\n")
		for _, p := range problems {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
