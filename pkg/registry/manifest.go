package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the entry-point file that marks a directory as a game.
const ManifestFile = "game.yaml"

// DescriptionFile is read when the manifest has no description.
const DescriptionFile = "description.txt"

// Manifest represents the structure of game.yaml.
type Manifest struct {
	Name        string         `yaml:"name"`
	Entry       string         `yaml:"entry"`
	Description string         `yaml:"description"`
	Options     map[string]any `yaml:"options"`
}

var errNoManifest = errors.New("no manifest")

// loadManifest reads dir/game.yaml. It returns errNoManifest when the file
// does not exist, meaning the directory is not a game at all.
func loadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errNoManifest
		}
		return nil, fmt.Errorf("failed to read %s: %w", ManifestFile, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestFile, err)
	}
	m.Entry = strings.TrimSpace(m.Entry)
	if m.Entry == "" {
		return nil, fmt.Errorf("%s: missing required field 'entry'", ManifestFile)
	}

	if m.Description == "" {
		if desc, err := os.ReadFile(filepath.Join(dir, DescriptionFile)); err == nil {
			m.Description = strings.TrimSpace(string(desc))
		}
	}
	return &m, nil
}

var titleCaser = cases.Title(language.English)

// DisplayName derives a human readable name from a game id:
// "doodle_type" becomes "Doodle Type".
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return titleCaser.String(strings.Join(words, " "))
}
