package process

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"gopkg.in/yaml.v3"
)

// SoundConfig maps an effect name to a WAV file.
type SoundConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// SoundsFile represents the structure of sounds.yaml.
type SoundsFile struct {
	Sounds []SoundConfig `yaml:"sounds"`
}

// LoadSounds reads sounds.yaml and the WAV files it lists, rejecting files
// that do not decode as WAV. Relative file
// paths are resolved against the directory of the config. A missing config
// means no overrides.
func LoadSounds(path string) (map[string][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]byte{}, nil
		}
		return nil, fmt.Errorf("failed to read sounds config: %w", err)
	}

	var cfg SoundsFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sounds.yaml: %w", err)
	}

	base := filepath.Dir(path)
	sounds := make(map[string][]byte)
	for _, s := range cfg.Sounds {
		if s.Name == "" || s.File == "" {
			continue
		}
		file := s.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("sound %q: %w", s.Name, err)
		}
		if !wav.NewDecoder(bytes.NewReader(data)).IsValidFile() {
			return nil, fmt.Errorf("sound %q: %s is not a playable WAV file", s.Name, file)
		}
		sounds[s.Name] = data
	}
	return sounds, nil
}
