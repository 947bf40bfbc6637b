package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// GameDescriptor is the registry's metadata record for a discovered game.
// It is created at scan time and never mutated afterwards.
type GameDescriptor struct {
	// ID is the game directory name. Unique and stable across runs.
	ID string `json:"id"`

	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`

	// Entry names the compiled-in factory that builds the game.
	Entry string `json:"entry"`

	// Dir is the absolute path of the game directory.
	Dir string `json:"dir"`

	// Options holds the free-form "options" block of the manifest.
	Options map[string]any `json:"options,omitempty"`
}

// DecodeOptions decodes the manifest options into target (a pointer to a
// struct tagged with `mapstructure`). Fields absent from the manifest keep
// the values already set in target.
func (d GameDescriptor) DecodeOptions(target any) error {
	if len(d.Options) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(d.Options); err != nil {
		return fmt.Errorf("invalid options for game %q: %w", d.ID, err)
	}
	return nil
}
