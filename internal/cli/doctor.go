package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/tinytop/internal/config"
	"github.com/aretw0/tinytop/internal/presentation/tui"
	"github.com/aretw0/tinytop/pkg/voice"
	"github.com/muesli/termenv"
)

// Doctor runs the environment checks and prints one line per check. It
// returns the first failure so the caller can exit with its code.
func Doctor(ctx context.Context, cfg config.Config, in, out *os.File, w io.Writer) error {
	checks := Checks(ctx, cfg, in, out)

	tui.PrintBanner(w)
	o := termenv.NewOutput(w)
	p := o.ColorProfile()
	for _, c := range checks {
		switch {
		case c.Err != nil && c.Optional:
			printSystemMessage(w, "%s %s: %v", o.String("WARN").Foreground(p.Color("#ffa500")), c.Name, c.Err)
		case c.Err != nil:
			printSystemMessage(w, "%s %s: %v", o.String("FAIL").Foreground(p.Color("#ff0000")), c.Name, c.Err)
		case c.Skipped:
			printSystemMessage(w, "%s %s", o.String("SKIP").Foreground(p.Color("#808080")), c.Name)
		default:
			printSystemMessage(w, "%s %s", o.String(" OK ").Foreground(p.Color("#32cd32")), c.Name)
		}
	}
	if cfg.VoiceEnabled() {
		name := cfg.Voice.Name
		if name == "" {
			name = voice.DefaultVoice
		}
		printSystemMessage(w, "voice: enabled (%s)", name)
	} else {
		printSystemMessage(w, "voice: disabled, set TINYTOP_VOICE_API_KEY to enable")
	}
	return FirstFailure(checks)
}
