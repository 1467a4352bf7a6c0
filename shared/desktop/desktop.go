// Package desktop sets the desktop background on the platforms it knows about.
package desktop

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/rs/zerolog"
)

// Mode selects a wallpaper implementation
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeGNOME   Mode = "gnome"
	ModeMacOS   Mode = "macos"
	ModeWindows Mode = "windows"
	ModeNone    Mode = "none"
)

// ParseMode validates a mode name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeGNOME, ModeMacOS, ModeWindows, ModeNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown wallpaper mode %q (want auto, gnome, macos, windows or none)", s)
	}
}

// runner executes an external command and returns its combined output.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// lookPath reports whether a command is available.
type lookPath func(file string) (string, error)

// New returns the setter for mode. ModeAuto picks by operating system and
// falls back to a no-op when no supported desktop is found.
func New(mode Mode, log zerolog.Logger) (domain.WallpaperSetter, error) {
	return newSetter(mode, runtime.GOOS, exec.LookPath, log)
}

func newSetter(mode Mode, goos string, look lookPath, log zerolog.Logger) (domain.WallpaperSetter, error) {
	log = log.With().Str("component", "desktop").Logger()

	if mode == ModeAuto {
		mode = detect(goos, look)
		log.Debug().Str("mode", string(mode)).Str("os", goos).Msg("Detected wallpaper mode")
	}

	switch mode {
	case ModeGNOME:
		return &GNOMESetter{run: execRunner}, nil
	case ModeMacOS:
		return &MacOSSetter{run: execRunner}, nil
	case ModeWindows:
		return newWindowsSetter()
	case ModeNone:
		return NoopSetter{log: log}, nil
	default:
		return nil, fmt.Errorf("unknown wallpaper mode %q", mode)
	}
}

func detect(goos string, look lookPath) Mode {
	switch goos {
	case "darwin":
		return ModeMacOS
	case "windows":
		return ModeWindows
	default:
		if _, err := look("gsettings"); err == nil {
			return ModeGNOME
		}
		return ModeNone
	}
}

// NoopSetter leaves the desktop alone
type NoopSetter struct {
	log zerolog.Logger
}

func (n NoopSetter) SetWallpaper(_ context.Context, path string) error {
	n.log.Info().Str("path", path).Msg("No wallpaper backend available, leaving desktop unchanged")
	return nil
}

func commandError(name string, out []byte, err error) error {
	msg := strings.TrimSpace(string(out))
	if msg == "" {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return fmt.Errorf("%s failed: %w: %s", name, err, msg)
}
