package desktop

import (
	"context"
	"fmt"
	"strings"
)

// MacOSSetter changes the picture of every desktop through System Events
type MacOSSetter struct {
	run runner
}

func (m *MacOSSetter) SetWallpaper(ctx context.Context, path string) error {
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to %s`, appleScriptString(path))
	out, err := m.run(ctx, "osascript", "-e", script)
	if err != nil {
		return commandError("osascript", out, err)
	}
	return nil
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
