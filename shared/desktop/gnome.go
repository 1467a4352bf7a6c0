package desktop

import (
	"context"
	"net/url"
)

const gnomeBackgroundSchema = "org.gnome.desktop.background"

// GNOMESetter changes the background through gsettings, for both light and dark styles
type GNOMESetter struct {
	run runner
}

func (g *GNOMESetter) SetWallpaper(ctx context.Context, path string) error {
	uri := (&url.URL{Scheme: "file", Path: path}).String()

	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		out, err := g.run(ctx, "gsettings", "set", gnomeBackgroundSchema, key, uri)
		if err != nil {
			// picture-uri-dark only exists on GNOME 42 and later.
			if key == "picture-uri-dark" {
				continue
			}
			return commandError("gsettings", out, err)
		}
	}
	return nil
}
