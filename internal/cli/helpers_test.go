package cli

import (
	"context"

	"github.com/dfryer1193/apodwall/shared/config"
	"github.com/rs/zerolog"
)

func newTestRunner(baseURL string) (*Runner, error) {
	cfg := &config.Config{
		APIKey:    "test",
		BaseURL:   baseURL,
		DBName:    "apod_images.db",
		Wallpaper: "none",
	}
	return newRunner(context.Background(), cfg, zerolog.Nop())
}
