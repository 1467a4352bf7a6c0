//go:build !windows

package desktop

import (
	"errors"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
)

func newWindowsSetter() (domain.WallpaperSetter, error) {
	return nil, errors.New("windows wallpaper mode is only available on windows")
}
