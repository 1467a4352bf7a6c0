//go:build windows

package desktop

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"golang.org/x/sys/windows"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var procSystemParametersInfo = windows.NewLazySystemDLL("user32.dll").NewProc("SystemParametersInfoW")

// WindowsSetter calls SystemParametersInfoW
type WindowsSetter struct{}

func newWindowsSetter() (domain.WallpaperSetter, error) {
	if err := procSystemParametersInfo.Find(); err != nil {
		return nil, fmt.Errorf("SystemParametersInfoW unavailable: %w", err)
	}
	return WindowsSetter{}, nil
}

func (WindowsSetter) SetWallpaper(_ context.Context, path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("invalid wallpaper path: %w", err)
	}

	ok, _, callErr := procSystemParametersInfo.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(p)),
		spifUpdateIniFile|spifSendChange,
	)
	if ok == 0 {
		return fmt.Errorf("SystemParametersInfoW failed: %w", callErr)
	}
	return nil
}
