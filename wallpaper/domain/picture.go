package domain

import (
	"context"
	"time"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"

	// DateLayout is the date format accepted by the APOD API.
	DateLayout = "2006-01-02"
)

// FirstPictureDate is the date of the first published APOD entry.
var FirstPictureDate = time.Date(1995, time.June, 16, 0, 0, 0, 0, time.UTC)

// Picture is the metadata the APOD API publishes for a single day.
type Picture struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Explanation    string `json:"explanation"`
	URL            string `json:"url"`
	HDURL          string `json:"hdurl,omitempty"`
	MediaType      string `json:"media_type"`
	Copyright      string `json:"copyright,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`
}

// ImageURL picks the URL to download, preferring the HD variant when asked
// and available.
func (p *Picture) ImageURL(preferHD bool) string {
	if preferHD && p.HDURL != "" {
		return p.HDURL
	}
	return p.URL
}

// PictureSource defines the remote API that serves daily pictures.
type PictureSource interface {
	FetchPicture(ctx context.Context, date string) (*Picture, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// WallpaperSetter changes the desktop background to a local image file.
type WallpaperSetter interface {
	SetWallpaper(ctx context.Context, path string) error
}

// Archiver mirrors newly stored images to secondary storage.
type Archiver interface {
	Archive(ctx context.Context, rec ImageRecord, content []byte) error
}
