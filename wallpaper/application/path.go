package application

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
)

// ImagePath derives the local path for an image from the last segment of its URL.
// Example: "https://apod.nasa.gov/apod/image/2403/horsehead.jpg" -> "<dir>/horsehead.jpg"
func ImagePath(dir string, rawURL string) (string, error) {
	name, err := FileNameFromURL(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// FileNameFromURL returns the trailing path segment of an http(s) URL.
func FileNameFromURL(rawURL string) (string, error) {
	const op = "deriving image file name"

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", domain.NewError(domain.KindParseFailure, op, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", domain.Errorf(domain.KindParseFailure, op, "url %q is not http(s)", rawURL)
	}
	if u.Host == "" {
		return "", domain.Errorf(domain.KindParseFailure, op, "url %q has no host", rawURL)
	}

	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return "", domain.Errorf(domain.KindParseFailure, op, "url %q has no file name", rawURL)
	}

	name := path.Base(u.Path)
	if name == "." || name == ".." || name == "/" || strings.ContainsAny(name, `\:`) {
		return "", domain.Errorf(domain.KindParseFailure, op, "url %q has no usable file name", rawURL)
	}

	return name, nil
}
