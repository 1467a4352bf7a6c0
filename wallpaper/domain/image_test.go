package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashContent_Deterministic(t *testing.T) {
	a := []byte("the horsehead nebula")
	b := []byte("the horsehead nebula")

	assert.Equal(t, HashContent(a), HashContent(b))
	assert.Len(t, HashContent(a), 64)
}

func TestHashContent_DistinctContent(t *testing.T) {
	assert.NotEqual(t, HashContent([]byte("m31")), HashContent([]byte("m33")))
	assert.NotEqual(t, HashContent(nil), HashContent([]byte{0}))
}

func TestHashContent_KnownVector(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashContent([]byte("abc")),
	)
}

func TestNewImageRecord(t *testing.T) {
	content := []byte("fake image content")
	rec := NewImageRecord("/tmp/images/pic.jpg", content)

	assert.Equal(t, "/tmp/images/pic.jpg", rec.Path)
	assert.Equal(t, int64(len(content)), rec.Size)
	assert.Equal(t, HashContent(content), rec.Hash)
}

func TestPicture_ImageURL(t *testing.T) {
	p := &Picture{URL: "https://apod.nasa.gov/a.jpg", HDURL: "https://apod.nasa.gov/a_hd.jpg"}
	assert.Equal(t, p.URL, p.ImageURL(false))
	assert.Equal(t, p.HDURL, p.ImageURL(true))

	p.HDURL = ""
	assert.Equal(t, p.URL, p.ImageURL(true))
}
