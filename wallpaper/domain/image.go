package domain

import (
	"context"
	_ "crypto/sha256"

	"github.com/opencontainers/go-digest"
)

// ImageRecord represents a downloaded image tracked by the record store.
// Path is the identity of the record; Hash identifies its content.
type ImageRecord struct {
	Path string
	Size int64
	Hash string
}

// NewImageRecord builds the record for content that will live at path.
func NewImageRecord(path string, content []byte) ImageRecord {
	return ImageRecord{
		Path: path,
		Size: int64(len(content)),
		Hash: HashContent(content),
	}
}

// HashContent returns the hex-encoded SHA-256 digest of content.
func HashContent(content []byte) string {
	return digest.FromBytes(content).Encoded()
}

type ImageRepository interface {
	// Insert records a new image. It returns an error of kind KindDuplicatePath
	// if a record with the same path already exists.
	Insert(ctx context.Context, rec ImageRecord) error

	// SaveImage writes content to rec.Path and records it atomically.
	SaveImage(ctx context.Context, rec ImageRecord, content []byte) error

	// ContainsHash reports whether any record carries the given digest.
	ContainsHash(ctx context.Context, hash string) (bool, error)

	// FindByHash returns the record carrying the given digest, if any.
	FindByHash(ctx context.Context, hash string) (*ImageRecord, bool, error)

	// GetImage returns nil without an error when no record has this path.
	GetImage(ctx context.Context, path string) (*ImageRecord, error)
	ListImages(ctx context.Context) ([]ImageRecord, error)
}
