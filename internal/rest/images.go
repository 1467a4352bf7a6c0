package rest

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/dfryer1193/apodwall/api"
	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/gin-gonic/gin"
	"github.com/opencontainers/go-digest"
	"github.com/rs/zerolog/log"
)

// ImageHandler serves the record store read-only
type ImageHandler struct {
	repo domain.ImageRepository
	ping func(ctx context.Context) error
}

// NewImageHandler creates a handler. ping reports store health; nil means always healthy.
func NewImageHandler(repo domain.ImageRepository, ping func(ctx context.Context) error) *ImageHandler {
	return &ImageHandler{repo: repo, ping: ping}
}

func (h *ImageHandler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, api.Error{Error: "record store unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	records, err := h.repo.ListImages(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list images")
		c.JSON(http.StatusInternalServerError, api.Error{Error: "failed to list images"})
		return
	}

	images := make([]api.Image, 0, len(records))
	for _, rec := range records {
		images = append(images, toAPIImage(rec))
	}

	c.JSON(http.StatusOK, api.ImageList{Images: images, Count: len(images)})
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toAPIImage(*rec))
}

func (h *ImageHandler) GetImageRaw(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	c.File(rec.Path)
}

// lookup resolves the :hash parameter, writing the error response itself when it fails.
func (h *ImageHandler) lookup(c *gin.Context) (*domain.ImageRecord, bool) {
	hash := c.Param("hash")
	if err := digest.SHA256.Validate(hash); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{Error: "hash must be a hex encoded sha256 digest"})
		return nil, false
	}

	rec, found, err := h.repo.FindByHash(c.Request.Context(), hash)
	if err != nil {
		log.Error().Err(err).Str("hash", hash).Msg("Failed to look up image")
		c.JSON(http.StatusInternalServerError, api.Error{Error: "failed to look up image"})
		return nil, false
	}
	if !found {
		c.JSON(http.StatusNotFound, api.Error{Error: "image not found"})
		return nil, false
	}

	return rec, true
}

func toAPIImage(rec domain.ImageRecord) api.Image {
	return api.Image{
		FileName: filepath.Base(rec.Path),
		Path:     rec.Path,
		Size:     rec.Size,
		Hash:     rec.Hash,
		RawURL:   "/images/v1/" + rec.Hash + "/raw",
	}
}
