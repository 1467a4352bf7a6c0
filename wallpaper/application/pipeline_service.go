package application

import (
	"context"
	"fmt"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request describes one run of the pipeline
type Request struct {
	Dir         string
	Date        string
	PreferHD    bool
	NoWallpaper bool
}

// Result reports what a run did
type Result struct {
	RunID     string
	Picture   *domain.Picture
	Record    domain.ImageRecord
	Duplicate bool
}

// PipelineService fetches the picture of the day, stores it once per distinct
// content, and sets it as the wallpaper.
type PipelineService struct {
	source   domain.PictureSource
	repo     domain.ImageRepository
	setter   domain.WallpaperSetter
	archiver domain.Archiver
	log      zerolog.Logger
}

// NewPipelineService wires a pipeline. setter and archiver may be nil.
func NewPipelineService(
	source domain.PictureSource,
	repo domain.ImageRepository,
	setter domain.WallpaperSetter,
	archiver domain.Archiver,
	log zerolog.Logger,
) *PipelineService {
	return &PipelineService{
		source:   source,
		repo:     repo,
		setter:   setter,
		archiver: archiver,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes fetch, download, dedup check, store and wallpaper change in order.
// The first failure aborts the run; nothing is written before the download succeeds.
func (s *PipelineService) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Dir == "" {
		return nil, domain.Errorf(domain.KindInvalidArgument, "running pipeline", "target directory cannot be empty")
	}

	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("date", req.Date).Logger()

	picture, err := s.source.FetchPicture(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	if picture.MediaType != "" && picture.MediaType != domain.MediaTypeImage {
		return nil, domain.Errorf(domain.KindUnsupportedMedia, "checking media type",
			"picture for %s is a %s (%s)", picture.Date, picture.MediaType, picture.URL)
	}

	imageURL := picture.ImageURL(req.PreferHD)
	path, err := ImagePath(req.Dir, imageURL)
	if err != nil {
		return nil, err
	}

	content, err := s.source.Download(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, domain.Errorf(domain.KindNetworkFailure, "downloading image", "%s returned an empty body", imageURL)
	}

	rec := domain.NewImageRecord(path, content)
	result := &Result{RunID: runID, Picture: picture, Record: rec}

	existing, found, err := s.repo.FindByHash(ctx, rec.Hash)
	if err != nil {
		return nil, err
	}

	if found {
		result.Record = *existing
		result.Duplicate = true
		log.Info().
			Str("hash", rec.Hash).
			Str("path", existing.Path).
			Msg("Image already stored, skipping write")
	} else {
		if err := s.repo.SaveImage(ctx, rec, content); err != nil {
			return nil, err
		}
		log.Info().
			Str("hash", rec.Hash).
			Str("path", rec.Path).
			Int64("size", rec.Size).
			Msg("Stored new image")

		s.archive(ctx, log, rec, content)
	}

	if req.NoWallpaper || s.setter == nil {
		return result, nil
	}

	if err := s.setter.SetWallpaper(ctx, result.Record.Path); err != nil {
		return nil, domain.NewError(domain.KindWallpaperFailure, fmt.Sprintf("setting wallpaper to %s", result.Record.Path), err)
	}
	log.Info().Str("path", result.Record.Path).Msg("Wallpaper updated")

	return result, nil
}

// archive mirrors a newly stored image. Failures are logged, not returned.
func (s *PipelineService) archive(ctx context.Context, log zerolog.Logger, rec domain.ImageRecord, content []byte) {
	if s.archiver == nil {
		return
	}

	if err := s.archiver.Archive(ctx, rec, content); err != nil {
		log.Warn().Err(err).Str("path", rec.Path).Msg("Failed to mirror image")
	}
}
