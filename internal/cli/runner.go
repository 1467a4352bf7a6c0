package cli

import (
	"context"

	"github.com/dfryer1193/apodwall/shared/db/sqlite"
	"github.com/dfryer1193/apodwall/wallpaper/application"
	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/dfryer1193/apodwall/wallpaper/persistence"
	"github.com/rs/zerolog"
)

// Runner opens the record store for a single pipeline run and closes it afterwards.
type Runner struct {
	DBName   string
	Source   domain.PictureSource
	Setter   domain.WallpaperSetter
	Archiver domain.Archiver
	Log      zerolog.Logger
}

// RunOnce runs the pipeline against the store that lives in req.Dir.
func (r *Runner) RunOnce(ctx context.Context, req application.Request) (*application.Result, error) {
	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(req.Dir, r.DBName))
	if err := database.Connect(); err != nil {
		return nil, domain.NewError(domain.KindStoreUnavailable, "opening record store "+database.Path(), err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			r.Log.Error().Err(err).Str("path", database.Path()).Msg("Failed to close record store")
		}
	}()

	repo := persistence.NewImageRepository(database.DB())
	service := application.NewPipelineService(r.Source, repo, r.Setter, r.Archiver, r.Log)

	return service.Run(ctx, req)
}
