// Package cli implements the apod command. Run returns an exit code instead
// of exiting so the whole command can be exercised in tests.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dfryer1193/apodwall/shared/archive"
	"github.com/dfryer1193/apodwall/shared/config"
	"github.com/dfryer1193/apodwall/shared/desktop"
	"github.com/dfryer1193/apodwall/shared/logger"
	"github.com/dfryer1193/apodwall/shared/nasa"
	"github.com/dfryer1193/apodwall/shared/schedule"
	"github.com/dfryer1193/apodwall/wallpaper/application"
	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/rs/zerolog"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrInvalidArgument):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Run executes the apod command with args (without the program name).
func Run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Out:    stderr,
	})
	logger.SetGlobalLogger(log)

	fs := flag.NewFlagSet("apod", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: apod [flags] <dir> [YYYY-MM-DD]")
		fs.PrintDefaults()
	}

	parsed, err := application.ParseArgs(fs, args, time.Now())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}

	if parsed.Schedule == "" {
		parsed.Schedule = cfg.Schedule
	}
	parsed.PreferHD = parsed.PreferHD || cfg.PreferHD

	runner, err := newRunner(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}

	req := application.Request{
		Dir:         parsed.Dir,
		Date:        parsed.Date,
		PreferHD:    parsed.PreferHD,
		NoWallpaper: parsed.NoWallpaper,
	}

	if parsed.Schedule != "" {
		return runDaemon(ctx, runner, req, parsed.Schedule, log, stderr)
	}

	result, err := runner.RunOnce(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCode(err)
	}

	printResult(stdout, result)
	return ExitOK
}

func newRunner(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Runner, error) {
	mode, err := desktop.ParseMode(cfg.Wallpaper)
	if err != nil {
		return nil, err
	}

	setter, err := desktop.New(mode, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up wallpaper backend: %w", err)
	}

	runner := &Runner{
		DBName: cfg.DBName,
		Source: nasa.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout, log),
		Setter: setter,
		Log:    log,
	}

	if cfg.S3.Enabled() {
		archiver, err := archive.NewS3Archiver(ctx, archive.Options{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to set up s3 mirror: %w", err)
		}
		runner.Archiver = archiver
	}

	return runner, nil
}

// runDaemon runs the pipeline on schedule until ctx is cancelled.
func runDaemon(ctx context.Context, runner *Runner, req application.Request, spec string, log zerolog.Logger, stderr io.Writer) int {
	scheduler := schedule.New(ctx, log)
	if err := scheduler.AddJob(spec, NewDailyJob(runner, req)); err != nil {
		fmt.Fprintf(stderr, "Error: invalid schedule %q: %v\n", spec, err)
		return ExitUsage
	}

	scheduler.Start()
	log.Info().Str("schedule", spec).Str("dir", req.Dir).Msg("Waiting for scheduled runs")

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	scheduler.Stop()
	return ExitOK
}

func printResult(w io.Writer, result *application.Result) {
	if result.Picture != nil && result.Picture.Title != "" {
		fmt.Fprintf(w, "%s (%s)\n", result.Picture.Title, result.Picture.Date)
	}

	verb := "Saved"
	if result.Duplicate {
		verb = "Already stored"
	}
	fmt.Fprintf(w, "%s %s (%d bytes, sha256 %s)\n", verb, result.Record.Path, result.Record.Size, result.Record.Hash)
}
