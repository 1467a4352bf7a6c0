// Package schedule runs jobs on cron expressions for daemon mode.
package schedule

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler runs each job at most once at a time; ticks that fire while the
// previous run is still in progress are dropped.
type Scheduler struct {
	ctx  context.Context
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a scheduler whose jobs run with ctx.
func New(ctx context.Context, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	return &Scheduler{
		ctx:  ctx,
		cron: c,
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop prevents new runs and blocks until in-flight jobs return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers job under a five field cron expression or a descriptor
// such as "@daily" or "@every 6h".
func (s *Scheduler) AddJob(spec string, job Job) error {
	id, err := s.cron.AddJob(spec, cron.FuncJob(func() { s.runJob(job) }))
	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", spec).
		Str("job", job.Name()).
		Int("entry", int(id)).
		Msg("Job registered")
	return nil
}

// RunNow runs job synchronously, outside the schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return job.Run(s.ctx)
}

func (s *Scheduler) runJob(job Job) {
	log := s.log.With().Str("job", job.Name()).Logger()
	log.Debug().Msg("Running job")

	if err := job.Run(s.ctx); err != nil {
		log.Error().Err(err).Msg("Job failed")
		return
	}

	log.Debug().Msg("Job completed")
}
