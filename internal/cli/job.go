package cli

import (
	"context"
	"time"

	"github.com/dfryer1193/apodwall/wallpaper/application"
	"github.com/dfryer1193/apodwall/wallpaper/domain"
)

// DailyJob runs the pipeline for the current day each time it fires.
type DailyJob struct {
	runner  *Runner
	request application.Request
	now     func() time.Time
}

func NewDailyJob(runner *Runner, req application.Request) *DailyJob {
	return &DailyJob{
		runner:  runner,
		request: req,
		now:     time.Now,
	}
}

func (j *DailyJob) Name() string {
	return "apod-daily"
}

func (j *DailyJob) Run(ctx context.Context) error {
	req := j.request
	req.Date = j.now().Format(domain.DateLayout)

	_, err := j.runner.RunOnce(ctx, req)
	return err
}
