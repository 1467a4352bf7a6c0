package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
	ctx  context.Context
}

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	j.ctx = ctx
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(context.Background(), zerolog.Nop())
	err := s.AddJob("not a schedule", &countingJob{})
	assert.Error(t, err)
}

func TestAddJob_Runs(t *testing.T) {
	s := New(context.Background(), zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunNow_PassesContextAndError(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "run")

	s := New(ctx, zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	err := s.RunNow(job)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, int32(1), job.runs.Load())
	assert.Equal(t, "run", job.ctx.Value(key{}))
}

func TestRunJob_LogsFailureWithoutPanicking(t *testing.T) {
	s := New(context.Background(), zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	s.runJob(job)
	assert.Equal(t, int32(1), job.runs.Load())
}
