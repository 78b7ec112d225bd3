package worker

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker is a long running job started by the worker command.
type Worker interface {
	Run(ctx context.Context) error
}

type OnWork func(ctx context.Context) error

// BaseJob runs OnWork on a cron schedule, skipping ticks while a run is
// still in progress.
type BaseJob struct {
	Cron   *cron.Cron
	OnWork OnWork

	ctx context.Context
}

// NewBaseJob schedules the job in location using cron syntax.
func NewBaseJob(location, schedule string, onWork OnWork) (*BaseJob, error) {
	l, err := time.LoadLocation(location)
	if err != nil {
		return nil, err
	}

	job := &BaseJob{
		Cron: cron.New(
			cron.WithLocation(l),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		OnWork: onWork,
	}

	if _, err := job.Cron.AddFunc(schedule, job.tick); err != nil {
		return nil, err
	}

	return job, nil
}

// Run starts the schedule and blocks until ctx is done.
func (job *BaseJob) Run(ctx context.Context) error {
	job.ctx = ctx
	job.Cron.Start()
	<-ctx.Done()
	<-job.Cron.Stop().Done()
	return ctx.Err()
}

func (job *BaseJob) tick() {
	if err := job.OnWork(job.ctx); err != nil {
		logger.FromContext(job.ctx).WithError(err).Debugln("job failed")
	}
}
