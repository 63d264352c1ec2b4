package jobs

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type staleRequeuer interface {
	Handle(ctx context.Context, cmd commands.RequeueStaleDispatchesCommand) (int, error)
}

// DispatchSweepJob periodically re-enqueues orders left ready to collect
// without a driver and without an open dispatch failure.
type DispatchSweepJob struct {
	handler  staleRequeuer
	cmd      commands.RequeueStaleDispatchesCommand
	schedule string
	cron     *cron.Cron
	logger   logrus.FieldLogger
}

// NewDispatchSweepJob takes a six field cron schedule, seconds first.
func NewDispatchSweepJob(
	handler staleRequeuer,
	schedule string,
	staleAfter time.Duration,
	limit int,
	logger logrus.FieldLogger,
) (*DispatchSweepJob, error) {
	cmd, err := commands.NewRequeueStaleDispatchesCommand(staleAfter, limit)
	if err != nil {
		return nil, err
	}
	return &DispatchSweepJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.WithField("component", "dispatch_sweep_job"),
	}, nil
}

func (j *DispatchSweepJob) Name() string {
	return "dispatch_sweep_job"
}

func (j *DispatchSweepJob) Start(ctx context.Context) error {
	_, err := j.cron.AddFunc(j.schedule, func() { j.Run(ctx) })
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("dispatch sweep job started")
	return nil
}

// Run performs a single sweep.
func (j *DispatchSweepJob) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	requeued, err := j.handler.Handle(ctx, j.cmd)
	switch {
	case errors.Is(err, ports.ErrDispatchQueueFull):
		j.logger.WithField("requeued", requeued).Warn("dispatch queue is full, sweep postponed")
	case err != nil:
		j.logger.WithError(err).Error("dispatch sweep failed")
	case requeued > 0:
		j.logger.WithField("requeued", requeued).Info("stale dispatches requeued")
	}
}

func (j *DispatchSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("dispatch sweep job stopped")
}
