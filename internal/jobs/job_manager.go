package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Worker is a background component with an explicit lifecycle.
type Worker interface {
	Name() string
	Start(ctx context.Context) error
	Stop()
}

// JobManager starts workers in order and stops them in reverse order.
type JobManager struct {
	workers []Worker
	started []Worker
	logger  logrus.FieldLogger
}

func NewJobManager(logger logrus.FieldLogger, workers ...Worker) *JobManager {
	return &JobManager{
		workers: workers,
		logger:  logger.WithField("component", "job_manager"),
	}
}

// StartAll starts every worker. If one fails, the already started ones are stopped.
func (jm *JobManager) StartAll(ctx context.Context) error {
	for _, w := range jm.workers {
		if err := w.Start(ctx); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s: %w", w.Name(), err)
		}
		jm.started = append(jm.started, w)
	}
	return nil
}

func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
		jm.logger.WithField("worker", jm.started[i].Name()).Debug("worker stopped")
	}
	jm.started = nil
}
