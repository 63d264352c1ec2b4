package jobs

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWorker struct {
	name     string
	startErr error
	events   *[]string
}

func (w *recordingWorker) Name() string { return w.name }

func (w *recordingWorker) Start(context.Context) error {
	if w.startErr != nil {
		return w.startErr
	}
	*w.events = append(*w.events, "start "+w.name)
	return nil
}

func (w *recordingWorker) Stop() {
	*w.events = append(*w.events, "stop "+w.name)
}

func TestJobManager_StartsInOrderStopsInReverse(t *testing.T) {
	logger, _ := test.NewNullLogger()
	var events []string
	jm := NewJobManager(logger,
		&recordingWorker{name: "pool", events: &events},
		&recordingWorker{name: "sweep", events: &events},
	)

	require.NoError(t, jm.StartAll(t.Context()))
	jm.StopAll()

	assert.Equal(t, []string{"start pool", "start sweep", "stop sweep", "stop pool"}, events)
}

func TestJobManager_FailedStartStopsStartedWorkers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	var events []string
	jm := NewJobManager(logger,
		&recordingWorker{name: "pool", events: &events},
		&recordingWorker{name: "sweep", events: &events, startErr: assert.AnError},
	)

	err := jm.StartAll(t.Context())

	require.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "failed to start sweep")
	assert.Equal(t, []string{"start pool", "stop pool"}, events)

	jm.StopAll()
	assert.Len(t, events, 2)
}
