package scheduler

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *Scheduler {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewScheduler(nil, log)
}

func TestStartWithoutJobs(t *testing.T) {
	s := newTestScheduler()
	err := s.Start()
	require.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestScheduleInvalidExpression(t *testing.T) {
	s := newTestScheduler()
	err := s.ScheduleScanTicks("not a cron expression")
	require.Error(t, err)
}

func TestStartAndStop(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.ScheduleScanTicks("@every 1h"))
	require.NoError(t, s.ScheduleFixtureSync("0 */6 * * *", 2, 7))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Len(t, s.Entries(), 2)

	// Scheduling while running is rejected
	err := s.ScheduleScanTicks("@every 1m")
	require.Error(t, err)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	// Stopping twice is a no-op
	require.NoError(t, s.Stop())
}
