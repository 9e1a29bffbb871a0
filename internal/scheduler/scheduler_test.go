package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fansite/pkg/logger"
)

type countingSaver struct{ n int32 }

func (c *countingSaver) RequestSave() { atomic.AddInt32(&c.n, 1) }

type countingRecorder struct{ n int32 }

func (c *countingRecorder) RecordDailyViewers(context.Context) error {
	atomic.AddInt32(&c.n, 1)
	return nil
}

func TestBackupSchedulerTicks(t *testing.T) {
	saver := &countingSaver{}
	s := NewBackupScheduler(saver, 10*time.Millisecond, logger.NewNop())
	s.Start()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&saver.n) >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	n := atomic.LoadInt32(&saver.n)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, atomic.LoadInt32(&saver.n))
}

func TestBackupSchedulerDefaultInterval(t *testing.T) {
	s := NewBackupScheduler(&countingSaver{}, 0, logger.NewNop())
	assert.Equal(t, 5*time.Minute, s.interval)
}

func TestMetricsSchedulerNextRun(t *testing.T) {
	s := NewMetricsScheduler(&countingRecorder{}, logger.NewNop())

	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2024, 5, 1, 23, 55, 0, 0, time.UTC), s.nextRun())

	s.now = func() time.Time { return time.Date(2024, 5, 1, 23, 56, 0, 0, time.UTC) }
	assert.Equal(t, time.Date(2024, 5, 2, 23, 55, 0, 0, time.UTC), s.nextRun())
}

func TestMetricsSchedulerRecordsOnStart(t *testing.T) {
	rec := &countingRecorder{}
	s := NewMetricsScheduler(rec, logger.NewNop())
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&rec.n) == 1 }, time.Second, 5*time.Millisecond)
}
