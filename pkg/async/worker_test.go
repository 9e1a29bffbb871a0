package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fansite/pkg/logger"
)

func TestWorkerRunsSubmittedTasks(t *testing.T) {
	w := NewWorker("test", 10, logger.NewNop())
	w.Start(2)

	var count int32
	for i := 0; i < 5; i++ {
		ok := w.Submit(Task{Name: "inc", Handler: func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}})
		require.True(t, ok)
	}
	w.Stop()

	assert.Equal(t, int32(5), atomic.LoadInt32(&count))
	stats := w.Stats()
	assert.Equal(t, int64(5), stats.Submitted)
	assert.Equal(t, int64(5), stats.Succeeded)
	assert.Zero(t, stats.Failed)
}

func TestWorkerRetriesUntilSuccess(t *testing.T) {
	w := NewWorker("retry", 1, logger.NewNop())
	w.SetRetryDelay(time.Millisecond)
	w.Start(1)

	var attempts int32
	w.Submit(Task{Name: "flaky", RetryMax: 3, Handler: func(ctx context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("boom")
		}
		return nil
	}})
	w.Stop()

	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	res, ok := w.LastResult()
	require.True(t, ok)
	assert.True(t, res.Completed)
	assert.NoError(t, res.Error)
}

func TestWorkerRecoversPanics(t *testing.T) {
	w := NewWorker("panic", 1, logger.NewNop())
	w.Start(1)
	w.Submit(Task{Name: "panics", Handler: func(ctx context.Context) error {
		panic("bad")
	}})
	w.Stop()

	res, ok := w.LastResult()
	require.True(t, ok)
	assert.False(t, res.Completed)
	var pe *PanicError
	assert.ErrorAs(t, res.Error, &pe)
	assert.Equal(t, int64(1), w.Stats().Failed)
}

func TestWorkerDropsWhenFullOrStopped(t *testing.T) {
	w := NewWorker("full", 1, logger.NewNop())

	// 未启动，队列只能容纳一个任务
	noop := func(ctx context.Context) error { return nil }
	assert.True(t, w.Submit(Task{Handler: noop}))
	assert.False(t, w.Submit(Task{Handler: noop}))

	w.Start(1)
	w.Stop()
	assert.False(t, w.Submit(Task{Handler: noop}))
	assert.Equal(t, int64(2), w.Stats().Dropped)

	// 重复停止不会panic
	w.Stop()
}
