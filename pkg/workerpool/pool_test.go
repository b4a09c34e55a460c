package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitWaitsForResult(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	var ran atomic.Bool
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestPool_SubmitAsyncEventuallyRuns(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 8}, nil)
	defer p.Shutdown(context.Background())

	var count atomic.Int64
	for i := 0; i < 5; i++ {
		err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		return count.Load() == 5
	}, time.Second, 10*time.Millisecond)
}

func TestPool_RejectsAfterShutdown(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	require.NoError(t, p.Shutdown(context.Background()))

	err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
	assert.True(t, p.IsClosed())
}

func TestPool_QueueFull(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	block := make(chan struct{})
	// 占住唯一的 worker
	_ = p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		<-block
		return nil
	})
	// 等 worker 取走第一个任务
	assert.Eventually(t, func() bool { return p.ActiveCount() == 1 }, time.Second, 5*time.Millisecond)

	// 填满队列
	_ = p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })

	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)

	close(block)
}
