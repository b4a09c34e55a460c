package writequeue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 同一键的操作必须严格串行且保持提交顺序
func TestManager_SameKeySerialFIFO(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	var mu sync.Mutex
	var order []int
	var inFlight, maxInFlight int

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Execute(context.Background(), "topic:1", func() error {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				order = append(order, i)
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, len(order))
	// 串行执行，任一时刻最多一个操作在执行
	assert.Equal(t, 1, maxInFlight)
}

// 不同键的操作可以并行
func TestManager_DifferentKeysRunConcurrently(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	start := make(chan struct{})
	var wg sync.WaitGroup

	blockA := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Execute(context.Background(), "a", func() error {
			close(start)
			<-blockA
			return nil
		})
	}()

	// 等 a 的操作开始执行后，b 的操作仍能完成
	<-start
	done := make(chan error, 1)
	go func() {
		done <- m.Execute(context.Background(), "b", func() error { return nil })
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("operation on key b blocked by key a")
	}

	close(blockA)
	wg.Wait()
}

func TestManager_ExecuteReturnsFnError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	wantErr := assert.AnError
	err := m.Execute(context.Background(), "k", func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestManager_ClosedRejectsExecute(t *testing.T) {
	m := New(nil, nil)
	require.NoError(t, m.Shutdown(context.Background()))

	err := m.Execute(context.Background(), "k", func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueClosed)
	assert.True(t, m.IsClosed())
}

func TestManager_QueuedCountAndMetrics(t *testing.T) {
	m := New(&Config{QueueCapacity: 10}, nil)
	defer m.Shutdown(context.Background())

	require.NoError(t, m.Execute(context.Background(), "k", func() error { return nil }))

	assert.Equal(t, 0, m.QueuedCount("k"))
	metrics := m.GetMetrics()
	assert.Equal(t, 10, metrics.QueueCapacity)
	assert.False(t, metrics.IsClosed)
}
