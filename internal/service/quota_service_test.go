package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/studyforge/study-note-service/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// 并发下同一计数器的 check-and-increment 必须原子
func TestCheckAndIncrementConcurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 1

	const n = 20
	var wg sync.WaitGroup
	allowed := make(chan bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionCreateNote)
			if err != nil {
				t.Errorf("CheckAndIncrement failed: %v", err)
				return
			}
			allowed <- outcome.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	grantedCount := 0
	for ok := range allowed {
		if ok {
			grantedCount++
		}
	}

	if grantedCount != 1 {
		t.Errorf("limit=1 with %d concurrent requests: got %d granted, want exactly 1", n, grantedCount)
	}

	counter, err := env.quotaRepo.Get(ctx, session.ID, domain.ActionCreateNote)
	require.NoError(t, err)
	require.NotNil(t, counter)
	require.Equal(t, int64(1), counter.Count)
}

// 拒绝不改动计数器状态
func TestCheckAndIncrementDenialDoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 2

	for i := 0; i < 2; i++ {
		outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionAiGenerate)
		require.NoError(t, err)
		require.True(t, outcome.Allowed)
	}

	for i := 0; i < 3; i++ {
		outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionAiGenerate)
		require.NoError(t, err)
		require.False(t, outcome.Allowed)
		require.Equal(t, int64(2), outcome.Count)
	}

	counter, err := env.quotaRepo.Get(ctx, session.ID, domain.ActionAiGenerate)
	require.NoError(t, err)
	require.Equal(t, int64(2), counter.Count)
}

// 不同操作类型的计数器互不影响
func TestCheckAndIncrementIndependentCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 1

	outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionCreateNote)
	require.NoError(t, err)
	require.True(t, outcome.Allowed)

	// CreateNote 用尽后 AiGenerate 仍可用
	outcome, err = env.quotaService.CheckAndIncrement(ctx, session, domain.ActionAiGenerate)
	require.NoError(t, err)
	require.True(t, outcome.Allowed)
}

// 日窗口满 24 小时后计数归零
func TestCheckAndIncrementDailyWindowRoll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 2
	env.policies.guestWindow = domain.QuotaWindowDaily

	for i := 0; i < 2; i++ {
		outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionAiSummarize)
		require.NoError(t, err)
		require.True(t, outcome.Allowed)
	}

	outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionAiSummarize)
	require.NoError(t, err)
	require.False(t, outcome.Allowed)

	// 把窗口起点拨回 25 小时前，模拟跨天
	counter, err := env.quotaRepo.Get(ctx, session.ID, domain.ActionAiSummarize)
	require.NoError(t, err)
	counter.WindowStart = time.Now().Add(-25 * time.Hour)
	_, err = env.quotaRepo.Save(ctx, counter)
	require.NoError(t, err)

	outcome, err = env.quotaService.CheckAndIncrement(ctx, session, domain.ActionAiSummarize)
	require.NoError(t, err)
	require.True(t, outcome.Allowed)
	require.Equal(t, int64(1), outcome.Count)
}

// 未知操作类型直接拒绝
func TestCheckAndIncrementUnknownKind(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)

	_, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionKind("DeleteUniverse"))
	require.Error(t, err)
}

// Peek 只读，不消耗配额
func TestPeekDoesNotConsume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 1

	for i := 0; i < 5; i++ {
		quota, err := env.quotaService.Peek(ctx, session, domain.ActionCreateNote)
		require.NoError(t, err)
		require.Equal(t, int64(0), quota.Count)
		require.Equal(t, int64(1), quota.Limit)
	}

	outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionCreateNote)
	require.NoError(t, err)
	require.True(t, outcome.Allowed)

	quota, err := env.quotaService.Peek(ctx, session, domain.ActionCreateNote)
	require.NoError(t, err)
	require.Equal(t, int64(1), quota.Count)
}

// 任意长度的请求序列都不会让放行次数超过限额
func TestPropertyQuotaNeverExceedsLimit(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("granted count never exceeds limit", prop.ForAll(
		func(limit int64, attempts int) bool {
			env := newTestEnv(t)
			ctx := context.Background()

			session := env.newGuestSession(t)
			env.policies.guestLimit = limit

			granted := int64(0)
			for i := 0; i < attempts; i++ {
				outcome, err := env.quotaService.CheckAndIncrement(ctx, session, domain.ActionAiCode)
				if err != nil {
					t.Logf("CheckAndIncrement failed: %v", err)
					return false
				}
				if outcome.Allowed {
					granted++
				}
			}

			if granted > limit {
				t.Logf("granted %d with limit %d", granted, limit)
				return false
			}
			// 请求数达到限额时必然全部放行完
			if int64(attempts) >= limit && granted != limit {
				t.Logf("granted %d, want %d (attempts %d)", granted, limit, attempts)
				return false
			}
			return true
		},
		gen.Int64Range(1, 5),
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t)
}
