package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyforge/study-note-service/internal/aibackend"
	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"

	"github.com/stretchr/testify/require"
)

// newAiEnv 构造带内存后端的 AI 服务，使用记录同步落库
func newAiEnv(t *testing.T, backend aibackend.Backend) (*testEnv, AiService) {
	env := newTestEnv(t)
	usage := NewUsageService(env.usageRepo, nil, nil)
	svc := NewAiService(env.gateService, usage, backend, nil)
	return env, svc
}

// 成功调用：返回结果、扣配额、记使用
func TestAiInvokeSuccess(t *testing.T) {
	backend := &aibackend.FakeBackend{Content: "photosynthesis summary", TokensUsed: 42}
	env, svc := newAiEnv(t, backend)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 3

	result, err := svc.Invoke(ctx, session.ID, &dto.AiInvokeRequest{
		ToolType: string(domain.ActionAiSummarize),
		Input:    "explain photosynthesis",
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "photosynthesis summary", result.Content)
	require.Equal(t, int64(42), result.TokensUsed)
	require.NotEmpty(t, result.OutputID)
	require.Equal(t, int64(1), backend.Calls())

	// 配额已消耗
	counter, err := env.quotaRepo.Get(ctx, session.ID, domain.ActionAiSummarize)
	require.NoError(t, err)
	require.Equal(t, int64(1), counter.Count)

	// 使用记录已写入
	entries, count, err := env.usageRepo.ListBySession(ctx, session.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.True(t, entries[0].Success)
	require.Equal(t, domain.ActionAiSummarize, entries[0].ToolType)
	require.NotEmpty(t, entries[0].InputDigest)
}

// 后端失败：报错，但配额不退、使用照记
func TestAiInvokeBackendFailureStillLogsAndBurnsQuota(t *testing.T) {
	backend := &aibackend.FakeBackend{Err: errors.New("model unavailable")}
	env, svc := newAiEnv(t, backend)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 3

	_, err := svc.Invoke(ctx, session.ID, &dto.AiInvokeRequest{
		ToolType: string(domain.ActionAiGenerate),
		Input:    "write an outline",
	})
	require.Error(t, err)

	// 失败的调用同样消耗配额
	counter, err := env.quotaRepo.Get(ctx, session.ID, domain.ActionAiGenerate)
	require.NoError(t, err)
	require.Equal(t, int64(1), counter.Count)

	// 失败同样记录
	entries, count, err := env.usageRepo.ListBySession(ctx, session.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.False(t, entries[0].Success)
	require.Empty(t, entries[0].OutputID)
}

// 配额用尽：不触达后端，也不记使用
func TestAiInvokeQuotaExceeded(t *testing.T) {
	backend := &aibackend.FakeBackend{Content: "ok"}
	env, svc := newAiEnv(t, backend)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 1

	_, err := svc.Invoke(ctx, session.ID, &dto.AiInvokeRequest{
		ToolType: string(domain.ActionAiCode),
		Input:    "fizzbuzz",
	})
	require.NoError(t, err)

	_, err = svc.Invoke(ctx, session.ID, &dto.AiInvokeRequest{
		ToolType: string(domain.ActionAiCode),
		Input:    "fizzbuzz again",
	})
	require.Error(t, err)
	require.Equal(t, int64(1), backend.Calls())

	_, count, err := env.usageRepo.ListBySession(ctx, session.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

// CreateNote 不是 AI 工具，不能经由 AI 入口调用
func TestAiInvokeRejectsNonAiKind(t *testing.T) {
	backend := &aibackend.FakeBackend{}
	env, svc := newAiEnv(t, backend)
	ctx := context.Background()

	session := env.newGuestSession(t)

	_, err := svc.Invoke(ctx, session.ID, &dto.AiInvokeRequest{
		ToolType: string(domain.ActionCreateNote),
		Input:    "nope",
	})
	require.Error(t, err)
	require.Equal(t, int64(0), backend.Calls())
}

// 无效会话直接拒绝
func TestAiInvokeInvalidSession(t *testing.T) {
	backend := &aibackend.FakeBackend{}
	_, svc := newAiEnv(t, backend)
	ctx := context.Background()

	_, err := svc.Invoke(ctx, "ghost-session", &dto.AiInvokeRequest{
		ToolType: string(domain.ActionAiGenerate),
		Input:    "hello",
	})
	require.Error(t, err)
	require.Equal(t, int64(0), backend.Calls())
}

// 过期会话不能过闸门
func TestGateRejectsExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sessionRepo.Create(ctx, &domain.Session{
		ID:        "old-guest",
		State:     domain.SessionStateGuest,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = env.gateService.Authorize(ctx, "old-guest", domain.ActionCreateNote)
	require.Error(t, err)
}

// 访客建一条笔记后再建被拒，提示转正而非报错
func TestGateGuestNoteScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	env.policies.guestLimit = 1

	auth, err := env.gateService.Authorize(ctx, session.ID, domain.ActionCreateNote)
	require.NoError(t, err)
	require.True(t, auth.Granted())

	_, err = env.noteService.CreateNote(ctx, session.ID, "first note")
	require.NoError(t, err)

	// 拒绝通过结果返回，不是错误
	auth, err = env.gateService.Authorize(ctx, session.ID, domain.ActionCreateNote)
	require.NoError(t, err)
	require.False(t, auth.Granted())
	require.Equal(t, int64(1), auth.Outcome.Count)
	require.Equal(t, int64(1), auth.Outcome.Limit)
}
