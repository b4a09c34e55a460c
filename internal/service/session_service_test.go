package service

import (
	"context"
	"testing"
	"time"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"

	"github.com/stretchr/testify/require"
)

// 访客会话创建后立即可用
func TestCreateGuestAndResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.sessionService.CreateGuest(ctx, "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, pkgapp.SessionKindGuest, token.Kind)
	require.NotEmpty(t, token.Token)

	session, err := env.sessionService.Resolve(ctx, token.SessionID)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStateGuest, session.State)
	require.True(t, session.IsGuest())
}

// 空和未知的会话 ID 都不可用
func TestResolveInvalidSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sessionService.Resolve(ctx, "")
	require.Error(t, err)

	_, err = env.sessionService.Resolve(ctx, "no-such-session")
	require.Error(t, err)
}

// TTL 过期的访客会话被清扫后不可再用
func TestExpireStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 一个早已超时的访客会话
	stale, err := env.sessionRepo.Create(ctx, &domain.Session{
		ID:        "stale-guest",
		State:     domain.SessionStateGuest,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	// 一个还在 TTL 内的
	fresh := env.newGuestSession(t)

	count, err := env.sessionService.ExpireStale(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = env.sessionService.Resolve(ctx, stale.ID)
	require.Error(t, err)

	_, err = env.sessionService.Resolve(ctx, fresh.ID)
	require.NoError(t, err)
}

// 转正保留内容、重置配额计数器
func TestConvertCarriesContentAndResetsQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	guest := env.newGuestSession(t)
	env.policies.guestLimit = 1

	// 访客用掉唯一的建笔记额度
	auth, err := env.gateService.Authorize(ctx, guest.ID, domain.ActionCreateNote)
	require.NoError(t, err)
	require.True(t, auth.Granted())

	note, err := env.noteService.CreateNote(ctx, guest.ID, "my note")
	require.NoError(t, err)

	// 再建一条会被拒
	auth, err = env.gateService.Authorize(ctx, guest.ID, domain.ActionCreateNote)
	require.NoError(t, err)
	require.False(t, auth.Granted())

	token, err := env.sessionService.Convert(ctx, guest.ID, &dto.SessionConvertRequest{
		Username: "alice",
		Password: "secret123",
	}, "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, pkgapp.SessionKindUser, token.Kind)
	require.NotEqual(t, guest.ID, token.SessionID)

	// 旧会话终结
	_, err = env.sessionService.Resolve(ctx, guest.ID)
	require.Error(t, err)

	// 笔记归属转移到新会话
	carried, err := env.noteService.GetNote(ctx, token.SessionID, note.ID)
	require.NoError(t, err)
	require.Equal(t, note.Title, carried.Title)

	// 新会话不会因继承的计数器被拒
	newSession, err := env.sessionService.Resolve(ctx, token.SessionID)
	require.NoError(t, err)
	require.False(t, newSession.IsGuest())

	auth, err = env.gateService.Authorize(ctx, token.SessionID, domain.ActionCreateNote)
	require.NoError(t, err)
	require.True(t, auth.Granted())
	require.Equal(t, int64(1), auth.Outcome.Count)
}

// 已转正的会话不能再次转正
func TestConvertTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	guest := env.newGuestSession(t)

	_, err := env.sessionService.Convert(ctx, guest.ID, &dto.SessionConvertRequest{
		Username: "bob",
		Password: "secret123",
	}, "127.0.0.1")
	require.NoError(t, err)

	_, err = env.sessionService.Convert(ctx, guest.ID, &dto.SessionConvertRequest{
		Username: "bob2",
		Password: "secret123",
	}, "127.0.0.1")
	require.Error(t, err)
}

// 用户名占用时转正失败且会话可以重试
func TestConvertUsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.newGuestSession(t)
	_, err := env.sessionService.Convert(ctx, first.ID, &dto.SessionConvertRequest{
		Username: "carol",
		Password: "secret123",
	}, "127.0.0.1")
	require.NoError(t, err)

	second := env.newGuestSession(t)
	_, err = env.sessionService.Convert(ctx, second.ID, &dto.SessionConvertRequest{
		Username: "carol",
		Password: "secret123",
	}, "127.0.0.1")
	require.Error(t, err)

	// 失败的会话仍是可用的访客会话，换个用户名即可成功
	session, err := env.sessionService.Resolve(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStateGuest, session.State)

	_, err = env.sessionService.Convert(ctx, second.ID, &dto.SessionConvertRequest{
		Username: "carol2",
		Password: "secret123",
	}, "127.0.0.1")
	require.NoError(t, err)
}
