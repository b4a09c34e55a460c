package service

import (
	"context"
	"testing"
	"time"

	"github.com/studyforge/study-note-service/internal/dao"
	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/internal/model"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/workerpool"
	"github.com/studyforge/study-note-service/pkg/writequeue"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testPolicies 测试用配额策略
type testPolicies struct {
	guestLimit  int64
	guestWindow domain.QuotaWindow
	userLimit   int64
	userWindow  domain.QuotaWindow
}

func (p *testPolicies) PolicyFor(isGuest bool, kind domain.ActionKind) domain.QuotaPolicy {
	if isGuest {
		return domain.QuotaPolicy{Limit: p.guestLimit, Window: p.guestWindow}
	}
	return domain.QuotaPolicy{Limit: p.userLimit, Window: p.userWindow}
}

// testEnv 基于内存 SQLite 的服务层测试环境
type testEnv struct {
	db       *dao.Dao
	wq       *writequeue.Manager
	pool     *workerpool.Pool
	policies *testPolicies

	sessionRepo    domain.SessionRepository
	userRepo       domain.UserRepository
	conversionRepo domain.ConversionRepository
	quotaRepo      domain.QuotaRepository
	noteRepo       domain.NoteRepository
	chapterRepo    domain.ChapterRepository
	topicRepo      domain.TopicRepository
	versionRepo    domain.VersionRepository
	usageRepo      domain.UsageRepository

	sessionService SessionService
	quotaService   QuotaService
	gateService    GateService
	versionService VersionService
	noteService    NoteService
	usageService   UsageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := dao.NewDBEngine(dao.Config{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	lg := zap.NewNop()

	wqCfg := writequeue.DefaultConfig()
	wq := writequeue.New(&wqCfg, lg)

	poolCfg := workerpool.DefaultConfig()
	pool := workerpool.New(&poolCfg, lg)

	d := dao.New(db, wq, lg)

	env := &testEnv{
		db:   d,
		wq:   wq,
		pool: pool,
		policies: &testPolicies{
			guestLimit:  1,
			guestWindow: domain.QuotaWindowLifetime,
			userLimit:   100,
			userWindow:  domain.QuotaWindowDaily,
		},
	}

	env.sessionRepo = dao.NewSessionRepository(d)
	env.userRepo = dao.NewUserRepository(d)
	env.conversionRepo = dao.NewConversionRepository(d)
	env.quotaRepo = dao.NewQuotaRepository(d)
	env.noteRepo = dao.NewNoteRepository(d)
	env.chapterRepo = dao.NewChapterRepository(d)
	env.topicRepo = dao.NewTopicRepository(d)
	env.versionRepo = dao.NewVersionRepository(d)
	env.usageRepo = dao.NewUsageRepository(d)

	tm := pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: "test-secret",
		Issuer:    pkgapp.DefaultTokenIssuer,
		Expiry:    time.Hour,
	})

	svcConfig := &AppServiceConfig{
		HistoryKeepVersions: 10,
		GuestSessionTTL:     24 * time.Hour,
	}

	env.sessionService = NewSessionService(env.sessionRepo, env.userRepo, env.conversionRepo, tm, svcConfig, lg)
	env.quotaService = NewQuotaService(env.quotaRepo, env.policies, wq, lg)
	env.gateService = NewGateService(env.sessionService, env.quotaService)
	env.versionService = NewVersionService(env.versionRepo, env.topicRepo, wq, svcConfig, lg)
	env.noteService = NewNoteService(env.noteRepo, env.chapterRepo, env.topicRepo, env.versionService, lg)
	env.usageService = NewUsageService(env.usageRepo, pool, lg)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pool.Shutdown(ctx)
		_ = wq.Shutdown(ctx)
	})

	return env
}

// newGuestSession 创建一个访客会话并返回其领域对象
func (e *testEnv) newGuestSession(t *testing.T) *domain.Session {
	t.Helper()
	ctx := context.Background()

	token, err := e.sessionService.CreateGuest(ctx, "127.0.0.1")
	require.NoError(t, err)

	session, err := e.sessionRepo.GetByID(ctx, token.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	return session
}

// newTopic 建立笔记、章节、主题的完整层级并返回主题 ID
func (e *testEnv) newTopic(t *testing.T, sessionID string) int64 {
	t.Helper()
	ctx := context.Background()

	note, err := e.noteService.CreateNote(ctx, sessionID, "biology")
	require.NoError(t, err)

	chapter, err := e.noteService.CreateChapter(ctx, sessionID, &dto.ChapterCreateRequest{NoteID: note.ID, Title: "cells"})
	require.NoError(t, err)

	topic, err := e.noteService.CreateTopic(ctx, sessionID, &dto.TopicCreateRequest{ChapterID: chapter.ID, Name: "mitosis"})
	require.NoError(t, err)

	return topic.ID
}
