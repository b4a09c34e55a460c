package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// 保留策略：持续写入时只留最近 K 个版本，版本号不回收
func TestSaveRetentionKeepsLatestK(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicID := env.newTopic(t, session.ID)

	// 写入 11 个版本，K=10
	for i := 1; i <= 11; i++ {
		v, err := env.versionService.Save(ctx, topicID, fmt.Sprintf("content %d", i), "", session.ID)
		require.NoError(t, err)
		require.Equal(t, int64(i), v.VersionNumber)
	}

	list, err := env.versionService.List(ctx, topicID)
	require.NoError(t, err)
	require.Len(t, list, 10)

	// 最旧的 v1 被裁剪，现存 {2..11}，降序排列
	require.Equal(t, int64(11), list[0].VersionNumber)
	require.Equal(t, int64(2), list[len(list)-1].VersionNumber)
}

// 空摘要自动从内容差异推导
func TestSaveDerivesChangesSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicID := env.newTopic(t, session.ID)

	v1, err := env.versionService.Save(ctx, topicID, "hello world", "", session.ID)
	require.NoError(t, err)
	require.NotEmpty(t, v1.ChangesSummary)

	v2, err := env.versionService.Save(ctx, topicID, "hello brave new world", "manual note", session.ID)
	require.NoError(t, err)
	require.Equal(t, "manual note", v2.ChangesSummary)
}

// 恢复追加一个内容与旧版本一致的新版本，不回退历史
func TestRestoreAppendsNewVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicID := env.newTopic(t, session.ID)

	var v5ID int64
	for i := 1; i <= 11; i++ {
		v, err := env.versionService.Save(ctx, topicID, fmt.Sprintf("content %d", i), "", session.ID)
		require.NoError(t, err)
		if v.VersionNumber == 5 {
			v5ID = v.ID
		}
	}

	// 现存 {2..11}，v5 仍在窗口内
	restored, err := env.versionService.Restore(ctx, topicID, v5ID, session.ID)
	require.NoError(t, err)
	require.Equal(t, int64(12), restored.VersionNumber)
	require.Equal(t, "content 5", restored.Content)
	require.Contains(t, restored.ChangesSummary, "restored from version 5")

	// v11 未被回退，仍在历史中
	list, err := env.versionService.List(ctx, topicID)
	require.NoError(t, err)
	require.Len(t, list, 10)
	require.Equal(t, int64(12), list[0].VersionNumber)
	require.Equal(t, int64(11), list[1].VersionNumber)
}

// 被保留策略裁剪掉的版本不能恢复
func TestRestorePrunedVersionFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicID := env.newTopic(t, session.ID)

	v1, err := env.versionService.Save(ctx, topicID, "first", "", session.ID)
	require.NoError(t, err)

	for i := 2; i <= 11; i++ {
		_, err := env.versionService.Save(ctx, topicID, fmt.Sprintf("content %d", i), "", session.ID)
		require.NoError(t, err)
	}

	// v1 已被裁剪
	_, err = env.versionService.Restore(ctx, topicID, v1.ID, session.ID)
	require.Error(t, err)
}

// 不同主题的版本序列互不干扰
func TestSaveIsolatedPerTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicA := env.newTopic(t, session.ID)
	topicB := env.newTopic(t, session.ID)

	vA, err := env.versionService.Save(ctx, topicA, "alpha", "", session.ID)
	require.NoError(t, err)
	vB, err := env.versionService.Save(ctx, topicB, "beta", "", session.ID)
	require.NoError(t, err)

	require.Equal(t, int64(1), vA.VersionNumber)
	require.Equal(t, int64(1), vB.VersionNumber)
}

// 级联删除后的主题不能再写版本
func TestSaveRejectedAfterCascadeDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	note, err := env.noteService.CreateNote(ctx, session.ID, "biology")
	require.NoError(t, err)
	chapter, err := env.noteService.CreateChapter(ctx, session.ID, &dto.ChapterCreateRequest{NoteID: note.ID, Title: "cells"})
	require.NoError(t, err)
	topic, err := env.noteService.CreateTopic(ctx, session.ID, &dto.TopicCreateRequest{ChapterID: chapter.ID, Name: "mitosis"})
	require.NoError(t, err)

	_, err = env.versionService.Save(ctx, topic.ID, "first", "", session.ID)
	require.NoError(t, err)

	require.NoError(t, env.noteService.DeleteChapter(ctx, session.ID, chapter.ID))

	// 级联已删掉主题，迟到的写入被拒，不留孤儿版本
	_, err = env.versionService.Save(ctx, topic.ID, "orphan", "", session.ID)
	require.Error(t, err)

	versions, err := env.versionRepo.ListByTarget(ctx, topic.ID)
	require.NoError(t, err)
	require.Empty(t, versions)
}

// retentionFailRepo 裁剪统计失败
type retentionFailRepo struct {
	domain.VersionRepository
}

func (r *retentionFailRepo) CountByTarget(ctx context.Context, targetID int64) (int64, error) {
	return 0, errors.New("count unavailable")
}

// 保留策略执行失败必须上报，不允许静默超出上限
func TestSaveSurfacesRetentionFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicID := env.newTopic(t, session.ID)

	svc := NewVersionService(&retentionFailRepo{env.versionRepo}, env.topicRepo, env.wq, &AppServiceConfig{HistoryKeepVersions: 10}, nil)

	_, err := svc.Save(ctx, topicID, "content", "", session.ID)
	require.Error(t, err)
}

// flakyCreateRepo 前 failures 次写入返回既定错误
type flakyCreateRepo struct {
	domain.VersionRepository
	failures int
	calls    int
	err      error
}

func (r *flakyCreateRepo) Create(ctx context.Context, v *domain.Version) (*domain.Version, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, r.err
	}
	return r.VersionRepository.Create(ctx, v)
}

// 非唯一索引冲突的写入失败不重放，也不报并发冲突
func TestSaveDoesNotRetryNonConflictError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicID := env.newTopic(t, session.ID)

	repo := &flakyCreateRepo{VersionRepository: env.versionRepo, failures: 1, err: errors.New("disk I/O error")}
	svc := NewVersionService(repo, env.topicRepo, env.wq, &AppServiceConfig{HistoryKeepVersions: 10}, nil)

	_, err := svc.Save(ctx, topicID, "content", "", session.ID)
	require.Error(t, err)
	require.Equal(t, 1, repo.calls)

	appErr, ok := err.(*code.Code)
	require.True(t, ok)
	require.NotEqual(t, code.ErrorConcurrentModification.Code(), appErr.Code())
}

// 唯一索引冲突重放一次后成功
func TestSaveRetriesConflictOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.newGuestSession(t)
	topicID := env.newTopic(t, session.ID)

	repo := &flakyCreateRepo{
		VersionRepository: env.versionRepo,
		failures:          1,
		err:               errors.New("UNIQUE constraint failed: version.target_id, version.version_number"),
	}
	svc := NewVersionService(repo, env.topicRepo, env.wq, &AppServiceConfig{HistoryKeepVersions: 10}, nil)

	v, err := svc.Save(ctx, topicID, "content", "", session.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), v.VersionNumber)
	require.Equal(t, 2, repo.calls)
}

// 版本号严格单调递增，且现存版本数不超过 K
func TestPropertyVersionNumbersMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 15

	properties := gopter.NewProperties(parameters)

	properties.Property("version numbers increase and history is bounded", prop.ForAll(
		func(saves int) bool {
			env := newTestEnv(t)
			ctx := context.Background()

			session := env.newGuestSession(t)
			topicID := env.newTopic(t, session.ID)

			var last int64
			for i := 0; i < saves; i++ {
				v, err := env.versionService.Save(ctx, topicID, fmt.Sprintf("c%d", i), "", session.ID)
				if err != nil {
					t.Logf("Save failed: %v", err)
					return false
				}
				if v.VersionNumber != last+1 {
					t.Logf("version number %d after %d", v.VersionNumber, last)
					return false
				}
				last = v.VersionNumber
			}

			list, err := env.versionService.List(ctx, topicID)
			if err != nil {
				t.Logf("List failed: %v", err)
				return false
			}
			if len(list) > 10 {
				t.Logf("history length %d exceeds K", len(list))
				return false
			}
			return true
		},
		gen.IntRange(1, 15),
	))

	properties.TestingRun(t)
}
