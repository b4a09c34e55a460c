package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// 版本读取与恢复只对主题归属会话开放
func TestVersionAccessScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.newGuestSession(t)
	topicID := env.newTopic(t, owner.ID)

	v1, err := env.versionService.Save(ctx, topicID, "owner draft", "", owner.ID)
	require.NoError(t, err)

	intruder := env.newGuestSession(t)

	// 非归属会话看不到版本列表和正文
	_, err = env.noteService.ListTopicVersions(ctx, intruder.ID, topicID)
	require.Error(t, err)

	_, err = env.noteService.GetTopicVersion(ctx, intruder.ID, topicID, v1.ID)
	require.Error(t, err)

	// 也不能借恢复在别人的主题上追加版本
	_, err = env.noteService.RestoreTopicVersion(ctx, intruder.ID, topicID, v1.ID)
	require.Error(t, err)

	list, err := env.noteService.ListTopicVersions(ctx, owner.ID, topicID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// 归属会话正常恢复
	restored, err := env.noteService.RestoreTopicVersion(ctx, owner.ID, topicID, v1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), restored.VersionNumber)
}
