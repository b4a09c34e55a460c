package dto

import (
	"github.com/studyforge/study-note-service/pkg/timex"
)

// VersionListRequest 获取主题版本列表请求参数
type VersionListRequest struct {
	TopicID int64 `json:"topicId" form:"topicId" binding:"required"`
}

// VersionRestoreRequest 恢复历史版本请求参数
type VersionRestoreRequest struct {
	TopicID   int64 `json:"topicId" form:"topicId" binding:"required"`
	VersionID int64 `json:"versionId" form:"versionId" binding:"required"`
}

// VersionDTO 版本快照响应
type VersionDTO struct {
	ID             int64      `json:"id"`
	TargetID       int64      `json:"targetId"`
	VersionNumber  int64      `json:"versionNumber"`
	Content        string     `json:"content"`
	ChangesSummary string     `json:"changesSummary"`
	CreatedBy      string     `json:"createdBy"`
	SavedAt        timex.Time `json:"savedAt"`
}

// VersionNoContentDTO 不含内容的版本响应，用于列表展示
type VersionNoContentDTO struct {
	ID             int64      `json:"id"`
	TargetID       int64      `json:"targetId"`
	VersionNumber  int64      `json:"versionNumber"`
	ChangesSummary string     `json:"changesSummary"`
	CreatedBy      string     `json:"createdBy"`
	SavedAt        timex.Time `json:"savedAt"`
}
