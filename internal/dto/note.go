package dto

import (
	"github.com/studyforge/study-note-service/pkg/timex"
)

// NoteCreateRequest 创建笔记请求参数
type NoteCreateRequest struct {
	Title string `json:"title" form:"title" binding:"required,max=200"`
}

// NoteGetRequest 获取单条笔记请求参数
type NoteGetRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// NoteDeleteRequest 删除笔记请求参数
type NoteDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// NotePublishRequest 发布笔记请求参数
type NotePublishRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// NoteDTO 笔记响应
type NoteDTO struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

// ChapterCreateRequest 创建章节请求参数
type ChapterCreateRequest struct {
	NoteID int64  `json:"noteId" form:"noteId" binding:"required"`
	Title  string `json:"title" form:"title" binding:"required,max=200"`
}

// ChapterDeleteRequest 删除章节请求参数
type ChapterDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// ChapterDTO 章节响应
type ChapterDTO struct {
	ID        int64      `json:"id"`
	NoteID    int64      `json:"noteId"`
	Title     string     `json:"title"`
	Position  int64      `json:"position"`
	CreatedAt timex.Time `json:"createdAt"`
}

// TopicCreateRequest 创建主题请求参数
type TopicCreateRequest struct {
	ChapterID int64  `json:"chapterId" form:"chapterId" binding:"required"`
	Name      string `json:"name" form:"name" binding:"required,max=200"`
}

// TopicDeleteRequest 删除主题请求参数
type TopicDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"`
}

// TopicContentRequest 更新主题内容请求参数
type TopicContentRequest struct {
	TopicID        int64  `json:"topicId" form:"topicId" binding:"required"`
	Content        string `json:"content" form:"content" binding:"required"`
	ChangesSummary string `json:"changesSummary" form:"changesSummary"`
}

// TopicDTO 主题响应
type TopicDTO struct {
	ID             int64      `json:"id"`
	ChapterID      int64      `json:"chapterId"`
	NoteID         int64      `json:"noteId"`
	Name           string     `json:"name"`
	Position       int64      `json:"position"`
	CurrentVersion int64      `json:"currentVersion"`
	CreatedAt      timex.Time `json:"createdAt"`
}
