package domain

import "time"

// NoteStatus 笔记状态
type NoteStatus string

const (
	NoteStatusDraft     NoteStatus = "draft"
	NoteStatusPublished NoteStatus = "published"
)

// Note 笔记领域模型，层级树的根
type Note struct {
	ID             int64
	OwnerSessionID string
	Title          string
	Status         NoteStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Chapter 章节领域模型
type Chapter struct {
	ID        int64
	NoteID    int64
	Title     string
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Topic 主题领域模型
// 主题的"当前内容"始终等于其现存最高版本号版本的内容
type Topic struct {
	ID        int64
	ChapterID int64
	// NoteID 冗余存储，便于按笔记级联
	NoteID         int64
	Name           string
	Position       int64
	CurrentVersion int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
