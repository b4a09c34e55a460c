package model

import "github.com/studyforge/study-note-service/pkg/timex"

const TableNameNote = "note"

// Note mapped from table <note>
type Note struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	OwnerSessionID string     `gorm:"column:owner_session_id;not null;index:idx_note_owner" json:"ownerSessionId" form:"ownerSessionId"`
	Title          string     `gorm:"column:title;not null" json:"title" form:"title"`
	Status         string     `gorm:"column:status;not null;default:draft" json:"status" form:"status"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}

const TableNameChapter = "chapter"

// Chapter mapped from table <chapter>
type Chapter struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	NoteID    int64      `gorm:"column:note_id;not null;index:idx_chapter_note" json:"noteId" form:"noteId"`
	Title     string     `gorm:"column:title;not null" json:"title" form:"title"`
	Position  int64      `gorm:"column:position;not null;default:0" json:"position" form:"position"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName Chapter's table name
func (*Chapter) TableName() string {
	return TableNameChapter
}

const TableNameTopic = "topic"

// Topic mapped from table <topic>
type Topic struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	ChapterID      int64      `gorm:"column:chapter_id;not null;index:idx_topic_chapter" json:"chapterId" form:"chapterId"`
	NoteID         int64      `gorm:"column:note_id;not null;index:idx_topic_note" json:"noteId" form:"noteId"`
	Name           string     `gorm:"column:name;not null" json:"name" form:"name"`
	Position       int64      `gorm:"column:position;not null;default:0" json:"position" form:"position"`
	CurrentVersion int64      `gorm:"column:current_version;not null;default:0" json:"currentVersion" form:"currentVersion"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName Topic's table name
func (*Topic) TableName() string {
	return TableNameTopic
}
