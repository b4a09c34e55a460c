package model

import "github.com/studyforge/study-note-service/pkg/timex"

const TableNameQuotaCounter = "quota_counter"

// QuotaCounter mapped from table <quota_counter>
type QuotaCounter struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	SessionID   string     `gorm:"column:session_id;not null;uniqueIndex:idx_quota_session_kind,priority:1" json:"sessionId" form:"sessionId"`
	ActionKind  string     `gorm:"column:action_kind;not null;uniqueIndex:idx_quota_session_kind,priority:2" json:"actionKind" form:"actionKind"`
	Count       int64      `gorm:"column:count;not null;default:0" json:"count" form:"count"`
	WindowStart timex.Time `gorm:"column:window_start;type:datetime;default:NULL" json:"windowStart" form:"windowStart"`
	CreatedAt   timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt   timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName QuotaCounter's table name
func (*QuotaCounter) TableName() string {
	return TableNameQuotaCounter
}
