package model

import "github.com/studyforge/study-note-service/pkg/timex"

const TableNameUsageHistory = "usage_history"

// UsageHistory mapped from table <usage_history>
// 只增不删的审计表
type UsageHistory struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	SessionID      string     `gorm:"column:session_id;not null;index:idx_usage_session" json:"sessionId" form:"sessionId"`
	ToolType       string     `gorm:"column:tool_type;not null" json:"toolType" form:"toolType"`
	InputDigest    string     `gorm:"column:input_digest" json:"inputDigest" form:"inputDigest"`
	OutputID       string     `gorm:"column:output_id" json:"outputId" form:"outputId"`
	TokensUsed     int64      `gorm:"column:tokens_used;default:0" json:"tokensUsed" form:"tokensUsed"`
	ResponseTimeMs int64      `gorm:"column:response_time_ms;default:0" json:"responseTimeMs" form:"responseTimeMs"`
	Success        bool       `gorm:"column:success;default:false" json:"success" form:"success"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime" json:"createdAt" form:"createdAt"`
}

// TableName UsageHistory's table name
func (*UsageHistory) TableName() string {
	return TableNameUsageHistory
}
