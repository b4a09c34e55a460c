package dto

import (
	"github.com/studyforge/study-note-service/pkg/timex"
)

// UsageListRequest 使用记录列表请求参数
type UsageListRequest struct{}

// UsageDTO AI 工具调用记录响应
type UsageDTO struct {
	ID             int64      `json:"id"`
	ToolType       string     `json:"toolType"`
	InputDigest    string     `json:"inputDigest"`
	OutputID       string     `json:"outputId,omitempty"`
	TokensUsed     int64      `json:"tokensUsed"`
	ResponseTimeMs int64      `json:"responseTimeMs"`
	Success        bool       `json:"success"`
	CreatedAt      timex.Time `json:"createdAt"`
}
