package domain

import "time"

// UsageHistoryEntry AI 调用审计记录
// 追加写，写入后从不删除或修改，与配额状态无关
type UsageHistoryEntry struct {
	ID             int64
	SessionID      string
	ToolType       ActionKind
	InputDigest    string
	OutputID       string
	TokensUsed     int64
	ResponseTimeMs int64
	Success        bool
	CreatedAt      time.Time
}
