package domain

import "time"

// ActionKind 配额受限的操作类型
type ActionKind string

const (
	ActionCreateNote  ActionKind = "CreateNote"
	ActionAiGenerate  ActionKind = "AiGenerate"
	ActionAiImprove   ActionKind = "AiImprove"
	ActionAiSummarize ActionKind = "AiSummarize"
	ActionAiCode      ActionKind = "AiCode"
)

// AllActionKinds 全部操作类型
var AllActionKinds = []ActionKind{
	ActionCreateNote,
	ActionAiGenerate,
	ActionAiImprove,
	ActionAiSummarize,
	ActionAiCode,
}

// IsValidActionKind 校验操作类型
func IsValidActionKind(kind ActionKind) bool {
	for _, k := range AllActionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// QuotaWindow 配额窗口类型
type QuotaWindow string

const (
	// QuotaWindowLifetime 终身窗口，计数永不重置
	QuotaWindowLifetime QuotaWindow = "lifetime"
	// QuotaWindowDaily 24 小时滚动窗口
	QuotaWindowDaily QuotaWindow = "daily"
)

// QuotaPolicy quota limit for a (sessionKind, actionKind) pair
// Immutable configuration, not session state
// QuotaPolicy (会话类型, 操作类型) 的配额限制
// 不可变配置，不是会话状态
type QuotaPolicy struct {
	Limit  int64
	Window QuotaWindow
}

// QuotaCounter 配额计数器，按 (sessionId, actionKind) 唯一
// 只允许通过原子 check-and-increment 修改
type QuotaCounter struct {
	ID          int64
	SessionID   string
	ActionKind  ActionKind
	Count       int64
	WindowStart time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuotaOutcome check-and-increment 的结果
type QuotaOutcome struct {
	Allowed bool
	// Count Allowed 时为递增后的新计数，Denied 时为当前计数
	Count int64
	Limit int64
}
