// Package domain 定义领域模型和接口
package domain

import "time"

// SessionState session lifecycle state
// SessionState 会话生命周期状态
type SessionState string

const (
	// SessionStateGuest anonymous TTL-bounded session
	// SessionStateGuest 匿名会话，有 TTL 限制
	SessionStateGuest SessionState = "guest"
	// SessionStateConverting registration or login in flight
	// SessionStateConverting 注册/登录进行中
	SessionStateConverting SessionState = "converting"
	// SessionStateAuthenticated bound to an account, one-way
	// SessionStateAuthenticated 已绑定账户，不可逆
	SessionStateAuthenticated SessionState = "authenticated"
	// SessionStateExpired terminal state
	// SessionStateExpired 终态
	SessionStateExpired SessionState = "expired"
)

// Session 会话领域模型
// 会话状态只能通过定义好的转换修改
type Session struct {
	ID                     string
	State                  SessionState
	UserUID                int64
	ConvertedFromSessionID string
	CreatedAt              time.Time
	// ExpiresAt 仅 Guest 会话有效
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// IsGuest 是否为访客会话
func (s *Session) IsGuest() bool {
	return s.State == SessionStateGuest || s.State == SessionStateConverting
}

// IsUsable 会话是否可以继续执行操作
func (s *Session) IsUsable(now time.Time) bool {
	if s.State == SessionStateExpired {
		return false
	}
	if s.IsGuest() && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) {
		return false
	}
	return true
}

// User 账户领域模型，转正时创建
type User struct {
	UID       int64
	Username  string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
