// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/studyforge/study-note-service/pkg/timex"
)

// SessionConvertRequest 访客转正请求参数
type SessionConvertRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=64"`
}

// SessionTokenDTO 会话凭证响应
type SessionTokenDTO struct {
	SessionID string     `json:"sessionId"`
	Kind      string     `json:"kind"`
	Token     string     `json:"token"`
	ExpiresAt timex.Time `json:"expiresAt"`
}

// SessionDTO 会话详情响应
type SessionDTO struct {
	ID                     string     `json:"id"`
	State                  string     `json:"state"`
	ConvertedFromSessionID string     `json:"convertedFromSessionId,omitempty"`
	CreatedAt              timex.Time `json:"createdAt"`
	ExpiresAt              timex.Time `json:"expiresAt,omitempty"`
}
