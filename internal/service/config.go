// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"time"

	"github.com/studyforge/study-note-service/internal/domain"
)

// PolicyProvider resolves the quota policy for a (session kind, action kind) pair
// PolicyProvider 解析 (会话类型, 操作类型) 对应的配额策略
type PolicyProvider interface {
	PolicyFor(isGuest bool, kind domain.ActionKind) domain.QuotaPolicy
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	// HistoryKeepVersions 每个主题保留的历史版本数 // History versions to keep per topic
	HistoryKeepVersions int
	// GuestSessionTTL 访客会话生存时间 // Guest session time to live
	GuestSessionTTL time.Duration
}
