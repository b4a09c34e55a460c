package service

import (
	"context"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/metrics"
)

// Authorization 授权结果，携带已解析的会话和配额判定
type Authorization struct {
	Session *domain.Session
	Outcome *domain.QuotaOutcome
}

// Granted 是否放行
func (a *Authorization) Granted() bool {
	return a.Outcome != nil && a.Outcome.Allowed
}

// GateService defines the access gate, the sole entry point allowed to
// increment a quota counter
// GateService 定义访问闸门，唯一允许递增配额计数器的入口
type GateService interface {
	// Authorize resolves the session and performs the atomic quota
	// check-and-increment; a denial carries the counter state, not an error
	// Authorize 解析会话并执行原子配额 check-and-increment
	// 拒绝通过结果返回而不是错误，调用方据此提示转正而非重试
	Authorize(ctx context.Context, sessionID string, kind domain.ActionKind) (*Authorization, error)
}

// gateService implementation of GateService interface
// gateService 实现 GateService 接口
type gateService struct {
	sessionService SessionService
	quotaService   QuotaService
}

// NewGateService creates GateService instance
// NewGateService 创建 GateService 实例
func NewGateService(sessionSvc SessionService, quotaSvc QuotaService) GateService {
	return &gateService{
		sessionService: sessionSvc,
		quotaService:   quotaSvc,
	}
}

// Authorize resolves the session and performs the atomic quota check-and-increment
// Authorize 解析会话并执行原子配额 check-and-increment
func (s *gateService) Authorize(ctx context.Context, sessionID string, kind domain.ActionKind) (*Authorization, error) {
	session, err := s.sessionService.Resolve(ctx, sessionID)
	if err != nil {
		metrics.AuthorizeTotal.WithLabelValues(string(kind), "invalid_session").Inc()
		return nil, err
	}

	outcome, err := s.quotaService.CheckAndIncrement(ctx, session, kind)
	if err != nil {
		metrics.AuthorizeTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}

	if outcome.Allowed {
		metrics.AuthorizeTotal.WithLabelValues(string(kind), "granted").Inc()
	} else {
		metrics.AuthorizeTotal.WithLabelValues(string(kind), "denied").Inc()
	}

	return &Authorization{Session: session, Outcome: outcome}, nil
}

// Verify gateService implements GateService interface
// 确保 gateService 实现了 GateService 接口
var _ GateService = (*gateService)(nil)
