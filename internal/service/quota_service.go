package service

import (
	"context"
	"time"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/pkg/code"
	"github.com/studyforge/study-note-service/pkg/logger"
	"github.com/studyforge/study-note-service/pkg/writequeue"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// dailyWindow 日配额滚动窗口长度
const dailyWindow = 24 * time.Hour

// QuotaService defines the quota ledger service interface
// QuotaService 定义配额账本服务接口
type QuotaService interface {
	// CheckAndIncrement atomically checks the counter against its policy and
	// increments it when allowed; denial never mutates state
	// CheckAndIncrement 原子地对照策略检查并递增计数器，拒绝时不改动任何状态
	CheckAndIncrement(ctx context.Context, session *domain.Session, kind domain.ActionKind) (*domain.QuotaOutcome, error)

	// Peek reads the current count and limit without mutating
	// Peek 只读获取当前计数和限额
	Peek(ctx context.Context, session *domain.Session, kind domain.ActionKind) (*dto.QuotaDTO, error)
}

// quotaService implementation of QuotaService interface
// quotaService 实现 QuotaService 接口
type quotaService struct {
	quotaRepo domain.QuotaRepository
	policies  PolicyProvider
	wq        *writequeue.Manager
	sf        *singleflight.Group
	logger    *zap.Logger
}

// NewQuotaService creates QuotaService instance
// NewQuotaService 创建 QuotaService 实例
func NewQuotaService(quotaRepo domain.QuotaRepository, policies PolicyProvider, wq *writequeue.Manager, lg *zap.Logger) QuotaService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &quotaService{
		quotaRepo: quotaRepo,
		policies:  policies,
		wq:        wq,
		sf:        &singleflight.Group{},
		logger:    lg,
	}
}

// counterKey 计数器的串行化键，按 (sessionId, actionKind) 粒度
func counterKey(sessionID string, kind domain.ActionKind) string {
	return "quota_" + sessionID + "_" + string(kind)
}

// CheckAndIncrement atomically checks the counter against its policy and
// increments it when allowed
// The read-check-write sequence runs on the keyed write queue, so two
// concurrent requests for the same counter can never both observe count < limit
// CheckAndIncrement 原子地对照策略检查并递增计数器
// 读-查-写序列在键队列上执行，同一计数器的并发请求不可能都观察到 count < limit
func (s *quotaService) CheckAndIncrement(ctx context.Context, session *domain.Session, kind domain.ActionKind) (*domain.QuotaOutcome, error) {
	if !domain.IsValidActionKind(kind) {
		return nil, code.ErrorUnknownActionKind
	}

	policy := s.policies.PolicyFor(session.IsGuest(), kind)

	var outcome *domain.QuotaOutcome
	err := s.wq.Execute(ctx, counterKey(session.ID, kind), func() error {
		counter, err := s.quotaRepo.Get(ctx, session.ID, kind)
		if err != nil {
			return err
		}

		now := time.Now()
		if counter == nil {
			counter = &domain.QuotaCounter{
				SessionID:   session.ID,
				ActionKind:  kind,
				WindowStart: now,
			}
		}

		// 日窗口滚动：窗口开始时间超过 24 小时则计数归零
		if policy.Window == domain.QuotaWindowDaily && now.Sub(counter.WindowStart) >= dailyWindow {
			counter.Count = 0
			counter.WindowStart = now
		}

		if counter.Count >= policy.Limit {
			outcome = &domain.QuotaOutcome{
				Allowed: false,
				Count:   counter.Count,
				Limit:   policy.Limit,
			}
			return nil
		}

		counter.Count++
		if _, err := s.quotaRepo.Save(ctx, counter); err != nil {
			return err
		}

		outcome = &domain.QuotaOutcome{
			Allowed: true,
			Count:   counter.Count,
			Limit:   policy.Limit,
		}
		return nil
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if !outcome.Allowed {
		s.logger.Info("quota denied",
			zap.String(logger.FieldSessionID, session.ID),
			zap.String(logger.FieldQuotaKind, string(kind)),
			zap.Int64(logger.FieldCount, outcome.Count),
			zap.Int64("limit", outcome.Limit))
	}

	return outcome, nil
}

// Peek reads the current count and limit without mutating
// Concurrent identical peeks are collapsed via singleflight
// Peek 只读获取当前计数和限额
// 相同会话的并发查询通过 singleflight 合并
func (s *quotaService) Peek(ctx context.Context, session *domain.Session, kind domain.ActionKind) (*dto.QuotaDTO, error) {
	if !domain.IsValidActionKind(kind) {
		return nil, code.ErrorUnknownActionKind
	}

	policy := s.policies.PolicyFor(session.IsGuest(), kind)

	v, err, _ := s.sf.Do(counterKey(session.ID, kind), func() (interface{}, error) {
		counter, err := s.quotaRepo.Get(ctx, session.ID, kind)
		if err != nil {
			return nil, err
		}

		var count int64
		if counter != nil {
			count = counter.Count
			// 展示值同样遵守窗口滚动，但不落库
			if policy.Window == domain.QuotaWindowDaily && time.Since(counter.WindowStart) >= dailyWindow {
				count = 0
			}
		}
		return count, nil
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	return &dto.QuotaDTO{
		ActionKind: string(kind),
		Count:      v.(int64),
		Limit:      policy.Limit,
		Window:     string(policy.Window),
	}, nil
}

// Verify quotaService implements QuotaService interface
// 确保 quotaService 实现了 QuotaService 接口
var _ QuotaService = (*quotaService)(nil)
