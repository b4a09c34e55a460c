package service

import (
	"context"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"
	"github.com/studyforge/study-note-service/pkg/logger"
	"github.com/studyforge/study-note-service/pkg/timex"
	"github.com/studyforge/study-note-service/pkg/workerpool"

	"go.uber.org/zap"
)

// UsageService defines the usage history service interface
// The log is an audit trail: entries are written for every AI invocation
// regardless of outcome and are never mutated or deleted
// UsageService 定义使用记录服务接口
// 这是审计日志：每次 AI 调用无论成败都要写入，写入后不改不删
type UsageService interface {
	// Append records an invocation; writes go through the worker pool and
	// fall back to a synchronous write when the pool cannot take the task
	// Append 记录一次调用，经工作池异步落库，工作池不可用时同步写入兜底
	Append(ctx context.Context, entry *domain.UsageHistoryEntry)

	// List 分页获取会话的使用记录
	List(ctx context.Context, sessionID string, pager *app.Pager) ([]*dto.UsageDTO, int64, error)
}

// usageService implementation of UsageService interface
// usageService 实现 UsageService 接口
type usageService struct {
	usageRepo domain.UsageRepository
	pool      *workerpool.Pool
	logger    *zap.Logger
}

// NewUsageService creates UsageService instance
// NewUsageService 创建 UsageService 实例
func NewUsageService(usageRepo domain.UsageRepository, pool *workerpool.Pool, lg *zap.Logger) UsageService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &usageService{
		usageRepo: usageRepo,
		pool:      pool,
		logger:    lg,
	}
}

func (s *usageService) domainToDTO(e *domain.UsageHistoryEntry) *dto.UsageDTO {
	if e == nil {
		return nil
	}
	return &dto.UsageDTO{
		ID:             e.ID,
		ToolType:       string(e.ToolType),
		InputDigest:    e.InputDigest,
		OutputID:       e.OutputID,
		TokensUsed:     e.TokensUsed,
		ResponseTimeMs: e.ResponseTimeMs,
		Success:        e.Success,
		CreatedAt:      timex.Time(e.CreatedAt),
	}
}

// Append records an invocation
// Append 记录一次调用
func (s *usageService) Append(ctx context.Context, entry *domain.UsageHistoryEntry) {
	write := func(ctx context.Context) error {
		if _, err := s.usageRepo.Append(ctx, entry); err != nil {
			s.logger.Error("failed to append usage history",
				zap.String(logger.FieldSessionID, entry.SessionID),
				zap.String(logger.FieldAction, string(entry.ToolType)),
				zap.Error(err))
			return err
		}
		return nil
	}

	if s.pool != nil {
		// 请求上下文即将结束，异步写入使用独立上下文
		if err := s.pool.SubmitAsync(context.Background(), write); err == nil {
			return
		}
	}
	_ = write(ctx)
}

// List 分页获取会话的使用记录
func (s *usageService) List(ctx context.Context, sessionID string, pager *app.Pager) ([]*dto.UsageDTO, int64, error) {
	entries, count, err := s.usageRepo.ListBySession(ctx, sessionID, pager.Page, pager.PageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var results []*dto.UsageDTO
	for _, e := range entries {
		results = append(results, s.domainToDTO(e))
	}
	return results, count, nil
}

// Verify usageService implements UsageService interface
// 确保 usageService 实现了 UsageService 接口
var _ UsageService = (*usageService)(nil)
