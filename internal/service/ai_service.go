package service

import (
	"context"
	"strconv"

	"github.com/studyforge/study-note-service/internal/aibackend"
	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/internal/metrics"
	"github.com/studyforge/study-note-service/pkg/code"
	"github.com/studyforge/study-note-service/pkg/logger"
	"github.com/studyforge/study-note-service/pkg/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AiService defines the AI tool invocation service interface
// AiService 定义 AI 工具调用服务接口
type AiService interface {
	// Invoke authorizes the session, calls the backend and always logs usage
	// A consumed quota slot is never refunded, even when the backend fails
	// Invoke 先过闸门，再调后端，无论成败都记录使用
	// 已消耗的配额不退还，后端失败也一样
	Invoke(ctx context.Context, sessionID string, params *dto.AiInvokeRequest) (*dto.AiResultDTO, error)
}

// aiService implementation of AiService interface
// aiService 实现 AiService 接口
type aiService struct {
	gate    GateService
	usage   UsageService
	backend aibackend.Backend
	logger  *zap.Logger
}

// NewAiService creates AiService instance
// NewAiService 创建 AiService 实例
func NewAiService(gate GateService, usage UsageService, backend aibackend.Backend, lg *zap.Logger) AiService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &aiService{
		gate:    gate,
		usage:   usage,
		backend: backend,
		logger:  lg,
	}
}

// aiActionKind 将请求的工具类型映射为 AI 操作类型
// CreateNote 不是 AI 工具，不允许从这里进入
func aiActionKind(toolType string) (domain.ActionKind, bool) {
	kind := domain.ActionKind(toolType)
	switch kind {
	case domain.ActionAiGenerate, domain.ActionAiImprove, domain.ActionAiSummarize, domain.ActionAiCode:
		return kind, true
	}
	return "", false
}

// Invoke authorizes the session, calls the backend and always logs usage
// Invoke 先过闸门，再调后端，无论成败都记录使用
func (s *aiService) Invoke(ctx context.Context, sessionID string, params *dto.AiInvokeRequest) (*dto.AiResultDTO, error) {
	kind, ok := aiActionKind(params.ToolType)
	if !ok {
		return nil, code.ErrorUnknownActionKind
	}

	authz, err := s.gate.Authorize(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}
	if !authz.Granted() {
		return nil, code.ErrorQuotaExceeded.WithDetails(
			"count " + strconv.FormatInt(authz.Outcome.Count, 10) +
				" of " + strconv.FormatInt(authz.Outcome.Limit, 10))
	}

	entry := &domain.UsageHistoryEntry{
		SessionID:   sessionID,
		ToolType:    kind,
		InputDigest: util.EncodeMD5(params.Input),
	}

	result, err := s.backend.Invoke(ctx, params.ToolType, params.Input)
	if err != nil {
		// 配额槽位已消耗，失败同样入账
		entry.Success = false
		s.usage.Append(ctx, entry)
		metrics.AiInvokeTotal.WithLabelValues(params.ToolType, "false").Inc()

		s.logger.Warn("ai backend invocation failed",
			zap.String(logger.FieldSessionID, sessionID),
			zap.String(logger.FieldAction, params.ToolType),
			zap.Error(err))
		return nil, code.ErrorAiInvokeFailed.WithDetails(err.Error())
	}

	entry.Success = true
	entry.OutputID = uuid.NewString()
	entry.TokensUsed = result.TokensUsed
	entry.ResponseTimeMs = result.ResponseTimeMs
	s.usage.Append(ctx, entry)
	metrics.AiInvokeTotal.WithLabelValues(params.ToolType, "true").Inc()

	return &dto.AiResultDTO{
		OutputID:       entry.OutputID,
		Content:        result.Content,
		TokensUsed:     result.TokensUsed,
		ResponseTimeMs: result.ResponseTimeMs,
		Success:        true,
	}, nil
}

// Verify aiService implements AiService interface
// 确保 aiService 实现了 AiService 接口
var _ AiService = (*aiService)(nil)
