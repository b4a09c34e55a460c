package api_router

import (
	"github.com/studyforge/study-note-service/internal/app"
	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"
	apperrors "github.com/studyforge/study-note-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuotaHandler 配额 API 路由处理器
type QuotaHandler struct {
	*Handler
}

// NewQuotaHandler 创建 QuotaHandler 实例
func NewQuotaHandler(a *app.App) *QuotaHandler {
	return &QuotaHandler{Handler: NewHandler(a)}
}

// Peek reads the current counter state without consuming quota
// UI 据此展示剩余用量，读取不消耗配额
func (h *QuotaHandler) Peek(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.QuotaPeekRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("QuotaHandler.Peek.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	session, err := h.App.SessionService.Resolve(ctx, sessionID)
	if err != nil {
		h.logError(ctx, "QuotaHandler.Peek.Resolve", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	quota, err := h.App.QuotaService.Peek(ctx, session, domain.ActionKind(params.ActionKind))
	if err != nil {
		h.logError(ctx, "QuotaHandler.Peek", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(quota))
}
