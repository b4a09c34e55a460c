package api_router

import (
	"github.com/studyforge/study-note-service/internal/app"
	"github.com/studyforge/study-note-service/internal/dto"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"
	apperrors "github.com/studyforge/study-note-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler 会话 API 路由处理器
// 覆盖访客会话创建、会话详情和访客转正
type SessionHandler struct {
	*Handler
}

// NewSessionHandler 创建 SessionHandler 实例
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{Handler: NewHandler(a)}
}

// CreateGuest creates an anonymous guest session and returns its token
// No credentials required, the token itself is the session handle
// CreateGuest 创建匿名访客会话并返回令牌
// 无需任何凭据，令牌即会话句柄
func (h *SessionHandler) CreateGuest(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	token, err := h.App.SessionService.CreateGuest(ctx, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "SessionHandler.CreateGuest", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(token))
}

// Info 获取当前会话详情
func (h *SessionHandler) Info(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	session, err := h.App.SessionService.Get(ctx, sessionID)
	if err != nil {
		h.logError(ctx, "SessionHandler.Info", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(session))
}

// Convert performs the one-way guest to account conversion
// All guest content and usage history carry over, quota counters reset
// Convert 执行单向的访客转正
// 访客内容与使用记录全部保留，配额计数器重置
func (h *SessionHandler) Convert(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SessionConvertRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("SessionHandler.Convert.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	token, err := h.App.SessionService.Convert(ctx, sessionID, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "SessionHandler.Convert", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(token))
}
