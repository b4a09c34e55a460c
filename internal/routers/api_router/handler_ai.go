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

// AiHandler AI 工具 API 路由处理器
type AiHandler struct {
	*Handler
}

// NewAiHandler 创建 AiHandler 实例
func NewAiHandler(a *app.App) *AiHandler {
	return &AiHandler{Handler: NewHandler(a)}
}

// Invoke runs an AI tool for the current session
// Quota is consumed before the backend call and never refunded,
// a failed invocation still burns its slot and is still logged
// Invoke 为当前会话执行一次 AI 工具调用
// 配额在调用后端前消耗且不退还，调用失败同样扣额并记录
func (h *AiHandler) Invoke(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AiInvokeRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("AiHandler.Invoke.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.AiService.Invoke(ctx, sessionID, params)
	if err != nil {
		h.logError(ctx, "AiHandler.Invoke", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}
