package api_router

import (
	"github.com/studyforge/study-note-service/internal/app"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"
	apperrors "github.com/studyforge/study-note-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UsageHandler 使用记录 API 路由处理器
type UsageHandler struct {
	*Handler
}

// NewUsageHandler 创建 UsageHandler 实例
func NewUsageHandler(a *app.App) *UsageHandler {
	return &UsageHandler{Handler: NewHandler(a)}
}

// List 分页获取当前会话的 AI 工具调用记录，按时间倒序
func (h *UsageHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	pager := &pkgapp.Pager{Page: pkgapp.GetPage(c), PageSize: pkgapp.GetPageSize(c)}

	list, count, err := h.App.UsageService.List(ctx, sessionID, pager)
	if err != nil {
		h.logError(ctx, "UsageHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, int(count))
}
