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

// VersionHandler 版本历史 API 路由处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{Handler: NewHandler(a)}
}

// List 获取主题的现存版本列表，按版本号降序，不含正文
func (h *VersionHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionListRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.List.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	list, err := h.App.NoteService.ListTopicVersions(ctx, sessionID, params.TopicID)
	if err != nil {
		h.logError(ctx, "VersionHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Get 获取主题的指定版本，含正文
func (h *VersionHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionRestoreRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Get.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	version, err := h.App.NoteService.GetTopicVersion(ctx, sessionID, params.TopicID, params.VersionID)
	if err != nil {
		h.logError(ctx, "VersionHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(version))
}

// Restore appends a new version whose content matches an older one
// History is never rewound, the restore itself becomes the newest version
// Restore 追加一个内容与历史版本一致的新版本
// 历史从不回退，恢复操作本身成为最新版本
func (h *VersionHandler) Restore(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.VersionRestoreRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("VersionHandler.Restore.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	version, err := h.App.NoteService.RestoreTopicVersion(ctx, sessionID, params.TopicID, params.VersionID)
	if err != nil {
		h.logError(ctx, "VersionHandler.Restore", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(version))
}
