package api_router

import (
	"fmt"

	"github.com/studyforge/study-note-service/internal/app"
	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"
	apperrors "github.com/studyforge/study-note-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记 API 路由处理器
// 覆盖笔记、章节和主题的层级管理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// Create creates a draft note
// Note creation is quota gated, the gate performs the atomic
// check-and-increment before any row is written
// Create 创建草稿笔记
// 建笔记受配额约束，闸门先做原子 check-and-increment 再落库
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	auth, err := h.App.GateService.Authorize(ctx, sessionID, domain.ActionCreateNote)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create.Authorize", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if !auth.Granted() {
		response.ToResponse(code.ErrorQuotaExceeded.WithDetails(
			fmt.Sprintf("count %d of %d", auth.Outcome.Count, auth.Outcome.Limit)))
		return
	}

	note, err := h.App.NoteService.CreateNote(ctx, sessionID, params.Title)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Get 获取单条笔记
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Get.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	note, err := h.App.NoteService.GetNote(ctx, sessionID, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// List 分页获取笔记列表
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	pager := &pkgapp.Pager{Page: pkgapp.GetPage(c), PageSize: pkgapp.GetPageSize(c)}

	list, count, err := h.App.NoteService.ListNotes(ctx, sessionID, pager)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, list, int(count))
}

// Publish 发布笔记，Draft 到 Published 的单向迁移
func (h *NoteHandler) Publish(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NotePublishRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Publish.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.NoteService.PublishNote(ctx, sessionID, params.ID); err != nil {
		h.logError(ctx, "NoteHandler.Publish", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Delete removes a note with its chapters, topics and versions
// Deleting content does not refund any quota
// Delete 删除笔记及其章节、主题和全部版本
// 删除内容不返还配额
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Delete.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.NoteService.DeleteNote(ctx, sessionID, params.ID); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// CreateChapter 在笔记下追加章节
func (h *NoteHandler) CreateChapter(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChapterCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.CreateChapter.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	chapter, err := h.App.NoteService.CreateChapter(ctx, sessionID, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.CreateChapter", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(chapter))
}

// ListChapters 获取笔记下的章节列表
func (h *NoteHandler) ListChapters(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.ListChapters.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	chapters, err := h.App.NoteService.ListChapters(ctx, sessionID, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHandler.ListChapters", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(chapters))
}

// DeleteChapter 删除章节及其主题和版本
func (h *NoteHandler) DeleteChapter(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChapterDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.DeleteChapter.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.NoteService.DeleteChapter(ctx, sessionID, params.ID); err != nil {
		h.logError(ctx, "NoteHandler.DeleteChapter", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// CreateTopic 在章节下追加主题
func (h *NoteHandler) CreateTopic(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.TopicCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.CreateTopic.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	topic, err := h.App.NoteService.CreateTopic(ctx, sessionID, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.CreateTopic", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(topic))
}

// ListTopics 获取章节下的主题列表
func (h *NoteHandler) ListTopics(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ChapterDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.ListTopics.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	topics, err := h.App.NoteService.ListTopics(ctx, sessionID, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHandler.ListTopics", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(topics))
}

// DeleteTopic 删除主题及其全部版本
func (h *NoteHandler) DeleteTopic(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.TopicDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.DeleteTopic.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.NoteService.DeleteTopic(ctx, sessionID, params.ID); err != nil {
		h.logError(ctx, "NoteHandler.DeleteTopic", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// UpdateContent writes topic content through the version store
// Every save produces a new immutable version
// UpdateContent 通过版本存储写入主题内容
// 每次保存都会产生一个新的不可变版本
func (h *NoteHandler) UpdateContent(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.TopicContentRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.UpdateContent.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	sessionID := pkgapp.GetSessionID(c)
	if sessionID == "" {
		response.ToResponse(code.ErrorInvalidSessionAuthToken)
		return
	}

	ctx := c.Request.Context()

	version, err := h.App.NoteService.UpdateTopicContent(ctx, sessionID, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.UpdateContent", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(version))
}
