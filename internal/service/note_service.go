package service

import (
	"context"
	"errors"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"
	"github.com/studyforge/study-note-service/pkg/logger"
	"github.com/studyforge/study-note-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoteService defines the content hierarchy service interface
// Note creation is quota gated by the caller; chapters and topics are plain CRUD
// NoteService 定义内容层级服务接口
// 笔记创建由调用方过闸门，章节和主题是普通 CRUD
type NoteService interface {
	// CreateNote creates a draft note; quota must already be granted
	// CreateNote 创建草稿笔记，配额须已由闸门放行
	CreateNote(ctx context.Context, ownerSessionID, title string) (*dto.NoteDTO, error)

	// GetNote 获取单条笔记
	GetNote(ctx context.Context, ownerSessionID string, id int64) (*dto.NoteDTO, error)

	// ListNotes 分页获取笔记列表
	ListNotes(ctx context.Context, ownerSessionID string, pager *app.Pager) ([]*dto.NoteDTO, int64, error)

	// PublishNote Draft → Published
	PublishNote(ctx context.Context, ownerSessionID string, id int64) error

	// DeleteNote 删除笔记及其章节、主题和全部版本
	DeleteNote(ctx context.Context, ownerSessionID string, id int64) error

	// CreateChapter 在笔记下追加章节
	CreateChapter(ctx context.Context, ownerSessionID string, params *dto.ChapterCreateRequest) (*dto.ChapterDTO, error)

	// ListChapters 获取笔记下的章节
	ListChapters(ctx context.Context, ownerSessionID string, noteID int64) ([]*dto.ChapterDTO, error)

	// DeleteChapter 删除章节及其主题和版本
	DeleteChapter(ctx context.Context, ownerSessionID string, id int64) error

	// CreateTopic 在章节下追加主题
	CreateTopic(ctx context.Context, ownerSessionID string, params *dto.TopicCreateRequest) (*dto.TopicDTO, error)

	// ListTopics 获取章节下的主题
	ListTopics(ctx context.Context, ownerSessionID string, chapterID int64) ([]*dto.TopicDTO, error)

	// DeleteTopic 删除主题及其全部版本
	DeleteTopic(ctx context.Context, ownerSessionID string, id int64) error

	// UpdateTopicContent writes new content through the version store
	// This is the sole path by which topic content changes
	// UpdateTopicContent 通过版本存储写入新内容
	// 这是主题内容变更的唯一路径
	UpdateTopicContent(ctx context.Context, ownerSessionID string, params *dto.TopicContentRequest) (*dto.VersionDTO, error)

	// ListTopicVersions 获取归属主题的现存版本列表
	ListTopicVersions(ctx context.Context, ownerSessionID string, topicID int64) ([]*dto.VersionNoContentDTO, error)

	// GetTopicVersion 获取归属主题的指定版本
	GetTopicVersion(ctx context.Context, ownerSessionID string, topicID, versionID int64) (*dto.VersionDTO, error)

	// RestoreTopicVersion restores through the version store, owner checked
	// like every other topic mutation
	// RestoreTopicVersion 通过版本存储恢复历史版本，与其他主题变更一样先校验归属
	RestoreTopicVersion(ctx context.Context, ownerSessionID string, topicID, versionID int64) (*dto.VersionDTO, error)
}

// noteService implementation of NoteService interface
// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo       domain.NoteRepository
	chapterRepo    domain.ChapterRepository
	topicRepo      domain.TopicRepository
	versionService VersionService
	logger         *zap.Logger
}

// NewNoteService creates NoteService instance
// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, chapterRepo domain.ChapterRepository, topicRepo domain.TopicRepository, versionSvc VersionService, lg *zap.Logger) NoteService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &noteService{
		noteRepo:       noteRepo,
		chapterRepo:    chapterRepo,
		topicRepo:      topicRepo,
		versionService: versionSvc,
		logger:         lg,
	}
}

func (s *noteService) noteToDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	return &dto.NoteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Status:    string(n.Status),
		CreatedAt: timex.Time(n.CreatedAt),
		UpdatedAt: timex.Time(n.UpdatedAt),
	}
}

func (s *noteService) chapterToDTO(c *domain.Chapter) *dto.ChapterDTO {
	if c == nil {
		return nil
	}
	return &dto.ChapterDTO{
		ID:        c.ID,
		NoteID:    c.NoteID,
		Title:     c.Title,
		Position:  c.Position,
		CreatedAt: timex.Time(c.CreatedAt),
	}
}

func (s *noteService) topicToDTO(t *domain.Topic) *dto.TopicDTO {
	if t == nil {
		return nil
	}
	return &dto.TopicDTO{
		ID:             t.ID,
		ChapterID:      t.ChapterID,
		NoteID:         t.NoteID,
		Name:           t.Name,
		Position:       t.Position,
		CurrentVersion: t.CurrentVersion,
		CreatedAt:      timex.Time(t.CreatedAt),
	}
}

// mustGetOwnedNote 获取归属于会话的笔记，不存在或不归属时返回 ErrorNoteNotFound
func (s *noteService) mustGetOwnedNote(ctx context.Context, ownerSessionID string, id int64) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id, ownerSessionID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if note == nil {
		return nil, code.ErrorNoteNotFound
	}
	return note, nil
}

// CreateNote creates a draft note; quota must already be granted
// CreateNote 创建草稿笔记，配额须已由闸门放行
func (s *noteService) CreateNote(ctx context.Context, ownerSessionID, title string) (*dto.NoteDTO, error) {
	note, err := s.noteRepo.Create(ctx, &domain.Note{
		OwnerSessionID: ownerSessionID,
		Title:          title,
		Status:         domain.NoteStatusDraft,
	})
	if err != nil {
		return nil, code.ErrorNoteModifyOrCreateFailed.WithDetails(err.Error())
	}

	s.logger.Info("note created",
		zap.String(logger.FieldSessionID, ownerSessionID),
		zap.Int64(logger.FieldTargetID, note.ID))

	return s.noteToDTO(note), nil
}

// GetNote 获取单条笔记
func (s *noteService) GetNote(ctx context.Context, ownerSessionID string, id int64) (*dto.NoteDTO, error) {
	note, err := s.mustGetOwnedNote(ctx, ownerSessionID, id)
	if err != nil {
		return nil, err
	}
	return s.noteToDTO(note), nil
}

// ListNotes 分页获取笔记列表
func (s *noteService) ListNotes(ctx context.Context, ownerSessionID string, pager *app.Pager) ([]*dto.NoteDTO, int64, error) {
	notes, count, err := s.noteRepo.List(ctx, ownerSessionID, pager.Page, pager.PageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var results []*dto.NoteDTO
	for _, n := range notes {
		results = append(results, s.noteToDTO(n))
	}
	return results, count, nil
}

// PublishNote Draft → Published
func (s *noteService) PublishNote(ctx context.Context, ownerSessionID string, id int64) error {
	err := s.noteRepo.UpdateStatus(ctx, id, ownerSessionID, domain.NoteStatusPublished)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorNoteNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// DeleteNote 删除笔记及其章节、主题和全部版本
func (s *noteService) DeleteNote(ctx context.Context, ownerSessionID string, id int64) error {
	if _, err := s.mustGetOwnedNote(ctx, ownerSessionID, id); err != nil {
		return err
	}
	if err := s.noteRepo.Delete(ctx, id, ownerSessionID); err != nil {
		return code.ErrorNoteDeleteFailed.WithDetails(err.Error())
	}

	s.logger.Info("note deleted",
		zap.String(logger.FieldSessionID, ownerSessionID),
		zap.Int64(logger.FieldTargetID, id))
	return nil
}

// CreateChapter 在笔记下追加章节
func (s *noteService) CreateChapter(ctx context.Context, ownerSessionID string, params *dto.ChapterCreateRequest) (*dto.ChapterDTO, error) {
	if _, err := s.mustGetOwnedNote(ctx, ownerSessionID, params.NoteID); err != nil {
		return nil, err
	}

	position, err := s.chapterRepo.NextPosition(ctx, params.NoteID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	chapter, err := s.chapterRepo.Create(ctx, &domain.Chapter{
		NoteID:   params.NoteID,
		Title:    params.Title,
		Position: position,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.chapterToDTO(chapter), nil
}

// ListChapters 获取笔记下的章节
func (s *noteService) ListChapters(ctx context.Context, ownerSessionID string, noteID int64) ([]*dto.ChapterDTO, error) {
	if _, err := s.mustGetOwnedNote(ctx, ownerSessionID, noteID); err != nil {
		return nil, err
	}
	chapters, err := s.chapterRepo.ListByNote(ctx, noteID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var results []*dto.ChapterDTO
	for _, c := range chapters {
		results = append(results, s.chapterToDTO(c))
	}
	return results, nil
}

// mustGetOwnedChapter 获取归属于会话的章节
func (s *noteService) mustGetOwnedChapter(ctx context.Context, ownerSessionID string, id int64) (*domain.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if chapter == nil {
		return nil, code.ErrorChapterNotFound
	}
	if _, err := s.mustGetOwnedNote(ctx, ownerSessionID, chapter.NoteID); err != nil {
		return nil, code.ErrorChapterNotFound
	}
	return chapter, nil
}

// DeleteChapter 删除章节及其主题和版本
func (s *noteService) DeleteChapter(ctx context.Context, ownerSessionID string, id int64) error {
	if _, err := s.mustGetOwnedChapter(ctx, ownerSessionID, id); err != nil {
		return err
	}
	if err := s.chapterRepo.Delete(ctx, id); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// CreateTopic 在章节下追加主题
func (s *noteService) CreateTopic(ctx context.Context, ownerSessionID string, params *dto.TopicCreateRequest) (*dto.TopicDTO, error) {
	chapter, err := s.mustGetOwnedChapter(ctx, ownerSessionID, params.ChapterID)
	if err != nil {
		return nil, err
	}

	position, err := s.topicRepo.NextPosition(ctx, params.ChapterID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	topic, err := s.topicRepo.Create(ctx, &domain.Topic{
		ChapterID: params.ChapterID,
		NoteID:    chapter.NoteID,
		Name:      params.Name,
		Position:  position,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.topicToDTO(topic), nil
}

// ListTopics 获取章节下的主题
func (s *noteService) ListTopics(ctx context.Context, ownerSessionID string, chapterID int64) ([]*dto.TopicDTO, error) {
	if _, err := s.mustGetOwnedChapter(ctx, ownerSessionID, chapterID); err != nil {
		return nil, err
	}
	topics, err := s.topicRepo.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var results []*dto.TopicDTO
	for _, t := range topics {
		results = append(results, s.topicToDTO(t))
	}
	return results, nil
}

// mustGetOwnedTopic 获取归属于会话的主题
func (s *noteService) mustGetOwnedTopic(ctx context.Context, ownerSessionID string, id int64) (*domain.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if topic == nil {
		return nil, code.ErrorTopicNotFound
	}
	if _, err := s.mustGetOwnedNote(ctx, ownerSessionID, topic.NoteID); err != nil {
		return nil, code.ErrorTopicNotFound
	}
	return topic, nil
}

// DeleteTopic 删除主题及其全部版本
func (s *noteService) DeleteTopic(ctx context.Context, ownerSessionID string, id int64) error {
	if _, err := s.mustGetOwnedTopic(ctx, ownerSessionID, id); err != nil {
		return err
	}
	if err := s.topicRepo.Delete(ctx, id); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// UpdateTopicContent writes new content through the version store
// UpdateTopicContent 通过版本存储写入新内容
func (s *noteService) UpdateTopicContent(ctx context.Context, ownerSessionID string, params *dto.TopicContentRequest) (*dto.VersionDTO, error) {
	if _, err := s.mustGetOwnedTopic(ctx, ownerSessionID, params.TopicID); err != nil {
		return nil, err
	}
	return s.versionService.Save(ctx, params.TopicID, params.Content, params.ChangesSummary, ownerSessionID)
}

// ListTopicVersions 获取归属主题的现存版本列表
func (s *noteService) ListTopicVersions(ctx context.Context, ownerSessionID string, topicID int64) ([]*dto.VersionNoContentDTO, error) {
	if _, err := s.mustGetOwnedTopic(ctx, ownerSessionID, topicID); err != nil {
		return nil, err
	}
	return s.versionService.List(ctx, topicID)
}

// GetTopicVersion 获取归属主题的指定版本
func (s *noteService) GetTopicVersion(ctx context.Context, ownerSessionID string, topicID, versionID int64) (*dto.VersionDTO, error) {
	if _, err := s.mustGetOwnedTopic(ctx, ownerSessionID, topicID); err != nil {
		return nil, err
	}
	return s.versionService.Get(ctx, topicID, versionID)
}

// RestoreTopicVersion 通过版本存储恢复历史版本，先校验归属
func (s *noteService) RestoreTopicVersion(ctx context.Context, ownerSessionID string, topicID, versionID int64) (*dto.VersionDTO, error) {
	if _, err := s.mustGetOwnedTopic(ctx, ownerSessionID, topicID); err != nil {
		return nil, err
	}
	return s.versionService.Restore(ctx, topicID, versionID, ownerSessionID)
}

// Verify noteService implements NoteService interface
// 确保 noteService 实现了 NoteService 接口
var _ NoteService = (*noteService)(nil)
