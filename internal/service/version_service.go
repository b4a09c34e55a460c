package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/pkg/code"
	"github.com/studyforge/study-note-service/pkg/diff"
	"github.com/studyforge/study-note-service/pkg/logger"
	"github.com/studyforge/study-note-service/pkg/timex"
	"github.com/studyforge/study-note-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VersionService defines the version store service interface
// VersionService 定义版本存储服务接口
type VersionService interface {
	// Save writes an immutable snapshot with the next version number and
	// applies the retention policy
	// Save 写入下一个版本号的不可变快照并应用保留策略
	Save(ctx context.Context, targetID int64, content, changesSummary, actorSessionID string) (*dto.VersionDTO, error)

	// Get retrieves a single version of a target
	// Get 获取目标的指定版本
	Get(ctx context.Context, targetID, versionID int64) (*dto.VersionDTO, error)

	// List retrieves all surviving versions of a target, newest first
	// List 获取目标全部现存版本，按版本号降序
	List(ctx context.Context, targetID int64) ([]*dto.VersionNoContentDTO, error)

	// Restore appends a new version whose content matches an older version
	// It never deletes or rewinds anything
	// Restore 追加一个内容与历史版本一致的新版本，从不删除或回退
	Restore(ctx context.Context, targetID, versionID int64, actorSessionID string) (*dto.VersionDTO, error)
}

// versionService implementation of VersionService interface
// versionService 实现 VersionService 接口
type versionService struct {
	versionRepo domain.VersionRepository
	topicRepo   domain.TopicRepository
	wq          *writequeue.Manager
	config      *AppServiceConfig
	logger      *zap.Logger
}

// NewVersionService creates VersionService instance
// NewVersionService 创建 VersionService 实例
func NewVersionService(versionRepo domain.VersionRepository, topicRepo domain.TopicRepository, wq *writequeue.Manager, config *AppServiceConfig, lg *zap.Logger) VersionService {
	if config == nil {
		config = &AppServiceConfig{HistoryKeepVersions: 10}
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &versionService{
		versionRepo: versionRepo,
		topicRepo:   topicRepo,
		wq:          wq,
		config:      config,
		logger:      lg,
	}
}

// targetKey 版本写入的串行化键，与主题删除共用同一个键
func targetKey(targetID int64) string {
	return "topic_" + strconv.FormatInt(targetID, 10)
}

func (s *versionService) domainToDTO(v *domain.Version) *dto.VersionDTO {
	if v == nil {
		return nil
	}
	return &dto.VersionDTO{
		ID:             v.ID,
		TargetID:       v.TargetID,
		VersionNumber:  v.VersionNumber,
		Content:        v.Content,
		ChangesSummary: v.ChangesSummary,
		CreatedBy:      v.CreatedBy,
		SavedAt:        timex.Time(v.SavedAt),
	}
}

func (s *versionService) domainToNoContentDTO(v *domain.Version) *dto.VersionNoContentDTO {
	if v == nil {
		return nil
	}
	return &dto.VersionNoContentDTO{
		ID:             v.ID,
		TargetID:       v.TargetID,
		VersionNumber:  v.VersionNumber,
		ChangesSummary: v.ChangesSummary,
		CreatedBy:      v.CreatedBy,
		SavedAt:        timex.Time(v.SavedAt),
	}
}

// Save writes an immutable snapshot with the next version number and applies
// the retention policy
// Writes to the same target are serialized on the keyed queue; a unique index
// on (targetId, versionNumber) backs this up, and a conflicting write is
// retried once before surfacing ConcurrentModification
// Save 写入下一个版本号的不可变快照并应用保留策略
// 同一目标的写入在键队列上串行执行，(targetId, versionNumber) 唯一索引兜底，
// 冲突写入先内部重试一次，仍失败才上报 ConcurrentModification
func (s *versionService) Save(ctx context.Context, targetID int64, content, changesSummary, actorSessionID string) (*dto.VersionDTO, error) {
	var saved *domain.Version
	err := s.wq.Execute(ctx, targetKey(targetID), func() error {
		var err error
		saved, err = s.saveLocked(ctx, targetID, content, changesSummary, actorSessionID)
		return err
	})
	if err != nil {
		if c, ok := err.(*code.Code); ok {
			return nil, c
		}
		return nil, code.ErrorVersionSaveFailed.WithDetails(err.Error())
	}
	return s.domainToDTO(saved), nil
}

// isVersionConflict (targetId, versionNumber) 唯一索引冲突
func isVersionConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry")
}

// saveLocked 持有目标键时的实际写入逻辑
func (s *versionService) saveLocked(ctx context.Context, targetID int64, content, changesSummary, actorSessionID string) (*domain.Version, error) {
	saved, err := s.writeNext(ctx, targetID, content, changesSummary, actorSessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 目标已被删除，拒绝写入孤儿版本
			return nil, code.ErrorTopicNotFound
		}
		if !isVersionConflict(err) {
			return nil, code.ErrorVersionSaveFailed.WithDetails(err.Error())
		}
		// 唯一索引冲突：重读最新版本号后重放一次
		s.logger.Warn("version write conflict, retrying",
			zap.Int64(logger.FieldTargetID, targetID),
			zap.Error(err))
		saved, err = s.writeNext(ctx, targetID, content, changesSummary, actorSessionID)
		if err != nil {
			return nil, code.ErrorConcurrentModification.WithDetails(err.Error())
		}
	}

	// 保留策略：超出 K 个版本时删除最旧的一个，现存版本号不变
	// 裁剪失败必须上报，否则版本数上限会静默失守
	keep := int64(s.config.HistoryKeepVersions)
	if keep > 0 {
		count, err := s.versionRepo.CountByTarget(ctx, targetID)
		if err != nil {
			return nil, code.ErrorVersionSaveFailed.WithDetails(err.Error())
		}
		if count > keep {
			if err := s.versionRepo.DeleteOldest(ctx, targetID); err != nil {
				return nil, code.ErrorVersionSaveFailed.WithDetails(err.Error())
			}
		}
	}

	if err := s.topicRepo.UpdateCurrentVersion(ctx, targetID, saved.VersionNumber); err != nil {
		s.logger.Warn("failed to update topic current version",
			zap.Int64(logger.FieldTargetID, targetID),
			zap.Int64(logger.FieldVersion, saved.VersionNumber),
			zap.Error(err))
	}

	return saved, nil
}

// writeNext 分配下一个版本号并写入快照
func (s *versionService) writeNext(ctx context.Context, targetID int64, content, changesSummary, actorSessionID string) (*domain.Version, error) {
	max, err := s.versionRepo.MaxVersionNumber(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if changesSummary == "" {
		var previous string
		if latest, err := s.versionRepo.GetLatest(ctx, targetID); err == nil && latest != nil {
			previous = latest.Content
		}
		changesSummary = diff.Summarize(previous, content)
	}

	return s.versionRepo.Create(ctx, &domain.Version{
		TargetID:       targetID,
		VersionNumber:  max + 1,
		Content:        content,
		ChangesSummary: changesSummary,
		CreatedBy:      actorSessionID,
	})
}

// Get retrieves a single version of a target
// Get 获取目标的指定版本
func (s *versionService) Get(ctx context.Context, targetID, versionID int64) (*dto.VersionDTO, error) {
	v, err := s.versionRepo.GetByID(ctx, versionID, targetID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if v == nil {
		return nil, code.ErrorVersionNotFound
	}
	return s.domainToDTO(v), nil
}

// List retrieves all surviving versions of a target, newest first
// List 获取目标全部现存版本，按版本号降序
func (s *versionService) List(ctx context.Context, targetID int64) ([]*dto.VersionNoContentDTO, error) {
	versions, err := s.versionRepo.ListByTarget(ctx, targetID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var results []*dto.VersionNoContentDTO
	for _, v := range versions {
		results = append(results, s.domainToNoContentDTO(v))
	}
	return results, nil
}

// Restore appends a new version whose content matches an older version
// The current content is itself the highest surviving version, so it is
// already preserved as history; the restore appends exactly one version
// Restore 追加一个内容与历史版本一致的新版本
// 当前内容本身就是现存最高版本，历史中已有快照，恢复只追加一个版本
func (s *versionService) Restore(ctx context.Context, targetID, versionID int64, actorSessionID string) (*dto.VersionDTO, error) {
	var restored *domain.Version
	err := s.wq.Execute(ctx, targetKey(targetID), func() error {
		v, err := s.versionRepo.GetByID(ctx, versionID, targetID)
		if err != nil {
			return err
		}
		if v == nil {
			return code.ErrorVersionNotFound
		}

		summary := fmt.Sprintf("restored from version %d", v.VersionNumber)
		restored, err = s.saveLocked(ctx, targetID, v.Content, summary, actorSessionID)
		return err
	})
	if err != nil {
		if c, ok := err.(*code.Code); ok {
			return nil, c
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("version restored",
		zap.Int64(logger.FieldTargetID, targetID),
		zap.Int64(logger.FieldVersion, restored.VersionNumber),
		zap.String(logger.FieldSessionID, actorSessionID))

	return s.domainToDTO(restored), nil
}

// Verify versionService implements VersionService interface
// 确保 versionService 实现了 VersionService 接口
var _ VersionService = (*versionService)(nil)
