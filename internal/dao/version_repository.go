package dao

import (
	"context"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"

	"gorm.io/gorm"
)

// versionRepository 实现 domain.VersionRepository 接口
// 写入顺序由 VersionService 按目标键串行化
type versionRepository struct {
	dao *Dao
}

// NewVersionRepository 创建 VersionRepository 实例
func NewVersionRepository(dao *Dao) domain.VersionRepository {
	return &versionRepository{dao: dao}
}

func (r *versionRepository) toDomain(m *model.Version) *domain.Version {
	if m == nil {
		return nil
	}
	return &domain.Version{
		ID:             m.ID,
		TargetID:       m.TargetID,
		VersionNumber:  m.VersionNumber,
		Content:        m.Content,
		ChangesSummary: m.ChangesSummary,
		CreatedBy:      m.CreatedBy,
		SavedAt:        m.SavedAt.Time(),
	}
}

// Create 在同一事务内校验目标仍然存在后写入快照
// 级联删除走笔记/章节键，与版本写入的主题键不同，目标可能已被删掉
func (r *versionRepository) Create(ctx context.Context, version *domain.Version) (*domain.Version, error) {
	m := &model.Version{
		TargetID:       version.TargetID,
		VersionNumber:  version.VersionNumber,
		Content:        version.Content,
		ChangesSummary: version.ChangesSummary,
		CreatedBy:      version.CreatedBy,
	}
	err := r.dao.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alive int64
		if err := tx.Model(&model.Topic{}).
			Where("id = ?", version.TargetID).
			Count(&alive).Error; err != nil {
			return err
		}
		if alive == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *versionRepository) GetByID(ctx context.Context, id int64, targetID int64) (*domain.Version, error) {
	var m model.Version
	err := r.dao.DB().WithContext(ctx).
		Where("id = ? AND target_id = ?", id, targetID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *versionRepository) GetLatest(ctx context.Context, targetID int64) (*domain.Version, error) {
	var m model.Version
	err := r.dao.DB().WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("version_number DESC").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *versionRepository) ListByTarget(ctx context.Context, targetID int64) ([]*domain.Version, error) {
	var ms []*model.Version
	err := r.dao.DB().WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("version_number DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Version, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

func (r *versionRepository) MaxVersionNumber(ctx context.Context, targetID int64) (int64, error) {
	var max int64
	err := r.dao.DB().WithContext(ctx).Model(&model.Version{}).
		Where("target_id = ?", targetID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *versionRepository) CountByTarget(ctx context.Context, targetID int64) (int64, error) {
	var count int64
	err := r.dao.DB().WithContext(ctx).Model(&model.Version{}).
		Where("target_id = ?", targetID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOldest 删除目标最旧的一个版本
// 只删快照，从不重排现存版本号
func (r *versionRepository) DeleteOldest(ctx context.Context, targetID int64) error {
	var m model.Version
	err := r.dao.DB().WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("version_number ASC").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	return r.dao.DB().WithContext(ctx).Delete(&model.Version{}, m.ID).Error
}
