package dao

import (
	"context"
	"strconv"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"

	"gorm.io/gorm"
)

// topicRepository 实现 domain.TopicRepository 接口
type topicRepository struct {
	dao             *Dao
	customPrefixKey string
}

// NewTopicRepository 创建 TopicRepository 实例
func NewTopicRepository(dao *Dao) domain.TopicRepository {
	return &topicRepository{dao: dao, customPrefixKey: "topic_"}
}

func (r *topicRepository) GetKey(id int64) string {
	return r.customPrefixKey + strconv.FormatInt(id, 10)
}

func (r *topicRepository) toDomain(m *model.Topic) *domain.Topic {
	if m == nil {
		return nil
	}
	return &domain.Topic{
		ID:             m.ID,
		ChapterID:      m.ChapterID,
		NoteID:         m.NoteID,
		Name:           m.Name,
		Position:       m.Position,
		CurrentVersion: m.CurrentVersion,
		CreatedAt:      m.CreatedAt.Time(),
		UpdatedAt:      m.UpdatedAt.Time(),
	}
}

func (r *topicRepository) GetByID(ctx context.Context, id int64) (*domain.Topic, error) {
	var m model.Topic
	err := r.dao.DB().WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *topicRepository) Create(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	m := &model.Topic{
		ChapterID: topic.ChapterID,
		NoteID:    topic.NoteID,
		Name:      topic.Name,
		Position:  topic.Position,
	}
	if err := r.dao.DB().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *topicRepository) ListByChapter(ctx context.Context, chapterID int64) ([]*domain.Topic, error) {
	var ms []*model.Topic
	err := r.dao.DB().WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("position ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Topic, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

func (r *topicRepository) NextPosition(ctx context.Context, chapterID int64) (int64, error) {
	var pos int64
	err := r.dao.DB().WithContext(ctx).Model(&model.Topic{}).
		Where("chapter_id = ?", chapterID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&pos).Error
	if err != nil {
		return 0, err
	}
	return pos + 1, nil
}

func (r *topicRepository) UpdateCurrentVersion(ctx context.Context, id int64, versionNumber int64) error {
	return r.dao.DB().WithContext(ctx).Model(&model.Topic{}).
		Where("id = ?", id).
		Update("current_version", versionNumber).Error
}

// Delete 级联删除主题的全部版本
func (r *topicRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.ExecuteWrite(ctx, r.GetKey(id), func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Topic{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("target_id = ?", id).Delete(&model.Version{}).Error
	})
}
