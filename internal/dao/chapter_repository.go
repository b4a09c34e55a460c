package dao

import (
	"context"
	"strconv"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"

	"gorm.io/gorm"
)

// chapterRepository 实现 domain.ChapterRepository 接口
type chapterRepository struct {
	dao             *Dao
	customPrefixKey string
}

// NewChapterRepository 创建 ChapterRepository 实例
func NewChapterRepository(dao *Dao) domain.ChapterRepository {
	return &chapterRepository{dao: dao, customPrefixKey: "chapter_"}
}

func (r *chapterRepository) GetKey(id int64) string {
	return r.customPrefixKey + strconv.FormatInt(id, 10)
}

func (r *chapterRepository) toDomain(m *model.Chapter) *domain.Chapter {
	if m == nil {
		return nil
	}
	return &domain.Chapter{
		ID:        m.ID,
		NoteID:    m.NoteID,
		Title:     m.Title,
		Position:  m.Position,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
	}
}

func (r *chapterRepository) GetByID(ctx context.Context, id int64) (*domain.Chapter, error) {
	var m model.Chapter
	err := r.dao.DB().WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *chapterRepository) Create(ctx context.Context, chapter *domain.Chapter) (*domain.Chapter, error) {
	m := &model.Chapter{
		NoteID:   chapter.NoteID,
		Title:    chapter.Title,
		Position: chapter.Position,
	}
	if err := r.dao.DB().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *chapterRepository) ListByNote(ctx context.Context, noteID int64) ([]*domain.Chapter, error) {
	var ms []*model.Chapter
	err := r.dao.DB().WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("position ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Chapter, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

func (r *chapterRepository) NextPosition(ctx context.Context, noteID int64) (int64, error) {
	var pos int64
	err := r.dao.DB().WithContext(ctx).Model(&model.Chapter{}).
		Where("note_id = ?", noteID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&pos).Error
	if err != nil {
		return 0, err
	}
	return pos + 1, nil
}

// Delete 级联删除章节的主题和版本
func (r *chapterRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.ExecuteWrite(ctx, r.GetKey(id), func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Chapter{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var topicIDs []int64
		if err := tx.Model(&model.Topic{}).
			Where("chapter_id = ?", id).
			Pluck("id", &topicIDs).Error; err != nil {
			return err
		}

		if len(topicIDs) > 0 {
			if err := tx.Where("target_id IN ?", topicIDs).
				Delete(&model.Version{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("chapter_id = ?", id).Delete(&model.Topic{}).Error
	})
}
