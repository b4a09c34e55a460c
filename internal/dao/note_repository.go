package dao

import (
	"context"
	"strconv"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"
	"github.com/studyforge/study-note-service/pkg/app"

	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao             *Dao
	customPrefixKey string
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao, customPrefixKey: "note_"}
}

func (r *noteRepository) GetKey(id int64) string {
	return r.customPrefixKey + strconv.FormatInt(id, 10)
}

func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:             m.ID,
		OwnerSessionID: m.OwnerSessionID,
		Title:          m.Title,
		Status:         domain.NoteStatus(m.Status),
		CreatedAt:      m.CreatedAt.Time(),
		UpdatedAt:      m.UpdatedAt.Time(),
	}
}

func (r *noteRepository) GetByID(ctx context.Context, id int64, ownerSessionID string) (*domain.Note, error) {
	var m model.Note
	err := r.dao.DB().WithContext(ctx).
		Where("id = ? AND owner_session_id = ?", id, ownerSessionID).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := &model.Note{
		OwnerSessionID: note.OwnerSessionID,
		Title:          note.Title,
		Status:         string(note.Status),
	}
	if err := r.dao.DB().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *noteRepository) UpdateStatus(ctx context.Context, id int64, ownerSessionID string, status domain.NoteStatus) error {
	res := r.dao.DB().WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND owner_session_id = ?", id, ownerSessionID).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noteRepository) List(ctx context.Context, ownerSessionID string, page, pageSize int) ([]*domain.Note, int64, error) {
	q := r.dao.DB().WithContext(ctx).Model(&model.Note{}).
		Where("owner_session_id = ?", ownerSessionID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var ms []*model.Note
	err := q.Order("updated_at DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}

	list := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, count, nil
}

// Delete cascades: chapters, topics and all their versions go with the note
// Delete 级联删除：笔记的章节、主题以及它们的全部版本一并删除
func (r *noteRepository) Delete(ctx context.Context, id int64, ownerSessionID string) error {
	return r.dao.ExecuteWrite(ctx, r.GetKey(id), func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_session_id = ?", id, ownerSessionID).
			Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// 收集主题 ID，用于删除版本
		var topicIDs []int64
		if err := tx.Model(&model.Topic{}).
			Where("note_id = ?", id).
			Pluck("id", &topicIDs).Error; err != nil {
			return err
		}

		if len(topicIDs) > 0 {
			if err := tx.Where("target_id IN ?", topicIDs).
				Delete(&model.Version{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("note_id = ?", id).Delete(&model.Topic{}).Error; err != nil {
			return err
		}
		return tx.Where("note_id = ?", id).Delete(&model.Chapter{}).Error
	})
}
