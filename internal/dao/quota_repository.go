package dao

import (
	"context"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"
	"github.com/studyforge/study-note-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quotaRepository 实现 domain.QuotaRepository 接口
// 读改写的原子性由 QuotaService 的键队列保证，这里只负责存取
type quotaRepository struct {
	dao *Dao
}

// NewQuotaRepository 创建 QuotaRepository 实例
func NewQuotaRepository(dao *Dao) domain.QuotaRepository {
	return &quotaRepository{dao: dao}
}

func (r *quotaRepository) toDomain(m *model.QuotaCounter) *domain.QuotaCounter {
	if m == nil {
		return nil
	}
	return &domain.QuotaCounter{
		ID:          m.ID,
		SessionID:   m.SessionID,
		ActionKind:  domain.ActionKind(m.ActionKind),
		Count:       m.Count,
		WindowStart: m.WindowStart.Time(),
		CreatedAt:   m.CreatedAt.Time(),
		UpdatedAt:   m.UpdatedAt.Time(),
	}
}

func (r *quotaRepository) Get(ctx context.Context, sessionID string, kind domain.ActionKind) (*domain.QuotaCounter, error) {
	var m model.QuotaCounter
	err := r.dao.DB().WithContext(ctx).
		Where("session_id = ? AND action_kind = ?", sessionID, string(kind)).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *quotaRepository) Save(ctx context.Context, counter *domain.QuotaCounter) (*domain.QuotaCounter, error) {
	m := &model.QuotaCounter{
		ID:          counter.ID,
		SessionID:   counter.SessionID,
		ActionKind:  string(counter.ActionKind),
		Count:       counter.Count,
		WindowStart: timex.Time(counter.WindowStart),
	}

	// (session_id, action_kind) 唯一，冲突时更新计数和窗口
	err := r.dao.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "action_kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"count", "window_start", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *quotaRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.dao.DB().WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.QuotaCounter{}).Error
}
