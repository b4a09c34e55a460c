package dao

import (
	"context"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"
	"github.com/studyforge/study-note-service/pkg/app"
)

// usageRepository 实现 domain.UsageRepository 接口
// 审计表只增不删，没有任何更新或删除路径
type usageRepository struct {
	dao *Dao
}

// NewUsageRepository 创建 UsageRepository 实例
func NewUsageRepository(dao *Dao) domain.UsageRepository {
	return &usageRepository{dao: dao}
}

func (r *usageRepository) toDomain(m *model.UsageHistory) *domain.UsageHistoryEntry {
	if m == nil {
		return nil
	}
	return &domain.UsageHistoryEntry{
		ID:             m.ID,
		SessionID:      m.SessionID,
		ToolType:       domain.ActionKind(m.ToolType),
		InputDigest:    m.InputDigest,
		OutputID:       m.OutputID,
		TokensUsed:     m.TokensUsed,
		ResponseTimeMs: m.ResponseTimeMs,
		Success:        m.Success,
		CreatedAt:      m.CreatedAt.Time(),
	}
}

func (r *usageRepository) Append(ctx context.Context, entry *domain.UsageHistoryEntry) (*domain.UsageHistoryEntry, error) {
	m := &model.UsageHistory{
		SessionID:      entry.SessionID,
		ToolType:       string(entry.ToolType),
		InputDigest:    entry.InputDigest,
		OutputID:       entry.OutputID,
		TokensUsed:     entry.TokensUsed,
		ResponseTimeMs: entry.ResponseTimeMs,
		Success:        entry.Success,
	}
	if err := r.dao.DB().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *usageRepository) ListBySession(ctx context.Context, sessionID string, page, pageSize int) ([]*domain.UsageHistoryEntry, int64, error) {
	q := r.dao.DB().WithContext(ctx).Model(&model.UsageHistory{}).
		Where("session_id = ?", sessionID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var ms []*model.UsageHistory
	err := q.Order("id DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}

	list := make([]*domain.UsageHistoryEntry, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, count, nil
}
