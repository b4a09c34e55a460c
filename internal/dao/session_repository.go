package dao

import (
	"context"
	"time"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"
	"github.com/studyforge/study-note-service/pkg/timex"

	"gorm.io/gorm"
)

// sessionRepository 实现 domain.SessionRepository 接口
type sessionRepository struct {
	dao             *Dao
	customPrefixKey string
}

// NewSessionRepository 创建 SessionRepository 实例
func NewSessionRepository(dao *Dao) domain.SessionRepository {
	return &sessionRepository{dao: dao, customPrefixKey: "session_"}
}

func (r *sessionRepository) GetKey(id string) string {
	return r.customPrefixKey + id
}

// toDomain 将数据库模型转换为领域模型
func (r *sessionRepository) toDomain(m *model.Session) *domain.Session {
	if m == nil {
		return nil
	}
	return &domain.Session{
		ID:                     m.ID,
		State:                  domain.SessionState(m.State),
		UserUID:                m.UserUID,
		ConvertedFromSessionID: m.ConvertedFromSessionID,
		ExpiresAt:              m.ExpiresAt.Time(),
		CreatedAt:              m.CreatedAt.Time(),
		UpdatedAt:              m.UpdatedAt.Time(),
	}
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var m model.Session
	err := r.dao.DB().WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	m := &model.Session{
		ID:                     session.ID,
		State:                  string(session.State),
		UserUID:                session.UserUID,
		ConvertedFromSessionID: session.ConvertedFromSessionID,
		ExpiresAt:              timex.Time(session.ExpiresAt),
	}

	err := r.dao.ExecuteWrite(ctx, r.GetKey(session.ID), func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// CompareAndSwapState 状态 CAS 转换
// 只有当前状态等于 from 时才会写入 to，返回是否真的转换了
func (r *sessionRepository) CompareAndSwapState(ctx context.Context, id string, from, to domain.SessionState) (bool, error) {
	var swapped bool
	err := r.dao.ExecuteWrite(ctx, r.GetKey(id), func(tx *gorm.DB) error {
		res := tx.Model(&model.Session{}).
			Where("id = ? AND state = ?", id, string(from)).
			Update("state", string(to))
		if res.Error != nil {
			return res.Error
		}
		swapped = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return swapped, nil
}

// ExpireGuestsBefore 过期所有 TTL 已到的访客会话
func (r *sessionRepository) ExpireGuestsBefore(ctx context.Context, now time.Time) (int64, error) {
	var affected int64
	res := r.dao.DB().WithContext(ctx).Model(&model.Session{}).
		Where("state = ? AND expires_at IS NOT NULL AND expires_at < ?", string(domain.SessionStateGuest), now).
		Update("state", string(domain.SessionStateExpired))
	if res.Error != nil {
		return 0, res.Error
	}
	affected = res.RowsAffected
	return affected, nil
}
