package dao

import (
	"context"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"
	"github.com/studyforge/study-note-service/pkg/timex"

	"gorm.io/gorm"
)

// conversionRepository 实现 domain.ConversionRepository 接口
type conversionRepository struct {
	dao             *Dao
	customPrefixKey string
}

// NewConversionRepository 创建 ConversionRepository 实例
func NewConversionRepository(dao *Dao) domain.ConversionRepository {
	return &conversionRepository{dao: dao, customPrefixKey: "session_"}
}

func (r *conversionRepository) GetKey(sessionID string) string {
	return r.customPrefixKey + sessionID
}

// ConvertGuest guest→user conversion as one atomic unit
// 单事务内完成：校验并终结旧访客会话、创建账户、创建新会话、
// 丢弃旧配额计数器、转移笔记归属。事务按旧会话键串行化，
// 任何请求都不可能观察到"旧会话已过期但新计数器未就绪"的中间态
func (r *conversionRepository) ConvertGuest(ctx context.Context, guestSessionID string, user *domain.User, newSession *domain.Session) (*domain.Session, *domain.User, error) {
	var sessionOut *model.Session
	var userOut *model.User

	err := r.dao.ExecuteWrite(ctx, r.GetKey(guestSessionID), func(tx *gorm.DB) error {
		// 旧会话必须处于 converting 状态，CAS 到 expired
		res := tx.Model(&model.Session{}).
			Where("id = ? AND state = ?", guestSessionID, string(domain.SessionStateConverting)).
			Update("state", string(domain.SessionStateExpired))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		// 创建账户
		userOut = &model.User{
			Username: user.Username,
			Password: user.Password,
		}
		if err := tx.Create(userOut).Error; err != nil {
			return err
		}

		// 创建已认证会话
		sessionOut = &model.Session{
			ID:                     newSession.ID,
			State:                  string(domain.SessionStateAuthenticated),
			UserUID:                userOut.UID,
			ConvertedFromSessionID: guestSessionID,
			ExpiresAt:              timex.Time(newSession.ExpiresAt),
		}
		if err := tx.Create(sessionOut).Error; err != nil {
			return err
		}

		// 丢弃旧会话的全部配额计数器，它们从此不再适用
		if err := tx.Where("session_id = ?", guestSessionID).
			Delete(&model.QuotaCounter{}).Error; err != nil {
			return err
		}

		// 笔记归属转移到新会话
		if err := tx.Model(&model.Note{}).
			Where("owner_session_id = ?", guestSessionID).
			Update("owner_session_id", sessionOut.ID).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s := &domain.Session{
		ID:                     sessionOut.ID,
		State:                  domain.SessionState(sessionOut.State),
		UserUID:                sessionOut.UserUID,
		ConvertedFromSessionID: sessionOut.ConvertedFromSessionID,
		ExpiresAt:              sessionOut.ExpiresAt.Time(),
		CreatedAt:              sessionOut.CreatedAt.Time(),
		UpdatedAt:              sessionOut.UpdatedAt.Time(),
	}
	u := &domain.User{
		UID:       userOut.UID,
		Username:  userOut.Username,
		Password:  userOut.Password,
		CreatedAt: userOut.CreatedAt.Time(),
		UpdatedAt: userOut.UpdatedAt.Time(),
	}
	return s, u, nil
}
