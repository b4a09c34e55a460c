package service

import (
	"context"
	"time"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/dto"
	"github.com/studyforge/study-note-service/internal/metrics"
	"github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"
	"github.com/studyforge/study-note-service/pkg/logger"
	"github.com/studyforge/study-note-service/pkg/timex"
	"github.com/studyforge/study-note-service/pkg/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService defines the session lifecycle service interface
// SessionService 定义会话生命周期服务接口
type SessionService interface {
	// CreateGuest creates an anonymous TTL-bounded session and issues its token
	// CreateGuest 创建匿名访客会话并签发令牌
	CreateGuest(ctx context.Context, ip string) (*dto.SessionTokenDTO, error)

	// Resolve loads a session and verifies it is still usable
	// Resolve 加载会话并校验其仍然可用
	Resolve(ctx context.Context, sessionID string) (*domain.Session, error)

	// Get retrieves session details for display
	// Get 获取会话详情
	Get(ctx context.Context, sessionID string) (*dto.SessionDTO, error)

	// Convert performs the one-way guest to account conversion
	// Convert 执行单向的访客转正
	Convert(ctx context.Context, guestSessionID string, params *dto.SessionConvertRequest, ip string) (*dto.SessionTokenDTO, error)

	// ExpireStale marks guest sessions past their TTL as expired, returns affected rows
	// ExpireStale 将超过 TTL 的访客会话置为终态，返回影响行数
	ExpireStale(ctx context.Context) (int64, error)
}

// sessionService implementation of SessionService interface
// sessionService 实现 SessionService 接口
type sessionService struct {
	sessionRepo    domain.SessionRepository
	userRepo       domain.UserRepository
	conversionRepo domain.ConversionRepository
	tokenManager   app.TokenManager
	config         *AppServiceConfig
	logger         *zap.Logger
}

// NewSessionService creates SessionService instance
// NewSessionService 创建 SessionService 实例
func NewSessionService(sessionRepo domain.SessionRepository, userRepo domain.UserRepository, conversionRepo domain.ConversionRepository, tokenManager app.TokenManager, config *AppServiceConfig, lg *zap.Logger) SessionService {
	if config == nil {
		config = &AppServiceConfig{GuestSessionTTL: 24 * time.Hour}
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &sessionService{
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		conversionRepo: conversionRepo,
		tokenManager:   tokenManager,
		config:         config,
		logger:         lg,
	}
}

func (s *sessionService) domainToDTO(session *domain.Session) *dto.SessionDTO {
	if session == nil {
		return nil
	}
	return &dto.SessionDTO{
		ID:                     session.ID,
		State:                  string(session.State),
		ConvertedFromSessionID: session.ConvertedFromSessionID,
		CreatedAt:              timex.Time(session.CreatedAt),
		ExpiresAt:              timex.Time(session.ExpiresAt),
	}
}

// CreateGuest creates an anonymous TTL-bounded session and issues its token
// CreateGuest 创建匿名访客会话并签发令牌
func (s *sessionService) CreateGuest(ctx context.Context, ip string) (*dto.SessionTokenDTO, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		State:     domain.SessionStateGuest,
		ExpiresAt: now.Add(s.config.GuestSessionTTL),
	}

	created, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	token, err := s.tokenManager.Generate(created.ID, app.SessionKindGuest, ip)
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	s.logger.Info("guest session created",
		zap.String(logger.FieldSessionID, created.ID))
	metrics.SessionsCreatedTotal.WithLabelValues(app.SessionKindGuest).Inc()

	return &dto.SessionTokenDTO{
		SessionID: created.ID,
		Kind:      app.SessionKindGuest,
		Token:     token,
		ExpiresAt: timex.Time(created.ExpiresAt),
	}, nil
}

// Resolve loads a session and verifies it is still usable
// Resolve 加载会话并校验其仍然可用
func (s *sessionService) Resolve(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, code.ErrorInvalidSession
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if session == nil {
		return nil, code.ErrorInvalidSession
	}
	if !session.IsUsable(time.Now()) {
		return nil, code.ErrorSessionExpired
	}
	return session, nil
}

// Get retrieves session details for display
// Get 获取会话详情
func (s *sessionService) Get(ctx context.Context, sessionID string) (*dto.SessionDTO, error) {
	session, err := s.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(session), nil
}

// Convert performs the one-way guest to account conversion
// The guest session is moved to Converting first; on any failure before the
// atomic conversion commits, it is swapped back to Guest with counters intact
// Convert 执行单向的访客转正
// 先将访客会话置为 Converting，提交前任何失败都会回退为 Guest，计数器不受影响
func (s *sessionService) Convert(ctx context.Context, guestSessionID string, params *dto.SessionConvertRequest, ip string) (*dto.SessionTokenDTO, error) {
	session, err := s.Resolve(ctx, guestSessionID)
	if err != nil {
		return nil, err
	}
	if session.State == domain.SessionStateAuthenticated {
		return nil, code.ErrorConversionConflict
	}
	if session.State != domain.SessionStateGuest {
		// 另一个转正请求正在进行
		return nil, code.ErrorConversionConflict
	}

	existing, err := s.userRepo.GetByUsername(ctx, params.Username)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if existing != nil {
		return nil, code.ErrorAccountAlreadyExists
	}

	// Guest → Converting，CAS 保证同一会话只有一个转正在途
	swapped, err := s.sessionRepo.CompareAndSwapState(ctx, guestSessionID, domain.SessionStateGuest, domain.SessionStateConverting)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !swapped {
		return nil, code.ErrorConversionConflict
	}

	hash, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		s.rollbackConverting(ctx, guestSessionID)
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}

	user := &domain.User{
		Username: params.Username,
		Password: hash,
	}
	newSession := &domain.Session{
		ID:                     uuid.NewString(),
		State:                  domain.SessionStateAuthenticated,
		ConvertedFromSessionID: guestSessionID,
	}

	// 过期旧会话、建账户、建新会话、丢弃配额计数器、转移笔记归属，单事务完成
	created, _, err := s.conversionRepo.ConvertGuest(ctx, guestSessionID, user, newSession)
	if err != nil {
		s.rollbackConverting(ctx, guestSessionID)
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	token, err := s.tokenManager.Generate(created.ID, app.SessionKindUser, ip)
	if err != nil {
		// 转正已提交，此处只能返回签发失败，客户端可重试登录
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	s.logger.Info("guest session converted",
		zap.String(logger.FieldSessionID, guestSessionID),
		zap.String("newSessionId", created.ID))
	metrics.SessionsCreatedTotal.WithLabelValues(app.SessionKindUser).Inc()

	return &dto.SessionTokenDTO{
		SessionID: created.ID,
		Kind:      app.SessionKindUser,
		Token:     token,
	}, nil
}

// rollbackConverting Converting → Guest，转正失败时恢复会话
func (s *sessionService) rollbackConverting(ctx context.Context, sessionID string) {
	swapped, err := s.sessionRepo.CompareAndSwapState(ctx, sessionID, domain.SessionStateConverting, domain.SessionStateGuest)
	if err != nil || !swapped {
		s.logger.Error("failed to roll back converting session",
			zap.String(logger.FieldSessionID, sessionID),
			zap.Bool("swapped", swapped),
			zap.Error(err))
	}
}

// ExpireStale marks guest sessions past their TTL as expired, returns affected rows
// ExpireStale 将超过 TTL 的访客会话置为终态，返回影响行数
func (s *sessionService) ExpireStale(ctx context.Context) (int64, error) {
	count, err := s.sessionRepo.ExpireGuestsBefore(ctx, time.Now())
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if count > 0 {
		s.logger.Info("expired stale guest sessions",
			zap.Int64(logger.FieldCount, count))
	}
	return count, nil
}

// Verify sessionService implements SessionService interface
// 确保 sessionService 实现了 SessionService 接口
var _ SessionService = (*sessionService)(nil)
