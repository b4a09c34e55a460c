package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/studyforge/study-note-service/internal/aibackend"
	"github.com/studyforge/study-note-service/internal/dao"
	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/service"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/workerpool"
	"github.com/studyforge/study-note-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	SessionRepo    domain.SessionRepository
	UserRepo       domain.UserRepository
	ConversionRepo domain.ConversionRepository
	QuotaRepo      domain.QuotaRepository
	NoteRepo       domain.NoteRepository
	ChapterRepo    domain.ChapterRepository
	TopicRepo      domain.TopicRepository
	VersionRepo    domain.VersionRepository
	UsageRepo      domain.UsageRepository

	// Service 层
	SessionService service.SessionService
	QuotaService   service.QuotaService
	GateService    service.GateService
	VersionService service.VersionService
	NoteService    service.NoteService
	UsageService   service.UsageService
	AiService      service.AiService

	// 基础设施组件
	TokenManager pkgapp.TokenManager
	AiBackend    aibackend.Backend

	// StartTime 容器创建时间，供健康检查计算运行时长
	StartTime time.Time

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	// 初始化 DAO
	a.Dao = dao.New(db, a.writeQueueMgr, logger)

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.SecretKey,
		Issuer:    pkgapp.DefaultTokenIssuer,
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 初始化 AI 后端
	a.AiBackend = aibackend.NewOpenAIBackend(aibackend.OpenAIConfig{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.GetAITimeout(),
	})

	// 初始化 Repository 层
	a.SessionRepo = dao.NewSessionRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.ConversionRepo = dao.NewConversionRepository(a.Dao)
	a.QuotaRepo = dao.NewQuotaRepository(a.Dao)
	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.ChapterRepo = dao.NewChapterRepository(a.Dao)
	a.TopicRepo = dao.NewTopicRepository(a.Dao)
	a.VersionRepo = dao.NewVersionRepository(a.Dao)
	a.UsageRepo = dao.NewUsageRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.AppServiceConfig{
		HistoryKeepVersions: cfg.App.HistoryKeepVersions,
		GuestSessionTTL:     cfg.GetGuestSessionTTL(),
	}

	// 初始化 Service 层（依赖注入）
	a.SessionService = service.NewSessionService(a.SessionRepo, a.UserRepo, a.ConversionRepo, a.TokenManager, svcConfig, logger)
	a.QuotaService = service.NewQuotaService(a.QuotaRepo, &cfg.Quota, a.writeQueueMgr, logger)
	a.GateService = service.NewGateService(a.SessionService, a.QuotaService)
	a.VersionService = service.NewVersionService(a.VersionRepo, a.TopicRepo, a.writeQueueMgr, svcConfig, logger)
	a.NoteService = service.NewNoteService(a.NoteRepo, a.ChapterRepo, a.TopicRepo, a.VersionService, logger)
	a.UsageService = service.NewUsageService(a.UsageRepo, a.workerPool, logger)
	a.AiService = service.NewAiService(a.GateService, a.UsageService, a.AiBackend, logger)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SubmitTask 提交任务到 Worker Pool
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// SubmitTaskAsync 异步提交任务到 Worker Pool（不等待结果）
func (a *App) SubmitTaskAsync(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.SubmitAsync(ctx, task)
}

// GetAuthTokenKey 获取会话令牌的请求头名称
func (a *App) GetAuthTokenKey() string {
	return a.config.Security.AuthTokenKey
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Write Queue Manager -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 2. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		}
	}

	// 3. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 4. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
