// Package task 提供基于 cron 的后台任务调度
package task

import (
	"context"

	"github.com/studyforge/study-note-service/internal/app"
	"github.com/studyforge/study-note-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Manager 任务管理器，负责创建和管理所有定时任务
type Manager struct {
	cron   *cron.Cron
	logger *zap.Logger
	sc     *safe_close.SafeClose
	app    *app.App
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, a *app.App) *Manager {
	return &Manager{
		cron:   cron.New(),
		logger: logger,
		sc:     sc,
		app:    a,
	}
}

// RegisterTasks 注册所有任务
func (m *Manager) RegisterTasks() error {
	spec := m.app.Config().App.SessionSweepCron

	if _, err := m.cron.AddFunc(spec, m.runSessionSweep); err != nil {
		m.logger.Warn("failed to register session sweep task",
			zap.String("spec", spec), zap.Error(err))
		return err
	}
	m.logger.Info("session sweep task registered", zap.String("spec", spec))

	return nil
}

// runSessionSweep marks guest sessions past their TTL as expired
// Expiry is a terminal state, swept sessions can never convert
// runSessionSweep 将超过 TTL 的访客会话置为终态
// 过期是终态，被清理的会话不能再转正
func (m *Manager) runSessionSweep() {
	if m.app.IsShuttingDown() {
		return
	}

	done := m.app.TrackOperation()
	defer done()

	count, err := m.app.SessionService.ExpireStale(context.Background())
	if err != nil {
		m.logger.Error("session sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		m.logger.Info("session sweep completed", zap.Int64("expired", count))
	}
}

// Start 启动调度器并挂接优雅关闭
func (m *Manager) Start() {
	m.cron.Start()

	m.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		// Stop 返回的 ctx 在所有运行中任务结束后完成
		ctx := m.cron.Stop()
		<-ctx.Done()
		m.logger.Info("task scheduler stopped")
	})
}
