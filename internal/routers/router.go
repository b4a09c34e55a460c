// Package routers 组装 HTTP 路由与中间件链
package routers

import (
	"time"

	"github.com/studyforge/study-note-service/internal/app"
	"github.com/studyforge/study-note-service/internal/middleware"
	"github.com/studyforge/study-note-service/internal/routers/api_router"
	"github.com/studyforge/study-note-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/session",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

// NewRouter 创建公共 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(app.Version))
		api.Use(gin.Logger())
		api.Use(middleware.TraceMiddleware(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog())
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		sessionHandler := api_router.NewSessionHandler(appContainer)
		quotaHandler := api_router.NewQuotaHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)
		aiHandler := api_router.NewAiHandler(appContainer)
		usageHandler := api_router.NewUsageHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)

		// 无需认证的接口
		api.POST("/session/guest", sessionHandler.CreateGuest)
		api.GET("/health", healthHandler.Check)

		// 需要会话令牌的接口
		auth := middleware.SessionToken(appContainer.TokenManager, cfg.Security.AuthTokenKey)

		api.Use(auth).GET("/session", sessionHandler.Info)
		api.Use(auth).POST("/session/convert", sessionHandler.Convert)

		api.Use(auth).GET("/quota", quotaHandler.Peek)

		api.Use(auth).POST("/note", noteHandler.Create)
		api.Use(auth).GET("/note", noteHandler.Get)
		api.Use(auth).GET("/notes", noteHandler.List)
		api.Use(auth).PUT("/note/publish", noteHandler.Publish)
		api.Use(auth).DELETE("/note", noteHandler.Delete)

		api.Use(auth).POST("/chapter", noteHandler.CreateChapter)
		api.Use(auth).GET("/chapters", noteHandler.ListChapters)
		api.Use(auth).DELETE("/chapter", noteHandler.DeleteChapter)

		api.Use(auth).POST("/topic", noteHandler.CreateTopic)
		api.Use(auth).GET("/topics", noteHandler.ListTopics)
		api.Use(auth).DELETE("/topic", noteHandler.DeleteTopic)
		api.Use(auth).PUT("/topic/content", noteHandler.UpdateContent)

		api.Use(auth).GET("/topic/versions", versionHandler.List)
		api.Use(auth).GET("/topic/version", versionHandler.Get)
		api.Use(auth).PUT("/topic/restore", versionHandler.Restore)

		api.Use(auth).POST("/ai/invoke", aiHandler.Invoke)
		api.Use(auth).GET("/usage", usageHandler.List)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
