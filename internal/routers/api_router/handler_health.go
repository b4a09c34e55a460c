package api_router

import (
	"time"

	"github.com/studyforge/study-note-service/internal/app"
	pkgapp "github.com/studyforge/study-note-service/pkg/app"
	"github.com/studyforge/study-note-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status     string  `json:"status"`     // "healthy" 或 "unhealthy"
	Version    string  `json:"version"`    // 服务版本号
	Uptime     float64 `json:"uptime"`     // 服务运行时间（秒）
	Database   string  `json:"database"`   // "connected" 或 "error"
	HostUptime uint64  `json:"hostUptime"` // 主机运行时间（秒）
	MemUsedPct float64 `json:"memUsedPct"` // 主机内存使用率
}

// Check 健康检查接口，包含数据库连通性与主机概况
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:   "healthy",
		Version:  app.Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
	}

	if uptime, err := host.Uptime(); err == nil {
		response.HostUptime = uptime
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		response.MemUsedPct = vm.UsedPercent
	}

	// 检查数据库连接
	if err := h.App.DB.Raw("SELECT 1").Error; err != nil {
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.ServerError.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
