// Package metrics 定义 prometheus 指标，通过私有监听暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthorizeTotal 授权请求计数，按操作类型和结果区分
	AuthorizeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studynote",
		Subsystem: "gate",
		Name:      "authorize_total",
		Help:      "Authorization outcomes by action kind.",
	}, []string{"action", "outcome"})

	// AiInvokeTotal AI 工具调用计数，按工具和成败区分
	AiInvokeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studynote",
		Subsystem: "ai",
		Name:      "invoke_total",
		Help:      "AI backend invocations by tool type and result.",
	}, []string{"tool", "success"})

	// SessionsCreatedTotal 会话创建计数，按类型区分
	SessionsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studynote",
		Subsystem: "session",
		Name:      "created_total",
		Help:      "Sessions created by kind.",
	}, []string{"kind"})
)
