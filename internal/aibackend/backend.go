// Package aibackend 封装外部 AI 内容生成后端
// 引擎只关心 调用→结果/失败，不关心模型细节
package aibackend

import (
	"context"
)

// Result AI 调用结果
type Result struct {
	// Content 生成的文本
	Content string
	// TokensUsed 本次调用消耗的 token 数
	TokensUsed int64
	// ResponseTimeMs 后端响应耗时（毫秒）
	ResponseTimeMs int64
}

// Backend AI 生成后端接口
type Backend interface {
	// Invoke 调用指定工具生成内容
	// toolType 为操作类型（AiGenerate / AiImprove / AiSummarize / AiCode）
	Invoke(ctx context.Context, toolType string, input string) (*Result, error)
}
