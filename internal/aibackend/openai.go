package aibackend

import (
	"context"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// 各工具类型的系统提示词
var toolPrompts = map[string]string{
	"AiGenerate":  "You are a study assistant. Generate clear, well-structured study notes for the given topic.",
	"AiImprove":   "You are a study assistant. Improve the given study notes: fix errors, clarify wording and structure.",
	"AiSummarize": "You are a study assistant. Summarize the given study notes into concise key points.",
	"AiCode":      "You are a programming tutor. Produce annotated example code for the given topic.",
}

// OpenAIConfig OpenAI 兼容后端配置
type OpenAIConfig struct {
	// BaseURL 为空时使用官方地址
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// openAIBackend 基于 OpenAI 兼容接口的 Backend 实现
type openAIBackend struct {
	client *openai.Client
	config OpenAIConfig
}

// NewOpenAIBackend 创建 OpenAI 后端实例
func NewOpenAIBackend(c OpenAIConfig) Backend {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	return &openAIBackend{
		client: openai.NewClientWithConfig(cfg),
		config: c,
	}
}

// Invoke 调用 ChatCompletion 生成内容
// 超时由调用方通过 ctx 控制，超时视为一次失败的调用
func (b *openAIBackend) Invoke(ctx context.Context, toolType string, input string) (*Result, error) {
	prompt, ok := toolPrompts[toolType]
	if !ok {
		return nil, errors.Errorf("unknown tool type: %s", toolType)
	}

	if b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return nil, errors.Wrap(err, "ai backend invoke failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("ai backend returned no choices")
	}

	return &Result{
		Content:        resp.Choices[0].Message.Content,
		TokensUsed:     int64(resp.Usage.TotalTokens),
		ResponseTimeMs: elapsed,
	}, nil
}
