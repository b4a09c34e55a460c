package aibackend

import (
	"context"
	"sync/atomic"
)

// FakeBackend 测试用的内存后端
type FakeBackend struct {
	// Content 每次调用返回的文本
	Content string
	// Err 不为 nil 时每次调用都失败
	Err error
	// TokensUsed 返回的 token 数
	TokensUsed int64

	calls atomic.Int64
}

// Invoke 实现 Backend 接口
func (f *FakeBackend) Invoke(ctx context.Context, toolType string, input string) (*Result, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	content := f.Content
	if content == "" {
		content = "generated: " + input
	}
	return &Result{
		Content:        content,
		TokensUsed:     f.TokensUsed,
		ResponseTimeMs: 1,
	}, nil
}

// Calls 已调用次数
func (f *FakeBackend) Calls() int64 {
	return f.calls.Load()
}
