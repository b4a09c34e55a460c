// Package safe_close 提供协作式的优雅关闭控制
// 每个需要关闭的组件通过 Attach 注册，收到关闭信号后自行清理并调用 done
package safe_close

import (
	"sync"
)

// SafeClose 关闭协调器
// 聚合多个组件的关闭流程，保证 WaitClosed 在所有组件完成后返回
type SafeClose struct {
	mu          sync.Mutex
	wg          sync.WaitGroup
	closeSignal chan struct{}
	closed      bool
	err         error
}

// NewSafeClose 创建关闭协调器
func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach registers a component lifecycle goroutine
// The func must call done() when the component has fully stopped,
// and should begin shutdown when closeSignal is closed
// Attach 注册组件生命周期协程
// 组件停止后必须调用 done()，收到 closeSignal 后应开始关闭
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() {
		once.Do(s.wg.Done)
	}
	go f(done, s.closeSignal)
}

// SendCloseSignal 广播关闭信号，首个非空错误会被保留
// 可安全地多次调用
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil && err != nil {
		s.err = err
	}
	if !s.closed {
		s.closed = true
		close(s.closeSignal)
	}
}

// WaitClosed 阻塞等待所有已注册组件关闭完成
// 返回触发关闭的第一个错误
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ReceiveCloseSignal 获取关闭信号通道，供只读场景监听
func (s *SafeClose) ReceiveCloseSignal() <-chan struct{} {
	return s.closeSignal
}
