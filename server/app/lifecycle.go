// Package app 定義長期運行元件的最小生命週期抽象。
package app

import "context"

// Component 是可啟動、可關閉的長生命週期元件。
// Run 應該阻塞到元件停止；Shutdown 要尊重 ctx 的期限。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// Background 把「跑到 ctx 結束」的函式包成 Component，例如 session 回收器。
type Background struct {
	fn     func(ctx context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBackground(fn func(ctx context.Context)) *Background {
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{fn: fn, ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

func (b *Background) Run() error {
	defer close(b.done)
	b.fn(b.ctx)
	return nil
}

func (b *Background) Shutdown(ctx context.Context) error {
	b.cancel()
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Closer 在關機時呼叫 fn，Run 只是等待關機。
type Closer struct {
	fn   func()
	stop chan struct{}
}

func NewCloser(fn func()) *Closer { return &Closer{fn: fn, stop: make(chan struct{})} }

func (c *Closer) Run() error {
	<-c.stop
	return nil
}

func (c *Closer) Shutdown(context.Context) error {
	close(c.stop)
	c.fn()
	return nil
}
