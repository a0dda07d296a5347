package resource

import (
	"context"
	"fmt"
	"sync"
)

// State 表示延迟资源所处的阶段。
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Handle 是一个两阶段的资源句柄：创建时为 Pending，之后恰好转入 Ready 或 Failed 一次。
// 布局代码根据 State 分支，而渲染前需要 Wait。
type Handle struct {
	name string

	mu    sync.Mutex
	state State
	data  any
	err   error
	done  chan struct{}
}

// NewHandle 创建一个处于 Pending 状态的句柄。
func NewHandle(name string) *Handle {
	return &Handle{name: name, done: make(chan struct{})}
}

// Ready 创建一个已经就绪的句柄。
func Ready(name string, data any) *Handle {
	h := NewHandle(name)
	h.Resolve(data)
	return h
}

// Name 返回资源名称。
func (h *Handle) Name() string { return h.name }

// Resolve 将句柄置为 Ready。句柄已经结束时返回 false。
func (h *Handle) Resolve(data any) bool {
	return h.settle(StateReady, data, nil)
}

// Fail 将句柄置为 Failed。句柄已经结束时返回 false。
func (h *Handle) Fail(err error) bool {
	if err == nil {
		err = fmt.Errorf("resource %q: failed without error", h.name)
	}
	return h.settle(StateFailed, nil, err)
}

func (h *Handle) settle(state State, data any, err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StatePending {
		return false
	}
	h.state, h.data, h.err = state, data, err
	close(h.done)
	return true
}

// State 返回当前阶段。
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Data 返回已就绪的数据；Pending 时返回 ErrPending。
func (h *Handle) Data() (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case StateReady:
		return h.data, nil
	case StateFailed:
		return nil, h.err
	default:
		return nil, fmt.Errorf("resource %q: %w", h.name, ErrPending)
	}
}

// Wait 阻塞直到句柄结束或 ctx 取消。
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.Data()
	case <-ctx.Done():
		return nil, fmt.Errorf("resource %q: %w", h.name, ctx.Err())
	}
}
