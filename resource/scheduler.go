package resource

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader 按名称加载资源内容。
type Loader interface {
	Load(ctx context.Context, name string) (any, error)
}

// LoaderFunc 让普通函数满足 Loader。
type LoaderFunc func(ctx context.Context, name string) (any, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, name string) (any, error) { return f(ctx, name) }

// Scheduler 负责在布局调用路径之外解析 Pending 句柄。同名请求共享同一个句柄。
type Scheduler struct {
	loader Loader
	limit  int
	log    *zap.Logger

	mu      sync.Mutex
	handles map[string]*Handle
	order   []*Handle
}

// NewScheduler 创建调度器，limit <= 0 表示不限制并发。
func NewScheduler(loader Loader, limit int, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		loader:  loader,
		limit:   limit,
		log:     log.Named("resource"),
		handles: map[string]*Handle{},
	}
}

// Request 返回名称对应的句柄，首次请求时创建 Pending 句柄。
func (s *Scheduler) Request(name string) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[name]; ok {
		return h
	}
	h := NewHandle(name)
	s.handles[name] = h
	s.order = append(s.order, h)
	return h
}

// Pending 返回仍处于 Pending 状态的句柄，按请求顺序排列。
func (s *Scheduler) Pending() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Handle
	for _, h := range s.order {
		if h.State() == StatePending {
			out = append(out, h)
		}
	}
	return out
}

// Run 并发加载所有 Pending 句柄。单个资源失败只会让对应句柄 Failed，
// 所有失败合并后返回。
func (s *Scheduler) Run(ctx context.Context) error {
	pending := s.Pending()
	if len(pending) == 0 {
		return nil
	}
	if s.loader == nil {
		return fmt.Errorf("resource: no loader for %d pending resources", len(pending))
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}

	var (
		mu   sync.Mutex
		errs error
	)
	for _, h := range pending {
		g.Go(func() error {
			data, err := s.loader.Load(gctx, h.Name())
			if err != nil {
				err = fmt.Errorf("load %q: %w", h.Name(), err)
				s.log.Warn("Unable to load resource", zap.String("name", h.Name()), zap.Error(err))
				h.Fail(err)
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				return nil
			}
			h.Resolve(data)
			s.log.Debug("Resource loaded", zap.String("name", h.Name()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errs
}

// AwaitAll 等待所有句柄结束，并合并失败。
func AwaitAll(ctx context.Context, handles ...*Handle) error {
	var errs error
	for _, h := range handles {
		if h == nil {
			continue
		}
		if _, err := h.Wait(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
