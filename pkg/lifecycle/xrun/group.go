package xrun

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xrotlog/pkg/observability/xlog"
)

// Group 一组协同运行的服务：任一服务返回错误或 Cancel 被调用，
// 其余服务的 ctx 都会被取消。
//
// Go、GoWithName、Cancel 可并发调用，Wait 只调用一次。
type Group struct {
	eg     *errgroup.Group
	ctx    context.Context
	parent context.Context // 带 cause 的外层 ctx，用于区分取消来源
	cancel context.CancelCauseFunc
	opts   *options
}

// NewGroup 创建 Group，返回的 ctx 在组内任一服务失败时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	parent, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(parent)
	return &Group{eg: eg, ctx: egCtx, parent: parent, cancel: cancel, opts: o}, egCtx
}

// Go 在新 goroutine 中运行 fn。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，并在配置了 logger 时记录服务的启停。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		g.debug("service starting", name)
		start := time.Now()
		err := fn(g.ctx)
		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			if g.opts.logger != nil {
				g.opts.logger.Warn(g.ctx, "service exited with error",
					slog.String("group", g.opts.name),
					slog.String("service", name),
					xlog.Duration(time.Since(start)),
					xlog.Err(err),
				)
			}
		default:
			g.debug("service stopped", name)
		}
		return err
	})
}

func (g *Group) debug(msg, service string) {
	if g.opts.logger == nil {
		return
	}
	g.opts.logger.Debug(g.ctx, msg,
		slog.String("group", g.opts.name),
		slog.String("service", service),
	)
}

// Wait 等待所有服务返回。
//
// 返回第一个非取消类错误；组被 Cancel(cause) 取消时返回 cause，
// 例如信号退出时的 *SignalError。没有显式 cause 的正常取消返回 nil。
// 服务自身产生的 context.Canceled（组未被取消）原样返回。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	canceled := g.parent.Err() != nil
	cause := context.Cause(g.parent)
	explicit := canceled && cause != nil && !errors.Is(cause, context.Canceled)

	switch {
	case errors.Is(err, context.Canceled) && canceled:
		if explicit {
			return cause
		}
		return nil
	case err == nil && explicit:
		return cause
	default:
		return err
	}
}

// Cancel 取消所有服务，cause 将作为 Wait 的返回值。
// cause 不应包装 context.Canceled，否则会被当作普通取消过滤。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 组内服务共享的 ctx
func (g *Group) Context() context.Context {
	return g.ctx
}
