package xrun

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// DefaultSignals SIGINT、SIGTERM、SIGHUP
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}
}

// Run 运行 services 直到全部返回，收到 DefaultSignals 时取消并返回 *SignalError。
func Run(ctx context.Context, services ...func(ctx context.Context) error) error {
	return RunWithOptions(ctx, nil, services...)
}

// RunWithOptions 与 Run 相同，支持 WithSignals 等选项。
func RunWithOptions(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignals {
		g.Go(g.watchSignals)
	}
	for _, svc := range services {
		g.Go(svc)
	}
	return g.Wait()
}

// watchSignals 收到信号后以 *SignalError 取消整个组
func (g *Group) watchSignals(ctx context.Context) error {
	signals := g.opts.signals
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	defer signal.Stop(ch)

	var sig os.Signal
	select {
	case sig = <-ch:
	case sig = <-g.opts.sigSource:
	case <-ctx.Done():
		return ctx.Err()
	}

	if g.opts.logger != nil {
		g.opts.logger.Info(ctx, "received signal",
			slog.String("group", g.opts.name),
			slog.String("signal", sig.String()),
		)
	}
	g.Cancel(&SignalError{Signal: sig})
	return nil
}
