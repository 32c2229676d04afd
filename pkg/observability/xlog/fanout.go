package xlog

import (
	"context"
	"errors"
	"log/slog"
)

// FanoutHandler 将每条记录分别交给多个 handler（如文件与控制台）。
//
// 各 handler 独立判断级别、独立处理；某个 sink 失败不影响其余 sink，
// 所有失败通过 errors.Join 合并返回。
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler 创建扇出 handler，nil 元素被忽略。
func NewFanoutHandler(handlers ...slog.Handler) (*FanoutHandler, error) {
	hs := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	if len(hs) == 0 {
		return nil, ErrNilHandler
	}
	return &FanoutHandler{handlers: hs}, nil
}

// Enabled 任一 handler 启用即启用。
func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle 依次分发，每个 handler 收到独立的 Record 副本。
func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, r.Level) {
			continue
		}
		if err := hh.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs 实现 slog.Handler。
func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		hs[i] = hh.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: hs}
}

// WithGroup 实现 slog.Handler。
func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	hs := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		hs[i] = hh.WithGroup(name)
	}
	return &FanoutHandler{handlers: hs}
}
