package xlog

import (
	"context"
	"log/slog"

	"github.com/omeyang/xrotlog/pkg/context/xctx"
)

// maxEnrichAttrs run_id + trace 三个字段
const maxEnrichAttrs = 4

// EnrichHandler 从 context 提取 run_id 和 trace 字段追加到每条记录。
//
// 调用 WithGroup 后，注入的字段同样位于该分组下。
type EnrichHandler struct {
	base slog.Handler
}

// NewEnrichHandler 包装 base。
func NewEnrichHandler(base slog.Handler) (*EnrichHandler, error) {
	if base == nil {
		return nil, ErrNilHandler
	}
	return &EnrichHandler{base: base}, nil
}

// Enabled 委托底层 handler。
func (h *EnrichHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle 追加 context 字段后交给底层 handler，按 slog 约定先 Clone 再修改。
func (h *EnrichHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf [maxEnrichAttrs]slog.Attr
	attrs := xctx.AppendAttrs(buf[:0], ctx)
	if len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.base.Handle(ctx, r)
}

// WithAttrs 实现 slog.Handler。
func (h *EnrichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EnrichHandler{base: h.base.WithAttrs(attrs)}
}

// WithGroup 实现 slog.Handler。
func (h *EnrichHandler) WithGroup(name string) slog.Handler {
	return &EnrichHandler{base: h.base.WithGroup(name)}
}
