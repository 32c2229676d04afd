package xctx

import (
	"context"
	"log/slog"
)

// maxAttrs context 中可能携带的字段数
const maxAttrs = 4

// AppendAttrs 将 context 中的非空字段追加到 attrs，热路径可复用预分配切片。
func AppendAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if v := RunID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyRunID, v))
	}
	return AppendTraceAttrs(attrs, ctx)
}

// AppendTraceAttrs 只追加追踪字段（trace_id / span_id / trace_flags）。
func AppendTraceAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if v := TraceID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyTraceID, v))
	}
	if v := SpanID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeySpanID, v))
	}
	if v := TraceFlags(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyTraceFlags, v))
	}
	return attrs
}

// Attrs 返回 context 中全部非空字段，均为空时返回 nil。
func Attrs(ctx context.Context) []slog.Attr {
	attrs := AppendAttrs(make([]slog.Attr, 0, maxAttrs), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
