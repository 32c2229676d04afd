package xctx

import (
	"context"
	"fmt"
)

// 日志属性 key，遵循 OpenTelemetry 语义约定
const (
	KeyTraceID    = "trace_id"
	KeySpanID     = "span_id"
	KeyTraceFlags = "trace_flags"
)

const (
	keyTraceID    = contextKey("xctx:trace_id")
	keySpanID     = contextKey("xctx:span_id")
	keyTraceFlags = contextKey("xctx:trace_flags")
)

// WithTraceID 注入 W3C trace ID（32 位小写或大写十六进制，不能全零）。
func WithTraceID(ctx context.Context, traceID string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if !isHexID(traceID, 32) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTraceID, traceID)
	}
	return context.WithValue(ctx, keyTraceID, traceID), nil
}

// TraceID 提取 trace ID，不存在返回空字符串。
func TraceID(ctx context.Context) string {
	return stringValue(ctx, keyTraceID)
}

// WithSpanID 注入 W3C span ID（16 位十六进制，不能全零）。
func WithSpanID(ctx context.Context, spanID string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if !isHexID(spanID, 16) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpanID, spanID)
	}
	return context.WithValue(ctx, keySpanID, spanID), nil
}

// SpanID 提取 span ID，不存在返回空字符串。
func SpanID(ctx context.Context) string {
	return stringValue(ctx, keySpanID)
}

// WithTraceFlags 注入 trace flags（2 位十六进制，如 "01" 表示已采样）。
func WithTraceFlags(ctx context.Context, flags string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if len(flags) != 2 || !isHex(flags) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTraceFlags, flags)
	}
	return context.WithValue(ctx, keyTraceFlags, flags), nil
}

// TraceFlags 提取 trace flags，不存在返回空字符串。
func TraceFlags(ctx context.Context) string {
	return stringValue(ctx, keyTraceFlags)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string) //nolint:errcheck // 类型断言失败返回零值
	return v
}

// isHexID 长度为 n、全为十六进制字符且不全为 '0'
func isHexID(s string, n int) bool {
	if len(s) != n || !isHex(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return true
		}
	}
	return false
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
