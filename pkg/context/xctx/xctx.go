package xctx

import "errors"

// contextKey 包私有 key 类型，字符串值便于调试时识别
type contextKey string

var (
	// ErrNilContext 传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrInvalidTraceID trace ID 不是 32 位非全零十六进制。
	ErrInvalidTraceID = errors.New("xctx: invalid trace_id")

	// ErrInvalidSpanID span ID 不是 16 位非全零十六进制。
	ErrInvalidSpanID = errors.New("xctx: invalid span_id")

	// ErrInvalidTraceFlags trace flags 不是 2 位十六进制。
	ErrInvalidTraceFlags = errors.New("xctx: invalid trace_flags")

	// ErrEmptyRunID run ID 为空。
	ErrEmptyRunID = errors.New("xctx: empty run_id")
)
