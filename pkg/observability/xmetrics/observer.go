package xmetrics

import (
	"context"
	"strconv"
)

// Kind 观测跨度类型。
type Kind int

const (
	// KindInternal 进程内操作（文件轮转、本地写入）。
	KindInternal Kind = iota
	// KindServer 服务端处理。
	KindServer
	// KindClient 客户端调用。
	KindClient
)

// String 返回 Kind 的可读名称。
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "Internal"
	case KindServer:
		return "Server"
	case KindClient:
		return "Client"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Status 观测结果状态。
type Status string

const (
	// StatusOK 成功。
	StatusOK Status = "ok"
	// StatusError 失败。
	StatusError Status = "error"
)

// Attr 观测属性。
type Attr struct {
	Key   string
	Value any
}

// SpanOptions 观测跨度的创建参数。
type SpanOptions struct {
	// Component 组件名，如 "xrotate"。
	Component string
	// Operation 操作名，如 "rotate"。
	Operation string
	Kind      Kind
	Attrs     []Attr
}

// Result 观测跨度结束时的结果。
type Result struct {
	// Status 为空时根据 Err 推导。
	Status Status
	Err    error
	// Bytes 本次操作涉及的字节数（归档大小、写入长度），0 表示不计入字节指标。
	Bytes int64
	Attrs []Attr
}

// Span 一次观测跨度。
type Span interface {
	// End 结束观测并记录结果，实现应保证幂等。
	End(result Result)
}

// Observer 统一观测接口。
type Observer interface {
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 空实现。
type NoopObserver struct{}

// Start 返回 ctx 和空跨度，nil ctx 被替换为 context.Background()。
func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 空跨度。
type NoopSpan struct{}

// End 空实现。
func (NoopSpan) End(Result) {}

// Start 通过 observer 开始观测。
//
// 保证返回非 nil 的 ctx 和 Span：observer 为 nil，
// 或自定义 Observer 返回 nil 值时，分别兜底为入参 ctx 和 [NoopSpan]。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.Start(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}
