package xmetrics

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/omeyang/xrotlog/pkg/context/xctx"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xrotlog/xmetrics"
	unknownName                = "unknown"

	// MetricOperationTotal 操作次数计数器
	MetricOperationTotal = "xrotlog.operation.total"
	// MetricOperationDuration 操作耗时直方图（秒）
	MetricOperationDuration = "xrotlog.operation.duration"
	// MetricOperationBytes 操作涉及的字节数计数器
	MetricOperationBytes = "xrotlog.operation.bytes"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
}

// Option OTel Observer 配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 instrumentation 名称，空字符串忽略。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，默认使用 otel 全局实例。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用 otel 全局实例。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// OTelObserver 基于 OpenTelemetry 的 Observer。
//
// 每个跨度生成一个 trace span，并记录三个指标：
// xrotlog.operation.total、xrotlog.operation.duration、xrotlog.operation.bytes，
// 统一带 component / operation / status 属性。
type OTelObserver struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
	bytes    metric.Int64Counter
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。
func NewOTelObserver(opts ...Option) (*OTelObserver, error) {
	cfg := otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)
	total, err := meter.Int64Counter(MetricOperationTotal,
		metric.WithDescription("total operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter %s: %w", MetricOperationTotal, err)
	}
	duration, err := meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("operation duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create histogram %s: %w", MetricOperationDuration, err)
	}
	bytes, err := meter.Int64Counter(MetricOperationBytes,
		metric.WithDescription("bytes archived or written by operations"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter %s: %w", MetricOperationBytes, err)
	}

	return &OTelObserver{
		tracer:   cfg.tracerProvider.Tracer(cfg.instrumentationName),
		total:    total,
		duration: duration,
		bytes:    bytes,
	}, nil
}

// Start 开始一次观测跨度。
//
// ctx 中没有有效 span 但 xctx 携带了 trace/span ID 时，以其作为远端父跨度；
// 新跨度的 ID 会回写到返回的 ctx 中，供 xlog 富化使用。
func (o *OTelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = parentFromXctx(ctx)

	component := nonEmpty(opts.Component)
	operation := nonEmpty(opts.Operation)

	attrs := append([]attribute.KeyValue{
		attribute.String("component", component),
		attribute.String("operation", operation),
	}, toOTel(opts.Attrs)...)

	ctx, span := o.tracer.Start(ctx, component+"/"+operation,
		trace.WithSpanKind(spanKind(opts.Kind)),
		trace.WithAttributes(attrs...),
	)
	ctx = syncXctx(ctx, span.SpanContext())

	return ctx, &otelSpan{
		span:      span,
		observer:  o,
		ctx:       ctx,
		component: component,
		operation: operation,
		start:     time.Now(),
	}
}

type otelSpan struct {
	span      trace.Span
	observer  *OTelObserver
	ctx       context.Context
	component string
	operation string
	start     time.Time
	once      sync.Once
}

// End 结束跨度并记录指标，重复调用只生效一次。
func (s *otelSpan) End(result Result) {
	s.once.Do(func() {
		status := result.Status
		if status == "" {
			status = StatusOK
			if result.Err != nil {
				status = StatusError
			}
		}

		if result.Err != nil {
			s.span.RecordError(result.Err)
		}
		if status == StatusError {
			msg := "operation failed"
			if result.Err != nil {
				msg = result.Err.Error()
			}
			s.span.SetStatus(codes.Error, msg)
		} else {
			s.span.SetStatus(codes.Ok, "")
		}
		if len(result.Attrs) > 0 {
			s.span.SetAttributes(toOTel(result.Attrs)...)
		}
		s.span.End()

		// 调用方 ctx 可能已取消，指标仍需记录
		ctx := context.WithoutCancel(s.ctx)
		set := metric.WithAttributes(
			attribute.String("component", s.component),
			attribute.String("operation", s.operation),
			attribute.String("status", string(status)),
		)
		s.observer.total.Add(ctx, 1, set)
		s.observer.duration.Record(ctx, time.Since(s.start).Seconds(), set)
		if result.Bytes > 0 {
			s.observer.bytes.Add(ctx, result.Bytes, set)
		}
	})
}

func nonEmpty(s string) string {
	if s == "" {
		return unknownName
	}
	return s
}

func spanKind(kind Kind) trace.SpanKind {
	switch kind {
	case KindServer:
		return trace.SpanKindServer
	case KindClient:
		return trace.SpanKindClient
	default:
		return trace.SpanKindInternal
	}
}

func toOTel(attrs []Attr) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == "" || a.Value == nil {
			continue
		}
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case float64:
			out = append(out, attribute.Float64(a.Key, v))
		case time.Duration:
			out = append(out, attribute.Int64(a.Key, v.Nanoseconds()))
		default:
			out = append(out, attribute.String(a.Key, fmt.Sprint(v)))
		}
	}
	return out
}

// parentFromXctx 用 xctx 中的 trace 信息构造远端父跨度
func parentFromXctx(ctx context.Context) context.Context {
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	traceID, err := trace.TraceIDFromHex(xctx.TraceID(ctx))
	if err != nil {
		return ctx
	}
	spanID, err := trace.SpanIDFromHex(xctx.SpanID(ctx))
	if err != nil {
		return ctx
	}
	var flags trace.TraceFlags
	if parsed, err := strconv.ParseUint(xctx.TraceFlags(ctx), 16, 8); err == nil {
		flags = trace.TraceFlags(parsed)
	}
	return trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	}))
}

// syncXctx 将新跨度的 ID 写回 xctx
func syncXctx(ctx context.Context, sc trace.SpanContext) context.Context {
	if !sc.IsValid() {
		return ctx
	}
	if next, err := xctx.WithTraceID(ctx, sc.TraceID().String()); err == nil {
		ctx = next
	}
	if next, err := xctx.WithSpanID(ctx, sc.SpanID().String()); err == nil {
		ctx = next
	}
	if next, err := xctx.WithTraceFlags(ctx, sc.TraceFlags().String()); err == nil {
		ctx = next
	}
	return ctx
}

var _ Observer = (*OTelObserver)(nil)
