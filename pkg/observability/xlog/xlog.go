package xlog

import (
	"context"
	"log/slog"
)

// Logger 日志接口。
//
// 所有方法都要求 context，富化 Handler 从中提取 trace/run 字段；
// 属性只接受 slog.Attr，避免隐式 key-value 转换。
//
// 本包不提供进程级全局 Logger：Logger 由 [Builder.Build] 构造，
// 显式传递给需要它的组件。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// Stack 记录带当前 goroutine 调用栈的 ERROR 日志
	Stack(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带固定属性的派生 Logger，与父级共享级别和错误回调
	With(attrs ...slog.Attr) Logger

	// WithGroup 返回带分组的派生 Logger
	WithGroup(name string) Logger
}

// Leveler 运行时级别控制。
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel Build 的返回类型，省去调用方的类型断言。
type LoggerWithLevel interface {
	Logger
	Leveler
}

// ErrorCounter 暴露 Handle 失败次数，Build 返回的 Logger 实现该接口。
type ErrorCounter interface {
	ErrorCount() uint64
}
