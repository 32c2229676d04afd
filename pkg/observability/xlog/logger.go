package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"
)

var (
	_ LoggerWithLevel = (*xlogger)(nil)
	_ ErrorCounter    = (*xlogger)(nil)
)

// xlogger Logger 的实现。派生 logger 共享 levelVar、errorCount 与递归保护标记。
type xlogger struct {
	handler        slog.Handler
	levelVar       *slog.LevelVar
	addSource      bool
	onError        func(error)
	errorCount     *atomic.Uint64
	inErrorHandler *atomic.Bool
}

// log 捕获调用者位置并交给 handler。
// skip=3: runtime.Callers -> log -> Info/Debug/... -> 业务代码
//
//go:noinline
func (l *xlogger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}
	var pc uintptr
	if l.addSource {
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}
	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	if err := l.handler.Handle(ctx, r); err != nil {
		l.handleError(err)
	}
}

// handleError 统计并通知 Handle 失败。
// 回调中再次触发的日志错误只计数不回调，回调 panic 被隔离。
func (l *xlogger) handleError(err error) {
	l.errorCount.Add(1)
	if l.onError == nil || !l.inErrorHandler.CompareAndSwap(false, true) {
		return
	}
	defer l.inErrorHandler.Store(false)
	defer func() {
		if recover() != nil {
			l.errorCount.Add(1)
		}
	}()
	l.onError(err)
}

// Debug 记录 DEBUG 日志
func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelDebug, msg, attrs)
}

// Info 记录 INFO 日志
func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, msg, attrs)
}

// Warn 记录 WARN 日志
func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelWarn, msg, attrs)
}

// Error 记录 ERROR 日志
func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelError, msg, attrs)
}

// Stack 记录带调用栈的 ERROR 日志
//
//go:noinline
func (l *xlogger) Stack(ctx context.Context, msg string, attrs ...slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+1)
	all = append(all, attrs...)
	all = append(all, slog.String(KeyStack, string(debug.Stack())))
	l.log(ctx, slog.LevelError, msg, all)
}

func (l *xlogger) derive(h slog.Handler) *xlogger {
	cp := *l
	cp.handler = h
	return &cp
}

// With 返回带固定属性的派生 Logger
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return l.derive(l.handler.WithAttrs(attrs))
}

// WithGroup 返回带分组的派生 Logger
func (l *xlogger) WithGroup(name string) Logger {
	if name == "" {
		return l
	}
	return l.derive(l.handler.WithGroup(name))
}

// SetLevel 运行时调整级别，所有派生 logger 同时生效
func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(slog.Level(level))
}

// GetLevel 当前级别
func (l *xlogger) GetLevel() Level {
	return Level(l.levelVar.Level())
}

// Enabled 指定级别是否会被输出
func (l *xlogger) Enabled(ctx context.Context, level Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.handler.Enabled(ctx, slog.Level(level))
}

// ErrorCount Handle 失败次数（含派生 logger）
func (l *xlogger) ErrorCount() uint64 {
	return l.errorCount.Load()
}
