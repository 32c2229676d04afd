package xlog

import (
	"context"
	"log/slog"
)

// LogFailure 记录一次可恢复的失败：输出恰好一条 ERROR 日志，调用方随后继续执行。
//
// 适用于"捕获错误、记录、继续处理下一项"的循环，例如逐行处理输入时某一行解析失败。
// err 为 nil 时不输出任何内容并返回 false。
//
//	for _, line := range lines {
//		if err := handle(line); xlog.LogFailure(ctx, logger, "skip line", err, xlog.Count(n)) {
//			continue
//		}
//	}
func LogFailure(ctx context.Context, logger Logger, msg string, err error, attrs ...slog.Attr) bool {
	if err == nil {
		return false
	}
	if logger == nil {
		return true
	}
	all := make([]slog.Attr, 0, len(attrs)+1)
	all = append(all, Err(err))
	all = append(all, attrs...)
	logger.Error(ctx, msg, all...)
	return true
}
