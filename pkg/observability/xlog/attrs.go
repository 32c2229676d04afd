package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 key
const (
	KeyError     = "error"
	KeyStack     = "stack"
	KeyDuration  = "duration"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyPath      = "path"
	KeyBytes     = "bytes"
	KeyCount     = "count"
)

// Err 错误属性；err 为 nil 时返回空属性，slog 会忽略它。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Path 文件路径属性
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Bytes 字节数属性
func Bytes(n int64) slog.Attr {
	return slog.Int64(KeyBytes, n)
}

// Count 计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}
