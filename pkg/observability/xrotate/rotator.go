package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 隐式实现 [io.WriteCloser]，可直接作为 xlog 的文件输出目标。
// 所有实现都必须是并发安全的。
//
// 实现约定：
//   - 单次 Write 的数据不会被拆分到两个文件
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]，重复 Close 也返回 [ErrClosed]
//   - Rotate 可以在任意时刻调用
type Rotator interface {
	// Write 追加一条记录，满足轮转条件时在返回前同步完成轮转
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器，释放文件句柄
	Close() error

	// Rotate 手动触发轮转
	Rotate() error
}
