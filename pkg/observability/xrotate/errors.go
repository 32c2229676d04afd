package xrotate

import (
	"errors"
	"fmt"
	"strings"
)

// 配置校验错误，均可通过 errors.Is(err, ErrInvalidConfig) 统一判断。
var (
	// ErrInvalidConfig 轮转策略配置无效，轮转器不会被创建
	ErrInvalidConfig = errors.New("xrotate: invalid configuration")

	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = fmt.Errorf("%w: filename is required", ErrInvalidConfig)

	// ErrInvalidMaxBytes MaxBytes 必须为正数
	ErrInvalidMaxBytes = fmt.Errorf("%w: invalid MaxBytes", ErrInvalidConfig)

	// ErrInvalidBackupCount BackupCount 必须在 0~1024 范围内
	ErrInvalidBackupCount = fmt.Errorf("%w: invalid BackupCount", ErrInvalidConfig)

	// ErrInvalidMaxSize MaxSizeMB 必须在 1~10240 范围内（仅 lumberjack）
	ErrInvalidMaxSize = fmt.Errorf("%w: invalid MaxSizeMB", ErrInvalidConfig)

	// ErrInvalidMaxBackups MaxBackups 必须在 0~1024 范围内（仅 lumberjack）
	ErrInvalidMaxBackups = fmt.Errorf("%w: invalid MaxBackups", ErrInvalidConfig)

	// ErrInvalidMaxAge MaxAgeDays 必须在 0~3650 范围内（仅 lumberjack）
	ErrInvalidMaxAge = fmt.Errorf("%w: invalid MaxAgeDays", ErrInvalidConfig)

	// ErrNoCleanupPolicy MaxBackups 和 MaxAgeDays 不能同时为 0（仅 lumberjack）
	ErrNoCleanupPolicy = fmt.Errorf("%w: no cleanup policy configured", ErrInvalidConfig)

	// ErrInvalidFileMode FileMode 包含非权限位（仅允许 0000~0777）
	ErrInvalidFileMode = fmt.Errorf("%w: invalid FileMode", ErrInvalidConfig)
)

// 运行期错误
var (
	// ErrIO 底层存储操作失败（写入、重命名、删除、创建等）。
	// 所有 *IOError 以及 ErrDegraded 都匹配此错误。
	ErrIO = errors.New("xrotate: I/O failure")

	// ErrDegraded 轮转器处于降级状态：内部记账无法与磁盘状态对齐，
	// 后续所有 Write/Rotate 都返回此错误，直到重新构造轮转器。
	ErrDegraded = fmt.Errorf("%w: writer degraded", ErrIO)

	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")
)

// 存储操作名称，用于 IOError.Op
const (
	OpOpen     = "open"
	OpWrite    = "write"
	OpStat     = "stat"
	OpRemove   = "remove"
	OpRename   = "rename"
	OpTruncate = "truncate"
	OpClose    = "close"
	OpSync     = "sync"
	OpLock     = "lock"
)

// IOError 描述一次失败的存储操作。
//
// errors.Is(err, ErrIO) 对所有 IOError 成立；Unwrap 返回底层系统错误，
// 因此 errors.Is(err, fs.ErrPermission) 等判断同样可用。
type IOError struct {
	Op   string
	Path string
	Err  error
}

func newIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// Error 实现 error 接口。
func (e *IOError) Error() string {
	return fmt.Sprintf("xrotate: %s %s: %v", e.Op, e.Path, e.Err)
}

// Is 支持 errors.Is(err, ErrIO)。
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// Unwrap 返回底层错误。
func (e *IOError) Unwrap() error {
	return e.Err
}

// LayoutError 表示备份文件序号不连续（例如 .1 缺失而 .2 存在）。
type LayoutError struct {
	Path string
	// Gaps 缺失的序号（其后仍有更大序号的备份存在）
	Gaps []int
}

// Error 实现 error 接口。
func (e *LayoutError) Error() string {
	parts := make([]string, len(e.Gaps))
	for i, g := range e.Gaps {
		parts[i] = fmt.Sprintf(".%d", g)
	}
	return fmt.Sprintf("xrotate: backups of %s are not contiguous, missing %s",
		e.Path, strings.Join(parts, ", "))
}
