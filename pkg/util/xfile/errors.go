package xfile

import "errors"

var (
	// ErrEmptyPath 必需的路径参数为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 路径格式无效（目录路径、缺少文件名等）。
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 相对路径中出现 ".." 路径段。
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrPathEscaped 拼接结果超出基准目录。
	ErrPathEscaped = errors.New("xfile: path escapes base directory")

	// ErrNullByte 路径包含空字节，内核会在空字节处截断路径。
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrInvalidPerm 目录权限缺少所有者执行位，目录无法遍历。
	ErrInvalidPerm = errors.New("xfile: invalid directory permission")

	// ErrLocked 锁文件已被其他写者持有。
	ErrLocked = errors.New("xfile: file is locked by another writer")

	// ErrLockUnsupported 当前平台不支持咨询锁。
	ErrLockUnsupported = errors.New("xfile: file lock not supported on this platform")
)
