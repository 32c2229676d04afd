package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirPerm 自动创建日志目录时使用的权限
const DefaultDirPerm os.FileMode = 0o750

// EnsureDir 确保 filename 的父目录存在，按 DefaultDirPerm 创建。
func EnsureDir(filename string) error {
	return EnsureDirWithPerm(filename, DefaultDirPerm)
}

// EnsureDirWithPerm 确保 filename 的父目录存在。
// 已存在的目录不会被修改权限；perm 必须包含所有者执行位。
func EnsureDirWithPerm(filename string, perm os.FileMode) error {
	if filename == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(filename, 0) {
		return ErrNullByte
	}
	if perm&0o100 == 0 {
		return fmt.Errorf("%w: %04o", ErrInvalidPerm, perm)
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}
