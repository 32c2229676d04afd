package xfile

import "os"

// FileLock 基于锁文件的非阻塞独占咨询锁，用于保证同一日志路径只有一个写者。
//
// 锁随文件描述符释放，进程崩溃后自动失效；锁文件本身不会被删除。
type FileLock struct {
	path string
	file *os.File
}

// TryLock 尝试获取 path 上的独占锁，锁文件不存在时创建（0600）。
//
// 锁已被持有时立即返回 ErrLocked；不支持的平台返回 ErrLockUnsupported。
func TryLock(path string) (*FileLock, error) {
	cleaned, err := SanitizePath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cleaned, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- 路径已清理
	if err != nil {
		return nil, err
	}
	if err := lockFile(f); err != nil {
		_ = f.Close() //nolint:errcheck // 返回加锁错误
		return nil, err
	}
	return &FileLock{path: cleaned, file: f}, nil
}

// Path 返回锁文件路径。
func (l *FileLock) Path() string {
	return l.path
}

// Unlock 释放锁并关闭锁文件，重复调用无副作用。
func (l *FileLock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	uerr := unlockFile(f)
	cerr := f.Close()
	if uerr != nil {
		return uerr
	}
	return cerr
}
