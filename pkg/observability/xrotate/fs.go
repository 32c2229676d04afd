package xrotate

//go:generate mockgen -source=fs.go -destination=mock_fs_test.go -package=xrotate

import (
	"io"
	"os"
)

// logFile 活动日志文件句柄的最小接口，*os.File 满足此接口。
type logFile interface {
	io.WriteCloser
	Stat() (os.FileInfo, error)
	Truncate(size int64) error
	Sync() error
}

// fileSystem 轮转器依赖的文件系统操作。
// 生产环境使用 osFS；测试中替换为 mock 以注入存储故障。
type fileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (logFile, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

type osFS struct{}

func (osFS) OpenFile(name string, flag int, perm os.FileMode) (logFile, error) {
	f, err := os.OpenFile(name, flag, perm) //#nosec G304 -- 路径已经过 xfile.SanitizePath
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (osFS) Remove(name string) error {
	return os.Remove(name)
}
