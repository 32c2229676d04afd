package xrotate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLumberjack_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	tests := []struct {
		name    string
		path    string
		opts    []LumberjackOption
		wantErr error
	}{
		{name: "空路径", path: "", wantErr: ErrEmptyFilename},
		{name: "大小为0", path: path, opts: []LumberjackOption{WithMaxSizeMB(0)}, wantErr: ErrInvalidMaxSize},
		{name: "大小超上限", path: path, opts: []LumberjackOption{WithMaxSizeMB(maxSizeMB + 1)}, wantErr: ErrInvalidMaxSize},
		{name: "备份数为负", path: path, opts: []LumberjackOption{WithMaxBackups(-1)}, wantErr: ErrInvalidMaxBackups},
		{name: "天数为负", path: path, opts: []LumberjackOption{WithMaxAge(-1)}, wantErr: ErrInvalidMaxAge},
		{name: "无清理策略", path: path, opts: []LumberjackOption{WithMaxBackups(0), WithMaxAge(0)}, wantErr: ErrNoCleanupPolicy},
		{name: "非权限位", path: path, opts: []LumberjackOption{WithLumberjackFileMode(os.ModeSticky | 0o644)}, wantErr: ErrInvalidFileMode},
		{name: "路径穿越", path: "../x.log", wantErr: ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewLumberjack(tt.path, tt.opts...)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLumberjack_WriteRotateClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	r, err := NewLumberjack(path, WithMaxSizeMB(1), WithMaxBackups(2), WithLocalTime(true))
	require.NoError(t, err)
	assert.Equal(t, path, r.Path())

	_, err = r.Write([]byte("before\n"))
	require.NoError(t, err)
	require.NoError(t, r.Rotate())
	_, err = r.Write([]byte("after\n"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "after\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "app-") {
			backups++
		}
	}
	assert.Equal(t, 1, backups, "时间戳命名的备份")

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrClosed)
	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Rotate(), ErrClosed)
}

func TestLumberjack_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	r, err := NewLumberjack(path, WithLumberjackFileMode(0o640))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("x\n"))
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	require.NoError(t, r.Rotate())
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm(), "轮转后的新文件同样调整")
}

func TestLumberjack_ChmodErrorReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var reported []error
	r, err := NewLumberjack(path,
		WithLumberjackFileMode(0o640),
		WithLumberjackOnError(func(err error) { reported = append(reported, err) }),
	)
	require.NoError(t, err)
	defer r.Close()
	r.chmod = func(string, os.FileMode) error { return os.ErrPermission }

	_, err = r.Write([]byte("x\n"))
	require.NoError(t, err, "权限调整失败不影响写入")
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrIO)
	assert.ErrorIs(t, reported[0], os.ErrPermission)

	// 仍未调整成功，下次写入继续尝试
	_, err = r.Write([]byte("y\n"))
	require.NoError(t, err)
	assert.Len(t, reported, 2)
}
