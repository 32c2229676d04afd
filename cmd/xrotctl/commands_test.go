package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
	"github.com/omeyang/xrotlog/pkg/util/xfile"
)

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

// =============================================================================
// 退出码
// =============================================================================

func TestExitCode(t *testing.T) {
	var stderr strings.Builder
	assert.Equal(t, exitFailure, exitCode(errors.New("boom"), &stderr))
	assert.Contains(t, stderr.String(), "boom")

	assert.Equal(t, exitUsage, exitCode(usagef("bad %s", "flag"), &stderr))
	assert.Equal(t, exitUsage, exitCode(errors.New(`Required flag "path" not set`), &stderr))
	assert.Equal(t, 7, exitCode(&exitError{code: 7}, &stderr))
	assert.Equal(t, "exit status 7", (&exitError{code: 7}).Error())
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, _ := runCLI(t, nil, "inspect", "--path", "a.log", "--nope")
	assert.Equal(t, exitUsage, code)
}

// =============================================================================
// demo
// =============================================================================

func TestDemo(t *testing.T) {
	tests := []struct {
		name      string
		records   int
		rotations int
		active    int64
		backup1   int64
	}{
		{"未达阈值", 100, 0, 1000, -1},
		{"一次轮转", 999, 1, 4990, 5000},
		{"边界记录触发第二次轮转", 1000, 2, 0, 5000},
		{"丢弃最旧备份", 2000, 4, 0, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			code, out, errOut := runCLI(t, nil, "demo", "--dir", dir, "--records", strconv.Itoa(tt.records))
			require.Equal(t, exitOK, code, errOut)
			assert.Contains(t, out, "rotations: "+strconv.Itoa(tt.rotations))

			path := filepath.Join(dir, "demo.log")
			assert.Equal(t, tt.active, fileSize(t, path))
			if tt.backup1 >= 0 {
				assert.Equal(t, tt.backup1, fileSize(t, path+".1"))
			}
			_, err := os.Stat(path + ".4")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestDemo_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"size过小", []string{"--size", "1"}},
		{"负记录数", []string{"--records", "-1"}},
		{"maxBytes为0", []string{"--max-bytes", "0"}},
		{"负备份数", []string{"--backups", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"demo", "--dir", t.TempDir()}, tt.args...)
			code, _, errOut := runCLI(t, nil, args...)
			assert.Equal(t, exitUsage, code, errOut)
		})
	}
}

func TestDemoRecord(t *testing.T) {
	assert.Equal(t, "000000042\n", string(demoRecord(42, 10)))
	assert.Equal(t, "5\n", string(demoRecord(12345, 2)))
}

// =============================================================================
// inspect
// =============================================================================

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	code, _, _ := runCLI(t, nil, "demo", "--dir", dir, "--records", "999")
	require.Equal(t, exitOK, code)
	path := filepath.Join(dir, "demo.log")

	code, out, _ := runCLI(t, nil, "inspect", "--path", path, "--backups", "3")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, path+".1")
	assert.Regexp(t, `demo\.log\s+true\s+4990`, out)
	assert.Regexp(t, `demo\.log\.2\s+false\s+0`, out)
}

func TestInspect_Checksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o600))

	code, out, _ := runCLI(t, nil, "inspect", "--path", path, "--backups", "1", "--checksum")
	require.Equal(t, exitOK, code)

	sum, err := xfile.Checksum(path)
	require.NoError(t, err)
	assert.Contains(t, out, "XXHASH")
	assert.Contains(t, out, strconv.FormatUint(sum, 16))
}

func TestInspect_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))
	require.NoError(t, os.WriteFile(path+".1", []byte("01234"), 0o600))

	code, out, _ := runCLI(t, nil, "inspect", "--path", path, "--backups", "2", "--json")
	require.Equal(t, exitOK, code)

	var report inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 3)
	assert.Equal(t, int64(15), report.TotalBytes)
	assert.True(t, report.Contiguous)
	assert.False(t, report.Files[2].Exists)
}

func TestInspect_Gap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path+".2", []byte("x"), 0o600))

	code, out, _ := runCLI(t, nil, "inspect", "--path", path, "--backups", "3")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out, "not contiguous")

	code, out, _ = runCLI(t, nil, "inspect", "--path", path, "--backups", "3", "--json")
	assert.Equal(t, exitFailure, code)
	var report inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Contiguous)
	assert.NotEmpty(t, report.Error)
}

func TestInspect_Usage(t *testing.T) {
	code, _, _ := runCLI(t, nil, "inspect")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, nil, "inspect", "--path", "a.log", "--backups", "-1")
	assert.Equal(t, exitUsage, code)
}

// =============================================================================
// rotate
// =============================================================================

func TestRotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o600))
	require.NoError(t, os.WriteFile(path+".1", []byte("older\n"), 0o600))

	code, out, errOut := runCLI(t, nil, "rotate", "--path", path, "--backups", "3")
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "6 bytes archived")

	data, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
	data, err = os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "older\n", string(data))
	assert.Zero(t, fileSize(t, path))
}

func TestRotate_Locked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	lk, err := xfile.TryLock(path + ".lock")
	require.NoError(t, err)
	defer func() { _ = lk.Unlock() }()

	code, _, errOut := runCLI(t, nil, "rotate", "--path", path)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut, "lock")
}

func TestRotate_Usage(t *testing.T) {
	code, _, _ := runCLI(t, nil, "rotate", "--path", filepath.Join(t.TempDir(), "a.log"), "--backups", "-2")
	assert.Equal(t, exitUsage, code)
}

func TestRetryable(t *testing.T) {
	ioErr := &xrotate.IOError{Op: xrotate.OpWrite, Path: "a", Err: errors.New("EIO")}
	assert.True(t, retryable(ioErr))
	assert.False(t, retryable(xrotate.ErrDegraded))
	assert.False(t, retryable(xrotate.ErrClosed))
	assert.False(t, retryable(errors.New("other")))
}
