package xfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SanitizePath
// =============================================================================

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "绝对路径", input: "/var/log/app.log", want: "/var/log/app.log"},
		{name: "相对路径", input: "logs/app.log", want: "logs/app.log"},
		{name: "文件名包含双点", input: "app..1.log", want: "app..1.log"},
		{name: "冗余分隔符", input: "/var//log/./app.log", want: "/var/log/app.log"},
		{name: "绝对路径中的双点被折叠", input: "/var/log/../tmp/app.log", want: "/var/tmp/app.log"},
		{name: "空路径", input: "", wantErr: ErrEmptyPath},
		{name: "空字节", input: "app\x00.log", wantErr: ErrNullByte},
		{name: "尾部斜杠", input: "/var/log/", wantErr: ErrInvalidPath},
		{name: "尾部反斜杠", input: `logs\`, wantErr: ErrInvalidPath},
		{name: "相对穿越", input: "../etc/passwd", wantErr: ErrPathTraversal},
		{name: "只有点", input: ".", wantErr: ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

// =============================================================================
// SafeJoin
// =============================================================================

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		base    string
		in      string
		want    string
		wantErr error
	}{
		{name: "普通文件名", base: base, in: "app.log", want: filepath.Join(base, "app.log")},
		{name: "子目录", base: base, in: "svc/app.log", want: filepath.Join(base, "svc", "app.log")},
		{name: "双点开头的文件名", base: base, in: "..config", want: filepath.Join(base, "..config")},
		{name: "路径穿越", base: base, in: "../etc/passwd", wantErr: ErrPathTraversal},
		{name: "绝对路径", base: base, in: "/etc/passwd", wantErr: ErrInvalidPath},
		{name: "相对基准目录", base: "logs", in: "app.log", wantErr: ErrInvalidPath},
		{name: "空名称", base: base, in: "", wantErr: ErrEmptyPath},
		{name: "空字节", base: base, in: "a\x00b", wantErr: ErrNullByte},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(tt.base, tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// EnsureDir
// =============================================================================

func TestEnsureDir(t *testing.T) {
	t.Run("创建多级父目录", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "a", "b", "app.log")

		require.NoError(t, EnsureDir(filename))
		assert.DirExists(t, filepath.Join(dir, "a", "b"))
		// 幂等
		require.NoError(t, EnsureDir(filename))
	})

	t.Run("当前目录文件", func(t *testing.T) {
		assert.NoError(t, EnsureDir("app.log"))
	})

	t.Run("空路径", func(t *testing.T) {
		assert.ErrorIs(t, EnsureDir(""), ErrEmptyPath)
	})

	t.Run("缺少执行位", func(t *testing.T) {
		err := EnsureDirWithPerm(filepath.Join(t.TempDir(), "x", "app.log"), 0o640)
		assert.ErrorIs(t, err, ErrInvalidPerm)
	})
}

func FuzzSanitizePath(f *testing.F) {
	for _, seed := range []string{"app.log", "/var/log/app.log", "../x", "a/../../b", "..config", "a\x00b"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		got, err := SanitizePath(in)
		if err != nil {
			return
		}
		if hasDotDotSegment(got) {
			t.Fatalf("SanitizePath(%q) = %q contains traversal", in, got)
		}
		if got == "" {
			t.Fatalf("SanitizePath(%q) returned empty path", in)
		}
	})
}
