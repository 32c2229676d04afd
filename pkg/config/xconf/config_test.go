package xconf

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rotationSection struct {
	Path        string `koanf:"path"`
	MaxBytes    int64  `koanf:"max_bytes"`
	BackupCount int    `koanf:"backup_count"`
	FileMode    uint32 `koanf:"file_mode"`
}

type fileConfig struct {
	Rotation rotationSection `koanf:"rotation"`
	Log      struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

const yamlContent = `
rotation:
  path: /var/log/app/app.log
  max_bytes: 5000
  backup_count: 3
  file_mode: "0640"
log:
  level: debug
`

const jsonContent = `{
  "rotation": {"path": "/var/log/app/app.log", "max_bytes": 5000, "backup_count": 3},
  "log": {"level": "debug"}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// =============================================================================
// 格式识别
// =============================================================================

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    Format
		wantErr bool
	}{
		{"yaml", "a.yaml", FormatYAML, false},
		{"yml大写", "a.YML", FormatYAML, false},
		{"json", "/etc/a.json", FormatJSON, false},
		{"toml不支持", "a.toml", "", true},
		{"无扩展名", "config", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// 加载
// =============================================================================

func TestNew_YAML(t *testing.T) {
	cfg, err := New(writeFile(t, "app.yaml", yamlContent))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Format())

	var fc fileConfig
	require.NoError(t, cfg.Unmarshal("", &fc))
	assert.Equal(t, "/var/log/app/app.log", fc.Rotation.Path)
	assert.Equal(t, int64(5000), fc.Rotation.MaxBytes)
	assert.Equal(t, 3, fc.Rotation.BackupCount)
	assert.Equal(t, uint32(0o640), fc.Rotation.FileMode)
	assert.Equal(t, "debug", fc.Log.Level)
}

func TestNew_JSONSection(t *testing.T) {
	cfg, err := New(writeFile(t, "app.json", jsonContent))
	require.NoError(t, err)

	var rs rotationSection
	require.NoError(t, cfg.Unmarshal("rotation", &rs))
	assert.Equal(t, int64(5000), rs.MaxBytes)
	assert.True(t, cfg.Exists("log.level"))
	assert.False(t, cfg.Exists("log.format"))
	assert.Equal(t, "debug", cfg.Koanf().String("log.level"))
}

func TestNew_Errors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoad)

	_, err = New(writeFile(t, "bad.json", "{not json"))
	assert.ErrorIs(t, err, ErrParse)

	_, err = New("conf.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNew_EmptyFile(t *testing.T) {
	cfg, err := New(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)

	var fc fileConfig
	require.NoError(t, cfg.Unmarshal("", &fc))
	assert.Zero(t, fc.Rotation.MaxBytes)
}

func TestLoad(t *testing.T) {
	var fc fileConfig
	cfg, err := Load(writeFile(t, "app.yml", yamlContent), &fc)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Path())
	assert.Equal(t, 3, fc.Rotation.BackupCount)

	_, err = Load(writeFile(t, "wrong.yaml", "rotation:\n  max_bytes: lots\n"), &fc)
	assert.ErrorIs(t, err, ErrUnmarshal)
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte(jsonContent), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())
	assert.Equal(t, int64(5000), cfg.Koanf().Int64("rotation.max_bytes"))
	assert.ErrorIs(t, cfg.Reload(), ErrNotFileBacked)

	_, err = NewFromBytes(nil, Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	empty, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.False(t, empty.Exists("rotation"))
}

func TestOptions(t *testing.T) {
	cfg, err := NewFromBytes([]byte(jsonContent), FormatJSON, WithDelim("/"), WithTag("json"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Koanf().String("log/level"))

	var rs struct {
		MaxBytes int64 `json:"max_bytes"`
	}
	require.NoError(t, cfg.Unmarshal("rotation", &rs))
	assert.Equal(t, int64(5000), rs.MaxBytes)
}

// =============================================================================
// 重载
// =============================================================================

func TestReload(t *testing.T) {
	path := writeFile(t, "app.yaml", yamlContent)
	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, "error", cfg.Koanf().String("log.level"))
	assert.False(t, cfg.Exists("rotation"))
}

func TestReload_KeepsOldOnParseError(t *testing.T) {
	path := writeFile(t, "app.json", jsonContent)
	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	require.ErrorIs(t, cfg.Reload(), ErrParse)
	assert.Equal(t, "debug", cfg.Koanf().String("log.level"))
}

func TestReload_Concurrent(t *testing.T) {
	cfg, err := New(writeFile(t, "app.yaml", yamlContent))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cfg.Reload())
		}()
		go func() {
			defer wg.Done()
			var rs rotationSection
			assert.NoError(t, cfg.Unmarshal("rotation", &rs))
		}()
	}
	wg.Wait()
}
