package xrotate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/omeyang/xrotlog/pkg/util/xfile"

	"gopkg.in/natefinch/lumberjack.v2"
)

// lumberjack 方案默认配置值
const (
	// DefaultMaxSizeMB 默认单个日志文件最大大小（MB）
	DefaultMaxSizeMB = 100

	// DefaultMaxBackups 默认保留的备份文件数量
	DefaultMaxBackups = 7

	// DefaultMaxAgeDays 默认保留备份的天数
	DefaultMaxAgeDays = 30

	maxSizeMB  = 10240
	maxAgeDays = 3650
)

// lumberjackConfig 时间戳备份方案的配置。
//
// 与编号方案不同，备份文件名为 name-<timestamp>.ext，阈值粒度为 MB，
// 并支持按天数清理和 gzip 压缩。
type lumberjackConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
	// fileMode 为 0 时保留 lumberjack 的 0600
	fileMode os.FileMode
	onError  func(error)
}

// LumberjackOption 时间戳备份方案的配置选项
type LumberjackOption func(*lumberjackConfig)

// WithMaxSizeMB 设置单个日志文件最大大小（MB）
func WithMaxSizeMB(mb int) LumberjackOption {
	return func(c *lumberjackConfig) {
		c.maxSizeMB = mb
	}
}

// WithMaxBackups 设置保留的备份数量，0 表示只按天数清理
func WithMaxBackups(n int) LumberjackOption {
	return func(c *lumberjackConfig) {
		c.maxBackups = n
	}
}

// WithMaxAge 设置备份保留天数，0 表示只按数量清理
func WithMaxAge(days int) LumberjackOption {
	return func(c *lumberjackConfig) {
		c.maxAgeDays = days
	}
}

// WithCompress 设置是否 gzip 压缩备份
func WithCompress(compress bool) LumberjackOption {
	return func(c *lumberjackConfig) {
		c.compress = compress
	}
}

// WithLocalTime 备份文件名使用本地时间（默认 UTC）
func WithLocalTime(local bool) LumberjackOption {
	return func(c *lumberjackConfig) {
		c.localTime = local
	}
}

// WithLumberjackFileMode 设置日志文件权限。
//
// lumberjack 固定以 0600 创建文件，这里在首次写入和每次轮转后通过 chmod 调整，
// 中间存在短暂的 0600 窗口。
func WithLumberjackFileMode(mode os.FileMode) LumberjackOption {
	return func(c *lumberjackConfig) {
		c.fileMode = mode
	}
}

// WithLumberjackOnError 设置内部错误回调（目前仅权限调整失败）。
// 回调不得向同一轮转器写入数据。
func WithLumberjackOnError(fn func(error)) LumberjackOption {
	return func(c *lumberjackConfig) {
		c.onError = fn
	}
}

func validateLumberjackConfig(cfg *lumberjackConfig) error {
	switch {
	case cfg.maxSizeMB <= 0 || cfg.maxSizeMB > maxSizeMB:
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.maxSizeMB, maxSizeMB)
	case cfg.maxBackups < 0 || cfg.maxBackups > maxBackupCount:
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.maxBackups, maxBackupCount)
	case cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxAgeDays:
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.maxAgeDays, maxAgeDays)
	case cfg.maxBackups == 0 && cfg.maxAgeDays == 0:
		return ErrNoCleanupPolicy
	case cfg.fileMode&^os.FileMode(0o777) != 0:
		return fmt.Errorf("%w: got %04o", ErrInvalidFileMode, cfg.fileMode)
	}
	return nil
}

// LumberjackRotator 时间戳备份方案，基于 gopkg.in/natefinch/lumberjack.v2。
//
// 满足与 [NumberedRotator] 相同的 [Rotator] 契约：
// I/O 错误包装为 *IOError，关闭后的调用返回 ErrClosed。
type LumberjackRotator struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	cfg    lumberjackConfig
	path   string
	closed bool

	// written 自上次权限校验以来写入的字节数，超过阈值说明可能发生了自动轮转
	written   int64
	modeDirty bool

	chmod func(string, os.FileMode) error
}

// NewLumberjack 创建时间戳备份方案的轮转器。
//
// 路径经过 xfile.SanitizePath 清理，父目录不存在时自动创建。
func NewLumberjack(path string, opts ...LumberjackOption) (*LumberjackRotator, error) {
	if path == "" {
		return nil, ErrEmptyFilename
	}
	cfg := lumberjackConfig{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateLumberjackConfig(&cfg); err != nil {
		return nil, err
	}

	cleaned, err := xfile.SanitizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := xfile.EnsureDir(cleaned); err != nil {
		return nil, newIOError(OpOpen, cleaned, err)
	}

	return &LumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   cleaned,
			MaxSize:    cfg.maxSizeMB,
			MaxBackups: cfg.maxBackups,
			MaxAge:     cfg.maxAgeDays,
			Compress:   cfg.compress,
			LocalTime:  cfg.localTime,
		},
		cfg:       cfg,
		path:      cleaned,
		modeDirty: cfg.fileMode != 0,
		chmod:     os.Chmod,
	}, nil
}

// Write 写入一条记录，超过 MaxSizeMB 时由 lumberjack 自动轮转。
func (r *LumberjackRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	n, err := r.logger.Write(p)
	if err != nil {
		return n, newIOError(OpWrite, r.path, err)
	}

	if r.cfg.fileMode != 0 {
		r.written += int64(n)
		if r.written >= int64(r.cfg.maxSizeMB)<<20 {
			r.modeDirty = true
		}
		r.applyFileMode()
	}
	return n, nil
}

// Rotate 立即轮转，旧文件以时间戳命名归档。
func (r *LumberjackRotator) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if err := r.logger.Rotate(); err != nil {
		return newIOError(OpRename, r.path, err)
	}
	r.modeDirty = r.cfg.fileMode != 0
	r.applyFileMode()
	return nil
}

// Close 关闭当前文件，重复关闭返回 ErrClosed。
func (r *LumberjackRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true
	if err := r.logger.Close(); err != nil {
		return newIOError(OpClose, r.path, err)
	}
	return nil
}

// Path 返回活动文件路径。
func (r *LumberjackRotator) Path() string {
	return r.path
}

// applyFileMode 尽力调整权限，失败只通过回调上报
func (r *LumberjackRotator) applyFileMode() {
	if !r.modeDirty {
		return
	}
	info, err := os.Stat(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err == nil && info.Mode().Perm() != r.cfg.fileMode {
		err = r.chmod(r.path, r.cfg.fileMode) //#nosec G302 -- 权限由调用方配置
	}
	if err != nil {
		r.reportError(newIOError("chmod", r.path, err))
		return
	}
	r.modeDirty = false
	r.written = 0
}

func (r *LumberjackRotator) reportError(err error) {
	if r.cfg.onError == nil {
		return
	}
	defer func() {
		//nolint:errcheck // 回调 panic 不影响写入
		recover()
	}()
	r.cfg.onError(err)
}

var _ Rotator = (*LumberjackRotator)(nil)
