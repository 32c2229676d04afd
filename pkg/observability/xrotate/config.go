package xrotate

import (
	"fmt"
	"os"

	"github.com/omeyang/xrotlog/pkg/observability/xmetrics"
)

// 编号轮转器默认配置值
const (
	// DefaultMaxBytes 默认轮转阈值（10 MiB）
	DefaultMaxBytes = 10 << 20

	// DefaultBackupCount 默认保留的备份数量
	DefaultBackupCount = 5

	// DefaultFileMode 默认日志文件权限
	DefaultFileMode os.FileMode = 0o644

	// maxBackupCount 备份数量上限
	maxBackupCount = 1024
)

// Config 编号轮转器的显式配置，可由 xconf 直接反序列化。
//
// 与 [NewNumbered] 的选项不同，Config 不做默认值填充：
// MaxBytes 为 0 即视为配置错误。
//
//	rotation:
//	  path: /var/log/app/app.log
//	  max_bytes: 5000
//	  backup_count: 3
type Config struct {
	// Path 活动日志文件路径，备份文件为 Path.1 ~ Path.N
	Path string `koanf:"path" json:"path"`

	// MaxBytes 轮转阈值，写入后文件大小 >= MaxBytes 时轮转，必须 > 0
	MaxBytes int64 `koanf:"max_bytes" json:"max_bytes"`

	// BackupCount 保留的备份数量，0 表示轮转时直接清空活动文件
	BackupCount int `koanf:"backup_count" json:"backup_count"`

	// FileMode 新建日志文件权限，0 表示 DefaultFileMode。
	// YAML 中请写成字符串（如 "0640"）以避免被解析为十进制。
	FileMode os.FileMode `koanf:"file_mode" json:"file_mode"`

	// Lock 是否在 Path.lock 上持有单写者咨询锁
	Lock bool `koanf:"lock" json:"lock"`

	// SyncOnRotate 归档前是否 fsync 活动文件
	SyncOnRotate bool `koanf:"sync_on_rotate" json:"sync_on_rotate"`
}

// Validate 校验配置，返回的错误均匹配 ErrInvalidConfig。
func (c Config) Validate() error {
	if c.Path == "" {
		return ErrEmptyFilename
	}
	cfg := c.numberedConfig()
	return validateNumberedConfig(&cfg)
}

// Options 将 Config 转换为等价的选项列表。
func (c Config) Options() []NumberedOption {
	opts := []NumberedOption{
		WithMaxBytes(c.MaxBytes),
		WithBackupCount(c.BackupCount),
		WithLock(c.Lock),
		WithSyncOnRotate(c.SyncOnRotate),
	}
	if c.FileMode != 0 {
		opts = append(opts, WithFileMode(c.FileMode))
	}
	return opts
}

func (c Config) numberedConfig() numberedConfig {
	cfg := defaultNumberedConfig()
	for _, opt := range c.Options() {
		opt(&cfg)
	}
	return cfg
}

// numberedConfig 编号轮转器内部配置
type numberedConfig struct {
	maxBytes     int64
	backupCount  int
	fileMode     os.FileMode
	lock         bool
	syncOnRotate bool
	observer     xmetrics.Observer
	onRotate     func(RotateEvent)
	onError      func(error)
	fs           fileSystem
}

func defaultNumberedConfig() numberedConfig {
	return numberedConfig{
		maxBytes:    DefaultMaxBytes,
		backupCount: DefaultBackupCount,
		fileMode:    DefaultFileMode,
		fs:          osFS{},
	}
}

// NumberedOption 编号轮转器配置选项
type NumberedOption func(*numberedConfig)

// WithMaxBytes 设置轮转阈值（字节）
func WithMaxBytes(n int64) NumberedOption {
	return func(c *numberedConfig) {
		c.maxBytes = n
	}
}

// WithBackupCount 设置保留的备份数量
func WithBackupCount(n int) NumberedOption {
	return func(c *numberedConfig) {
		c.backupCount = n
	}
}

// WithFileMode 设置新建日志文件的权限，仅允许 0000~0777
func WithFileMode(mode os.FileMode) NumberedOption {
	return func(c *numberedConfig) {
		c.fileMode = mode
	}
}

// WithLock 在 path.lock 上获取非阻塞的单写者咨询锁。
//
// 同一路径只能有一个写者是使用前提；启用后第二个写者的构造会失败，
// 错误匹配 ErrIO 和 xfile.ErrLocked。非 unix 平台返回 xfile.ErrLockUnsupported。
func WithLock(enable bool) NumberedOption {
	return func(c *numberedConfig) {
		c.lock = enable
	}
}

// WithSyncOnRotate 归档活动文件前先 fsync
func WithSyncOnRotate(enable bool) NumberedOption {
	return func(c *numberedConfig) {
		c.syncOnRotate = enable
	}
}

// WithObserver 设置观测器，每次轮转和每次失败的写入都会产生一个观测跨度
func WithObserver(obs xmetrics.Observer) NumberedOption {
	return func(c *numberedConfig) {
		c.observer = obs
	}
}

// WithOnRotate 设置轮转成功后的回调。
//
// 回调在轮转器内部锁内同步执行，不得向同一轮转器写入数据。
func WithOnRotate(fn func(RotateEvent)) NumberedOption {
	return func(c *numberedConfig) {
		c.onRotate = fn
	}
}

// WithOnError 设置错误回调，每个返回给调用方的 I/O 错误都会先通知此回调。
//
// 回调在轮转器内部锁内同步执行，不得向同一轮转器写入数据，
// 推荐输出到 os.Stderr 或独立的告警通道。回调 panic 会被隔离。
func WithOnError(fn func(error)) NumberedOption {
	return func(c *numberedConfig) {
		c.onError = fn
	}
}

// withFileSystem 替换文件系统实现，仅用于测试
func withFileSystem(fs fileSystem) NumberedOption {
	return func(c *numberedConfig) {
		if fs != nil {
			c.fs = fs
		}
	}
}

func validateNumberedConfig(cfg *numberedConfig) error {
	if cfg.maxBytes <= 0 {
		return fmt.Errorf("%w: got %d, want > 0", ErrInvalidMaxBytes, cfg.maxBytes)
	}
	if cfg.backupCount < 0 || cfg.backupCount > maxBackupCount {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidBackupCount, cfg.backupCount, maxBackupCount)
	}
	if cfg.fileMode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, cfg.fileMode)
	}
	return nil
}
