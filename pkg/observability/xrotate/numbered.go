package xrotate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/omeyang/xrotlog/pkg/observability/xmetrics"
	"github.com/omeyang/xrotlog/pkg/util/xfile"
)

// componentName 观测跨度使用的组件名
const componentName = "xrotate"

// RotateEvent 一次成功轮转的描述
type RotateEvent struct {
	// Path 活动日志文件路径
	Path string
	// Backups 本次轮转后预期存在的备份数量上限（即 BackupCount）
	Backups int
	// ArchivedBytes 被归档（或清空）的活动文件大小
	ArchivedBytes int64
}

// NumberedRotator 基于大小的编号轮转器。
//
// 活动文件写入后大小达到 MaxBytes 即触发轮转：
//
//	path.N      删除
//	path.N-1 -> path.N
//	...
//	path.1   -> path.2
//	path     -> path.1
//	path        重新创建（空）
//
// BackupCount 为 0 时不产生备份，轮转只清空活动文件。
//
// 单条超过 MaxBytes 的记录会被完整写入，写入后立即轮转，
// 因此一个文件最多超出阈值一条记录。
//
// 所有方法并发安全，内部互斥保证每条记录整体写入同一个文件。
// 同一路径只允许一个写者（进程内或跨进程），可通过 [WithLock] 强制。
type NumberedRotator struct {
	mu sync.Mutex

	path string
	cfg  numberedConfig
	fs   fileSystem
	lock *xfile.FileLock

	file logFile
	size int64

	// degraded 非 nil 时轮转器处于降级状态，所有写入直接返回该错误
	degraded error
	closed   bool
}

// NewNumbered 创建编号轮转器。
//
// 活动文件以追加方式打开，已存在的文件大小计入当前大小，
// 因此重启后会在达到阈值时继续按原有节奏轮转。
// 父目录不存在时自动创建（权限 0750）。
//
// 配置无效时返回匹配 ErrInvalidConfig 的错误；
// 目录或文件无法创建时返回 *IOError。
func NewNumbered(path string, opts ...NumberedOption) (*NumberedRotator, error) {
	cfg := defaultNumberedConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateNumberedConfig(&cfg); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrEmptyFilename
	}
	cleaned, err := xfile.SanitizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := xfile.EnsureDir(cleaned); err != nil {
		return nil, newIOError(OpOpen, cleaned, err)
	}

	r := &NumberedRotator{
		path: cleaned,
		cfg:  cfg,
		fs:   cfg.fs,
	}

	if cfg.lock {
		lk, err := xfile.TryLock(cleaned + ".lock")
		if err != nil {
			return nil, newIOError(OpLock, cleaned, err)
		}
		r.lock = lk
	}

	if err := r.openExisting(); err != nil {
		r.releaseLock()
		return nil, err
	}
	return r, nil
}

// New 根据显式配置创建编号轮转器，额外的选项在 Config 之后应用。
func New(cfg Config, opts ...NumberedOption) (*NumberedRotator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	all := append(cfg.Options(), opts...)
	return NewNumbered(cfg.Path, all...)
}

// openExisting 以追加方式打开活动文件并采用其当前大小
func (r *NumberedRotator) openExisting() error {
	f, err := r.fs.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, r.cfg.fileMode)
	if err != nil {
		return newIOError(OpOpen, r.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close() //nolint:errcheck // stat 错误优先返回
		return newIOError(OpStat, r.path, err)
	}
	r.file = f
	r.size = info.Size()
	return nil
}

// Write 写入一条记录。
//
// 记录整体写入活动文件后才会检查阈值，轮转不会拆分记录。
// 返回值 n 表示写入活动文件的字节数；若记录已写入但随后的轮转失败，
// 返回 n == len(p) 以及轮转错误，调用方不应重试该记录。
func (r *NumberedRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.usable(); err != nil {
		return 0, err
	}

	n, err := r.file.Write(p)
	if err != nil {
		ioErr := newIOError(OpWrite, r.path, err)
		r.resync(ioErr)
		r.observeFailure(OpWrite, len(p), ioErr)
		r.notifyError(ioErr)
		return n, r.failure(ioErr)
	}
	r.size += int64(n)

	if r.size >= r.cfg.maxBytes {
		if err := r.rotateLocked(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Rotate 立即执行一次轮转，不论当前大小。
func (r *NumberedRotator) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.usable(); err != nil {
		return err
	}
	return r.rotateLocked()
}

// Sync 将活动文件刷入磁盘。
func (r *NumberedRotator) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.usable(); err != nil {
		return err
	}
	if err := r.file.Sync(); err != nil {
		ioErr := newIOError(OpSync, r.path, err)
		r.notifyError(ioErr)
		return ioErr
	}
	return nil
}

// Close 关闭活动文件并释放文件锁。重复关闭返回 ErrClosed。
//
// 降级状态下同样可以关闭，用于释放资源。
func (r *NumberedRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true

	var err error
	if r.file != nil {
		if cerr := r.file.Close(); cerr != nil {
			err = newIOError(OpClose, r.path, cerr)
		}
		r.file = nil
	}
	if lerr := r.releaseLock(); lerr != nil {
		err = errors.Join(err, newIOError(OpLock, r.path, lerr))
	}
	return err
}

// Size 返回轮转器记账的活动文件大小。
func (r *NumberedRotator) Size() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Path 返回活动文件路径（已清理）。
func (r *NumberedRotator) Path() string {
	return r.path
}

// BackupPath 返回第 i 个备份的路径，i 从 1 开始。
func (r *NumberedRotator) BackupPath(i int) string {
	return BackupPath(r.path, i)
}

// Degraded 返回导致降级的错误，未降级时返回 nil。
func (r *NumberedRotator) Degraded() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded
}

func (r *NumberedRotator) usable() error {
	if r.closed {
		return ErrClosed
	}
	return r.degraded
}

// rotateLocked 执行轮转，调用方须持有 r.mu。
//
// 任一步失败时，已完成的步骤不回滚；只要活动文件仍可用，
// 轮转器保持可写，否则进入降级状态。
func (r *NumberedRotator) rotateLocked() (err error) {
	_, span := xmetrics.Start(context.Background(), r.cfg.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "rotate",
		Kind:      xmetrics.KindInternal,
		Attrs: []xmetrics.Attr{
			xmetrics.String("xrotate.path", r.path),
			xmetrics.Int("xrotate.backup_count", r.cfg.backupCount),
		},
	})
	archived := r.size
	defer func() {
		span.End(xmetrics.Result{
			Err:   err,
			Bytes: archived,
			Attrs: []xmetrics.Attr{xmetrics.Int64("xrotate.archived_bytes", archived)},
		})
		if err != nil {
			r.notifyError(err)
			return
		}
		r.notifyRotate(RotateEvent{
			Path:          r.path,
			Backups:       r.cfg.backupCount,
			ArchivedBytes: archived,
		})
	}()

	if r.cfg.backupCount == 0 {
		return r.truncateLocked()
	}

	if err := r.shiftBackups(); err != nil {
		return err
	}

	if r.cfg.syncOnRotate {
		if err := r.file.Sync(); err != nil {
			return newIOError(OpSync, r.path, err)
		}
	}

	if err := r.file.Close(); err != nil {
		// 句柄状态未知，无法继续保证记账与磁盘一致
		ioErr := newIOError(OpClose, r.path, err)
		r.file = nil
		return r.degrade(ioErr)
	}
	r.file = nil

	if err := r.fs.Rename(r.path, BackupPath(r.path, 1)); err != nil {
		ioErr := newIOError(OpRename, r.path, err)
		if rerr := r.openExisting(); rerr != nil {
			return r.degrade(errors.Join(ioErr, rerr))
		}
		return ioErr
	}

	f, err := r.fs.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, r.cfg.fileMode)
	if err != nil {
		return r.degrade(newIOError(OpOpen, r.path, err))
	}
	r.file = f
	r.size = 0
	return nil
}

// shiftBackups 按降序移动备份：删除 .N，再将 .i 重命名为 .i+1。
// 降序保证任何时刻都不会覆盖尚未移动的备份。
func (r *NumberedRotator) shiftBackups() error {
	n := r.cfg.backupCount
	oldest := BackupPath(r.path, n)
	if err := r.fs.Remove(oldest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return newIOError(OpRemove, oldest, err)
	}
	for i := n - 1; i >= 1; i-- {
		src := BackupPath(r.path, i)
		if err := r.fs.Rename(src, BackupPath(r.path, i+1)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return newIOError(OpRename, src, err)
		}
	}
	return nil
}

func (r *NumberedRotator) truncateLocked() error {
	if err := r.file.Truncate(0); err != nil {
		ioErr := newIOError(OpTruncate, r.path, err)
		r.resync(ioErr)
		return r.failure(ioErr)
	}
	r.size = 0
	return nil
}

// resync 失败后以磁盘上的真实大小重新记账，stat 也失败时降级
func (r *NumberedRotator) resync(cause error) {
	info, err := r.file.Stat()
	if err != nil {
		_ = r.degrade(errors.Join(cause, newIOError(OpStat, r.path, err))) //nolint:errcheck // 由 failure 返回
		return
	}
	r.size = info.Size()
}

// degrade 进入降级状态并返回降级错误
func (r *NumberedRotator) degrade(cause error) error {
	if r.degraded == nil {
		r.degraded = fmt.Errorf("%w: %w", ErrDegraded, cause)
	}
	return r.degraded
}

// failure 若已降级返回降级错误，否则返回原始错误
func (r *NumberedRotator) failure(err error) error {
	if r.degraded != nil {
		return r.degraded
	}
	return err
}

func (r *NumberedRotator) observeFailure(op string, size int, err error) {
	_, span := xmetrics.Start(context.Background(), r.cfg.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: op,
		Kind:      xmetrics.KindInternal,
		Attrs:     []xmetrics.Attr{xmetrics.String("xrotate.path", r.path)},
	})
	span.End(xmetrics.Result{Err: err, Bytes: int64(size)})
}

func (r *NumberedRotator) notifyRotate(ev RotateEvent) {
	if r.cfg.onRotate == nil {
		return
	}
	defer func() {
		//nolint:errcheck // 回调 panic 不影响轮转结果
		recover()
	}()
	r.cfg.onRotate(ev)
}

func (r *NumberedRotator) notifyError(err error) {
	if r.cfg.onError == nil {
		return
	}
	defer func() {
		//nolint:errcheck // 回调 panic 不影响错误返回
		recover()
	}()
	r.cfg.onError(err)
}

func (r *NumberedRotator) releaseLock() error {
	if r.lock == nil {
		return nil
	}
	err := r.lock.Unlock()
	r.lock = nil
	return err
}

// BackupPath 返回 path 的第 i 个备份路径（path.i），i 从 1 开始。
func BackupPath(path string, i int) string {
	return path + "." + strconv.Itoa(i)
}

var _ Rotator = (*NumberedRotator)(nil)
