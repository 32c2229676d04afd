package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 连续变更合并为一次重载的等待时间
const DefaultDebounce = 100 * time.Millisecond

// WatchCallback 每次重载后调用；err 非 nil 时配置保持旧内容。
type WatchCallback func(cfg *Config, err error)

// WatchOption 监视选项
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，<= 0 时使用 DefaultDebounce。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 监视配置文件并在变更后重载。
//
// 监视的是文件所在目录而非文件本身，
// 这样"写临时文件再 rename"的保存方式同样能被捕获。
type Watcher struct {
	cfg      *Config
	fsw      *fsnotify.Watcher
	name     string
	callback WatchCallback
	debounce time.Duration

	running   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Watch 为从文件创建的 cfg 创建监视器，调用 Run 开始监视。
func Watch(cfg *Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.path == "" {
		return nil, ErrNotFileBacked
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	dir := filepath.Dir(cfg.path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("%w: add %s: %w", ErrWatch, dir, err), fsw.Close())
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		name:     filepath.Base(cfg.path),
		callback: callback,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run 阻塞监视直到 ctx 取消或 Close 被调用，返回前释放底层 watcher。
// 回调都在 Run 所在的 goroutine 中执行，Run 返回后不再有回调。
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWatcherRunning
	}
	defer func() { _ = w.Close() }()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.notify(fmt.Errorf("%w: %w", ErrWatch, err))

		case <-fire:
			fire = nil
			w.notify(w.cfg.Reload())
		}
	}
}

// relevant Write/Create/Rename 视为内容可能变化
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != w.name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) notify(err error) {
	if w.callback != nil {
		w.callback(w.cfg, err)
	}
}

// Close 释放底层 watcher，可重复调用。
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}
