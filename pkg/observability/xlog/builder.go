package xlog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
)

// ReplaceAttrFunc 属性替换函数，返回空 Key 的 Attr 表示移除该属性。
type ReplaceAttrFunc func(groups []string, a slog.Attr) slog.Attr

// Builder Logger 构建器。
//
// 每次 Build 产生一个独立的 Logger 实例与对应的 cleanup，
// 不修改任何进程级状态（包括 slog.Default）。
//
//	logger, cleanup, err := xlog.New().
//		SetRotation("/var/log/app/app.log",
//			xrotate.WithMaxBytes(5000),
//			xrotate.WithBackupCount(3)).
//		SetConsole(os.Stderr).
//		SetLevel(xlog.LevelInfo).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
type Builder struct {
	output      io.Writer
	console     io.Writer
	levelVar    *slog.LevelVar
	format      string
	addSource   bool
	enrich      bool
	replaceAttr ReplaceAttrFunc
	onError     func(error)

	rotationPath string
	rotationOpts []xrotate.NumberedOption
	rotator      xrotate.Rotator

	err error
}

// New 创建构建器：INFO 级别、text 格式、输出到 os.Stderr、启用 context 富化。
func New() *Builder {
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelInfo)
	return &Builder{
		output:   os.Stderr,
		levelVar: lv,
		format:   "text",
		enrich:   true,
	}
}

// SetOutput 设置主输出目标（未设置轮转时生效）。
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		b.err = ErrNilWriter
		return b
	}
	b.output = w
	return b
}

// SetConsole 增加一个独立的控制台 sink，与主输出使用相同的格式和级别。
//
// 每条记录分别写入两个 sink，任一 sink 失败不会阻止另一个写入。
func (b *Builder) SetConsole(w io.Writer) *Builder {
	if w == nil {
		b.err = ErrNilWriter
		return b
	}
	b.console = w
	return b
}

// SetLevel 设置初始级别。
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置初始级别。
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		b.err = err
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式 text 或 json，空字符串保持 text。
func (b *Builder) SetFormat(format string) *Builder {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = f
	default:
		b.err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return b
}

// SetAddSource 是否输出源码位置。
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetEnrich 是否从 context 注入 run_id 与 trace 字段，默认启用。
func (b *Builder) SetEnrich(enable bool) *Builder {
	b.enrich = enable
	return b
}

// SetReplaceAttr 设置属性替换函数，用于脱敏或字段重命名。
func (b *Builder) SetReplaceAttr(fn ReplaceAttrFunc) *Builder {
	b.replaceAttr = fn
	return b
}

// SetOnError 设置 Handle 失败的回调（磁盘满、轮转失败等）。
//
// 日志方法本身从不返回错误；回调在写入路径上同步执行，应保持轻量，
// 回调内部再次触发的日志错误不会递归回调。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// SetRotation 使用编号轮转器作为主输出，轮转器在 Build 时创建。
func (b *Builder) SetRotation(path string, opts ...xrotate.NumberedOption) *Builder {
	b.rotationPath = path
	b.rotationOpts = opts
	b.rotator = nil
	return b
}

// SetRotationConfig 使用显式配置创建编号轮转器作为主输出。
func (b *Builder) SetRotationConfig(cfg xrotate.Config, opts ...xrotate.NumberedOption) *Builder {
	if err := cfg.Validate(); err != nil {
		b.err = err
		return b
	}
	return b.SetRotation(cfg.Path, append(cfg.Options(), opts...)...)
}

// SetRotator 使用已构造的轮转器作为主输出，所有权转移给 Logger，由 cleanup 关闭。
func (b *Builder) SetRotator(r xrotate.Rotator) *Builder {
	if r == nil {
		b.err = ErrNilWriter
		return b
	}
	b.rotator = r
	b.rotationPath = ""
	b.rotationOpts = nil
	return b
}

// Build 构建 Logger。
//
// 返回的 cleanup 关闭轮转器（若有），可安全地重复调用。
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	rotator := b.rotator
	if b.rotationPath != "" {
		r, err := xrotate.NewNumbered(b.rotationPath, b.rotationOpts...)
		if err != nil {
			return nil, nil, err
		}
		rotator = r
	}

	output := b.output
	if rotator != nil {
		output = rotator
	}

	handler := b.newHandler(output)
	if b.console != nil {
		fan, err := NewFanoutHandler(handler, b.newHandler(b.console))
		if err != nil {
			return nil, nil, errors.Join(err, closeRotator(rotator))
		}
		handler = fan
	}
	if b.enrich {
		enriched, err := NewEnrichHandler(handler)
		if err != nil {
			return nil, nil, errors.Join(err, closeRotator(rotator))
		}
		handler = enriched
	}

	logger := &xlogger{
		handler:        handler,
		levelVar:       b.levelVar,
		addSource:      b.addSource,
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		inErrorHandler: new(atomic.Bool),
	}

	var once sync.Once
	cleanup := func() error {
		var err error
		once.Do(func() { err = closeRotator(rotator) })
		return err
	}
	return logger, cleanup, nil
}

func (b *Builder) newHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     b.levelVar,
		AddSource: b.addSource,
	}
	if b.replaceAttr != nil {
		opts.ReplaceAttr = b.replaceAttr
	}
	if b.format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func closeRotator(r xrotate.Rotator) error {
	if r == nil {
		return nil
	}
	return r.Close()
}
