package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xrotlog/pkg/config/xconf"
	"github.com/omeyang/xrotlog/pkg/context/xctx"
	"github.com/omeyang/xrotlog/pkg/lifecycle/xrun"
	"github.com/omeyang/xrotlog/pkg/observability/xlog"
	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
)

// 轮转方案
const (
	schemeNumbered  = "numbered"
	schemeTimestamp = "timestamp"
)

const (
	defaultRetryDelay = 50 * time.Millisecond
	maxLineBytes      = 1 << 20
)

// errInputDone 标准输入读取完毕，用于结束 xrun 组
var errInputDone = errors.New("xrotctl: input done")

// pipeOptions 合并命令行与配置文件后的 pipe 参数
type pipeOptions struct {
	configPath string
	rotation   xrotate.Config
	scheme     string
	retries    int
	retryDelay time.Duration
	rotateCron string
	console    bool
	level      string
	format     string
	stats      bool
}

func createPipeCommand() *cli.Command {
	return &cli.Command{
		Name:  "pipe",
		Usage: "将标准输入逐行写入轮转日志，每行一条 INFO 记录",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML/JSON 配置文件，log.level 支持热更新"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "活动日志文件路径"},
			&cli.Int64Flag{Name: "max-bytes", Usage: "轮转阈值（字节）", Value: xrotate.DefaultMaxBytes},
			&cli.IntFlag{Name: "backups", Aliases: []string{"n"}, Usage: "备份数量", Value: xrotate.DefaultBackupCount},
			&cli.StringFlag{Name: "scheme", Usage: "numbered 或 timestamp（lumberjack，按 MB 轮转）", Value: schemeNumbered},
			&cli.IntFlag{Name: "retries", Usage: "写入失败且未写入任何字节时的重试次数"},
			&cli.DurationFlag{Name: "retry-delay", Usage: "重试间隔", Value: defaultRetryDelay},
			&cli.StringFlag{Name: "rotate-cron", Usage: "按 cron 表达式强制轮转，如 \"@hourly\""},
			&cli.BoolFlag{Name: "console", Usage: "同时输出到标准错误"},
			&cli.StringFlag{Name: "level", Usage: "日志级别 debug/info/warn/error", Value: "info"},
			&cli.StringFlag{Name: "format", Usage: "text 或 json", Value: "text"},
			&cli.BoolFlag{Name: "stats", Usage: "退出时输出轮转统计"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := resolvePipeOptions(cmd)
			if err != nil {
				return err
			}
			root := cmd.Root()
			return runPipe(ctx, opts, root.Reader, root.ErrWriter)
		},
	}
}

// resolvePipeOptions 配置文件提供基础值，显式给出的命令行参数覆盖之。
func resolvePipeOptions(cmd *cli.Command) (pipeOptions, error) {
	opts := pipeOptions{
		configPath: cmd.String("config"),
		rotation: xrotate.Config{
			Path:        cmd.String("path"),
			MaxBytes:    cmd.Int64("max-bytes"),
			BackupCount: cmd.Int("backups"),
			Lock:        true,
		},
		scheme:     cmd.String("scheme"),
		retries:    cmd.Int("retries"),
		retryDelay: cmd.Duration("retry-delay"),
		rotateCron: cmd.String("rotate-cron"),
		console:    cmd.Bool("console"),
		level:      cmd.String("level"),
		format:     cmd.String("format"),
		stats:      cmd.Bool("stats"),
	}
	if opts.configPath == "" {
		return opts, nil
	}

	var fc fileConfig
	if _, err := xconf.Load(opts.configPath, &fc); err != nil {
		return opts, &usageError{err: err}
	}
	if !cmd.IsSet("path") {
		opts.rotation.Path = fc.Rotation.Path
	}
	if !cmd.IsSet("max-bytes") && fc.Rotation.MaxBytes != 0 {
		opts.rotation.MaxBytes = fc.Rotation.MaxBytes
	}
	if !cmd.IsSet("backups") {
		opts.rotation.BackupCount = fc.Rotation.BackupCount
	}
	opts.rotation.FileMode = fc.Rotation.FileMode
	opts.rotation.SyncOnRotate = fc.Rotation.SyncOnRotate
	if !cmd.IsSet("scheme") && fc.Pipe.Scheme != "" {
		opts.scheme = fc.Pipe.Scheme
	}
	if !cmd.IsSet("retries") {
		opts.retries = fc.Pipe.Retries
	}
	if !cmd.IsSet("rotate-cron") {
		opts.rotateCron = fc.Pipe.RotateCron
	}
	if !cmd.IsSet("console") {
		opts.console = fc.Log.Console
	}
	if !cmd.IsSet("level") && fc.Log.Level != "" {
		opts.level = fc.Log.Level
	}
	if !cmd.IsSet("format") && fc.Log.Format != "" {
		opts.format = fc.Log.Format
	}
	return opts, nil
}

func (o pipeOptions) validate() error {
	if o.rotation.Path == "" {
		return usagef("--path or rotation.path is required")
	}
	switch o.scheme {
	case schemeNumbered:
		if err := o.rotation.Validate(); err != nil {
			return &usageError{err: err}
		}
	case schemeTimestamp:
	default:
		return usagef("unknown scheme %q, want %s or %s", o.scheme, schemeNumbered, schemeTimestamp)
	}
	if o.retries < 0 {
		return usagef("--retries must not be negative, got %d", o.retries)
	}
	if o.rotateCron != "" {
		if _, err := cron.ParseStandard(o.rotateCron); err != nil {
			return usagef("invalid --rotate-cron %q: %w", o.rotateCron, err)
		}
	}
	if _, err := xlog.ParseLevel(o.level); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// runPipe 读取 in 直到 EOF 或收到信号。
func runPipe(ctx context.Context, opts pipeOptions, in io.Reader, stderr io.Writer) (err error) {
	if err := opts.validate(); err != nil {
		return err
	}

	var st *stats
	if opts.stats {
		if st, err = newStats(); err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, st.report(context.WithoutCancel(ctx), stderr))
		}()
	}

	rotator, err := openRotator(opts, st, stderr)
	if err != nil {
		if isConfigError(err) {
			return &usageError{err: err}
		}
		return err
	}

	builder := xlog.New().
		SetRotator(newRetryWriter(rotator, opts.retries, opts.retryDelay)).
		SetLevelString(opts.level).
		SetFormat(opts.format).
		SetOnError(func(err error) {
			fmt.Fprintf(stderr, "xrotctl: write log: %v\n", err)
		})
	if opts.console {
		builder.SetConsole(stderr)
	}
	logger, cleanup, err := builder.Build()
	if err != nil {
		return errors.Join(&usageError{err: err}, rotator.Close())
	}
	defer func() { err = errors.Join(err, cleanup()) }()

	ctx, err = xctx.WithRunID(ctx, uuid.NewString())
	if err != nil {
		return err
	}

	services := []func(context.Context) error{stdinService(in, logger)}
	if opts.rotateCron != "" {
		services = append(services, cronService(opts.rotateCron, rotator, logger))
	}
	if opts.configPath != "" {
		watch, err := levelWatcher(ctx, opts.configPath, logger)
		if err != nil {
			return err
		}
		services = append(services, watch.Run)
	}

	err = xrun.RunWithOptions(ctx, []xrun.Option{
		xrun.WithName("xrotctl"),
		xrun.WithLogger(logger),
	}, services...)
	if errors.Is(err, errInputDone) || errors.Is(err, xrun.ErrSignal) {
		return nil
	}
	return err
}

func openRotator(opts pipeOptions, st *stats, stderr io.Writer) (xrotate.Rotator, error) {
	onError := func(err error) {
		fmt.Fprintf(stderr, "xrotctl: rotate: %v\n", err)
	}
	if opts.scheme == schemeTimestamp {
		mb := int(opts.rotation.MaxBytes >> 20)
		if mb < 1 {
			mb = 1
		}
		return xrotate.NewLumberjack(opts.rotation.Path,
			xrotate.WithMaxSizeMB(mb),
			xrotate.WithMaxBackups(opts.rotation.BackupCount),
			xrotate.WithLumberjackOnError(onError),
		)
	}
	extra := []xrotate.NumberedOption{xrotate.WithOnError(onError)}
	if st != nil {
		extra = append(extra, xrotate.WithObserver(st.observer))
	}
	return xrotate.New(opts.rotation, extra...)
}

// stdinService 每行输出一条 INFO 记录，EOF 时返回 errInputDone。
func stdinService(in io.Reader, logger xlog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		lines := make(chan string)
		scanErr := make(chan error, 1)
		go func() {
			defer close(lines)
			sc := bufio.NewScanner(in)
			sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
			for sc.Scan() {
				select {
				case lines <- sc.Text():
				case <-ctx.Done():
					scanErr <- nil
					return
				}
			}
			scanErr <- sc.Err()
		}()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case line, ok := <-lines:
				if !ok {
					if err := <-scanErr; err != nil {
						return fmt.Errorf("xrotctl: read input: %w", err)
					}
					return errInputDone
				}
				logger.Info(ctx, line)
			}
		}
	}
}

// cronService 按 cron 表达式强制轮转；单次失败只记录，不终止 pipe。
func cronService(schedule string, r xrotate.Rotator, logger xlog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() {
			if err := r.Rotate(); xlog.LogFailure(ctx, logger, "scheduled rotation failed", err) {
				return
			}
			logger.Debug(ctx, "scheduled rotation", slog.String("schedule", schedule))
		}); err != nil {
			return usagef("invalid --rotate-cron %q: %w", schedule, err)
		}
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return ctx.Err()
	}
}

// levelWatcher 配置文件变化时更新日志级别
func levelWatcher(ctx context.Context, path string, logger xlog.LoggerWithLevel) (*xconf.Watcher, error) {
	cfg, err := xconf.New(path)
	if err != nil {
		return nil, err
	}
	return xconf.Watch(cfg, func(c *xconf.Config, err error) {
		if xlog.LogFailure(ctx, logger, "reload config failed", err) {
			return
		}
		var fc fileConfig
		if err := c.Unmarshal("", &fc); xlog.LogFailure(ctx, logger, "reload config failed", err) {
			return
		}
		if fc.Log.Level == "" {
			return
		}
		level, err := xlog.ParseLevel(fc.Log.Level)
		if xlog.LogFailure(ctx, logger, "reload config failed", err) {
			return
		}
		if level != logger.GetLevel() {
			logger.SetLevel(level)
			logger.Warn(ctx, "log level changed", slog.String("level", level.String()))
		}
	})
}
