package xrun

import (
	"os"

	"github.com/omeyang/xrotlog/pkg/observability/xlog"
)

// Option Group 选项
type Option func(*options)

type options struct {
	logger    xlog.Logger
	name      string
	signals   []os.Signal
	noSignals bool
	sigSource <-chan os.Signal
}

func defaultOptions() *options {
	return &options{name: "xrun"}
}

// WithLogger 记录服务启停与收到的信号，默认不记录。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName 日志中的 group 名称，默认 "xrun"。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 替换 Run 监听的信号，空列表等同于 DefaultSignals。
func WithSignals(signals ...os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *options) {
		o.signals = copied
	}
}

// WithoutSignalHandler Run 不监听任何信号。
func WithoutSignalHandler() Option {
	return func(o *options) {
		o.noSignals = true
	}
}

// withSignalSource 额外的信号来源，测试中代替真实信号
func withSignalSource(ch <-chan os.Signal) Option {
	return func(o *options) {
		o.sigSource = ch
	}
}
