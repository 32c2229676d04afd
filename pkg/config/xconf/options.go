package xconf

type options struct {
	delim string
	tag   string
}

func defaultOptions() options {
	return options{delim: ".", tag: "koanf"}
}

// Option 加载选项
type Option func(*options)

// WithDelim 设置键分隔符，默认 "."（如 "rotation.max_bytes"）。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签，默认 "koanf"。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}
