package xconf

import "errors"

var (
	// ErrEmptyPath 配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 无法识别的配置格式（仅支持 yaml/json）。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoad 读取配置文件失败。
	ErrLoad = errors.New("xconf: load config")

	// ErrParse 配置内容无法解析。
	ErrParse = errors.New("xconf: parse config")

	// ErrUnmarshal 反序列化到目标结构体失败。
	ErrUnmarshal = errors.New("xconf: unmarshal config")

	// ErrNotFileBacked 从字节数据创建的配置不支持重载与监视。
	ErrNotFileBacked = errors.New("xconf: config is not file backed")

	// ErrWatch 文件监视失败。
	ErrWatch = errors.New("xconf: watch config")

	// ErrWatcherRunning Watcher.Run 只能调用一次。
	ErrWatcherRunning = errors.New("xconf: watcher already running")
)
