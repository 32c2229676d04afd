package xconf

import (
	"fmt"
	"os"
	"sync"

	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config 一份已加载的配置。
//
// Reload 成功后整体替换内部 koanf 实例，解析失败时保留旧内容。
// 所有方法可并发调用。
type Config struct {
	mu     sync.RWMutex
	k      *koanf.Koanf
	path   string
	format Format
	opts   options
}

// New 读取并解析配置文件，格式由扩展名决定。空文件得到空配置。
func New(path string, opts ...Option) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	c := newConfig(path, format, opts)
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 从内存数据构造配置，不支持 Reload 和 Watch。
func NewFromBytes(data []byte, format Format, opts ...Option) (*Config, error) {
	if _, err := format.parser(); err != nil {
		return nil, err
	}
	c := newConfig("", format, opts)
	k, err := c.parse(data)
	if err != nil {
		return nil, err
	}
	c.k = k
	return c, nil
}

func newConfig(path string, format Format, opts []Option) *Config {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Config{
		k:      koanf.New(o.delim),
		path:   path,
		format: format,
		opts:   o,
	}
}

func (c *Config) parse(data []byte) (*koanf.Koanf, error) {
	k := koanf.New(c.opts.delim)
	if len(data) == 0 {
		return k, nil
	}
	parser, err := c.format.parser()
	if err != nil {
		return nil, err
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return k, nil
}

// Reload 重新读取配置文件。
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNotFileBacked
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	k, err := c.parse(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.k = k
	c.mu.Unlock()
	return nil
}

// Unmarshal 将 key 下的内容反序列化到 target，key 为空表示整个配置。
func (c *Config) Unmarshal(key string, target any) error {
	c.mu.RLock()
	k := c.k
	c.mu.RUnlock()

	if err := k.UnmarshalWithConf(key, target, koanf.UnmarshalConf{Tag: c.opts.tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}
	return nil
}

// Exists key 是否存在
func (c *Config) Exists(key string) bool {
	return c.Koanf().Exists(key)
}

// Koanf 当前 koanf 实例的快照，Reload 之后需重新获取。
func (c *Config) Koanf() *koanf.Koanf {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k
}

// Path 配置文件路径，NewFromBytes 创建的为空。
func (c *Config) Path() string {
	return c.path
}

// Format 配置格式
func (c *Config) Format() Format {
	return c.format
}

// Load 读取 path 并将整个配置反序列化到 target。
func Load(path string, target any, opts ...Option) (*Config, error) {
	c, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Unmarshal("", target); err != nil {
		return nil, err
	}
	return c, nil
}
