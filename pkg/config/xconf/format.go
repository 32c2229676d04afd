package xconf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式
type Format string

// 支持的格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf 按扩展名识别格式：.yaml/.yml 为 YAML，.json 为 JSON。
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

func (f Format) parser() (koanf.Parser, error) {
	switch f {
	case FormatYAML:
		return yaml.Parser(), nil
	case FormatJSON:
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}
