package xfile

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Checksum 返回文件内容的 xxhash64 摘要，用于比对轮转前后内容是否重复或丢失。
func Checksum(path string) (uint64, error) {
	f, err := os.Open(path) //#nosec G304 -- 只读打开调用方给定的日志文件
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck // 只读文件

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
