package xfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizePath 校验并规范化日志文件路径。
//
// 拒绝空路径、包含空字节的路径、以分隔符结尾的目录路径，
// 以及规范化后仍含有 ".." 路径段的相对路径。
// 绝对路径中的 ".." 会被 filepath.Clean 正常折叠，不视为穿越。
//
// 本函数只做格式校验，不限制目标目录；需要限制在目录内时使用 [SafeJoin]。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(filename, 0) {
		return "", ErrNullByte
	}
	// Clean 会去掉尾部分隔符，必须先检查
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, `\`) {
		return "", fmt.Errorf("%w: %q is a directory", ErrInvalidPath, filename)
	}

	cleaned := filepath.Clean(filename)
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, filename)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidPath, filename)
	}
	return cleaned, nil
}

// SafeJoin 将相对路径 name 拼接到绝对目录 base 下，结果保证仍位于 base 内。
//
//	SafeJoin("/var/log", "app.log")       // "/var/log/app.log"
//	SafeJoin("/var/log", "../etc/passwd") // ErrPathTraversal
//	SafeJoin("/var/log", "/etc/passwd")   // ErrInvalidPath
//
// 不解析符号链接。
func SafeJoin(base, name string) (string, error) {
	if base == "" || name == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(base, 0) || strings.ContainsRune(name, 0) {
		return "", ErrNullByte
	}
	cleanBase := filepath.Clean(base)
	if !filepath.IsAbs(cleanBase) {
		return "", fmt.Errorf("%w: base %q must be absolute", ErrInvalidPath, base)
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return "", fmt.Errorf("%w: %q must be relative", ErrInvalidPath, name)
	}
	cleanName := filepath.Clean(name)
	if hasDotDotSegment(cleanName) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}

	joined := filepath.Join(cleanBase, cleanName)
	rel, err := filepath.Rel(cleanBase, joined)
	if err != nil || hasDotDotSegment(rel) {
		return "", ErrPathEscaped
	}
	return joined, nil
}

// hasDotDotSegment 判断路径中是否存在恰好为 ".." 的路径段，
// "app..1.log" 这类文件名不受影响。'/' 与 '\' 均视为分隔符。
func hasDotDotSegment(path string) bool {
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
