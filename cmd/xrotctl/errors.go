package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// 退出码
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError 参数错误，退出码 2
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitError 命令已完成输出，只需设置退出码
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// cliUsageMarkers urfave/cli 参数解析错误的特征文本
var cliUsageMarkers = []string{
	"flag provided but not defined",
	"Required flag",
	"Required flags",
	"invalid value",
	"No help topic",
	"unknown command",
}

func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, m := range cliUsageMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func exitCode(err error, stderr io.Writer) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var uErr *usageError
	if errors.As(err, &uErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", uErr)
		return exitUsage
	}
	if isCLIUsageError(err) {
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return exitUsage
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return exitFailure
}
