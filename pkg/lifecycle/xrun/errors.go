package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 因收到系统信号而退出，errors.Is(err, ErrSignal) 判断。
	ErrSignal = errors.New("xrun: received signal")

	// ErrNilFunc 服务函数为 nil。
	ErrNilFunc = errors.New("xrun: nil function")

	// ErrInvalidInterval Ticker 间隔必须为正数。
	ErrInvalidInterval = errors.New("xrun: interval must be positive")
)

// SignalError 携带触发退出的信号，Run 收到信号时返回。
//
//	var sigErr *xrun.SignalError
//	if errors.As(err, &sigErr) {
//		fmt.Println(sigErr.Signal)
//	}
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("xrun: received signal %v", e.Signal)
}

// Unwrap 返回 ErrSignal
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
