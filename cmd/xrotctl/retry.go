package main

import (
	"errors"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
)

// retryWriter 对写入失败的记录重试。
//
// 只有一个字节都没写入时才重试，避免同一条记录在日志中出现两次；
// 降级或已关闭的轮转器不会自行恢复，不重试。
type retryWriter struct {
	xrotate.Rotator
	attempts uint
	delay    time.Duration
}

func newRetryWriter(r xrotate.Rotator, retries int, delay time.Duration) *retryWriter {
	if retries < 0 {
		retries = 0
	}
	return &retryWriter{Rotator: r, attempts: uint(retries) + 1, delay: delay}
}

func (w *retryWriter) Write(p []byte) (int, error) {
	if w.attempts <= 1 {
		return w.Rotator.Write(p)
	}
	var n int
	err := retry.New(
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.MaxJitter(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return n == 0 && retryable(err)
		}),
	).Do(func() error {
		var err error
		n, err = w.Rotator.Write(p)
		return err
	})
	return n, err
}

func retryable(err error) bool {
	return errors.Is(err, xrotate.ErrIO) &&
		!errors.Is(err, xrotate.ErrDegraded) &&
		!errors.Is(err, xrotate.ErrClosed)
}
