package xrun

import (
	"context"
	"time"
)

// Ticker 每隔 interval 执行一次 fn，immediate 为 true 时启动即执行一次。
// fn 返回错误即停止；ctx 取消时返回 ctx.Err()。
//
//	g.Go(xrun.Ticker(time.Minute, false, func(ctx context.Context) error {
//		return rotator.Sync()
//	}))
func Ticker(interval time.Duration, immediate bool, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}
		if immediate {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				if err := fn(ctx); err != nil {
					return err
				}
			}
		}
	}
}

// WaitForDone 阻塞直到 ctx 取消，用于让 Group 保持运行。
func WaitForDone() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
}
