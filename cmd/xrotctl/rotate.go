package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
)

func createRotateCommand() *cli.Command {
	return &cli.Command{
		Name:  "rotate",
		Usage: "对空闲的日志集合强制轮转一次（持有单写者锁）",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "活动日志文件路径", Required: true},
			&cli.IntFlag{Name: "backups", Aliases: []string{"n"}, Usage: "备份数量", Value: xrotate.DefaultBackupCount},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdRotate(cmd.Root().Writer, cmd.String("path"), cmd.Int("backups"))
		},
	}
}

// cmdRotate 打开日志集合、轮转一次并输出结果。
// 正在被 pipe 写入的集合会因锁冲突而失败。
func cmdRotate(w io.Writer, path string, backups int) error {
	var archived int64
	r, err := xrotate.NewNumbered(path,
		xrotate.WithMaxBytes(math.MaxInt64),
		xrotate.WithBackupCount(backups),
		xrotate.WithLock(true),
		xrotate.WithOnRotate(func(ev xrotate.RotateEvent) { archived = ev.ArchivedBytes }),
	)
	if err != nil {
		if isConfigError(err) {
			return &usageError{err: err}
		}
		return err
	}
	rotErr := r.Rotate()
	if err := r.Close(); err != nil && rotErr == nil {
		rotErr = err
	}
	if rotErr != nil {
		return rotErr
	}

	fmt.Fprintf(w, "rotated %s (%d bytes archived)\n", path, archived)
	states, err := xrotate.Inspect(path, backups)
	if err != nil {
		return err
	}
	return writeTable(w, states, false)
}
