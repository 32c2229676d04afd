package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
)

func createDemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "写入定长记录并输出轮转后的文件布局",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "输出目录，默认新建临时目录"},
			&cli.IntFlag{Name: "records", Usage: "记录条数", Value: 1000},
			&cli.IntFlag{Name: "size", Usage: "每条记录字节数（含换行）", Value: 10},
			&cli.Int64Flag{Name: "max-bytes", Usage: "轮转阈值", Value: 5000},
			&cli.IntFlag{Name: "backups", Aliases: []string{"n"}, Usage: "备份数量", Value: 3},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdDemo(cmd.Root().Writer, demoOptions{
				dir:      cmd.String("dir"),
				records:  cmd.Int("records"),
				size:     cmd.Int("size"),
				maxBytes: cmd.Int64("max-bytes"),
				backups:  cmd.Int("backups"),
			})
		},
	}
}

type demoOptions struct {
	dir      string
	records  int
	size     int
	maxBytes int64
	backups  int
}

// demoRecord 第 i 条记录：零填充序号加换行，总长 size
func demoRecord(i, size int) []byte {
	s := fmt.Sprintf("%0*d", size-1, i)
	return []byte(s[len(s)-(size-1):] + "\n")
}

func cmdDemo(w io.Writer, opts demoOptions) error {
	if opts.records < 0 {
		return usagef("--records must not be negative, got %d", opts.records)
	}
	if opts.size < 2 {
		return usagef("--size must be at least 2, got %d", opts.size)
	}
	dir := opts.dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "xrotctl-demo-")
		if err != nil {
			return err
		}
		dir = tmp
	}
	path := filepath.Join(dir, "demo.log")

	var rotations int
	r, err := xrotate.NewNumbered(path,
		xrotate.WithMaxBytes(opts.maxBytes),
		xrotate.WithBackupCount(opts.backups),
		xrotate.WithOnRotate(func(xrotate.RotateEvent) { rotations++ }),
	)
	if err != nil {
		if isConfigError(err) {
			return &usageError{err: err}
		}
		return err
	}
	for i := range opts.records {
		if _, err := r.Write(demoRecord(i, opts.size)); err != nil {
			return errors.Join(err, r.Close())
		}
	}
	if err := r.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "wrote %d records of %d bytes to %s\n", opts.records, opts.size, path)
	fmt.Fprintf(w, "rotations: %d\n", rotations)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	states, err := xrotate.Inspect(path, opts.backups)
	if err != nil {
		return err
	}
	return writeTable(w, states, false)
}
