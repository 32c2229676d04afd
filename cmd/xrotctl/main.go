// xrotctl 按大小轮转日志文件的命令行工具。
//
// 用法:
//
//	xrotctl <命令> [命令参数]
//
// 命令:
//
//	inspect   查看活动文件与备份的存在性和大小
//	pipe      将标准输入逐行写入轮转日志
//	rotate    对空闲的日志集合强制轮转一次
//	demo      在临时目录中演示轮转过程
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（inspect: 备份序号不连续）
//	2: 参数错误
//
// 示例:
//
//	xrotctl inspect --path /var/log/app.log --backups 3
//	tail -f access.log | xrotctl pipe --path /var/log/app.log --max-bytes 5000 --backups 3
//	xrotctl pipe --config /etc/xrotctl.yaml --console < input.txt
//	xrotctl demo --dir /tmp/xrot --records 1000 --size 10
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xrotctl",
		Usage:     "按大小轮转的日志写入与检查工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			createInspectCommand(),
			createPipeCommand(),
			createRotateCommand(),
			createDemoCommand(),
		},
		// 退出码由 run 统一映射，不让 cli 直接 os.Exit
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := createApp(stdin, stdout, stderr).Run(ctx, args); err != nil {
		return exitCode(err, stderr)
	}
	return 0
}
