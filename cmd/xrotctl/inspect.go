package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
)

func createInspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "查看活动文件与备份的存在性和大小",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "活动日志文件路径", Required: true},
			&cli.IntFlag{Name: "backups", Aliases: []string{"n"}, Usage: "备份数量", Value: xrotate.DefaultBackupCount},
			&cli.BoolFlag{Name: "checksum", Usage: "输出每个文件的 xxhash 摘要"},
			&cli.BoolFlag{Name: "json", Usage: "以 JSON 输出"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdInspect(cmd.Root().Writer, cmd.String("path"), cmd.Int("backups"),
				cmd.Bool("checksum"), cmd.Bool("json"))
		},
	}
}

// inspectReport inspect --json 的输出
type inspectReport struct {
	Files      []xrotate.FileState `json:"files"`
	TotalBytes int64               `json:"total_bytes"`
	Contiguous bool                `json:"contiguous"`
	Error      string              `json:"error,omitempty"`
}

// cmdInspect 输出检查结果；备份不连续时返回退出码 1。
func cmdInspect(w io.Writer, path string, backups int, checksum, asJSON bool) error {
	states, err := inspectStates(path, backups, checksum)
	if err != nil {
		return err
	}

	layoutErr := xrotate.Verify(states)
	if asJSON {
		if err := writeJSONReport(w, states, layoutErr); err != nil {
			return err
		}
	} else {
		if err := writeTable(w, states, checksum); err != nil {
			return err
		}
		if layoutErr != nil {
			fmt.Fprintln(w, layoutErr)
		}
	}
	if layoutErr != nil {
		return &exitError{code: exitFailure, err: layoutErr}
	}
	return nil
}

func inspectStates(path string, backups int, checksum bool) ([]xrotate.FileState, error) {
	inspect := xrotate.Inspect
	if checksum {
		inspect = xrotate.InspectWithChecksum
	}
	states, err := inspect(path, backups)
	if errors.Is(err, xrotate.ErrInvalidConfig) {
		return nil, &usageError{err: err}
	}
	return states, err
}

func writeTable(w io.Writer, states []xrotate.FileState, checksum bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "INDEX\tPATH\tEXISTS\tSIZE"
	if checksum {
		header += "\tXXHASH"
	}
	fmt.Fprintln(tw, header)
	for _, st := range states {
		line := fmt.Sprintf("%d\t%s\t%t\t%d", st.Index, st.Path, st.Exists, st.Size)
		if checksum {
			sum := "-"
			if st.Exists {
				sum = fmt.Sprintf("%016x", st.Checksum)
			}
			line += "\t" + sum
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func writeJSONReport(w io.Writer, states []xrotate.FileState, layoutErr error) error {
	report := inspectReport{Files: states, Contiguous: layoutErr == nil}
	for _, st := range states {
		report.TotalBytes += st.Size
	}
	if layoutErr != nil {
		report.Error = layoutErr.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
