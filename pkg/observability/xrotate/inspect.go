package xrotate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/omeyang/xrotlog/pkg/util/xfile"
)

// FileState 一个日志文件（活动文件或备份）在磁盘上的状态
type FileState struct {
	// Path 文件路径
	Path string `json:"path"`
	// Index 0 表示活动文件，i >= 1 表示 path.i
	Index int `json:"index"`
	// Exists 文件是否存在
	Exists bool `json:"exists"`
	// Size 文件大小，不存在时为 0
	Size int64 `json:"size"`
	// Checksum 内容的 xxhash64，仅 InspectWithChecksum 填充
	Checksum uint64 `json:"checksum,omitempty"`
}

// CurrentSize 返回 path 的当前大小以及是否存在。
// 文件不存在返回 (0, false, nil)，其他 stat 失败返回 *IOError。
func CurrentSize(path string) (int64, bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, newIOError(OpStat, path, err)
	}
	return info.Size(), true, nil
}

// Inspect 只读地列出活动文件和 backupCount 个备份的状态，
// 结果按 Index 升序，第一个元素总是活动文件。
func Inspect(path string, backupCount int) ([]FileState, error) {
	return inspect(path, backupCount, false)
}

// InspectWithChecksum 与 Inspect 相同，额外计算每个存在文件的内容摘要。
func InspectWithChecksum(path string, backupCount int) ([]FileState, error) {
	return inspect(path, backupCount, true)
}

func inspect(path string, backupCount int, checksum bool) ([]FileState, error) {
	if path == "" {
		return nil, ErrEmptyFilename
	}
	if backupCount < 0 || backupCount > maxBackupCount {
		return nil, fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidBackupCount, backupCount, maxBackupCount)
	}

	states := make([]FileState, 0, backupCount+1)
	for i := 0; i <= backupCount; i++ {
		p := path
		if i > 0 {
			p = BackupPath(path, i)
		}
		size, exists, err := CurrentSize(p)
		if err != nil {
			return nil, err
		}
		st := FileState{Path: p, Index: i, Exists: exists, Size: size}
		if exists && checksum {
			sum, err := xfile.Checksum(p)
			if err != nil {
				return nil, newIOError(OpOpen, p, err)
			}
			st.Checksum = sum
		}
		states = append(states, st)
	}
	return states, nil
}

// Verify 检查备份序号是否从 1 开始连续。
//
// 若某个序号缺失而更大的序号存在，返回 *LayoutError；
// 活动文件（Index 0）不参与判断。
func Verify(states []FileState) error {
	highest := 0
	present := make(map[int]bool, len(states))
	path := ""
	for _, st := range states {
		if st.Index == 0 {
			path = st.Path
			continue
		}
		if st.Exists {
			present[st.Index] = true
			highest = max(highest, st.Index)
		}
	}

	var gaps []int
	for i := 1; i < highest; i++ {
		if !present[i] {
			gaps = append(gaps, i)
		}
	}
	if len(gaps) == 0 {
		return nil
	}
	return &LayoutError{Path: path, Gaps: gaps}
}
