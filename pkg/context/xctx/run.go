package xctx

import "context"

// KeyRunID 日志属性 key：一次进程运行的唯一标识
const KeyRunID = "run_id"

const keyRunID = contextKey("xctx:run_id")

// WithRunID 注入运行 ID，同一次运行写出的所有记录携带相同的 run_id，
// 便于在轮转后的多个备份文件之间串联同一批记录。
func WithRunID(ctx context.Context, runID string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if runID == "" {
		return nil, ErrEmptyRunID
	}
	return context.WithValue(ctx, keyRunID, runID), nil
}

// RunID 提取运行 ID，不存在返回空字符串。
func RunID(ctx context.Context) string {
	return stringValue(ctx, keyRunID)
}
