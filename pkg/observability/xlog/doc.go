// Package xlog 基于 log/slog 的结构化日志。
//
// # 构建
//
// [New] 返回 [Builder]，[Builder.Build] 返回 Logger 实例和 cleanup：
//
//	logger, cleanup, err := xlog.New().
//		SetRotation(path, xrotate.WithMaxBytes(5000), xrotate.WithBackupCount(3)).
//		SetConsole(os.Stderr).
//		Build()
//
// 没有全局 Logger，也不修改 slog.Default；调用方持有实例并显式传递。
//
// # Sink
//
//   - 主输出：SetOutput，或 SetRotation / SetRotationConfig / SetRotator 指定的轮转器
//   - 控制台：SetConsole，与主输出并列，通过 [FanoutHandler] 各自独立写入
//
// 两个 sink 共享同一个 slog.LevelVar，[Leveler.SetLevel] 可在运行时调整。
//
// # 错误
//
// 日志方法不返回错误。Handle 失败（例如轮转器返回 xrotate.ErrIO）
// 通过 [Builder.SetOnError] 回调通知。
//
// 调用方处理业务错误的约定是"记录一条 ERROR 后继续"，由 [LogFailure] 统一。
package xlog
