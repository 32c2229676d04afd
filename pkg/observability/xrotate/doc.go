// Package xrotate 提供按大小轮转的日志文件写入器。
//
// [Rotator] 是轮转器的公共契约（io.WriteCloser + Rotate），有两种实现：
//
//   - [NumberedRotator]: 编号备份方案。写入后文件大小达到 MaxBytes 即轮转，
//     备份为 path.1（最新）~ path.N（最旧），超出 N 的备份被删除。
//   - [LumberjackRotator]: 时间戳备份方案，基于 lumberjack v2，支持按天清理和压缩。
//
// # 编号方案的保证
//
//   - 记录从不跨文件拆分，轮转只发生在两条记录之间
//   - 备份序号从 1 开始连续，数量不超过 BackupCount
//   - BackupCount 为 0 时不产生任何备份，轮转只清空活动文件
//   - 单条记录超过 MaxBytes 时完整写入后立即轮转
//   - 重新构造时采用已有活动文件的大小继续记账
//
// # 错误
//
// 配置错误匹配 [ErrInvalidConfig]，轮转器不会被创建。
// 存储失败以 [*IOError] 返回（匹配 [ErrIO]），轮转器内部不重试。
// 无法确认磁盘状态时进入降级状态，此后所有写入返回 [ErrDegraded]。
//
// # 巡检
//
// [Inspect]、[InspectWithChecksum]、[CurrentSize] 和 [Verify] 只读，
// 可在写者运行时由监控程序调用。
//
// # 日志输出
//
// 轮转器自身不通过 slog 记录任何内容，因为它通常就是 slog 的输出目标；
// 内部错误通过 [WithOnError] 回调上报。
package xrotate
