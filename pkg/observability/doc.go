// Package observability 日志写入与可观测性相关的子包。
//
//   - xrotate: 按大小轮转的日志文件写入器（编号备份），以及基于 lumberjack 的时间戳方案
//   - xlog: 基于 log/slog 的结构化日志，sink 可以是轮转器
//   - xmetrics: 观测接口与 OpenTelemetry 实现，记录轮转次数、耗时和归档字节数
//
// 各包不持有进程级全局状态，实例由调用方构造并显式传递。
package observability
