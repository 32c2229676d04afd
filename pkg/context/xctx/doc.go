// Package xctx 在 context 中传递日志富化字段。
//
// 字段分两类：
//
//   - 追踪：trace_id / span_id / trace_flags，格式遵循 W3C Trace Context，
//     注入时校验；xmetrics 以其重建父跨度，并把新跨度的 ID 写回
//   - 运行：run_id，标识一次进程运行
//
// xlog 的富化 Handler 通过 [AppendAttrs] 把这些字段附加到每条记录上。
//
// 所有读取函数对 nil ctx 返回零值；写入函数对 nil ctx 返回 [ErrNilContext]。
package xctx
