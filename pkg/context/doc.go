// Package context 上下文相关的子包。
//
//   - xctx: 在 context.Context 中携带 run_id 与 W3C trace 标识，并转换为 slog 属性
package context
