// Package xrun 基于 errgroup 的进程生命周期管理。
//
// [Group] 中任一服务失败都会取消其余服务；[Run] 在此基础上监听
// SIGINT/SIGTERM/SIGHUP，收到信号时以 [*SignalError] 作为退出原因：
//
//	err := xrun.Run(ctx,
//		pipeStdin(rotator),
//		watcher.Run,
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//		// 正常退出
//	}
//
// 关闭逻辑写在各服务对 ctx.Done() 的处理中，本包不提供关闭钩子。
package xrun
