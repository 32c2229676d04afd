// Package xmetrics 提供最小化的观测接口（Observer/Span/Attr）及其 OpenTelemetry 实现。
//
// 组件只依赖接口，未配置观测器时使用 [NoopObserver]：
//
//	obs, _ := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(mp))
//	w, _ := xrotate.NewNumbered(path, xrotate.WithObserver(obs))
//
// # 指标
//
//   - xrotlog.operation.total: 操作次数
//   - xrotlog.operation.duration: 操作耗时（秒）
//   - xrotlog.operation.bytes: 归档或写入的字节数
//
// 统一属性：component / operation / status。
package xmetrics
