// Package xconf 基于 koanf 的配置加载。
//
// 支持 YAML（.yaml/.yml）与 JSON（.json），格式由扩展名决定：
//
//	var file struct {
//		Rotation xrotate.Config `koanf:"rotation"`
//		Log      struct {
//			Level string `koanf:"level"`
//		} `koanf:"log"`
//	}
//	cfg, err := xconf.Load("/etc/xrotctl.yaml", &file)
//
// 本包只负责加载、反序列化和热重载，不做默认值填充或字段校验，
// 这些由使用方（如 xrotate.Config.Validate）负责。
//
// # 热重载
//
// [Watch] 基于 fsnotify 监视文件所在目录，[Watcher.Run] 阻塞运行，
// 适合放进 xrun.Group：
//
//	w, err := xconf.Watch(cfg, func(c *xconf.Config, err error) { ... })
//	g.Go(w.Run)
//
// 防抖窗口内的多次变更只触发一次 Reload；解析失败时配置保持旧内容，
// 错误通过回调交给调用方。
package xconf
