// Package xfile 提供日志文件落盘相关的文件系统工具。
//
//   - SanitizePath / SafeJoin: 路径格式校验与目录内拼接
//   - EnsureDir: 按 0750 创建父目录
//   - TryLock: 单写者咨询锁（unix 使用 flock，其他平台返回 ErrLockUnsupported）
//   - Checksum: 文件内容的 xxhash64 摘要
//
// 所有错误都可通过 [errors.Is] 与包内预定义错误比较：
//
//	if _, err := xfile.TryLock(path + ".lock"); errors.Is(err, xfile.ErrLocked) {
//	    // 已有其他写者
//	}
package xfile
