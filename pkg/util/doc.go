// Package util 通用工具子包。
//
//   - xfile: 路径清理、目录创建、单写者文件锁、xxhash 文件摘要
package util
