package main

import (
	"errors"

	"github.com/omeyang/xrotlog/pkg/observability/xrotate"
)

// fileConfig pipe --config 指向的配置文件结构
//
//	rotation:
//	  path: /var/log/app/app.log
//	  max_bytes: 5000
//	  backup_count: 3
//	  lock: true
//	log:
//	  level: info
//	  format: text
//	  console: false
//	pipe:
//	  scheme: numbered
//	  retries: 3
//	  rotate_cron: "@hourly"
//
// 修改 log.level 后无需重启即生效，其余字段只在启动时读取。
type fileConfig struct {
	Rotation xrotate.Config `koanf:"rotation"`
	Log      logSection     `koanf:"log"`
	Pipe     pipeSection    `koanf:"pipe"`
}

type logSection struct {
	Level   string `koanf:"level"`
	Format  string `koanf:"format"`
	Console bool   `koanf:"console"`
}

type pipeSection struct {
	Scheme     string `koanf:"scheme"`
	Retries    int    `koanf:"retries"`
	RotateCron string `koanf:"rotate_cron"`
}

func isConfigError(err error) bool {
	return errors.Is(err, xrotate.ErrInvalidConfig)
}
