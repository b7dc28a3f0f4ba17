package demo_configs

import (
	"embed"
)

// FS 內嵌示範關卡 YAML。
//
//go:embed *.yaml
var FS embed.FS
