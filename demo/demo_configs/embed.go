package demo_configs

import (
	"embed"
)

// FS provides embedded default game configs for external usage.
//
//go:embed *.yaml *.json
var FS embed.FS
