package inspect

import (
	"github.com/hazyhaar/framewatch/inspect/internal/config"
)

// Config is the top-level framewatch configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// PageConfig defines a page to inspect.
type PageConfig = config.PageConfig

// LogConfig controls the session message log.
type LogConfig = config.LogConfig

// SinkConfig defines an output backend.
type SinkConfig = config.SinkConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}
