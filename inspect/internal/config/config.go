// CLAUDE:SUMMARY Defines framewatch config structs and parses YAML configuration files with defaults.
// Package config handles framewatch configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level framewatch configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Pages   []PageConfig  `yaml:"pages"`
	Log     LogConfig     `yaml:"log"`
	Sinks   []SinkConfig  `yaml:"sinks"`

	// SnapshotInterval is the period between forced hierarchy snapshots,
	// in addition to the event-driven refreshes on frame attach/navigate.
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`

	// PreviewLimit caps the length of message payload previews.
	PreviewLimit int `yaml:"preview_limit"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome. Empty = launch locally.
	Remote          string        `yaml:"remote"`
	Headless        bool          `yaml:"headless"`
	Stealth         bool          `yaml:"stealth"`
	RecycleInterval time.Duration `yaml:"recycle_interval"`
}

// PageConfig defines a page to inspect. Each page gets its own tab; TabID
// is assigned sequentially when left zero for every page.
type PageConfig struct {
	ID    string `yaml:"id"`
	URL   string `yaml:"url"`
	TabID int    `yaml:"tab_id"`
}

// LogConfig controls the session message log. An empty path means an
// in-memory log that vanishes with the session.
type LogConfig struct {
	Path string `yaml:"path"`
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout | webhook
	URL  string `yaml:"url"`
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.SnapshotInterval <= 0 {
		c.SnapshotInterval = 30 * time.Second
	}
	if c.PreviewLimit <= 0 {
		c.PreviewLimit = 512
	}
	if c.Browser.RecycleInterval <= 0 {
		c.Browser.RecycleInterval = 4 * time.Hour
	}
	nextTab := 1
	for i := range c.Pages {
		if c.Pages[i].TabID == 0 {
			c.Pages[i].TabID = nextTab
		}
		nextTab = c.Pages[i].TabID + 1
	}
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Defaults()
	return &cfg, nil
}
