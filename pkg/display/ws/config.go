package ws

import (
	"flag"
	"os"
	"time"
)

// Config defines the status feed options.
type Config struct {
	// Addr is the HTTP listen address. Empty disables the feed.
	Addr    string
	Refresh time.Duration
}

var defaultConfig = Config{
	Refresh: DefaultRefresh,
}

func init() {
	if val := os.Getenv("ASTRO_WS_ADDR"); val != "" {
		defaultConfig.Addr = val
	}
}

// SetupFlags setup command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Addr, "ws", defaultConfig.Addr, "Status feed listen address, e.g. :8080. Empty disables it.")
	flag.DurationVar(&defaultConfig.Refresh, "ws-refresh", defaultConfig.Refresh, "Status feed keep-alive period.")
}

// Default returns the default config.
func Default() *Config {
	return &defaultConfig
}

// NewFeed creates a Feed, or nil when disabled.
func (c *Config) NewFeed() *Feed {
	if c.Addr == "" {
		return nil
	}
	f := NewFeed(c.Addr)
	if c.Refresh > 0 {
		f.Refresh = c.Refresh
	}
	return f
}
