package mqtt

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/pebdev/astro-alarm/pkg/telemetry"
)

// Config defines the publishing options.
type Config struct {
	// BrokerURL is like mqtt://host:1883/astro/. Empty disables publishing.
	BrokerURL string
	Interval  time.Duration
}

var defaultConfig = Config{
	Interval: DefaultInterval,
}

func init() {
	if val := os.Getenv("ASTRO_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
}

// SetupFlags setup command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL, empty disables publishing.")
	flag.DurationVar(&defaultConfig.Interval, "publish-interval", defaultConfig.Interval, "Telemetry publishing period.")
}

// Default returns the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Enabled indicates a broker is configured.
func (c *Config) Enabled() bool {
	return c.BrokerURL != ""
}

// NewPublisher creates a Publisher, or nil when publishing is disabled.
func (c *Config) NewPublisher(meta telemetry.Meta, source StatusSource) (*Publisher, error) {
	if !c.Enabled() {
		return nil, nil
	}
	p, err := NewPublisher(c.BrokerURL, meta, source)
	if err != nil {
		return nil, err
	}
	if c.Interval > 0 {
		p.Interval = c.Interval
	}
	return p, nil
}

// MustNewPublisher is like NewPublisher and fails the process on errors.
func (c *Config) MustNewPublisher(meta telemetry.Meta, source StatusSource) *Publisher {
	p, err := c.NewPublisher(meta, source)
	if err != nil {
		log.Fatalln(err)
	}
	return p
}
