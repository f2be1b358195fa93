package device

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/peer"
)

func TestConfigLoadFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "astro.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
serial: sim://?rate=20
margin: 0.1
warning_timeout: 30s
peer_role: connector
peer_address: astro-1.local:4210
max_retry_interval: 1m
`), 0644))

	conf := NewConfig()
	require.NoError(t, conf.LoadFile(fn))
	require.Equal(t, "sim://?rate=20", conf.SerialPort)
	require.Equal(t, 0.1, conf.Margin)
	require.Equal(t, 30*time.Second, conf.WarningTimeout)
	require.Equal(t, time.Minute, conf.MaxRetryInterval)
	require.Equal(t, DefaultSignalLostTimeout, conf.SignalLostTimeout)
	require.NoError(t, conf.Validate())

	pc := conf.PeerConfig(nil)
	require.Equal(t, "astro-1.local:4210", pc.Address)
	require.Equal(t, peer.AliveTimeout, pc.AliveTimeout)

	require.Error(t, conf.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, os.WriteFile(fn, []byte("margin: [1"), 0644))
	require.Error(t, NewConfig().LoadFile(fn))
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"no serial", func(c *Config) { c.SerialPort = "" }},
		{"angle", func(c *Config) { c.AnglePolicy = "upside" }},
		{"margin", func(c *Config) { c.Margin = 0 }},
		{"brightness", func(c *Config) { c.Brightness = 300 }},
		{"role", func(c *Config) { c.PeerRole = "both" }},
		{"connector without host", func(c *Config) { c.PeerRole = "connector" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			require.NoError(t, conf.Validate())
			tc.modify(conf)
			require.Error(t, conf.Validate())
		})
	}
}

func TestConfigNewMonitor(t *testing.T) {
	conf := NewConfig()
	conf.SerialPort = "sim://?rate=0"
	conf.PeerRole = ""
	conf.Brightness = 40
	clock := fx.NewManualClock()
	m, err := conf.NewMonitor(clock)
	require.NoError(t, err)
	defer m.Sensor.Source.Close()
	require.Nil(t, m.Link)
	require.Nil(t, m.Input)
	require.True(t, m.Sensor.Decoder.SkipFirstFrame)
	require.Equal(t, uint8(40), m.Backlight.Brightness)
	require.Equal(t, clock, m.Alarm.Clock)

	conf.PeerRole = "listener"
	conf.PeerAddress = "127.0.0.1:0"
	m, err = conf.NewMonitor(clock)
	require.NoError(t, err)
	defer m.Sensor.Source.Close()
	require.Equal(t, peer.RoleListener, m.Link.Role)
}

func TestID(t *testing.T) {
	require.NotEmpty(t, ID())
	require.Equal(t, ID(), ID())
}
