package device

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pebdev/astro-alarm/pkg/alarm"
	fx "github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/imu"
	"github.com/pebdev/astro-alarm/pkg/input"
	"github.com/pebdev/astro-alarm/pkg/peer"
)

// ConfigFileEnv names the environment variable pointing to a YAML config
// file. The file is loaded before flags are registered, so flags win.
const ConfigFileEnv = "ASTRO_CONFIG"

// Config defines the device options.
type Config struct {
	ID string `yaml:"id"`

	SerialPort     string `yaml:"serial"`
	BaudRate       int    `yaml:"baud"`
	SkipFirstFrame bool   `yaml:"skip_first_frame"`
	AnglePolicy    string `yaml:"angle_policy"`

	Margin            float64       `yaml:"margin"`
	WarningTimeout    time.Duration `yaml:"warning_timeout"`
	SignalLostTimeout time.Duration `yaml:"signal_lost_timeout"`

	PeerRole         string        `yaml:"peer_role"`
	PeerAddress      string        `yaml:"peer_address"`
	PeerInterface    string        `yaml:"peer_interface"`
	MaxRetryInterval time.Duration `yaml:"max_retry_interval"`
	SendInterval     time.Duration `yaml:"send_interval"`

	ScreenTimeout time.Duration `yaml:"screen_timeout"`
	Brightness    int           `yaml:"brightness"`
	Joystick      int           `yaml:"joystick"`
	Button        int           `yaml:"button"`

	LoopInterval time.Duration `yaml:"loop_interval"`
}

var defaultConfig = Config{
	SerialPort:        "/dev/ttyUSB0",
	BaudRate:          imu.DefaultBaudRate,
	SkipFirstFrame:    true,
	AnglePolicy:       imu.AngleFold.String(),
	Margin:            alarm.DefaultMargin,
	WarningTimeout:    alarm.DefaultWarningTimeout,
	SignalLostTimeout: DefaultSignalLostTimeout,
	PeerRole:          peer.RoleListener.String(),
	PeerAddress:       ":" + strconv.Itoa(peer.DefaultPort),
	SendInterval:      DefaultSendInterval,
	ScreenTimeout:     DefaultScreenTimeout,
	Brightness:        255,
	Joystick:          -1,
	LoopInterval:      fx.DefaultInterval,
}

var defaultLoadErr error

func init() {
	if fn := os.Getenv(ConfigFileEnv); fn != "" {
		defaultLoadErr = defaultConfig.LoadFile(fn)
	}
	if val := os.Getenv("ASTRO_SERIAL"); val != "" {
		defaultConfig.SerialPort = val
	}
	if val := os.Getenv("ASTRO_PEER"); val != "" {
		defaultConfig.PeerAddress = val
	}
	if defaultConfig.ID == "" {
		defaultConfig.ID = ID()
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Device ID")
	flag.StringVar(&defaultConfig.SerialPort, "serial", defaultConfig.SerialPort, "Inclinometer serial port, or sim://?... for the simulator")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Inclinometer baud rate")
	flag.BoolVar(&defaultConfig.SkipFirstFrame, "skip-first-frame", defaultConfig.SkipFirstFrame, "Discard the first frame after power-on")
	flag.StringVar(&defaultConfig.AnglePolicy, "angle", defaultConfig.AnglePolicy, "Angle conversion: fold or invert")
	flag.Float64Var(&defaultConfig.Margin, "margin", defaultConfig.Margin, "Alarm margin in g")
	flag.DurationVar(&defaultConfig.WarningTimeout, "warning-timeout", defaultConfig.WarningTimeout, "Signal lost warning period")
	flag.DurationVar(&defaultConfig.SignalLostTimeout, "signal-lost-timeout", defaultConfig.SignalLostTimeout, "Delay without acceleration before the signal is lost")
	flag.StringVar(&defaultConfig.PeerRole, "peer-role", defaultConfig.PeerRole, "Peer link role: listener or connector, empty to disable")
	flag.StringVar(&defaultConfig.PeerAddress, "peer", defaultConfig.PeerAddress, "Peer listen address, or listener address to connect")
	flag.StringVar(&defaultConfig.PeerInterface, "peer-iface", defaultConfig.PeerInterface, "Network interface carrying the peer link")
	flag.DurationVar(&defaultConfig.MaxRetryInterval, "peer-max-retry", defaultConfig.MaxRetryInterval, "Exponential connect backoff limit, 0 for a fixed interval")
	flag.DurationVar(&defaultConfig.SendInterval, "send-interval", defaultConfig.SendInterval, "Minimum period between alarm lines")
	flag.DurationVar(&defaultConfig.ScreenTimeout, "screen-timeout", defaultConfig.ScreenTimeout, "Backlight timeout while armed")
	flag.IntVar(&defaultConfig.Brightness, "brightness", defaultConfig.Brightness, "Backlight brightness 0-255")
	flag.IntVar(&defaultConfig.Joystick, "joystick", defaultConfig.Joystick, "Joystick index providing the button, -1 to disable")
	flag.IntVar(&defaultConfig.Button, "button", defaultConfig.Button, "Joystick button index")
	flag.DurationVar(&defaultConfig.LoopInterval, "loop-interval", defaultConfig.LoopInterval, "Control loop period")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadFile overlays the options found in a YAML file.
func (c *Config) LoadFile(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("load config %s: %w", fn, err)
	}
	return nil
}

// Validate checks the options.
func (c *Config) Validate() error {
	if defaultLoadErr != nil {
		return defaultLoadErr
	}
	if c.SerialPort == "" {
		return fmt.Errorf("serial port must be specified")
	}
	if _, err := imu.ParseAnglePolicy(c.AnglePolicy); err != nil {
		return err
	}
	if c.Margin <= 0 {
		return fmt.Errorf("margin must be positive, got %v", c.Margin)
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return fmt.Errorf("brightness out of range: %d", c.Brightness)
	}
	if c.PeerRole != "" {
		role, err := peer.ParseRole(c.PeerRole)
		if err != nil {
			return err
		}
		conf := c.PeerConfig(nil)
		if err := conf.Validate(role); err != nil {
			return err
		}
	}
	return nil
}

// PeerConfig returns the peer link configuration.
func (c *Config) PeerConfig(clock fx.Clock) peer.Config {
	conf := peer.DefaultConfig()
	conf.Address = c.PeerAddress
	conf.MaxRetryInterval = c.MaxRetryInterval
	conf.Clock = clock
	if c.PeerInterface != "" {
		conf.Association = &peer.InterfaceAssociation{Name: c.PeerInterface}
	}
	return conf
}

// NewAlarm creates the tilt alarm.
func (c *Config) NewAlarm(clock fx.Clock) *alarm.Alarm {
	a := alarm.New()
	a.Margin = c.Margin
	a.WarningTimeout = c.WarningTimeout
	a.Clock = clock
	return a
}

// NewSensor opens the serial port and creates the inclinometer sensor.
func (c *Config) NewSensor() (*imu.Sensor, error) {
	policy, err := imu.ParseAnglePolicy(c.AnglePolicy)
	if err != nil {
		return nil, err
	}
	port, err := imu.OpenSerial(c.SerialPort, c.BaudRate)
	if err != nil {
		return nil, err
	}
	return imu.NewSensor(port, imu.NewDecoder(c.SkipFirstFrame, policy)), nil
}

// NewLink creates the peer link, nil when disabled.
func (c *Config) NewLink(clock fx.Clock) (*peer.Link, error) {
	if c.PeerRole == "" {
		return nil, nil
	}
	role, err := peer.ParseRole(c.PeerRole)
	if err != nil {
		return nil, err
	}
	return peer.New(role, c.PeerConfig(clock)), nil
}

// NewMonitor creates the monitor with every component described by the
// config. Collaborators default to the console ones.
func (c *Config) NewMonitor(clock fx.Clock) (*Monitor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sensor, err := c.NewSensor()
	if err != nil {
		return nil, err
	}
	link, err := c.NewLink(clock)
	if err != nil {
		return nil, err
	}
	m := NewMonitor(sensor, c.NewAlarm(clock), link)
	m.Backlight.Clock = clock
	m.SignalLostTimeout = c.SignalLostTimeout
	m.SendInterval = c.SendInterval
	m.Backlight.Timeout = c.ScreenTimeout
	m.Backlight.Brightness = uint8(c.Brightness)
	if c.Joystick >= 0 {
		m.Input = input.NewJoystickButton(c.Joystick, c.Button)
	}
	return m, nil
}

// MustNewMonitor creates the monitor and fails on error.
func (c *Config) MustNewMonitor(clock fx.Clock) *Monitor {
	m, err := c.NewMonitor(clock)
	if err != nil {
		log.Fatalln(err)
	}
	return m
}
