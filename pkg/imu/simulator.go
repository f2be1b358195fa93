package imu

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// SimulatorConfig describes the frames produced by a Simulator.
type SimulatorConfig struct {
	// Rate is the number of frame triples (acceleration, velocity, angle)
	// per second. Zero produces frames as fast as they are read.
	Rate float64
	// Acceleration at rest, in g.
	Acceleration Vec3
	// Angle at rest, in degrees.
	Angle       Vec3
	Temperature float64
	AnglePolicy AnglePolicy
	// DisturbAfter shifts the acceleration by Disturbance once this much
	// simulated time has elapsed. Zero disables it.
	DisturbAfter time.Duration
	Disturbance  Vec3
	// CorruptEvery flips the checksum of every n-th frame. Zero disables it.
	CorruptEvery int
}

// Simulator is an io.ReadCloser emitting a synthetic inclinometer stream.
type Simulator struct {
	Config SimulatorConfig

	buf     bytes.Buffer
	frames  int
	elapsed time.Duration
	closeCh chan struct{}
	once    sync.Once
}

// NewSimulator creates a Simulator.
func NewSimulator(conf SimulatorConfig) *Simulator {
	return &Simulator{Config: conf, closeCh: make(chan struct{})}
}

// ParseSimulatorURL creates a Simulator from an address like
// sim://?rate=10&az=1&disturb-after=30s&corrupt-every=50.
func ParseSimulatorURL(address string) (*Simulator, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("invalid simulator address: %w", err)
	}
	conf := SimulatorConfig{Rate: 10, Acceleration: Vec3{Z: 1}, Temperature: 20, Disturbance: Vec3{X: 0.2}}
	q := u.Query()
	floats := map[string]*float64{
		"rate": &conf.Rate,
		"ax":   &conf.Acceleration.X,
		"ay":   &conf.Acceleration.Y,
		"az":   &conf.Acceleration.Z,
		"roll": &conf.Angle.X, "pitch": &conf.Angle.Y, "yaw": &conf.Angle.Z,
		"temp": &conf.Temperature,
		"dx":   &conf.Disturbance.X,
		"dy":   &conf.Disturbance.Y,
		"dz":   &conf.Disturbance.Z,
	}
	for key, ptr := range floats {
		if val := q.Get(key); val != "" {
			if *ptr, err = strconv.ParseFloat(val, 64); err != nil {
				return nil, fmt.Errorf("simulator %s: %w", key, err)
			}
		}
	}
	if val := q.Get("disturb-after"); val != "" {
		if conf.DisturbAfter, err = time.ParseDuration(val); err != nil {
			return nil, fmt.Errorf("simulator disturb-after: %w", err)
		}
	}
	if val := q.Get("corrupt-every"); val != "" {
		if conf.CorruptEvery, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("simulator corrupt-every: %w", err)
		}
	}
	if conf.AnglePolicy, err = ParseAnglePolicy(q.Get("angle")); err != nil {
		return nil, err
	}
	return NewSimulator(conf), nil
}

// Read implements io.Reader. It blocks for one period per frame triple
// when Rate is set.
func (s *Simulator) Read(p []byte) (int, error) {
	if s.buf.Len() == 0 {
		if err := s.wait(); err != nil {
			return 0, err
		}
		s.generate()
	}
	return s.buf.Read(p)
}

// Close implements io.Closer and unblocks a pending Read.
func (s *Simulator) Close() error {
	s.once.Do(func() { close(s.closeCh) })
	return nil
}

func (s *Simulator) period() time.Duration {
	if s.Config.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / s.Config.Rate)
}

func (s *Simulator) wait() error {
	select {
	case <-s.closeCh:
		return io.EOF
	default:
	}
	period := s.period()
	if period == 0 {
		return nil
	}
	select {
	case <-s.closeCh:
		return io.EOF
	case <-time.After(period):
		return nil
	}
}

// generate appends the next frame triple to the buffer.
func (s *Simulator) generate() {
	conf := &s.Config
	accel := conf.Acceleration
	if conf.DisturbAfter > 0 && s.elapsed >= conf.DisturbAfter {
		accel = Vec3{
			X: accel.X + conf.Disturbance.X,
			Y: accel.Y + conf.Disturbance.Y,
			Z: accel.Z + conf.Disturbance.Z,
		}
	}
	frames := []RawFrame{
		EncodeAcceleration(Acceleration{Axes: accel, Temperature: conf.Temperature}),
		EncodeAngularVelocity(AngularVelocity{}),
		EncodeAngle(Angle{Axes: conf.Angle}, conf.AnglePolicy),
	}
	for _, f := range frames {
		s.frames++
		if conf.CorruptEvery > 0 && s.frames%conf.CorruptEvery == 0 {
			f[FrameSize-1]++
		}
		f.WriteTo(&s.buf)
	}
	s.elapsed += s.period()
}
