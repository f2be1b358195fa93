package imu

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/pebdev/astro-alarm/pkg/framework"
)

// Sensor drives a Decoder from a serial stream. Reading happens in a
// background goroutine; the loop-side Control drains whatever arrived
// since the previous tick without blocking.
type Sensor struct {
	Source  io.ReadCloser
	Decoder *Decoder

	chunkCh  chan []byte
	lastSeen [3]time.Time
	started  time.Time
}

// SensorBacklog is the number of read chunks buffered between ticks.
const SensorBacklog = 64

// NewSensor creates a Sensor.
func NewSensor(source io.ReadCloser, decoder *Decoder) *Sensor {
	return &Sensor{
		Source:  source,
		Decoder: decoder,
		chunkCh: make(chan []byte, SensorBacklog),
	}
}

// AddToLoop implements LoopAdder.
func (s *Sensor) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, s)
}

// Name implements Named.
func (s *Sensor) Name() string {
	return "imu"
}

// Run implements Runnable.
func (s *Sensor) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.Source, func() error {
		return s.readLoop(ctx)
	})
}

func (s *Sensor) readLoop(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		n, err := s.Source.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunkCh <- chunk:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			if isTimeout(err) {
				continue
			}
			glog.Warningf("imu: read error: %v", err)
			return err
		}
	}
}

// Control implements Controller.
func (s *Sensor) Control(cc fx.ControlContext) error {
	if s.started.IsZero() {
		s.started = cc.Time()
	}
	for {
		select {
		case chunk := <-s.chunkCh:
			s.Feed(cc.Time(), chunk)
		default:
			return nil
		}
	}
}

// Feed decodes bytes received at now.
func (s *Sensor) Feed(now time.Time, p []byte) {
	for _, r := range s.Decoder.FeedBytes(p) {
		if r.Sample != nil {
			s.lastSeen[r.Sample.Kind()-KindAcceleration] = now
			if glog.V(4) {
				glog.Infof("imu: %s %+v", r.Sample.Kind(), r.Sample)
			}
			continue
		}
		stats := s.Decoder.Stats()
		if stats.ChecksumErrors%100 == 1 {
			glog.Warningf("imu: %v (%d checksum errors so far)", r.Err, stats.ChecksumErrors)
		} else {
			glog.V(2).Infof("imu: %v", r.Err)
		}
	}
}

// Telemetry returns the last accepted value of each kind.
func (s *Sensor) Telemetry() Telemetry {
	return s.Decoder.Telemetry()
}

// LastSeen returns when a sample of kind was last accepted, zero if never.
func (s *Sensor) LastSeen(kind Kind) time.Time {
	if !kind.IsValid() {
		return time.Time{}
	}
	return s.lastSeen[kind-KindAcceleration]
}

// SignalLost reports whether no acceleration sample was accepted within
// timeout. Before the first sample the timeout runs from the first tick.
func (s *Sensor) SignalLost(now time.Time, timeout time.Duration) bool {
	last := s.lastSeen[0]
	if last.IsZero() {
		last = s.started
	}
	if last.IsZero() {
		return true
	}
	return now.Sub(last) > timeout
}

func isTimeout(err error) bool {
	if err == errSerialTimeout {
		return true
	}
	t, ok := err.(interface{ Timeout() bool })
	return ok && t.Timeout()
}
