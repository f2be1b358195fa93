package imu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/pebdev/astro-alarm/pkg/framework"
)

func TestSensorSignalLost(t *testing.T) {
	s := NewSensor(NewSimulator(SimulatorConfig{}), &Decoder{})
	base := time.Unix(1700000000, 0)
	require.True(t, s.SignalLost(base, time.Second))

	loop := fx.NewLoop()
	clock := fx.NewManualClock()
	loop.Clock = clock
	loop.Add(s)
	loop.Step(context.Background())
	start := clock.Now()
	require.False(t, s.SignalLost(start.Add(time.Second), time.Second))
	require.True(t, s.SignalLost(start.Add(time.Second+time.Millisecond), time.Second))

	at := start.Add(5 * time.Second)
	accel := EncodeAcceleration(Acceleration{Axes: Vec3{Z: 1}})
	s.Feed(at, accel.Bytes())
	require.Equal(t, at, s.LastSeen(KindAcceleration))
	require.True(t, s.LastSeen(KindAngle).IsZero())
	require.True(t, s.LastSeen(Kind(0)).IsZero())
	require.False(t, s.SignalLost(at.Add(500*time.Millisecond), time.Second))

	// only acceleration counts as signal
	angle := EncodeAngle(Angle{}, AngleFold)
	s.Feed(at.Add(2*time.Second), angle.Bytes())
	require.True(t, s.SignalLost(at.Add(2*time.Second), time.Second))
}

func TestSensorControlDrainsChunks(t *testing.T) {
	s := NewSensor(NewSimulator(SimulatorConfig{}), &Decoder{})
	loop := fx.NewLoop()
	loop.Clock = fx.NewManualClock()
	loop.Add(s)

	frame := EncodeAcceleration(Acceleration{Axes: Vec3{X: 0.5}})
	raw := frame.Bytes()
	s.chunkCh <- raw[:4]
	s.chunkCh <- raw[4:]
	loop.Step(context.Background())
	require.InDelta(t, 0.5, s.Telemetry().Acceleration.Axes.X, 1e-9)
	require.Empty(t, s.chunkCh)
}

func TestSensorRun(t *testing.T) {
	sim := NewSimulator(SimulatorConfig{Acceleration: Vec3{Y: -0.25}})
	s := NewSensor(sim, &Decoder{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	loop := fx.NewLoop()
	loop.Clock = fx.NewManualClock()
	loop.Add(s)
	require.Eventually(t, func() bool {
		loop.Step(ctx)
		return s.Decoder.Stats().Frames > 0
	}, time.Second, time.Millisecond)
	require.InDelta(t, -0.25, s.Telemetry().Acceleration.Axes.Y, 1e-9)

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("sensor did not stop")
	}
}
