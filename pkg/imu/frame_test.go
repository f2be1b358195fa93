package imu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawFrameLayout(t *testing.T) {
	f := NewRawFrame(KindAcceleration, [4]uint16{0x0400, 0xfc00, 0x0800, 0x09c4})
	require.Equal(t, []byte{
		0x55, 0x51,
		0x00, 0x04, 0x00, 0xfc, 0x00, 0x08, 0xc4, 0x09,
		0x55 + 0x51 + 0x04 + 0xfc + 0x08 + 0xc4 + 0x09 - 0x200,
	}, f.Bytes())
	require.True(t, f.ChecksumOK())
	require.Equal(t, uint16(0xfc00), f.Word(1))

	f[3]++
	require.False(t, f.ChecksumOK())
}

func TestEncodeDecode(t *testing.T) {
	accel := Acceleration{Axes: Vec3{X: 0.25, Y: -1.5, Z: 1}, Temperature: -12.5}
	angle := Angle{Axes: Vec3{X: 10, Y: -20, Z: 170}}

	for _, policy := range []AnglePolicy{AngleFold, AngleInvert} {
		var buf bytes.Buffer
		a := EncodeAcceleration(accel)
		a.WriteTo(&buf)
		g := EncodeAngle(angle, policy)
		g.WriteTo(&buf)
		require.Equal(t, 2*FrameSize, buf.Len())

		d := NewDecoder(false, policy)
		results := d.FeedBytes(buf.Bytes())
		require.Len(t, results, 2)
		tm := d.Telemetry()
		requireVecEqualDelta(t, accel.Axes, tm.Acceleration.Axes, AccelerationScale/rawFullScale)
		require.InDelta(t, accel.Temperature, tm.Acceleration.Temperature, 0.01)
		requireVecEqualDelta(t, angle.Axes, tm.Angle.Axes, AngleScale/rawFullScale)
	}
}

func requireVecEqualDelta(t *testing.T, expect, actual Vec3, delta float64) {
	for i := 0; i < 3; i++ {
		require.InDeltaf(t, expect.Axis(i), actual.Axis(i), delta, "axis %d", i)
	}
}

func TestChecksumErrorMessage(t *testing.T) {
	err := &ChecksumError{Kind: KindAngle, Want: 0x12, Got: 0x34}
	require.Equal(t, "angle: checksum error, want 0x12, got 0x34", err.Error())
}
