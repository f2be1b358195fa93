package imu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feedFrame(t *testing.T, d *Decoder, frame []byte) Result {
	var r Result
	for i, b := range frame {
		r = d.Feed(b)
		if i+1 < len(frame) {
			require.Nilf(t, r.Sample, "byte[%d] produced a sample early", i)
		}
	}
	return r
}

func TestDecoderValidFrames(t *testing.T) {
	testCases := []struct {
		name   string
		frame  RawFrame
		expect Sample
	}{
		{
			name:  "acceleration",
			frame: NewRawFrame(KindAcceleration, [4]uint16{0x0400, 0xfc00, 0x0800, 0x09c4}),
			expect: &Acceleration{
				Axes:        Vec3{X: 0.5, Y: -0.5, Z: 1},
				Temperature: 25,
			},
		},
		{
			name:  "negative temperature",
			frame: NewRawFrame(KindAcceleration, [4]uint16{0, 0, 0, uint16(0xfdde)}),
			expect: &Acceleration{
				Temperature: -5.46,
			},
		},
		{
			name:  "angular velocity",
			frame: NewRawFrame(KindAngularVelocity, [4]uint16{0x4000, 0xc000, 0, 370}),
			expect: &AngularVelocity{
				Axes:    Vec3{X: 1000, Y: -1000},
				Voltage: 3.7,
			},
		},
		{
			name:  "angle",
			frame: NewRawFrame(KindAngle, [4]uint16{0x2000, 0xe000, 0x8000, 0x1234}),
			expect: &Angle{
				Axes:    Vec3{X: 45, Y: -45, Z: -180},
				Version: 0x1234,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Decoder
			r := feedFrame(t, &d, tc.frame.Bytes())
			require.NoError(t, r.Err)
			require.NotNil(t, r.Sample)
			require.Equal(t, tc.frame.Kind(), r.Sample.Kind())
			requireSampleEqual(t, tc.expect, r.Sample)
			require.Equal(t, 0, d.Pending())
			require.Equal(t, uint64(1), d.Stats().Frames)
		})
	}
}

func requireSampleEqual(t *testing.T, expect, actual Sample) {
	const delta = 1e-9
	switch e := expect.(type) {
	case *Acceleration:
		a := actual.(*Acceleration)
		requireVecEqual(t, e.Axes, a.Axes)
		require.InDelta(t, e.Temperature, a.Temperature, delta)
	case *AngularVelocity:
		a := actual.(*AngularVelocity)
		requireVecEqual(t, e.Axes, a.Axes)
		require.InDelta(t, e.Voltage, a.Voltage, delta)
	case *Angle:
		a := actual.(*Angle)
		requireVecEqual(t, e.Axes, a.Axes)
		require.Equal(t, e.Version, a.Version)
	default:
		t.Fatalf("unexpected sample %T", expect)
	}
}

func requireVecEqual(t *testing.T, expect, actual Vec3) {
	for i := 0; i < 3; i++ {
		require.InDeltaf(t, expect.Axis(i), actual.Axis(i), 1e-9, "axis %d", i)
	}
}

func TestDecoderChecksumErrorRetainsValue(t *testing.T) {
	var d Decoder
	good := NewRawFrame(KindAcceleration, [4]uint16{0x0400, 0, 0x0800, 0})
	r := feedFrame(t, &d, good.Bytes())
	require.NotNil(t, r.Sample)

	for _, kind := range []Kind{KindAcceleration, KindAngularVelocity, KindAngle} {
		bad := NewRawFrame(kind, [4]uint16{0x1000, 0x1000, 0x1000, 0})
		bad[FrameSize-1] ^= 0xff
		before := d.Telemetry()
		r = feedFrame(t, &d, bad.Bytes())
		require.Nil(t, r.Sample)
		require.IsType(t, &ChecksumError{}, r.Err)
		require.Equal(t, kind, r.Err.(*ChecksumError).Kind)
		require.Equal(t, before, d.Telemetry())
		require.Equal(t, 0, d.Pending())
	}
	require.Equal(t, uint64(3), d.Stats().ChecksumErrors)
	require.InDelta(t, 0.5, d.Telemetry().Acceleration.Axes.X, 1e-9)
}

func TestDecoderResync(t *testing.T) {
	var d Decoder
	frame := NewRawFrame(KindAngle, [4]uint16{0x1000, 0, 0, 0})
	stream := append([]byte{0x00, 0x13, 0xff}, frame.Bytes()...)
	results := d.FeedBytes(stream)
	require.Len(t, results, 1)
	require.Equal(t, KindAngle, results[0].Sample.Kind())
	require.Equal(t, uint64(3), d.Stats().SyncErrors)
}

func TestDecoderDamagedStream(t *testing.T) {
	first := NewRawFrame(KindAcceleration, [4]uint16{0x0400, 0, 0, 0})
	second := NewRawFrame(KindAcceleration, [4]uint16{0x0800, 0, 0, 0})
	third := NewRawFrame(KindAcceleration, [4]uint16{0x0c00, 0, 0, 0})
	corrupt := func(i int) []byte {
		b := first.Bytes()
		b[i] ^= 0xff
		return b
	}
	concat := func(parts ...[]byte) []byte {
		var out []byte
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	testCases := []struct {
		name      string
		stream    []byte
		expect    []float64
		checksums uint64
		syncs     uint64
	}{
		{
			name:      "corrupted payload byte",
			stream:    concat(corrupt(3), second.Bytes(), third.Bytes()),
			expect:    []float64{1, 1.5},
			checksums: 1,
		},
		{
			name:   "corrupted header byte",
			stream: concat(corrupt(0), second.Bytes(), third.Bytes()),
			expect: []float64{1, 1.5},
			syncs:  FrameSize,
		},
		{
			name:   "stray byte between frames",
			stream: concat(first.Bytes(), []byte{0x00}, second.Bytes(), third.Bytes()),
			expect: []float64{0.5, 1, 1.5},
			syncs:  1,
		},
		{
			// the truncated frame swallows the head of the next one, whose
			// tail is then discarded byte by byte
			name:      "truncated frame",
			stream:    concat(first.Bytes()[:5], []byte{0x00}, second.Bytes(), third.Bytes()),
			expect:    []float64{1.5},
			checksums: 1,
			syncs:     FrameSize - 5,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Decoder
			var got []float64
			for _, r := range d.FeedBytes(tc.stream) {
				if r.Sample != nil {
					got = append(got, r.Sample.(*Acceleration).Axes.X)
				}
			}
			require.Len(t, got, len(tc.expect))
			for i := range tc.expect {
				require.InDelta(t, tc.expect[i], got[i], 1e-9)
			}
			require.Equal(t, tc.checksums, d.Stats().ChecksumErrors)
			require.Equal(t, tc.syncs, d.Stats().SyncErrors)
		})
	}
}

func TestDecoderUnknownTag(t *testing.T) {
	var d Decoder
	frame := NewRawFrame(Kind(0x54), [4]uint16{1, 2, 3, 4})
	r := feedFrame(t, &d, frame.Bytes())
	require.Nil(t, r.Sample)
	require.NoError(t, r.Err)
	require.Equal(t, uint64(1), d.Stats().UnknownTags)
	require.Equal(t, 0, d.Pending())
}

func TestDecoderSkipFirstFrame(t *testing.T) {
	d := NewDecoder(true, AngleFold)
	frame := NewRawFrame(KindAcceleration, [4]uint16{0x0400, 0, 0, 0})
	r := feedFrame(t, d, frame.Bytes())
	require.Nil(t, r.Sample)
	require.NoError(t, r.Err)
	require.Equal(t, Telemetry{}, d.Telemetry())
	r = feedFrame(t, d, frame.Bytes())
	require.NotNil(t, r.Sample)
	require.Equal(t, uint64(1), d.Stats().Skipped)
}

func TestFold(t *testing.T) {
	testCases := []struct {
		raw    uint16
		scale  float64
		expect float64
	}{
		{0x0000, 16, 0},
		{0x7fff, 16, 16 - 16.0/32768},
		{0x8000, 16, -16},
		{0xffff, 16, -16.0 / 32768},
		{0x4000, 2000, 1000},
		{0xc000, 180, -90},
	}
	for _, tc := range testCases {
		require.InDeltaf(t, tc.expect, Fold(tc.raw, tc.scale), 1e-9, "raw 0x%04x", tc.raw)
		require.Equalf(t, tc.raw, Unfold(tc.expect, tc.scale), "value %v", tc.expect)
	}
}

func TestAnglePolicy(t *testing.T) {
	testCases := []struct {
		policy AnglePolicy
		raw    uint16
		expect float64
	}{
		{AngleFold, 0x0000, 0},
		{AngleFold, 0x4000, 90},
		{AngleFold, 0xc000, -90},
		{AngleInvert, 0x0000, 180},
		{AngleInvert, 0x4000, -90},
		{AngleInvert, 0x8000, 0},
		{AngleInvert, 0xc000, 90},
	}
	for _, tc := range testCases {
		require.InDeltaf(t, tc.expect, tc.policy.Degrees(tc.raw), 1e-9, "%s 0x%04x", tc.policy, tc.raw)
		require.Equalf(t, tc.raw, tc.policy.Raw(tc.expect), "%s %v", tc.policy, tc.expect)
	}

	p, err := ParseAnglePolicy("invert")
	require.NoError(t, err)
	require.Equal(t, AngleInvert, p)
	_, err = ParseAnglePolicy("sideways")
	require.Error(t, err)
}
