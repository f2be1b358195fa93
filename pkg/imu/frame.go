package imu

import (
	"encoding/binary"
	"io"
)

// Frame layout constants.
const (
	SyncByte    byte = 0x55
	FrameSize        = 11
	PayloadSize      = 8
)

// RawFrame is one complete frame as received on the wire.
type RawFrame [FrameSize]byte

// NewRawFrame builds a frame with a valid checksum from four payload words.
func NewRawFrame(kind Kind, words [4]uint16) RawFrame {
	var f RawFrame
	f[0], f[1] = SyncByte, byte(kind)
	for i, w := range words {
		binary.LittleEndian.PutUint16(f[2+i*2:], w)
	}
	f[FrameSize-1] = Checksum(byte(kind), f.Payload())
	return f
}

// Checksum computes (0x55 + tag + sum(payload)) mod 256.
func Checksum(tag byte, payload []byte) byte {
	sum := SyncByte + tag
	for _, b := range payload {
		sum += b
	}
	return sum
}

// Kind returns the tag byte.
func (f *RawFrame) Kind() Kind {
	return Kind(f[1])
}

// Payload returns the 8 payload bytes.
func (f *RawFrame) Payload() []byte {
	return f[2 : 2+PayloadSize]
}

// Word returns the i-th little-endian payload word, 0 to 3.
func (f *RawFrame) Word(i int) uint16 {
	return binary.LittleEndian.Uint16(f[2+i*2:])
}

// Sum returns the trailing checksum byte.
func (f *RawFrame) Sum() byte {
	return f[FrameSize-1]
}

// ChecksumOK verifies the trailing checksum byte.
func (f *RawFrame) ChecksumOK() bool {
	return Checksum(f[1], f.Payload()) == f.Sum()
}

// Bytes returns encoded bytes for sending.
func (f RawFrame) Bytes() []byte {
	return f[:]
}

// WriteTo implements io.WriterTo.
func (f RawFrame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f[:])
	return int64(n), err
}

// EncodeAcceleration builds an acceleration frame.
func EncodeAcceleration(s Acceleration) RawFrame {
	return NewRawFrame(KindAcceleration, [4]uint16{
		Unfold(s.Axes.X, AccelerationScale),
		Unfold(s.Axes.Y, AccelerationScale),
		Unfold(s.Axes.Z, AccelerationScale),
		uint16(rawWordSigned(s.Temperature * 100)),
	})
}

// EncodeAngularVelocity builds an angular velocity frame.
func EncodeAngularVelocity(s AngularVelocity) RawFrame {
	return NewRawFrame(KindAngularVelocity, [4]uint16{
		Unfold(s.Axes.X, AngularVelocityScale),
		Unfold(s.Axes.Y, AngularVelocityScale),
		Unfold(s.Axes.Z, AngularVelocityScale),
		rawWord(s.Voltage * 100),
	})
}

// EncodeAngle builds an angle frame using the given policy.
func EncodeAngle(s Angle, policy AnglePolicy) RawFrame {
	return NewRawFrame(KindAngle, [4]uint16{
		policy.Raw(s.Axes.X),
		policy.Raw(s.Axes.Y),
		policy.Raw(s.Axes.Z),
		s.Version,
	})
}

func rawWordSigned(v float64) int16 {
	if v >= 0 {
		v += 0.5
	} else {
		v -= 0.5
	}
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}
