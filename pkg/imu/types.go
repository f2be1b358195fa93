package imu

import "fmt"

// Vec3 is an ordered {X, Y, Z} triple.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Axis returns the i-th component, 0 for X, 1 for Y, 2 for Z.
func (v Vec3) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("axis index %d out of range", i))
}

// Slice returns the components in X, Y, Z order.
func (v Vec3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// String implements fmt.Stringer.
func (v Vec3) String() string {
	return fmt.Sprintf("%.2f|%.2f|%.2f", v.X, v.Y, v.Z)
}

// Kind is the frame-type tag of a sample.
type Kind byte

// Known frame tags.
const (
	KindAcceleration    Kind = 0x51
	KindAngularVelocity Kind = 0x52
	KindAngle           Kind = 0x53
)

// IsValid indicates the tag is one the decoder understands.
func (k Kind) IsValid() bool {
	return k >= KindAcceleration && k <= KindAngle
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindAcceleration:
		return "acceleration"
	case KindAngularVelocity:
		return "velocity"
	case KindAngle:
		return "angle"
	}
	return fmt.Sprintf("kind(0x%02x)", byte(k))
}

// Sample is one decoded frame: *Acceleration, *AngularVelocity or *Angle.
type Sample interface {
	Kind() Kind
}

// Acceleration in g (+-16) and temperature in degrees Celsius.
type Acceleration struct {
	Axes        Vec3
	Temperature float64
}

// Kind implements Sample.
func (s *Acceleration) Kind() Kind { return KindAcceleration }

// AngularVelocity in degrees per second (+-2000) and the auxiliary
// voltage word, only meaningful on the bluetooth variant of the sensor.
type AngularVelocity struct {
	Axes    Vec3
	Voltage float64
}

// Kind implements Sample.
func (s *AngularVelocity) Kind() Kind { return KindAngularVelocity }

// Angle holds roll (X), pitch (Y) and yaw (Z) in degrees (+-180).
type Angle struct {
	Axes    Vec3
	Version uint16
}

// Kind implements Sample.
func (s *Angle) Kind() Kind { return KindAngle }

// Telemetry is the last accepted value of every sample kind.
type Telemetry struct {
	Acceleration    Acceleration
	AngularVelocity AngularVelocity
	Angle           Angle
}

// Scales of the physical ranges.
const (
	AccelerationScale    = 16.0
	AngularVelocityScale = 2000.0
	AngleScale           = 180.0

	rawFullScale = 32768.0
)

// Fold maps a raw word onto the signed range [-scale, scale). Words in
// the upper half represent negative values.
func Fold(raw uint16, scale float64) float64 {
	v := float64(raw) / rawFullScale * scale
	if v >= scale {
		v -= 2 * scale
	}
	return v
}

// Unfold is the inverse of Fold, rounding to the nearest raw word.
func Unfold(v, scale float64) uint16 {
	if v < 0 {
		v += 2 * scale
	}
	return rawWord(v / scale * rawFullScale)
}

func rawWord(r float64) uint16 {
	r += 0.5
	if r < 0 {
		return 0
	}
	if r >= 65535 {
		return 65535
	}
	return uint16(r)
}

// AnglePolicy selects how angle words are mapped to degrees. The sensor
// has been seen mounted either way up, so both are supported.
type AnglePolicy int

const (
	// AngleFold applies the same fold as acceleration and velocity.
	AngleFold AnglePolicy = iota
	// AngleInvert rotates by 180 degrees: raw*180/32768 + 180, wrapped
	// into (-180, 180].
	AngleInvert
)

// ParseAnglePolicy parses "fold" or "invert".
func ParseAnglePolicy(s string) (AnglePolicy, error) {
	switch s {
	case "", "fold":
		return AngleFold, nil
	case "invert":
		return AngleInvert, nil
	}
	return AngleFold, fmt.Errorf("unknown angle policy %q", s)
}

// String implements fmt.Stringer.
func (p AnglePolicy) String() string {
	if p == AngleInvert {
		return "invert"
	}
	return "fold"
}

// Degrees converts a raw angle word.
func (p AnglePolicy) Degrees(raw uint16) float64 {
	if p != AngleInvert {
		return Fold(raw, AngleScale)
	}
	v := float64(raw)/rawFullScale*AngleScale + 180
	if v > 180 {
		v -= 360
	}
	return v
}

// Raw converts degrees back to a raw angle word.
func (p AnglePolicy) Raw(deg float64) uint16 {
	if p != AngleInvert {
		return Unfold(deg, AngleScale)
	}
	v := deg - 180
	if v < 0 {
		v += 360
	}
	return rawWord(v / AngleScale * rawFullScale)
}
