package imu

// Result is the outcome of feeding one byte. Both fields are nil while a
// frame is still being accumulated.
type Result struct {
	Sample Sample
	Err    error
}

// Stats counts decoder events since creation.
type Stats struct {
	Frames         uint64
	SyncErrors     uint64
	ChecksumErrors uint64
	UnknownTags    uint64
	Skipped        uint64
}

// Decoder turns the raw byte stream into samples. The zero value is ready
// to use with AngleFold and no first-frame skipping.
type Decoder struct {
	// SkipFirstFrame discards the first valid frame after creation, whose
	// values may still be garbage from the sensor warm-up.
	SkipFirstFrame bool
	AnglePolicy    AnglePolicy

	frame     RawFrame
	count     int
	warm      bool
	telemetry Telemetry
	stats     Stats
}

// NewDecoder creates a Decoder.
func NewDecoder(skipFirst bool, policy AnglePolicy) *Decoder {
	return &Decoder{SkipFirstFrame: skipFirst, AnglePolicy: policy}
}

// Feed consumes one byte.
func (d *Decoder) Feed(b byte) (r Result) {
	d.frame[d.count] = b
	d.count++
	if d.frame[0] != SyncByte {
		d.count = 0
		d.stats.SyncErrors++
		r.Err = ErrFrameSync
		return
	}
	if d.count < FrameSize {
		return
	}
	d.count = 0

	kind := d.frame.Kind()
	if !kind.IsValid() {
		d.stats.UnknownTags++
		return
	}
	if want := Checksum(byte(kind), d.frame.Payload()); want != d.frame.Sum() {
		d.stats.ChecksumErrors++
		r.Err = &ChecksumError{Kind: kind, Want: want, Got: d.frame.Sum()}
		return
	}
	if d.SkipFirstFrame && !d.warm {
		d.warm = true
		d.stats.Skipped++
		return
	}
	d.warm = true
	r.Sample = d.decode(&d.frame)
	d.stats.Frames++
	return
}

// FeedBytes feeds every byte in p and returns the results carrying a
// sample or an error other than ErrFrameSync.
func (d *Decoder) FeedBytes(p []byte) []Result {
	var results []Result
	for _, b := range p {
		r := d.Feed(b)
		if r.Sample != nil || (r.Err != nil && r.Err != ErrFrameSync) {
			results = append(results, r)
		}
	}
	return results
}

// Pending is the number of bytes accumulated for the current frame.
func (d *Decoder) Pending() int {
	return d.count
}

// Telemetry returns the last accepted value of each kind.
func (d *Decoder) Telemetry() Telemetry {
	return d.telemetry
}

// Stats returns the event counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

func (d *Decoder) decode(f *RawFrame) Sample {
	switch f.Kind() {
	case KindAcceleration:
		d.telemetry.Acceleration = Acceleration{
			Axes: Vec3{
				X: Fold(f.Word(0), AccelerationScale),
				Y: Fold(f.Word(1), AccelerationScale),
				Z: Fold(f.Word(2), AccelerationScale),
			},
			Temperature: float64(int16(f.Word(3))) / 100,
		}
		s := d.telemetry.Acceleration
		return &s
	case KindAngularVelocity:
		d.telemetry.AngularVelocity = AngularVelocity{
			Axes: Vec3{
				X: Fold(f.Word(0), AngularVelocityScale),
				Y: Fold(f.Word(1), AngularVelocityScale),
				Z: Fold(f.Word(2), AngularVelocityScale),
			},
			Voltage: float64(f.Word(3)) / 100,
		}
		s := d.telemetry.AngularVelocity
		return &s
	default:
		d.telemetry.Angle = Angle{
			Axes: Vec3{
				X: d.AnglePolicy.Degrees(f.Word(0)),
				Y: d.AnglePolicy.Degrees(f.Word(1)),
				Z: d.AnglePolicy.Degrees(f.Word(2)),
			},
			Version: f.Word(3),
		}
		s := d.telemetry.Angle
		return &s
	}
}
