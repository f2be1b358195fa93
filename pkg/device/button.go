package device

import "time"

// ButtonEvent is the outcome of polling the button.
type ButtonEvent int

// Button events.
const (
	NotPushed ButtonEvent = iota
	// ShortPush is reported once, on release, for a press shorter than
	// PressTimeout.
	ShortPush
	// LongPush is reported once when the press reaches LongPressTimeout.
	LongPush
	// LongPushHeld is reported on every poll after LongPush until release.
	LongPushHeld
)

// String implements fmt.Stringer.
func (e ButtonEvent) String() string {
	switch e {
	case ShortPush:
		return "short"
	case LongPush:
		return "long"
	case LongPushHeld:
		return "long-held"
	}
	return "none"
}

// Button timing defaults.
const (
	DefaultPressTimeout     = 600 * time.Millisecond
	DefaultLongPressTimeout = time.Second
)

// ButtonDecoder turns a polled button level into press events. Presses
// released between PressTimeout and LongPressTimeout are ignored.
type ButtonDecoder struct {
	PressTimeout     time.Duration
	LongPressTimeout time.Duration

	pressed bool
	since   time.Time
	long    bool
}

// NewButtonDecoder creates a ButtonDecoder with the default timing.
func NewButtonDecoder() *ButtonDecoder {
	return &ButtonDecoder{
		PressTimeout:     DefaultPressTimeout,
		LongPressTimeout: DefaultLongPressTimeout,
	}
}

// Update polls the level at now.
func (b *ButtonDecoder) Update(now time.Time, pressed bool) ButtonEvent {
	switch {
	case pressed && !b.pressed:
		b.pressed, b.since, b.long = true, now, false
		return NotPushed
	case pressed:
		if b.long {
			return LongPushHeld
		}
		if now.Sub(b.since) >= b.LongPressTimeout {
			b.long = true
			return LongPush
		}
		return NotPushed
	case b.pressed:
		b.pressed = false
		if !b.long && now.Sub(b.since) < b.PressTimeout {
			return ShortPush
		}
	}
	return NotPushed
}
