package device

import (
	"time"

	fx "github.com/pebdev/astro-alarm/pkg/framework"
)

// DefaultScreenTimeout is the backlight timeout while the alarm is armed.
const DefaultScreenTimeout = 120 * time.Second

// Backlight drives an Indicator and switches it off after Timeout without
// activity, only while the alarm is armed.
type Backlight struct {
	Indicator  Indicator
	Timeout    time.Duration
	Brightness uint8
	Clock      fx.Clock

	on           bool
	lastActivity time.Time
}

// NewBacklight creates a Backlight which is initially on.
func NewBacklight(indicator Indicator) *Backlight {
	return &Backlight{
		Indicator:  indicator,
		Timeout:    DefaultScreenTimeout,
		Brightness: 255,
	}
}

func (b *Backlight) now() time.Time {
	return fx.ClockOrSystem(b.Clock).Now()
}

// On indicates the backlight state.
func (b *Backlight) On() bool {
	return b.on
}

// NotifyActivity restarts the timeout and switches the light on.
func (b *Backlight) NotifyActivity() {
	b.lastActivity = b.now()
	b.SetOn()
}

// Toggle switches the light by hand.
func (b *Backlight) Toggle() {
	if b.on {
		b.SetOff()
	} else {
		b.NotifyActivity()
	}
}

// SetOn switches the light on.
func (b *Backlight) SetOn() {
	if b.on {
		return
	}
	b.on = true
	if b.Indicator != nil {
		b.Indicator.SetBrightness(b.Brightness)
		b.Indicator.SetOn()
	}
}

// SetOff switches the light off.
func (b *Backlight) SetOff() {
	if !b.on {
		return
	}
	b.on = false
	if b.Indicator != nil {
		b.Indicator.SetOff()
	}
}

// Update applies the timeout.
func (b *Backlight) Update(armed bool) {
	if !b.on || !armed || b.Timeout <= 0 {
		return
	}
	if b.now().Sub(b.lastActivity) > b.Timeout {
		b.SetOff()
	}
}
