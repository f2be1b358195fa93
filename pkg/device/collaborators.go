package device

import (
	"time"

	"github.com/pebdev/astro-alarm/pkg/alarm"
	"github.com/pebdev/astro-alarm/pkg/imu"
	"github.com/pebdev/astro-alarm/pkg/peer"
)

// RemoteAlarm is the alarm of the peer device. It is unknown while the
// link is down, never a false clear.
type RemoteAlarm struct {
	Known  bool
	Record alarm.Record
}

// Status is everything the display shows.
type Status struct {
	Time       time.Time
	Alarm      alarm.Record
	Remote     RemoteAlarm
	Telemetry  imu.Telemetry
	Stats      imu.Stats
	SignalLost bool
	Peer       peer.Session
	PeerRole   string
	Ping       bool
	Screen     bool
}

// Display renders the status.
type Display interface {
	Draw(Status)
}

// Event is a sound played by the Beeper.
type Event int

// Beeper events.
const (
	EventModeChange Event = iota
	EventAlarm
	EventWarning
	EventStop
)

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e {
	case EventModeChange:
		return "mode-change"
	case EventAlarm:
		return "alarm"
	case EventWarning:
		return "warning"
	case EventStop:
		return "stop"
	}
	return "unknown"
}

// Beeper plays sounds.
type Beeper interface {
	Play(Event)
}

// Indicator is the backlight hardware.
type Indicator interface {
	SetOn()
	SetOff()
	SetBrightness(uint8)
}

// DisplayFunc is the func form of Display.
type DisplayFunc func(Status)

// Draw implements Display.
func (f DisplayFunc) Draw(s Status) {
	f(s)
}

// Displays fans a status out to several displays.
type Displays []Display

// Draw implements Display.
func (d Displays) Draw(s Status) {
	for _, display := range d {
		display.Draw(s)
	}
}
