// Package alarm implements the tilt alarm: it captures an acceleration
// baseline when armed and locks into Triggered as soon as any axis drifts
// beyond the margin.
package alarm

import (
	"math"
	"time"

	"github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/imu"
)

// State is the arming state.
type State int

// States.
const (
	StateOff State = iota
	StateEnabling
	StateOn
	StateLocked
)

var stateNames = []string{"off", "enabling", "on", "locked"}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Armed indicates the alarm is watching (or has tripped).
func (s State) Armed() bool {
	return s != StateOff
}

// Status is the trigger status.
type Status int

// Statuses.
const (
	StatusNotTriggered Status = iota
	StatusTriggered
	StatusWarning
)

var statusNames = []string{"not-triggered", "triggered", "warning"}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Record is a snapshot of the alarm.
type Record struct {
	State    State
	Status   Status
	Baseline imu.Vec3
	Current  imu.Vec3
}

// Delta returns Current - Baseline.
func (r Record) Delta() imu.Vec3 {
	return r.Current.Sub(r.Baseline)
}

// Defaults.
const (
	DefaultMargin         = 0.06
	DefaultWarningTimeout = 10 * time.Second
)

// Alarm is the tilt alarm state machine. It is not safe for concurrent
// use; the control loop owns it.
type Alarm struct {
	// Margin in g; an axis is undisturbed while |baseline - current| < Margin.
	Margin float64
	// WarningTimeout is how long the signal may be lost before a
	// Warning is raised, and then the period between warnings.
	WarningTimeout time.Duration
	Clock          framework.Clock

	record   Record
	lastGood time.Time
}

// New creates an Alarm with the default margin and warning timeout.
func New() *Alarm {
	return &Alarm{
		Margin:         DefaultMargin,
		WarningTimeout: DefaultWarningTimeout,
	}
}

// SwitchState toggles the alarm: On and Locked disarm, Off and Enabling
// arm. The baseline is captured by the next Update.
func (a *Alarm) SwitchState() Record {
	switch a.record.State {
	case StateOn, StateLocked:
		a.record.State = StateOff
		a.record.Status = StatusNotTriggered
	default:
		a.record.State = StateEnabling
	}
	return a.record
}

// Update feeds the latest acceleration. signalLost tells the sample is
// stale, in which case no comparison is made and a Warning is pulsed once
// every WarningTimeout.
func (a *Alarm) Update(signalLost bool, v imu.Vec3) Record {
	now := framework.ClockOrSystem(a.Clock).Now()
	if a.record.State == StateEnabling {
		a.record.Baseline = v
		a.record.State = StateOn
		a.lastGood = now
	}
	a.record.Current = v

	if a.record.State != StateOn {
		return a.record
	}
	if !signalLost {
		if a.inRange(a.record.Baseline, v) {
			a.record.Status = StatusNotTriggered
		} else {
			a.record.State = StateLocked
			a.record.Status = StatusTriggered
		}
		a.lastGood = now
		return a.record
	}
	if now.Sub(a.lastGood) > a.warningTimeout() {
		a.record.Status = StatusWarning
		a.lastGood = now
	} else {
		a.record.Status = StatusNotTriggered
	}
	return a.record
}

// Record returns the last record.
func (a *Alarm) Record() Record {
	return a.record
}

func (a *Alarm) inRange(baseline, current imu.Vec3) bool {
	margin := a.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}
	for i := 0; i < 3; i++ {
		if math.Abs(baseline.Axis(i)-current.Axis(i)) >= margin {
			return false
		}
	}
	return true
}

func (a *Alarm) warningTimeout() time.Duration {
	if a.WarningTimeout <= 0 {
		return DefaultWarningTimeout
	}
	return a.WarningTimeout
}
