// Package ws serves the device status as a live JSON feed over websocket,
// for a phone or a laptop next to the telescope.
package ws

import (
	"github.com/pebdev/astro-alarm/pkg/alarm"
	"github.com/pebdev/astro-alarm/pkg/device"
	"github.com/pebdev/astro-alarm/pkg/imu"
)

// AlarmView is the JSON form of an alarm record.
type AlarmView struct {
	State    string     `json:"state"`
	Status   string     `json:"status"`
	Baseline [3]float64 `json:"baseline"`
	Current  [3]float64 `json:"current"`
}

// PeerView is the JSON form of the peer session.
type PeerView struct {
	Role string `json:"role"`
	WiFi string `json:"wifi"`
	App  string `json:"app"`
}

// View is the JSON document pushed to clients.
type View struct {
	TimeMs       int64      `json:"time_ms"`
	Alarm        AlarmView  `json:"alarm"`
	Remote       *AlarmView `json:"remote"`
	Acceleration [3]float64 `json:"acceleration"`
	Angle        [3]float64 `json:"angle"`
	Temperature  float64    `json:"temperature"`
	SignalLost   bool       `json:"signal_lost"`
	Peer         *PeerView  `json:"peer,omitempty"`
	Ping         bool       `json:"ping"`
	Screen       bool       `json:"screen"`
}

func vec(v imu.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func alarmView(r alarm.Record) AlarmView {
	return AlarmView{
		State:    r.State.String(),
		Status:   r.Status.String(),
		Baseline: vec(r.Baseline),
		Current:  vec(r.Current),
	}
}

// NewView converts a status. Remote is null while the peer alarm is
// unknown.
func NewView(s device.Status) View {
	v := View{
		Alarm:        alarmView(s.Alarm),
		Acceleration: vec(s.Telemetry.Acceleration.Axes),
		Angle:        vec(s.Telemetry.Angle.Axes),
		Temperature:  s.Telemetry.Acceleration.Temperature,
		SignalLost:   s.SignalLost,
		Ping:         s.Ping,
		Screen:       s.Screen,
	}
	if !s.Time.IsZero() {
		v.TimeMs = s.Time.UnixNano() / 1e6
	}
	if s.Remote.Known {
		remote := alarmView(s.Remote.Record)
		v.Remote = &remote
	}
	if s.PeerRole != "" {
		v.Peer = &PeerView{Role: s.PeerRole, WiFi: s.Peer.WiFi.String(), App: s.Peer.App.String()}
	}
	return v
}
