package device

import (
	"fmt"

	"github.com/golang/glog"
)

// ConsoleDisplay logs the status whenever its summary changes.
type ConsoleDisplay struct {
	last string
}

// Draw implements Display.
func (d *ConsoleDisplay) Draw(s Status) {
	line := Summary(s)
	if line != d.last {
		d.last = line
		glog.Info(line)
	}
}

// Summary renders the status on one line.
func Summary(s Status) string {
	remote := "unknown"
	if s.Remote.Known {
		remote = fmt.Sprintf("%s/%s", s.Remote.Record.State, s.Remote.Record.Status)
	}
	line := fmt.Sprintf("alarm=%s/%s delta=%v remote=%s",
		s.Alarm.State, s.Alarm.Status, s.Alarm.Delta(), remote)
	if s.PeerRole != "" {
		line += fmt.Sprintf(" peer=%s wifi=%s app=%s", s.PeerRole, s.Peer.WiFi, s.Peer.App)
	}
	if s.SignalLost {
		line += " signal=lost"
	}
	if !s.Screen {
		line += " screen=off"
	}
	return line
}

// ConsoleBeeper logs sounds.
type ConsoleBeeper struct{}

// Play implements Beeper.
func (ConsoleBeeper) Play(e Event) {
	glog.Infof("beep: %s", e)
}

// ConsoleIndicator logs backlight changes.
type ConsoleIndicator struct{}

// SetOn implements Indicator.
func (ConsoleIndicator) SetOn() {
	glog.V(2).Info("backlight on")
}

// SetOff implements Indicator.
func (ConsoleIndicator) SetOff() {
	glog.V(2).Info("backlight off")
}

// SetBrightness implements Indicator.
func (ConsoleIndicator) SetBrightness(v uint8) {
	glog.V(2).Infof("backlight brightness %d", v)
}
