package device

import (
	"time"

	"github.com/golang/glog"

	"github.com/pebdev/astro-alarm/pkg/alarm"
	fx "github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/imu"
	"github.com/pebdev/astro-alarm/pkg/input"
	"github.com/pebdev/astro-alarm/pkg/peer"
)

// Monitor defaults.
const (
	DefaultSignalLostTimeout = time.Second
	DefaultSendInterval      = 500 * time.Millisecond
	DefaultPingHold          = 500 * time.Millisecond
	DefaultAlarmRepeat       = time.Second
)

// Monitor is the device controller. Every tick it feeds the latest
// acceleration to the alarm, exchanges alarm lines with the peer, handles
// the button and refreshes the collaborators.
type Monitor struct {
	Sensor *imu.Sensor
	Alarm  *alarm.Alarm
	// Link is optional.
	Link *peer.Link
	// Input is optional.
	Input         input.Button
	ButtonDecoder *ButtonDecoder
	Display       Display
	Beeper        Beeper
	Backlight     *Backlight

	SignalLostTimeout time.Duration
	SendInterval      time.Duration
	// PingHold is how long the ping light stays on after a heartbeat.
	PingHold time.Duration
	// AlarmRepeat is the period of the alarm sound while triggered.
	AlarmRepeat time.Duration

	started        bool
	status         Status
	pingUntil      time.Time
	lastAlarmSound time.Time
}

// NewMonitor creates a Monitor with console collaborators.
func NewMonitor(sensor *imu.Sensor, a *alarm.Alarm, link *peer.Link) *Monitor {
	return &Monitor{
		Sensor:            sensor,
		Alarm:             a,
		Link:              link,
		ButtonDecoder:     NewButtonDecoder(),
		Display:           &ConsoleDisplay{},
		Beeper:            ConsoleBeeper{},
		Backlight:         NewBacklight(ConsoleIndicator{}),
		SignalLostTimeout: DefaultSignalLostTimeout,
		SendInterval:      DefaultSendInterval,
		PingHold:          DefaultPingHold,
		AlarmRepeat:       DefaultAlarmRepeat,
	}
}

// AddToLoop implements LoopAdder.
func (m *Monitor) AddToLoop(loop *fx.Loop) {
	loop.Add(m.Sensor)
	if m.Link != nil {
		loop.Add(m.Link)
	}
	if runnable, ok := m.Input.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddController(fx.PrLvControl, m)
}

// Control implements Controller.
func (m *Monitor) Control(cc fx.ControlContext) error {
	now := cc.Time()
	if !m.started {
		m.started = true
		m.Backlight.NotifyActivity()
	}
	prev := m.status

	m.pollButton(now)
	tm := m.Sensor.Telemetry()
	lost := m.Sensor.SignalLost(now, m.SignalLostTimeout)
	if lost && !prev.SignalLost {
		glog.Warning("inclinometer signal lost")
	} else if !lost && prev.SignalLost {
		glog.Info("inclinometer signal back")
	}
	rec := m.Alarm.Update(lost, tm.Acceleration.Axes)
	m.notifyLocal(now, prev.Alarm, rec)
	remote := m.exchange(now, prev.Remote, rec)
	m.Backlight.Update(rec.State.Armed())

	m.status = Status{
		Time:       now,
		Alarm:      rec,
		Remote:     remote,
		Telemetry:  tm,
		Stats:      m.Sensor.Decoder.Stats(),
		SignalLost: lost,
		Ping:       now.Before(m.pingUntil),
		Screen:     m.Backlight.On(),
	}
	if m.Link != nil {
		m.status.Peer = m.Link.Session()
		m.status.PeerRole = m.Link.Role.String()
	}
	m.Display.Draw(m.status)
	return nil
}

// SwitchAlarm arms or disarms the alarm.
func (m *Monitor) SwitchAlarm() alarm.Record {
	rec := m.Alarm.SwitchState()
	glog.Infof("alarm switched %s", rec.State)
	m.Beeper.Play(EventModeChange)
	if rec.State == alarm.StateOff {
		m.Beeper.Play(EventStop)
	}
	m.Backlight.NotifyActivity()
	return rec
}

func (m *Monitor) pollButton(now time.Time) {
	if m.Input == nil {
		return
	}
	switch m.ButtonDecoder.Update(now, m.Input.Pressed()) {
	case LongPush:
		m.SwitchAlarm()
	case ShortPush:
		m.Backlight.Toggle()
	}
}

func (m *Monitor) notifyLocal(now time.Time, prev, rec alarm.Record) {
	switch rec.Status {
	case alarm.StatusTriggered:
		if prev.Status != alarm.StatusTriggered {
			glog.Warningf("alarm triggered, delta %v", rec.Delta())
			m.Backlight.NotifyActivity()
		} else if now.Sub(m.lastAlarmSound) < m.AlarmRepeat {
			return
		}
		m.Beeper.Play(EventAlarm)
		m.lastAlarmSound = now
	case alarm.StatusWarning:
		glog.Warningf("no inclinometer data for %v", m.Alarm.WarningTimeout)
		m.Beeper.Play(EventWarning)
	}
}

func (m *Monitor) exchange(now time.Time, prev RemoteAlarm, rec alarm.Record) RemoteAlarm {
	if m.Link == nil || m.Link.Session().App != peer.Connected {
		return RemoteAlarm{}
	}
	remote := prev
	for _, line := range m.Link.ReceiveAll() {
		r, err := alarm.ParseLine(line)
		if err != nil {
			glog.V(2).Infof("peer line %q ignored: %v", line, err)
			continue
		}
		remote = RemoteAlarm{Known: true, Record: r}
	}
	if remote.Known && remote.Record.Status == alarm.StatusTriggered &&
		!(prev.Known && prev.Record.Status == alarm.StatusTriggered) {
		glog.Warning("remote alarm triggered")
		m.Beeper.Play(EventAlarm)
		m.Backlight.NotifyActivity()
	}
	if m.Link.PingReceived() {
		m.pingUntil = now.Add(m.PingHold)
	}
	m.Link.Send(alarm.FormatLine(rec), m.SendInterval)
	return remote
}

// Status returns the last status drawn.
func (m *Monitor) Status() Status {
	return m.status
}

// AlarmRecord returns the last alarm record.
func (m *Monitor) AlarmRecord() alarm.Record {
	return m.Alarm.Record()
}

// Telemetry returns the last accepted inclinometer values.
func (m *Monitor) Telemetry() imu.Telemetry {
	return m.Sensor.Telemetry()
}
