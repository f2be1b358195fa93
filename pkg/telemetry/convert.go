// Package telemetry converts the device status into the protobuf messages
// published to the MQTT broker, and back for monitoring tools.
package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/pebdev/astro-alarm/pkg/alarm"
	"github.com/pebdev/astro-alarm/pkg/device"
	"github.com/pebdev/astro-alarm/pkg/imu"
	"github.com/pebdev/astro-alarm/pkg/peer"
	"github.com/pebdev/astro-alarm/pkg/telemetry/pb"
)

// Topic suffixes under <prefix><device-id>/.
const (
	TopicAlarm     = "alarm"
	TopicTelemetry = "telemetry"
	TopicMeta      = "meta"
)

// Topic builds the topic of a device.
func Topic(deviceID, suffix string) string {
	return deviceID + "/" + suffix
}

// Meta is the retained presence message of a device, published as JSON.
type Meta struct {
	DeviceID string `json:"device_id"`
	Role     string `json:"role,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Vec3 converts a vector.
func Vec3(v imu.Vec3) *pb.Vec3 {
	return &pb.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// FromVec3 converts a vector back.
func FromVec3(v *pb.Vec3) imu.Vec3 {
	return imu.Vec3{X: v.GetX(), Y: v.GetY(), Z: v.GetZ()}
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano() / int64(time.Millisecond)
}

// FromMillis converts a message timestamp.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.Unix(0, ms*int64(time.Millisecond))
}

// AlarmRecord builds the alarm message of a status.
func AlarmRecord(deviceID string, s device.Status) *pb.AlarmRecord {
	msg := &pb.AlarmRecord{
		DeviceId:    deviceID,
		State:       pb.AlarmState(s.Alarm.State),
		Status:      pb.AlarmStatus(s.Alarm.Status),
		Baseline:    Vec3(s.Alarm.Baseline),
		Current:     Vec3(s.Alarm.Current),
		TimestampMs: millis(s.Time),
		RemoteKnown: s.Remote.Known,
	}
	if s.Remote.Known {
		msg.RemoteState = pb.AlarmState(s.Remote.Record.State)
		msg.RemoteStatus = pb.AlarmStatus(s.Remote.Record.Status)
	}
	return msg
}

// FromAlarmRecord extracts the local and remote alarm of a message.
func FromAlarmRecord(msg *pb.AlarmRecord) (alarm.Record, device.RemoteAlarm) {
	rec := alarm.Record{
		State:    alarm.State(msg.GetState()),
		Status:   alarm.Status(msg.GetStatus()),
		Baseline: FromVec3(msg.GetBaseline()),
		Current:  FromVec3(msg.GetCurrent()),
	}
	var remote device.RemoteAlarm
	if msg.GetRemoteKnown() {
		remote.Known = true
		remote.Record.State = alarm.State(msg.GetRemoteState())
		remote.Record.Status = alarm.Status(msg.GetRemoteStatus())
	}
	return rec, remote
}

// Telemetry builds the telemetry message of a status.
func Telemetry(deviceID string, s device.Status) *pb.Telemetry {
	tm := s.Telemetry
	msg := &pb.Telemetry{
		DeviceId:        deviceID,
		Acceleration:    Vec3(tm.Acceleration.Axes),
		Temperature:     tm.Acceleration.Temperature,
		AngularVelocity: Vec3(tm.AngularVelocity.Axes),
		Voltage:         tm.AngularVelocity.Voltage,
		Angle:           Vec3(tm.Angle.Axes),
		Version:         uint32(tm.Angle.Version),
		SignalLost:      s.SignalLost,
		TimestampMs:     millis(s.Time),
		Stats: &pb.FrameStats{
			Frames:         s.Stats.Frames,
			SyncErrors:     s.Stats.SyncErrors,
			ChecksumErrors: s.Stats.ChecksumErrors,
			UnknownTags:    s.Stats.UnknownTags,
			Skipped:        s.Stats.Skipped,
		},
	}
	if s.PeerRole != "" {
		msg.Peer = &pb.PeerSession{
			Role:        s.PeerRole,
			Wifi:        pb.ConnState(s.Peer.WiFi),
			App:         pb.ConnState(s.Peer.App),
			LastAliveMs: millis(s.Peer.LastAlive),
		}
	}
	return msg
}

// FromTelemetry extracts the inclinometer values of a message.
func FromTelemetry(msg *pb.Telemetry) imu.Telemetry {
	return imu.Telemetry{
		Acceleration: imu.Acceleration{
			Axes:        FromVec3(msg.GetAcceleration()),
			Temperature: msg.GetTemperature(),
		},
		AngularVelocity: imu.AngularVelocity{
			Axes:    FromVec3(msg.GetAngularVelocity()),
			Voltage: msg.GetVoltage(),
		},
		Angle: imu.Angle{
			Axes:    FromVec3(msg.GetAngle()),
			Version: uint16(msg.GetVersion()),
		},
	}
}

// Describe renders a received message for humans. The topic selects the
// message type by its last element.
func Describe(topic string, payload []byte) (string, error) {
	suffix := topic
	if pos := strings.LastIndex(topic, "/"); pos >= 0 {
		suffix = topic[pos+1:]
	}
	switch suffix {
	case TopicMeta:
		if len(payload) == 0 {
			return "offline", nil
		}
		return string(payload), nil
	case TopicAlarm:
		var msg pb.AlarmRecord
		if err := proto.Unmarshal(payload, &msg); err != nil {
			return "", fmt.Errorf("decode alarm: %w", err)
		}
		rec, remote := FromAlarmRecord(&msg)
		line := fmt.Sprintf("%s/%s delta=%v", rec.State, rec.Status, rec.Delta())
		if remote.Known {
			line += fmt.Sprintf(" remote=%s/%s", remote.Record.State, remote.Record.Status)
		} else {
			line += " remote=unknown"
		}
		return line, nil
	case TopicTelemetry:
		var msg pb.Telemetry
		if err := proto.Unmarshal(payload, &msg); err != nil {
			return "", fmt.Errorf("decode telemetry: %w", err)
		}
		tm := FromTelemetry(&msg)
		line := fmt.Sprintf("acc=%v temp=%.2f angle=%v", tm.Acceleration.Axes,
			tm.Acceleration.Temperature, tm.Angle.Axes)
		if msg.GetSignalLost() {
			line += " signal=lost"
		}
		if stats := msg.GetStats(); stats.GetChecksumErrors() > 0 || stats.GetSyncErrors() > 0 {
			line += fmt.Sprintf(" checksum-errors=%d sync-errors=%d",
				stats.GetChecksumErrors(), stats.GetSyncErrors())
		}
		if p := msg.GetPeer(); p != nil {
			line += fmt.Sprintf(" peer=%s app=%s", p.GetRole(), peer.ConnState(p.GetApp()))
		}
		return line, nil
	}
	return "", fmt.Errorf("unknown topic %q", topic)
}
