// Package pb holds the telemetry wire messages described in
// telemetry.proto, in the layout of protoc-gen-go v1.3 output.
package pb

import proto "github.com/golang/protobuf/proto"

const _ = proto.ProtoPackageIsVersion3

type AlarmState int32

const (
	AlarmState_ALARM_OFF      AlarmState = 0
	AlarmState_ALARM_ENABLING AlarmState = 1
	AlarmState_ALARM_ON       AlarmState = 2
	AlarmState_ALARM_LOCKED   AlarmState = 3
)

var AlarmState_name = map[int32]string{
	0: "ALARM_OFF",
	1: "ALARM_ENABLING",
	2: "ALARM_ON",
	3: "ALARM_LOCKED",
}

var AlarmState_value = map[string]int32{
	"ALARM_OFF":      0,
	"ALARM_ENABLING": 1,
	"ALARM_ON":       2,
	"ALARM_LOCKED":   3,
}

func (x AlarmState) String() string {
	return proto.EnumName(AlarmState_name, int32(x))
}

type AlarmStatus int32

const (
	AlarmStatus_NOT_TRIGGERED AlarmStatus = 0
	AlarmStatus_TRIGGERED     AlarmStatus = 1
	AlarmStatus_WARNING       AlarmStatus = 2
)

var AlarmStatus_name = map[int32]string{
	0: "NOT_TRIGGERED",
	1: "TRIGGERED",
	2: "WARNING",
}

var AlarmStatus_value = map[string]int32{
	"NOT_TRIGGERED": 0,
	"TRIGGERED":     1,
	"WARNING":       2,
}

func (x AlarmStatus) String() string {
	return proto.EnumName(AlarmStatus_name, int32(x))
}

type ConnState int32

const (
	ConnState_DISCONNECTED ConnState = 0
	ConnState_CONNECTING   ConnState = 1
	ConnState_CONNECTED    ConnState = 2
)

var ConnState_name = map[int32]string{
	0: "DISCONNECTED",
	1: "CONNECTING",
	2: "CONNECTED",
}

var ConnState_value = map[string]int32{
	"DISCONNECTED": 0,
	"CONNECTING":   1,
	"CONNECTED":    2,
}

func (x ConnState) String() string {
	return proto.EnumName(ConnState_name, int32(x))
}

type Vec3 struct {
	X                    float64  `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y                    float64  `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
	Z                    float64  `protobuf:"fixed64,3,opt,name=z,proto3" json:"z,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Vec3) Reset()         { *m = Vec3{} }
func (m *Vec3) String() string { return proto.CompactTextString(m) }
func (*Vec3) ProtoMessage()    {}

func (m *Vec3) XXX_Unmarshal(b []byte) error {
	return xxx_messageInfo_Vec3.Unmarshal(m, b)
}
func (m *Vec3) XXX_Marshal(b []byte, deterministic bool) ([]byte, error) {
	return xxx_messageInfo_Vec3.Marshal(b, m, deterministic)
}
func (m *Vec3) XXX_Merge(src proto.Message) {
	xxx_messageInfo_Vec3.Merge(m, src)
}
func (m *Vec3) XXX_Size() int {
	return xxx_messageInfo_Vec3.Size(m)
}
func (m *Vec3) XXX_DiscardUnknown() {
	xxx_messageInfo_Vec3.DiscardUnknown(m)
}

var xxx_messageInfo_Vec3 proto.InternalMessageInfo

func (m *Vec3) GetX() float64 {
	if m != nil {
		return m.X
	}
	return 0
}

func (m *Vec3) GetY() float64 {
	if m != nil {
		return m.Y
	}
	return 0
}

func (m *Vec3) GetZ() float64 {
	if m != nil {
		return m.Z
	}
	return 0
}

type AlarmRecord struct {
	DeviceId             string      `protobuf:"bytes,1,opt,name=device_id,json=deviceId,proto3" json:"device_id,omitempty"`
	State                AlarmState  `protobuf:"varint,2,opt,name=state,proto3,enum=astro.v1.AlarmState" json:"state,omitempty"`
	Status               AlarmStatus `protobuf:"varint,3,opt,name=status,proto3,enum=astro.v1.AlarmStatus" json:"status,omitempty"`
	Baseline             *Vec3       `protobuf:"bytes,4,opt,name=baseline,proto3" json:"baseline,omitempty"`
	Current              *Vec3       `protobuf:"bytes,5,opt,name=current,proto3" json:"current,omitempty"`
	TimestampMs          int64       `protobuf:"varint,6,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
	RemoteKnown          bool        `protobuf:"varint,7,opt,name=remote_known,json=remoteKnown,proto3" json:"remote_known,omitempty"`
	RemoteState          AlarmState  `protobuf:"varint,8,opt,name=remote_state,json=remoteState,proto3,enum=astro.v1.AlarmState" json:"remote_state,omitempty"`
	RemoteStatus         AlarmStatus `protobuf:"varint,9,opt,name=remote_status,json=remoteStatus,proto3,enum=astro.v1.AlarmStatus" json:"remote_status,omitempty"`
	XXX_NoUnkeyedLiteral struct{}    `json:"-"`
	XXX_unrecognized     []byte      `json:"-"`
	XXX_sizecache        int32       `json:"-"`
}

func (m *AlarmRecord) Reset()         { *m = AlarmRecord{} }
func (m *AlarmRecord) String() string { return proto.CompactTextString(m) }
func (*AlarmRecord) ProtoMessage()    {}

func (m *AlarmRecord) XXX_Unmarshal(b []byte) error {
	return xxx_messageInfo_AlarmRecord.Unmarshal(m, b)
}
func (m *AlarmRecord) XXX_Marshal(b []byte, deterministic bool) ([]byte, error) {
	return xxx_messageInfo_AlarmRecord.Marshal(b, m, deterministic)
}
func (m *AlarmRecord) XXX_Merge(src proto.Message) {
	xxx_messageInfo_AlarmRecord.Merge(m, src)
}
func (m *AlarmRecord) XXX_Size() int {
	return xxx_messageInfo_AlarmRecord.Size(m)
}
func (m *AlarmRecord) XXX_DiscardUnknown() {
	xxx_messageInfo_AlarmRecord.DiscardUnknown(m)
}

var xxx_messageInfo_AlarmRecord proto.InternalMessageInfo

func (m *AlarmRecord) GetDeviceId() string {
	if m != nil {
		return m.DeviceId
	}
	return ""
}

func (m *AlarmRecord) GetState() AlarmState {
	if m != nil {
		return m.State
	}
	return AlarmState_ALARM_OFF
}

func (m *AlarmRecord) GetStatus() AlarmStatus {
	if m != nil {
		return m.Status
	}
	return AlarmStatus_NOT_TRIGGERED
}

func (m *AlarmRecord) GetBaseline() *Vec3 {
	if m != nil {
		return m.Baseline
	}
	return nil
}

func (m *AlarmRecord) GetCurrent() *Vec3 {
	if m != nil {
		return m.Current
	}
	return nil
}

func (m *AlarmRecord) GetTimestampMs() int64 {
	if m != nil {
		return m.TimestampMs
	}
	return 0
}

func (m *AlarmRecord) GetRemoteKnown() bool {
	if m != nil {
		return m.RemoteKnown
	}
	return false
}

func (m *AlarmRecord) GetRemoteState() AlarmState {
	if m != nil {
		return m.RemoteState
	}
	return AlarmState_ALARM_OFF
}

func (m *AlarmRecord) GetRemoteStatus() AlarmStatus {
	if m != nil {
		return m.RemoteStatus
	}
	return AlarmStatus_NOT_TRIGGERED
}

type FrameStats struct {
	Frames               uint64   `protobuf:"varint,1,opt,name=frames,proto3" json:"frames,omitempty"`
	SyncErrors           uint64   `protobuf:"varint,2,opt,name=sync_errors,json=syncErrors,proto3" json:"sync_errors,omitempty"`
	ChecksumErrors       uint64   `protobuf:"varint,3,opt,name=checksum_errors,json=checksumErrors,proto3" json:"checksum_errors,omitempty"`
	UnknownTags          uint64   `protobuf:"varint,4,opt,name=unknown_tags,json=unknownTags,proto3" json:"unknown_tags,omitempty"`
	Skipped              uint64   `protobuf:"varint,5,opt,name=skipped,proto3" json:"skipped,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *FrameStats) Reset()         { *m = FrameStats{} }
func (m *FrameStats) String() string { return proto.CompactTextString(m) }
func (*FrameStats) ProtoMessage()    {}

func (m *FrameStats) XXX_Unmarshal(b []byte) error {
	return xxx_messageInfo_FrameStats.Unmarshal(m, b)
}
func (m *FrameStats) XXX_Marshal(b []byte, deterministic bool) ([]byte, error) {
	return xxx_messageInfo_FrameStats.Marshal(b, m, deterministic)
}
func (m *FrameStats) XXX_Merge(src proto.Message) {
	xxx_messageInfo_FrameStats.Merge(m, src)
}
func (m *FrameStats) XXX_Size() int {
	return xxx_messageInfo_FrameStats.Size(m)
}
func (m *FrameStats) XXX_DiscardUnknown() {
	xxx_messageInfo_FrameStats.DiscardUnknown(m)
}

var xxx_messageInfo_FrameStats proto.InternalMessageInfo

func (m *FrameStats) GetFrames() uint64 {
	if m != nil {
		return m.Frames
	}
	return 0
}

func (m *FrameStats) GetSyncErrors() uint64 {
	if m != nil {
		return m.SyncErrors
	}
	return 0
}

func (m *FrameStats) GetChecksumErrors() uint64 {
	if m != nil {
		return m.ChecksumErrors
	}
	return 0
}

func (m *FrameStats) GetUnknownTags() uint64 {
	if m != nil {
		return m.UnknownTags
	}
	return 0
}

func (m *FrameStats) GetSkipped() uint64 {
	if m != nil {
		return m.Skipped
	}
	return 0
}

type PeerSession struct {
	Role                 string    `protobuf:"bytes,1,opt,name=role,proto3" json:"role,omitempty"`
	Wifi                 ConnState `protobuf:"varint,2,opt,name=wifi,proto3,enum=astro.v1.ConnState" json:"wifi,omitempty"`
	App                  ConnState `protobuf:"varint,3,opt,name=app,proto3,enum=astro.v1.ConnState" json:"app,omitempty"`
	LastAliveMs          int64     `protobuf:"varint,4,opt,name=last_alive_ms,json=lastAliveMs,proto3" json:"last_alive_ms,omitempty"`
	XXX_NoUnkeyedLiteral struct{}  `json:"-"`
	XXX_unrecognized     []byte    `json:"-"`
	XXX_sizecache        int32     `json:"-"`
}

func (m *PeerSession) Reset()         { *m = PeerSession{} }
func (m *PeerSession) String() string { return proto.CompactTextString(m) }
func (*PeerSession) ProtoMessage()    {}

func (m *PeerSession) XXX_Unmarshal(b []byte) error {
	return xxx_messageInfo_PeerSession.Unmarshal(m, b)
}
func (m *PeerSession) XXX_Marshal(b []byte, deterministic bool) ([]byte, error) {
	return xxx_messageInfo_PeerSession.Marshal(b, m, deterministic)
}
func (m *PeerSession) XXX_Merge(src proto.Message) {
	xxx_messageInfo_PeerSession.Merge(m, src)
}
func (m *PeerSession) XXX_Size() int {
	return xxx_messageInfo_PeerSession.Size(m)
}
func (m *PeerSession) XXX_DiscardUnknown() {
	xxx_messageInfo_PeerSession.DiscardUnknown(m)
}

var xxx_messageInfo_PeerSession proto.InternalMessageInfo

func (m *PeerSession) GetRole() string {
	if m != nil {
		return m.Role
	}
	return ""
}

func (m *PeerSession) GetWifi() ConnState {
	if m != nil {
		return m.Wifi
	}
	return ConnState_DISCONNECTED
}

func (m *PeerSession) GetApp() ConnState {
	if m != nil {
		return m.App
	}
	return ConnState_DISCONNECTED
}

func (m *PeerSession) GetLastAliveMs() int64 {
	if m != nil {
		return m.LastAliveMs
	}
	return 0
}

type Telemetry struct {
	DeviceId             string       `protobuf:"bytes,1,opt,name=device_id,json=deviceId,proto3" json:"device_id,omitempty"`
	Acceleration         *Vec3        `protobuf:"bytes,2,opt,name=acceleration,proto3" json:"acceleration,omitempty"`
	Temperature          float64      `protobuf:"fixed64,3,opt,name=temperature,proto3" json:"temperature,omitempty"`
	AngularVelocity      *Vec3        `protobuf:"bytes,4,opt,name=angular_velocity,json=angularVelocity,proto3" json:"angular_velocity,omitempty"`
	Voltage              float64      `protobuf:"fixed64,5,opt,name=voltage,proto3" json:"voltage,omitempty"`
	Angle                *Vec3        `protobuf:"bytes,6,opt,name=angle,proto3" json:"angle,omitempty"`
	Version              uint32       `protobuf:"varint,7,opt,name=version,proto3" json:"version,omitempty"`
	SignalLost           bool         `protobuf:"varint,8,opt,name=signal_lost,json=signalLost,proto3" json:"signal_lost,omitempty"`
	TimestampMs          int64        `protobuf:"varint,9,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
	Stats                *FrameStats  `protobuf:"bytes,10,opt,name=stats,proto3" json:"stats,omitempty"`
	Peer                 *PeerSession `protobuf:"bytes,11,opt,name=peer,proto3" json:"peer,omitempty"`
	XXX_NoUnkeyedLiteral struct{}     `json:"-"`
	XXX_unrecognized     []byte       `json:"-"`
	XXX_sizecache        int32        `json:"-"`
}

func (m *Telemetry) Reset()         { *m = Telemetry{} }
func (m *Telemetry) String() string { return proto.CompactTextString(m) }
func (*Telemetry) ProtoMessage()    {}

func (m *Telemetry) XXX_Unmarshal(b []byte) error {
	return xxx_messageInfo_Telemetry.Unmarshal(m, b)
}
func (m *Telemetry) XXX_Marshal(b []byte, deterministic bool) ([]byte, error) {
	return xxx_messageInfo_Telemetry.Marshal(b, m, deterministic)
}
func (m *Telemetry) XXX_Merge(src proto.Message) {
	xxx_messageInfo_Telemetry.Merge(m, src)
}
func (m *Telemetry) XXX_Size() int {
	return xxx_messageInfo_Telemetry.Size(m)
}
func (m *Telemetry) XXX_DiscardUnknown() {
	xxx_messageInfo_Telemetry.DiscardUnknown(m)
}

var xxx_messageInfo_Telemetry proto.InternalMessageInfo

func (m *Telemetry) GetDeviceId() string {
	if m != nil {
		return m.DeviceId
	}
	return ""
}

func (m *Telemetry) GetAcceleration() *Vec3 {
	if m != nil {
		return m.Acceleration
	}
	return nil
}

func (m *Telemetry) GetTemperature() float64 {
	if m != nil {
		return m.Temperature
	}
	return 0
}

func (m *Telemetry) GetAngularVelocity() *Vec3 {
	if m != nil {
		return m.AngularVelocity
	}
	return nil
}

func (m *Telemetry) GetVoltage() float64 {
	if m != nil {
		return m.Voltage
	}
	return 0
}

func (m *Telemetry) GetAngle() *Vec3 {
	if m != nil {
		return m.Angle
	}
	return nil
}

func (m *Telemetry) GetVersion() uint32 {
	if m != nil {
		return m.Version
	}
	return 0
}

func (m *Telemetry) GetSignalLost() bool {
	if m != nil {
		return m.SignalLost
	}
	return false
}

func (m *Telemetry) GetTimestampMs() int64 {
	if m != nil {
		return m.TimestampMs
	}
	return 0
}

func (m *Telemetry) GetStats() *FrameStats {
	if m != nil {
		return m.Stats
	}
	return nil
}

func (m *Telemetry) GetPeer() *PeerSession {
	if m != nil {
		return m.Peer
	}
	return nil
}

func init() {
	proto.RegisterEnum("astro.v1.AlarmState", AlarmState_name, AlarmState_value)
	proto.RegisterEnum("astro.v1.AlarmStatus", AlarmStatus_name, AlarmStatus_value)
	proto.RegisterEnum("astro.v1.ConnState", ConnState_name, ConnState_value)
	proto.RegisterType((*Vec3)(nil), "astro.v1.Vec3")
	proto.RegisterType((*AlarmRecord)(nil), "astro.v1.AlarmRecord")
	proto.RegisterType((*FrameStats)(nil), "astro.v1.FrameStats")
	proto.RegisterType((*PeerSession)(nil), "astro.v1.PeerSession")
	proto.RegisterType((*Telemetry)(nil), "astro.v1.Telemetry")
}
