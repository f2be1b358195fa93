package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/pebdev/astro-alarm/pkg/alarm"
	"github.com/pebdev/astro-alarm/pkg/device"
	fx "github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/telemetry"
)

// DefaultInterval is the period of telemetry publishing.
const DefaultInterval = time.Second

// metaTimeout bounds the wait for the presence cleanup on shutdown.
const metaTimeout = time.Second

// StatusSource provides the status to publish.
type StatusSource interface {
	Status() device.Status
}

// Publisher publishes the alarm record on every change and periodically,
// the telemetry periodically, and a retained presence message.
type Publisher struct {
	Queue    *Queue
	Meta     telemetry.Meta
	Source   StatusSource
	Interval time.Duration

	metaJSON      []byte
	lastAlarm     alarm.Record
	lastAlarmPub  time.Time
	lastTelemetry time.Time
	published     bool
}

// NewPublisher creates a Publisher from a broker URL. The broker removes
// the presence message when the device disappears without a goodbye.
func NewPublisher(brokerURL string, meta telemetry.Meta, source StatusSource) (*Publisher, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+telemetry.Topic(meta.DeviceID, telemetry.TopicMeta), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("astro:" + meta.DeviceID)
	}
	return NewPublisherWith(NewQueue(opts, topicPrefix), meta, source), nil
}

// NewPublisherWith creates a Publisher on an existing Queue.
func NewPublisherWith(q *Queue, meta telemetry.Meta, source StatusSource) *Publisher {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		panic(err)
	}
	p := &Publisher{
		Queue:    q,
		Meta:     meta,
		Source:   source,
		Interval: DefaultInterval,
		metaJSON: metaJSON,
	}
	q.OnConnect = func(*Queue) { p.publishMeta() }
	return p
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvPostProc, p)
}

// Name implements Named.
func (p *Publisher) Name() string {
	return "mqtt"
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	p.Queue.Connect()
	<-ctx.Done()
	if p.Queue.Connected() {
		p.Queue.PubWith(p.topic(telemetry.TopicMeta), nil, 1, true).WaitTimeout(metaTimeout)
	}
	p.Queue.Close()
	return ctx.Err()
}

// Control implements Controller.
func (p *Publisher) Control(cc fx.ControlContext) error {
	if !p.Queue.Connected() {
		return nil
	}
	now := cc.Time()
	s := p.Source.Status()
	changed := !p.published || s.Alarm.State != p.lastAlarm.State || s.Alarm.Status != p.lastAlarm.Status
	if changed || now.Sub(p.lastAlarmPub) >= p.Interval {
		if err := p.publish(telemetry.TopicAlarm, telemetry.AlarmRecord(p.Meta.DeviceID, s)); err != nil {
			return err
		}
		if changed {
			glog.V(2).Infof("published alarm %s/%s", s.Alarm.State, s.Alarm.Status)
		}
		p.published = true
		p.lastAlarm = s.Alarm
		p.lastAlarmPub = now
	}
	if now.Sub(p.lastTelemetry) >= p.Interval {
		if err := p.publish(telemetry.TopicTelemetry, telemetry.Telemetry(p.Meta.DeviceID, s)); err != nil {
			return err
		}
		p.lastTelemetry = now
	}
	return nil
}

func (p *Publisher) publish(suffix string, msg proto.Message) error {
	payload, err := proto.Marshal(msg)
	if err != nil {
		return err
	}
	p.Queue.Pub(p.topic(suffix), payload)
	return nil
}

func (p *Publisher) publishMeta() {
	p.Queue.PubWith(p.topic(telemetry.TopicMeta), p.metaJSON, 1, true)
}

func (p *Publisher) topic(suffix string) string {
	return telemetry.Topic(p.Meta.DeviceID, suffix)
}
