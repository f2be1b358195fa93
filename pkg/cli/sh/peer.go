package sh

import (
	"context"
	"errors"
	"time"

	"github.com/pebdev/astro-alarm/pkg/alarm"
	fx "github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/peer"
)

// MaxReceived bounds the received lines kept for the recv command.
const MaxReceived = 64

// ErrCommandTimeout is returned when the loop did not run a command in time.
var ErrCommandTimeout = errors.New("command timeout")

// Peer emulates the other device: it runs a peer.Link, announces an alarm
// record and records what the remote side sends. Everything runs inside
// the loop; the shell goroutine reaches it through Do.
type Peer struct {
	Link        *peer.Link
	Association *peer.SwitchAssociation
	// Announce is the alarm record sent every SendInterval, nil for none.
	Announce     *alarm.Record
	SendInterval time.Duration

	loop     *fx.Loop
	cmdCh    chan func()
	received []string
	remote   *alarm.Record
	lastPing time.Time
	pings    int
}

// PeerState is a snapshot taken inside the loop.
type PeerState struct {
	Role     string        `json:"role"`
	Session  peer.Session  `json:"session"`
	Remote   *alarm.Record `json:"remote,omitempty"`
	Announce *alarm.Record `json:"announce,omitempty"`
	LastPing time.Time     `json:"last_ping"`
	Pings    int           `json:"pings"`
}

// NewPeer creates a Peer around a link. The link must use assoc.
func NewPeer(link *peer.Link, assoc *peer.SwitchAssociation) *Peer {
	return &Peer{
		Link:         link,
		Association:  assoc,
		SendInterval: 500 * time.Millisecond,
		cmdCh:        make(chan func(), 1),
	}
}

// AddToLoop implements LoopAdder.
func (p *Peer) AddToLoop(loop *fx.Loop) {
	p.loop = loop
	loop.Add(p.Link)
	loop.AddController(fx.PrLvControl, p)
}

// Control implements Controller.
func (p *Peer) Control(cc fx.ControlContext) error {
	for drained := false; !drained; {
		select {
		case fn := <-p.cmdCh:
			fn()
		default:
			drained = true
		}
	}
	if p.Link.PingReceived() {
		p.lastPing = cc.Time()
		p.pings++
	}
	for _, line := range p.Link.ReceiveAll() {
		if rec, err := alarm.ParseLine(line); err == nil {
			p.remote = &rec
		}
		p.received = append(p.received, line)
		if len(p.received) > MaxReceived {
			p.received = p.received[len(p.received)-MaxReceived:]
		}
	}
	if p.Link.Session().App != peer.Connected {
		p.remote = nil
	}
	if p.Announce != nil {
		p.Link.Send(alarm.FormatLine(*p.Announce), p.SendInterval)
	}
	return nil
}

// Do runs fn inside the loop and waits for it. The loop is woken up
// instead of waiting for its next tick.
func (p *Peer) Do(ctx context.Context, fn func()) error {
	doneCh := make(chan struct{})
	cmd := func() {
		fn()
		close(doneCh)
	}
	select {
	case p.cmdCh <- cmd:
	case <-ctx.Done():
		return ErrCommandTimeout
	}
	if p.loop != nil {
		p.loop.TriggerNext()
	}
	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		return ErrCommandTimeout
	}
}

// State returns a snapshot. It must run inside the loop.
func (p *Peer) State() PeerState {
	return PeerState{
		Role:     p.Link.Role.String(),
		Session:  p.Link.Session(),
		Remote:   p.remote,
		Announce: p.Announce,
		LastPing: p.lastPing,
		Pings:    p.pings,
	}
}

// TakeReceived returns and forgets the received lines. It must run
// inside the loop.
func (p *Peer) TakeReceived() []string {
	lines := p.received
	p.received = nil
	return lines
}
