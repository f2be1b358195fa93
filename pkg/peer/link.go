package peer

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	fx "github.com/pebdev/astro-alarm/pkg/framework"
)

// Config configures a Link.
type Config struct {
	// Address is the listen address of a listener, or the address of the
	// listener a connector dials.
	Address           string
	AliveTimeout      time.Duration
	AliveSendInterval time.Duration
	RetryInterval     time.Duration
	// MaxRetryInterval enables exponential backoff of connector retries
	// when greater than RetryInterval.
	MaxRetryInterval time.Duration
	Association      Association
	Clock            fx.Clock
}

// DefaultConfig returns the protocol defaults.
func DefaultConfig() Config {
	return Config{
		Address:           ":" + strconv.Itoa(DefaultPort),
		AliveTimeout:      AliveTimeout,
		AliveSendInterval: AliveSendInterval,
		RetryInterval:     RetryInterval,
	}
}

// Validate checks the configuration for the given role.
func (c *Config) Validate(role Role) error {
	host, port, err := net.SplitHostPort(c.Address)
	if err != nil {
		return fmt.Errorf("peer address %q: %w", c.Address, err)
	}
	if role == RoleConnector && host == "" {
		return fmt.Errorf("peer address %q: connector needs a host", c.Address)
	}
	if port == "" {
		return fmt.Errorf("peer address %q: missing port", c.Address)
	}
	return nil
}

// Link is one side of the peer link.
type Link struct {
	Role   Role
	Config Config

	session       Session
	ping          bool
	queue         []string
	conn          *lineConn
	acceptor      *acceptor
	dialer        *dialer
	lastAttempt   time.Time
	attempts      int
	lastReconnect time.Time
	lastHeartbeat time.Time
}

// New creates a Link. Zero durations in conf take the protocol defaults
// and a nil Association is always up.
func New(role Role, conf Config) *Link {
	def := DefaultConfig()
	if conf.Address == "" {
		conf.Address = def.Address
	}
	if conf.AliveTimeout <= 0 {
		conf.AliveTimeout = def.AliveTimeout
	}
	if conf.AliveSendInterval <= 0 {
		conf.AliveSendInterval = def.AliveSendInterval
	}
	if conf.RetryInterval <= 0 {
		conf.RetryInterval = def.RetryInterval
	}
	if conf.Association == nil {
		conf.Association = AlwaysUp{}
	}
	return &Link{Role: role, Config: conf}
}

// Name implements Named.
func (l *Link) Name() string {
	return "peer-" + l.Role.String()
}

// AddToLoop implements LoopAdder. Sockets are polled at the sensing
// level so received lines are visible to controllers in the same tick.
// The loop closes the link when it stops running.
func (l *Link) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, l)
}

// Control implements Controller.
func (l *Link) Control(fx.ControlContext) error {
	l.Update()
	return nil
}

func (l *Link) now() time.Time {
	return fx.ClockOrSystem(l.Config.Clock).Now()
}

// Update advances the link by one tick. It never blocks.
func (l *Link) Update() {
	now := l.now()
	if !l.manageAssociation(now) {
		return
	}
	if l.Role == RoleConnector {
		l.updateConnector(now)
	} else {
		l.updateListener(now)
	}
}

func (l *Link) manageAssociation(now time.Time) bool {
	if l.Config.Association.Up() {
		if l.session.WiFi != Connected {
			glog.Infof("%s: network associated", l.Name())
			l.session.WiFi = Connected
		}
		return true
	}
	if l.session.WiFi == Connected {
		glog.Warningf("%s: %v", l.Name(), ErrAssociationLost)
		l.session.WiFi = Disconnected
	}
	l.teardown()
	if l.lastReconnect.IsZero() || now.Sub(l.lastReconnect) >= l.Config.RetryInterval {
		l.Config.Association.Reconnect()
		l.lastReconnect = now
		l.session.WiFi = Connecting
	}
	return false
}

func (l *Link) updateListener(now time.Time) {
	switch l.session.App {
	case Disconnected:
		if !l.lastAttempt.IsZero() && now.Sub(l.lastAttempt) < l.Config.RetryInterval {
			return
		}
		l.lastAttempt = now
		a, err := listen(l.Config.Address)
		if err != nil {
			glog.Warningf("%s: listen %s: %v", l.Name(), l.Config.Address, err)
			return
		}
		glog.Infof("%s: listening on %s", l.Name(), a.ln.Addr())
		l.acceptor = a
		l.session.App = Connecting
	case Connecting:
		if conn := l.acceptor.poll(); conn != nil {
			glog.Infof("%s: peer %s connected", l.Name(), conn.RemoteAddr())
			l.adopt(conn, now)
		}
	case Connected:
		for conn := l.acceptor.poll(); conn != nil; conn = l.acceptor.poll() {
			glog.Warningf("%s: rejecting %s, already connected", l.Name(), conn.RemoteAddr())
			conn.Close()
		}
		if err := l.serve(now); err != nil {
			glog.Warningf("%s: %v: %v", l.Name(), ErrPeerDisconnected, err)
			l.dropSession()
			l.session.App = Connecting
		}
	}
}

func (l *Link) updateConnector(now time.Time) {
	switch l.session.App {
	case Disconnected:
		if !l.lastAttempt.IsZero() && now.Sub(l.lastAttempt) < l.retryDelay() {
			return
		}
		l.lastAttempt = now
		glog.V(2).Infof("%s: dialing %s", l.Name(), l.Config.Address)
		l.dialer = dial(l.Config.Address, l.Config.RetryInterval)
		l.session.App = Connecting
	case Connecting:
		r, done := l.dialer.poll()
		if !done {
			return
		}
		l.dialer = nil
		if r.err != nil {
			l.attempts++
			glog.Warningf("%s: connect %s: %v", l.Name(), l.Config.Address, r.err)
			l.session.App = Disconnected
			return
		}
		glog.Infof("%s: connected to %s", l.Name(), r.conn.RemoteAddr())
		l.attempts = 0
		l.adopt(r.conn, now)
	case Connected:
		if err := l.serve(now); err != nil {
			glog.Warningf("%s: %v: %v", l.Name(), ErrPeerDisconnected, err)
			l.dropSession()
			l.session.App = Disconnected
		}
	}
}

// retryDelay doubles RetryInterval per failed attempt up to
// MaxRetryInterval.
func (l *Link) retryDelay() time.Duration {
	delay := l.Config.RetryInterval
	limit := l.Config.MaxRetryInterval
	if limit <= delay {
		return delay
	}
	for i := 1; i < l.attempts && delay < limit; i++ {
		delay *= 2
	}
	if delay > limit {
		delay = limit
	}
	return delay
}

func (l *Link) adopt(conn net.Conn, now time.Time) {
	l.conn = newLineConn(conn)
	l.session.App = Connected
	l.session.LastAlive = now
	l.lastHeartbeat = now
}

// serve handles a connected session, returning an error once it is dead.
func (l *Link) serve(now time.Time) error {
	l.receive(now)
	if err := l.conn.failed(); err != nil {
		return err
	}
	if now.Sub(l.session.LastAlive) > l.Config.AliveTimeout {
		return fmt.Errorf("nothing received for %v", now.Sub(l.session.LastAlive))
	}
	if now.Sub(l.lastHeartbeat) >= l.Config.AliveSendInterval {
		l.conn.send(AliveToken)
		l.lastHeartbeat = now
	}
	return nil
}

func (l *Link) receive(now time.Time) {
	for {
		select {
		case line := <-l.conn.lineCh:
			l.session.LastAlive = now
			if strings.Contains(line, AliveToken) {
				l.ping = true
				continue
			}
			glog.V(4).Infof("%s: received %q", l.Name(), line)
			if len(l.queue) >= MaxPendingLines {
				l.queue = l.queue[1:]
			}
			l.queue = append(l.queue, line)
		default:
			return
		}
	}
}

func (l *Link) dropSession() {
	if l.conn != nil {
		l.conn.close()
		l.conn.flush()
		l.conn = nil
	}
	l.queue = nil
	l.ping = false
}

func (l *Link) teardown() {
	l.dropSession()
	if l.acceptor != nil {
		l.acceptor.close()
		l.acceptor = nil
	}
	if l.dialer != nil {
		l.dialer.abort()
		l.dialer = nil
	}
	l.session.App = Disconnected
	l.lastAttempt = time.Time{}
	l.attempts = 0
}

// Send queues line for the peer. It is a no-op returning false unless the
// session is connected and minPeriod elapsed since the last Send.
func (l *Link) Send(line string, minPeriod time.Duration) bool {
	if l.session.App != Connected || l.conn == nil {
		return false
	}
	now := l.now()
	if !l.session.LastSend.IsZero() && now.Sub(l.session.LastSend) < minPeriod {
		return false
	}
	if !l.conn.send(line) {
		return false
	}
	l.session.LastSend = now
	return true
}

// PingReceived reports whether a heartbeat arrived since the last call.
func (l *Link) PingReceived() bool {
	ping := l.ping
	l.ping = false
	return ping
}

// Latest returns the most recent payload line and discards older ones.
func (l *Link) Latest() (string, bool) {
	if len(l.queue) == 0 {
		return "", false
	}
	line := l.queue[len(l.queue)-1]
	l.queue = nil
	return line, true
}

// ReceiveAll returns every queued payload line.
func (l *Link) ReceiveAll() []string {
	lines := l.queue
	l.queue = nil
	return lines
}

// Session returns a snapshot of the link state.
func (l *Link) Session() Session {
	s := l.session
	s.Pending = len(l.queue)
	return s
}

// Addr returns the listening address, nil when not listening.
func (l *Link) Addr() net.Addr {
	if l.acceptor == nil {
		return nil
	}
	return l.acceptor.ln.Addr()
}

// Close releases every socket. The link restarts from Disconnected on the
// next Update.
func (l *Link) Close() error {
	l.teardown()
	return nil
}
