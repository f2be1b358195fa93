package peer

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/pebdev/astro-alarm/pkg/framework"
)

const (
	waitFor = 3 * time.Second
	pollAt  = 5 * time.Millisecond
)

func pumpUntil(t *testing.T, l *Link, cond func() bool) {
	require.Eventually(t, func() bool {
		l.Update()
		return cond()
	}, waitFor, pollAt)
}

func waitApp(t *testing.T, l *Link, state ConnState) {
	pumpUntil(t, l, func() bool { return l.Session().App == state })
}

func newListener(t *testing.T, assoc Association) (*Link, *fx.ManualClock) {
	clock := fx.NewManualClock()
	l := New(RoleListener, Config{Address: "127.0.0.1:0", Clock: clock, Association: assoc})
	t.Cleanup(func() { l.Close() })
	l.Update()
	require.Equal(t, Connecting, l.Session().App)
	require.NotNil(t, l.Addr())
	return l, clock
}

func dialListener(t *testing.T, l *Link) net.Conn {
	conn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntilClosed reads in the background and reports once the remote
// side closed the connection.
func readUntilClosed(conn net.Conn) <-chan error {
	ch := make(chan error, 1)
	go func() {
		conn.SetReadDeadline(time.Now().Add(waitFor))
		_, err := io.ReadAll(conn)
		ch <- err
	}()
	return ch
}

func requireClosed(t *testing.T, l *Link, ch <-chan error) {
	var err error
	pumpUntil(t, l, func() bool {
		select {
		case err = <-ch:
			return true
		default:
			return false
		}
	})
	require.NoError(t, err)
}

func TestConnectorSendThrottle(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	acceptCh := make(chan net.Conn, 1)
	go func() {
		if conn, err := ln.Accept(); err == nil {
			acceptCh <- conn
		}
	}()

	clock := fx.NewManualClock()
	l := New(RoleConnector, Config{Address: ln.Addr().String(), Clock: clock})
	defer l.Close()
	require.False(t, l.Send("early", 0))
	waitApp(t, l, Connected)

	var server net.Conn
	select {
	case server = <-acceptCh:
	case <-time.After(waitFor):
		t.Fatal("not accepted")
	}
	defer server.Close()
	reader := bufio.NewReader(server)

	require.True(t, l.Send(AliveToken, AliveSendInterval))
	require.False(t, l.Send(AliveToken, AliveSendInterval))
	clock.Advance(AliveSendInterval / 2)
	require.False(t, l.Send(AliveToken, AliveSendInterval))

	server.SetReadDeadline(time.Now().Add(waitFor))
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, AliveToken+"\n", line)

	server.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, err = reader.ReadString('\n')
	require.Error(t, err)
	netErr, ok := err.(net.Error)
	require.True(t, ok)
	require.True(t, netErr.Timeout())

	clock.Advance(AliveSendInterval / 2)
	require.True(t, l.Send("ALARM", AliveSendInterval))
	require.Equal(t, clock.Now(), l.Session().LastSend)
	server.SetReadDeadline(time.Now().Add(waitFor))
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "ALARM\n", line)
}

func TestConnectorAliveTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	acceptCh := make(chan net.Conn, 4)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			acceptCh <- conn
		}
	}()

	clock := fx.NewManualClock()
	l := New(RoleConnector, Config{Address: ln.Addr().String(), Clock: clock})
	defer l.Close()
	waitApp(t, l, Connected)
	server := <-acceptCh
	defer server.Close()

	// heartbeats go out, but nothing comes back
	clock.Advance(AliveSendInterval)
	l.Update()
	server.SetReadDeadline(time.Now().Add(waitFor))
	line, err := bufio.NewReader(server).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, AliveToken+"\n", line)

	clock.Advance(AliveTimeout)
	l.Update()
	require.Equal(t, Disconnected, l.Session().App)
	require.Zero(t, l.Session().Pending)

	// reconnects right away since the last attempt is old enough
	waitApp(t, l, Connected)
}

func TestConnectorRetry(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	clock := fx.NewManualClock()
	l := New(RoleConnector, Config{Address: addr, Clock: clock})
	defer l.Close()
	l.Update()
	require.Equal(t, Connecting, l.Session().App)
	waitApp(t, l, Disconnected)

	l.Update()
	require.Equal(t, Disconnected, l.Session().App)
	clock.Advance(RetryInterval - time.Millisecond)
	l.Update()
	require.Equal(t, Disconnected, l.Session().App)
	clock.Advance(time.Millisecond)
	l.Update()
	require.Equal(t, Connecting, l.Session().App)
}

func TestRetryDelay(t *testing.T) {
	testCases := []struct {
		max    time.Duration
		expect []time.Duration
	}{
		{0, []time.Duration{5, 5, 5, 5, 5}},
		{40, []time.Duration{5, 5, 10, 20, 40, 40}},
		{12, []time.Duration{5, 5, 10, 12}},
	}
	for _, tc := range testCases {
		l := New(RoleConnector, Config{
			RetryInterval:    5 * time.Second,
			MaxRetryInterval: tc.max * time.Second,
		})
		for attempts, expect := range tc.expect {
			l.attempts = attempts
			require.Equalf(t, expect*time.Second, l.retryDelay(), "max %v attempts %d", tc.max, attempts)
		}
	}
}

func TestListenerAliveTimeout(t *testing.T) {
	l, clock := newListener(t, nil)
	addr := l.Addr().String()

	c1 := dialListener(t, l)
	waitApp(t, l, Connected)
	closed := readUntilClosed(c1)

	clock.Advance(AliveTimeout)
	l.Update()
	require.Equal(t, Connected, l.Session().App)
	clock.Advance(time.Millisecond)
	l.Update()
	require.Equal(t, Connecting, l.Session().App)
	requireClosed(t, l, closed)

	// the listening socket is kept and accepts a new peer
	require.Equal(t, addr, l.Addr().String())
	dialListener(t, l)
	waitApp(t, l, Connected)
}

func TestListenerLinesKeepAlive(t *testing.T) {
	l, clock := newListener(t, nil)
	c := dialListener(t, l)
	waitApp(t, l, Connected)

	for i := 0; i < 3; i++ {
		clock.Advance(AliveTimeout - time.Second)
		_, err := io.WriteString(c, "hello\n")
		require.NoError(t, err)
		now := clock.Now()
		pumpUntil(t, l, func() bool { return l.Session().LastAlive.Equal(now) })
		require.Equal(t, Connected, l.Session().App)
	}
}

func TestListenerRejectsSecondPeer(t *testing.T) {
	l, _ := newListener(t, nil)
	dialListener(t, l)
	waitApp(t, l, Connected)

	c2 := dialListener(t, l)
	requireClosed(t, l, readUntilClosed(c2))
	require.Equal(t, Connected, l.Session().App)
}

func TestReceiveQueue(t *testing.T) {
	l, _ := newListener(t, nil)
	c := dialListener(t, l)
	waitApp(t, l, Connected)
	require.False(t, l.PingReceived())

	_, err := io.WriteString(c, "one\r\nxx isAlive xx\ntwo\nthree\n")
	require.NoError(t, err)
	pumpUntil(t, l, func() bool { return l.Session().Pending == 3 })
	require.True(t, l.PingReceived())
	require.False(t, l.PingReceived())

	line, ok := l.Latest()
	require.True(t, ok)
	require.Equal(t, "three", line)
	_, ok = l.Latest()
	require.False(t, ok)

	_, err = io.WriteString(c, "x\ny\n")
	require.NoError(t, err)
	pumpUntil(t, l, func() bool { return l.Session().Pending == 2 })
	require.Equal(t, []string{"x", "y"}, l.ReceiveAll())
	require.Empty(t, l.ReceiveAll())
}

func TestAssociationLoss(t *testing.T) {
	assoc := NewSwitchAssociation(true)
	l, clock := newListener(t, assoc)
	require.Equal(t, Connected, l.Session().WiFi)
	c := dialListener(t, l)
	waitApp(t, l, Connected)
	closed := readUntilClosed(c)

	assoc.Set(false)
	l.Update()
	s := l.Session()
	require.Equal(t, Disconnected, s.App)
	require.Equal(t, Connecting, s.WiFi)
	require.Nil(t, l.Addr())
	require.Equal(t, 1, assoc.Reconnects())
	requireClosed(t, l, closed)

	l.Update()
	require.Equal(t, 1, assoc.Reconnects())
	clock.Advance(RetryInterval)
	l.Update()
	require.Equal(t, 2, assoc.Reconnects())
	require.False(t, l.Send("lost", 0))

	assoc.Set(true)
	l.Update()
	require.Equal(t, Connected, l.Session().WiFi)
	require.Equal(t, Connecting, l.Session().App)
	require.NotNil(t, l.Addr())
}

func TestLinkInLoop(t *testing.T) {
	clock := fx.NewManualClock()
	l := New(RoleListener, Config{Address: "127.0.0.1:0", Clock: clock})
	defer l.Close()
	loop := fx.NewLoop()
	loop.Clock = clock
	loop.Add(l)
	loop.Step(context.Background())
	require.Equal(t, Connecting, l.Session().App)
	require.Equal(t, "peer-listener", l.Name())
}

func TestLinkClosedWhenLoopStops(t *testing.T) {
	l := New(RoleListener, Config{Address: "127.0.0.1:0"})
	loop := fx.NewLoop()
	loop.Interval = time.Millisecond
	loop.Add(l)
	addrCh := make(chan string, 1)
	loop.AddController(fx.PrLvControl, fx.ControlFunc(func(fx.ControlContext) error {
		if addr := l.Addr(); addr != nil {
			select {
			case addrCh <- addr.String():
			default:
			}
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	var addr string
	select {
	case addr = <-addrCh:
	case <-time.After(waitFor):
		t.Fatal("not listening")
	}
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(waitFor):
		t.Fatal("loop did not stop")
	}

	require.Nil(t, l.Addr())
	require.Equal(t, Disconnected, l.Session().App)
	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	ln.Close()
}

func TestSessionLossClearsPing(t *testing.T) {
	l, clock := newListener(t, nil)
	c := dialListener(t, l)
	waitApp(t, l, Connected)

	clock.Advance(time.Second)
	now := clock.Now()
	_, err := io.WriteString(c, AliveToken+"\n")
	require.NoError(t, err)
	pumpUntil(t, l, func() bool { return l.Session().LastAlive.Equal(now) })

	c.Close()
	waitApp(t, l, Connecting)
	require.False(t, l.PingReceived())
}

func TestConfig(t *testing.T) {
	role, err := ParseRole("client")
	require.NoError(t, err)
	require.Equal(t, RoleConnector, role)
	_, err = ParseRole("both")
	require.Error(t, err)

	conf := DefaultConfig()
	require.NoError(t, conf.Validate(RoleListener))
	require.Error(t, conf.Validate(RoleConnector))
	conf.Address = "astro-2.local:4210"
	require.NoError(t, conf.Validate(RoleConnector))
	conf.Address = "astro-2.local"
	require.Error(t, conf.Validate(RoleConnector))
}
