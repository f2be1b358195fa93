package peer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	lineBacklog  = 64
	sendBacklog  = 16
	acceptQueue  = 4
	writeTimeout = 2 * time.Second
)

var errConnClosed = errors.New("connection closed")

// lineConn serves one TCP connection with a reader and a writer goroutine.
type lineConn struct {
	conn   net.Conn
	lineCh chan string
	sendCh chan string
	doneCh chan struct{}
	err    error
	once   sync.Once
}

func newLineConn(conn net.Conn) *lineConn {
	c := &lineConn{
		conn:   conn,
		lineCh: make(chan string, lineBacklog),
		sendCh: make(chan string, sendBacklog),
		doneCh: make(chan struct{}),
	}
	go c.readLoop()
	go c.writeLoop()
	return c
}

func (c *lineConn) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		select {
		case c.lineCh <- line:
		case <-c.doneCh:
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.fail(err)
}

func (c *lineConn) writeLoop() {
	for {
		select {
		case <-c.doneCh:
			return
		case line := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
				c.fail(err)
				return
			}
		}
	}
}

func (c *lineConn) fail(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.doneCh)
		c.conn.Close()
	})
}

// send queues a line without blocking, false when the queue is full.
func (c *lineConn) send(line string) bool {
	select {
	case c.sendCh <- line:
		return true
	default:
		return false
	}
}

// failed returns the transport error once the connection is broken.
func (c *lineConn) failed() error {
	select {
	case <-c.doneCh:
		return c.err
	default:
		return nil
	}
}

func (c *lineConn) close() {
	c.fail(errConnClosed)
}

// flush drops lines received but not consumed.
func (c *lineConn) flush() {
	for {
		select {
		case <-c.lineCh:
		default:
			return
		}
	}
}

// acceptor hands inbound connections over to the loop.
type acceptor struct {
	ln     net.Listener
	connCh chan net.Conn
	doneCh chan struct{}
	once   sync.Once
}

func listen(address string) (*acceptor, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	a := &acceptor{
		ln:     ln,
		connCh: make(chan net.Conn, acceptQueue),
		doneCh: make(chan struct{}),
	}
	go a.acceptLoop()
	return a, nil
}

func (a *acceptor) acceptLoop() {
	for {
		conn, err := a.ln.Accept()
		if err != nil {
			return
		}
		select {
		case a.connCh <- conn:
		case <-a.doneCh:
			conn.Close()
			return
		}
	}
}

// poll returns an accepted connection, nil if none is waiting.
func (a *acceptor) poll() net.Conn {
	select {
	case conn := <-a.connCh:
		return conn
	default:
		return nil
	}
}

func (a *acceptor) close() {
	a.once.Do(func() {
		close(a.doneCh)
		a.ln.Close()
		for conn := a.poll(); conn != nil; conn = a.poll() {
			conn.Close()
		}
	})
}

type dialResult struct {
	conn net.Conn
	err  error
}

// dialer runs one outbound connection attempt.
type dialer struct {
	cancel   context.CancelFunc
	resultCh chan dialResult
}

func dial(address string, timeout time.Duration) *dialer {
	ctx, cancel := context.WithCancel(context.Background())
	d := &dialer{cancel: cancel, resultCh: make(chan dialResult, 1)}
	go func() {
		nd := &net.Dialer{Timeout: timeout}
		conn, err := nd.DialContext(ctx, "tcp", address)
		d.resultCh <- dialResult{conn: conn, err: err}
	}()
	return d
}

// poll returns the result once the attempt completed.
func (d *dialer) poll() (dialResult, bool) {
	select {
	case r := <-d.resultCh:
		d.cancel()
		return r, true
	default:
		return dialResult{}, false
	}
}

// abort cancels the attempt and closes a connection established meanwhile.
func (d *dialer) abort() {
	d.cancel()
	go func() {
		if r := <-d.resultCh; r.conn != nil {
			r.conn.Close()
		}
	}()
}
