package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/pebdev/astro-alarm/pkg/device"
	fx "github.com/pebdev/astro-alarm/pkg/framework"
)

// DefaultRefresh is the longest period without a push to clients.
const DefaultRefresh = time.Second

// Feed is a device.Display pushing the status to websocket clients. Draw
// runs in the control loop and never blocks: every client has a one-slot
// queue where a newer view replaces an unsent one.
type Feed struct {
	Addr string
	// Refresh forces a push when nothing changed for this long.
	Refresh time.Duration

	lock     sync.Mutex
	clients  map[*feedClient]struct{}
	last     []byte
	lastKey  []byte
	lastPush time.Time
}

type feedClient struct {
	ch chan []byte
}

// NewFeed creates a Feed serving on addr.
func NewFeed(addr string) *Feed {
	return &Feed{Addr: addr, Refresh: DefaultRefresh}
}

// Name implements Named.
func (f *Feed) Name() string {
	return "ws"
}

// Draw implements device.Display.
func (f *Feed) Draw(s device.Status) {
	v := NewView(s)
	timeMs := v.TimeMs
	v.TimeMs = 0
	key, err := json.Marshal(&v)
	if err != nil {
		glog.Errorf("ws view: %v", err)
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if bytes.Equal(key, f.lastKey) && s.Time.Sub(f.lastPush) < f.Refresh {
		return
	}
	v.TimeMs = timeMs
	data, err := json.Marshal(&v)
	if err != nil {
		glog.Errorf("ws view: %v", err)
		return
	}
	f.last, f.lastKey, f.lastPush = data, key, s.Time
	for c := range f.clients {
		c.push(data)
	}
}

func (c *feedClient) push(data []byte) {
	select {
	case c.ch <- data:
		return
	default:
	}
	select {
	case <-c.ch:
	default:
	}
	select {
	case c.ch <- data:
	default:
	}
}

// Handler returns the HTTP handler: /ws is the websocket feed and
// /status the last view as a plain JSON document.
func (f *Feed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", websocket.Handler(f.serve))
	mux.HandleFunc("/status", f.serveStatus)
	return mux
}

// Run implements Runnable.
func (f *Feed) Run(ctx context.Context) error {
	server := &http.Server{Addr: f.Addr, Handler: f.Handler()}
	glog.Infof("status feed on %s", f.Addr)
	err := fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (f *Feed) register() (*feedClient, []byte) {
	c := &feedClient{ch: make(chan []byte, 1)}
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.clients == nil {
		f.clients = make(map[*feedClient]struct{})
	}
	f.clients[c] = struct{}{}
	return c, f.last
}

func (f *Feed) unregister(c *feedClient) {
	f.lock.Lock()
	delete(f.clients, c)
	f.lock.Unlock()
}

func (f *Feed) serve(conn *websocket.Conn) {
	c, last := f.register()
	defer f.unregister(c)
	glog.V(2).Infof("ws client %s connected", conn.Request().RemoteAddr)

	// clients never send anything, reading only detects the close
	closedCh := make(chan struct{})
	go func() {
		var discard []byte
		for websocket.Message.Receive(conn, &discard) == nil {
		}
		close(closedCh)
	}()

	if last != nil {
		if err := websocket.Message.Send(conn, string(last)); err != nil {
			return
		}
	}
	for {
		select {
		case <-closedCh:
			glog.V(2).Infof("ws client %s disconnected", conn.Request().RemoteAddr)
			return
		case data := <-c.ch:
			if err := websocket.Message.Send(conn, string(data)); err != nil {
				glog.V(2).Infof("ws client %s: %v", conn.Request().RemoteAddr, err)
				return
			}
		}
	}
}

func (f *Feed) serveStatus(w http.ResponseWriter, r *http.Request) {
	f.lock.Lock()
	last := f.last
	f.lock.Unlock()
	if last == nil {
		http.Error(w, "no status yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(last)
}
