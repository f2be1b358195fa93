// Package sh provides an interactive shell acting as the peer of an alarm
// device, to exercise the peer link without a second device.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/pebdev/astro-alarm/pkg/alarm"
	"github.com/pebdev/astro-alarm/pkg/device"
	fx "github.com/pebdev/astro-alarm/pkg/framework"
	"github.com/pebdev/astro-alarm/pkg/peer"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// CommandTimeout bounds the wait for the loop to run a command.
	CommandTimeout time.Duration

	Shell *ishell.Shell
	Peer  *Peer
	Loop  *fx.Loop

	cancel func()
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&StatusCmd,
		&PingCmd,
		&SendCmd,
		&RecvCmd,
		&AlarmCmd,
		&WiFiCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a shell running the peer link described by conf.
func New(conf *device.Config) (*Shell, error) {
	if conf.PeerRole == "" {
		return nil, fmt.Errorf("peer role must be specified")
	}
	role, err := peer.ParseRole(conf.PeerRole)
	if err != nil {
		return nil, err
	}
	assoc := peer.NewSwitchAssociation(true)
	linkConf := conf.PeerConfig(nil)
	linkConf.Association = assoc
	if err := linkConf.Validate(role); err != nil {
		return nil, err
	}
	p := NewPeer(peer.New(role, linkConf), assoc)
	p.SendInterval = conf.SendInterval
	return NewWith(p), nil
}

// NewWith creates a shell around an existing Peer.
func NewWith(p *Peer) *Shell {
	s := &Shell{
		Interactive:    !evalOnly,
		OutputJSON:     outputJSON,
		CommandTimeout: time.Second,
		Shell:          ishell.New(),
		Peer:           p,
		Loop:           fx.NewLoop(),
	}
	s.Loop.Add(p)
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", p.Link.Role))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Do runs fn inside the loop.
func (s *Shell) Do(fn func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.CommandTimeout)
	defer cancel()
	return s.Peer.Do(ctx, fn)
}

// Print prints v in JSON or using the text form.
func (s *Shell) Print(c *ishell.Context, v interface{}, text string) {
	if !s.OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// Start starts the loop in background.
func (s *Shell) Start() {
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go s.Loop.Run(ctx)
}

// Stop stops the loop and releases the link.
func (s *Shell) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	s.Start()
	defer s.Stop()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// FormatState renders a PeerState for display.
func FormatState(st PeerState) string {
	var w strings.Builder
	fmt.Fprintf(&w, "%s wifi=%s app=%s", st.Role, st.Session.WiFi, st.Session.App)
	if !st.Session.LastAlive.IsZero() {
		fmt.Fprintf(&w, " alive=%s", st.Session.LastAlive.Format(time.StampMilli))
	}
	if st.Remote != nil {
		fmt.Fprintf(&w, " remote=%s/%s", st.Remote.State, st.Remote.Status)
	} else {
		w.WriteString(" remote=unknown")
	}
	if st.Announce != nil {
		fmt.Fprintf(&w, " announce=%s/%s", st.Announce.State, st.Announce.Status)
	}
	return w.String()
}

// inLoop wraps a command whose body must run inside the loop.
func inLoop(fn func(s *Shell, c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if err := s.Do(func() { fn(s, c) }); err != nil {
			c.Err(err)
		}
	}
}

var (
	// StatusCmd prints the link session.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"session", "s"},
		Help:    "",
		Func: inLoop(func(s *Shell, c *ishell.Context) {
			st := s.Peer.State()
			s.Print(c, st, FormatState(st))
		}),
	}

	// PingCmd reports heartbeats from the remote side.
	PingCmd = ishell.Cmd{
		Name: "ping",
		Help: "",
		Func: inLoop(func(s *Shell, c *ishell.Context) {
			st := s.Peer.State()
			if st.Pings == 0 {
				s.Print(c, st, "no heartbeat received")
				return
			}
			s.Print(c, st, fmt.Sprintf("%d heartbeats, last at %s", st.Pings, st.LastPing.Format(time.StampMilli)))
		}),
	}

	// SendCmd sends a raw line.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "LINE",
		Func: inLoop(func(s *Shell, c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("line expected"))
				return
			}
			if !s.Peer.Link.Send(strings.Join(c.Args, " "), 0) {
				c.Err(peer.ErrPeerDisconnected)
				return
			}
			c.Println("OK")
		}),
	}

	// RecvCmd prints the lines received since the previous call.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "",
		Func: inLoop(func(s *Shell, c *ishell.Context) {
			lines := s.Peer.TakeReceived()
			if lines == nil {
				lines = []string{}
			}
			s.Print(c, lines, strings.Join(lines, "\n"))
		}),
	}

	// AlarmCmd selects the alarm record announced to the remote side.
	AlarmCmd = ishell.Cmd{
		Name: "alarm",
		Help: "none|off|on|trigger|warning",
		Func: inLoop(func(s *Shell, c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("none, off, on, trigger or warning expected"))
				return
			}
			rec := alarm.Record{}
			switch c.Args[0] {
			case "none":
				s.Peer.Announce = nil
				c.Println("OK")
				return
			case "off":
			case "on":
				rec.State = alarm.StateOn
			case "trigger":
				rec.State, rec.Status = alarm.StateLocked, alarm.StatusTriggered
			case "warning":
				rec.State, rec.Status = alarm.StateOn, alarm.StatusWarning
			default:
				c.Err(fmt.Errorf("unknown alarm %q", c.Args[0]))
				return
			}
			s.Peer.Announce = &rec
			c.Println("OK")
		}),
	}

	// WiFiCmd simulates the loss and return of the association.
	WiFiCmd = ishell.Cmd{
		Name: "wifi",
		Help: "up|down",
		Func: inLoop(func(s *Shell, c *ishell.Context) {
			if len(c.Args) != 1 || (c.Args[0] != "up" && c.Args[0] != "down") {
				c.Err(fmt.Errorf("up or down expected"))
				return
			}
			s.Peer.Association.Set(c.Args[0] == "up")
			c.Println("OK")
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New(device.NewConfig())
	if err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
}
