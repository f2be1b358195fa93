// Package peer implements the link between two alarm devices: a newline
// delimited text protocol over TCP with heartbeat based dead-peer
// detection. One device listens, the other connects.
//
// All state is owned by the control loop calling Update. Sockets are
// served by helper goroutines which only move data through buffered
// channels, so Update never blocks.
package peer

import (
	"fmt"
	"time"
)

// Role selects which side of the link a device plays.
type Role int

// Roles.
const (
	RoleListener Role = iota
	RoleConnector
)

// String implements fmt.Stringer.
func (r Role) String() string {
	if r == RoleConnector {
		return "connector"
	}
	return "listener"
}

// ParseRole parses "listener" (or "server") and "connector" (or "client").
func ParseRole(s string) (Role, error) {
	switch s {
	case "listener", "server":
		return RoleListener, nil
	case "connector", "client":
		return RoleConnector, nil
	}
	return RoleListener, fmt.Errorf("unknown peer role %q", s)
}

// ConnState is the state of the association or of the application session.
type ConnState int

// Connection states.
const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

// String implements fmt.Stringer.
func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// MarshalText implements encoding.TextMarshaler.
func (s ConnState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is a snapshot of the link.
type Session struct {
	WiFi      ConnState
	App       ConnState
	LastAlive time.Time
	LastSend  time.Time
	// Pending is the number of received payload lines not yet consumed.
	Pending int
}

// Protocol constants.
const (
	AliveTimeout      = 5 * time.Second
	RetryInterval     = 5 * time.Second
	AliveSendInterval = time.Second
	AliveToken        = "isAlive"
	DefaultPort       = 4210
)

// MaxPendingLines bounds the receive queue; the oldest lines are dropped.
const MaxPendingLines = 64
