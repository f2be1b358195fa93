package peer

import (
	"net"
	"sync/atomic"

	"github.com/golang/glog"
)

// Association reports the state of the underlying network association
// (the WiFi link on the device). Both methods must not block.
type Association interface {
	Up() bool
	// Reconnect asks for a new association attempt.
	Reconnect()
}

// AlwaysUp is an Association for wired hosts.
type AlwaysUp struct{}

// Up implements Association.
func (AlwaysUp) Up() bool { return true }

// Reconnect implements Association.
func (AlwaysUp) Reconnect() {}

// InterfaceAssociation watches a network interface. The association itself
// is managed by the OS, so Reconnect only logs.
type InterfaceAssociation struct {
	Name string
}

// Up implements Association.
func (a *InterfaceAssociation) Up() bool {
	iface, err := net.InterfaceByName(a.Name)
	if err != nil || iface.Flags&net.FlagUp == 0 {
		return false
	}
	addrs, err := iface.Addrs()
	return err == nil && len(addrs) > 0
}

// Reconnect implements Association.
func (a *InterfaceAssociation) Reconnect() {
	glog.V(2).Infof("peer: waiting for interface %s", a.Name)
}

// SwitchAssociation is toggled by hand, from a shell or a test.
type SwitchAssociation struct {
	up         int32
	reconnects int32
}

// NewSwitchAssociation creates a SwitchAssociation in the given state.
func NewSwitchAssociation(up bool) *SwitchAssociation {
	a := &SwitchAssociation{}
	a.Set(up)
	return a
}

// Set changes the state.
func (a *SwitchAssociation) Set(up bool) {
	var v int32
	if up {
		v = 1
	}
	atomic.StoreInt32(&a.up, v)
}

// Up implements Association.
func (a *SwitchAssociation) Up() bool {
	return atomic.LoadInt32(&a.up) != 0
}

// Reconnect implements Association.
func (a *SwitchAssociation) Reconnect() {
	atomic.AddInt32(&a.reconnects, 1)
}

// Reconnects returns how many times Reconnect was called.
func (a *SwitchAssociation) Reconnects() int {
	return int(atomic.LoadInt32(&a.reconnects))
}
