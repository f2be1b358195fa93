package peer

import "errors"

var (
	// ErrPeerDisconnected indicates the session was dropped, either on
	// alive timeout or on a transport failure.
	ErrPeerDisconnected = errors.New("peer disconnected")
	// ErrAssociationLost indicates the network association went down.
	ErrAssociationLost = errors.New("network association lost")
)
