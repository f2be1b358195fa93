// Package input reads the push button which arms the alarm and wakes the
// screen. On hosts the button is any joystick button.
package input

import "io"

// Event is one event read from an input device.
type Event interface {
	// IsInit indicates the event reports the initial state.
	IsInit() bool
	// Index returns the button or axis index.
	Index() int
}

// ButtonEvent reports a button level change.
type ButtonEvent interface {
	Event
	Pressed() bool
}

// Device is an opened input device.
type Device interface {
	io.Closer
	Index() int
	Name() string
	ButtonCount() int
	// ReadEvent blocks until the next event.
	ReadEvent() (Event, error)
}

// Button is the polled level of a push button.
type Button interface {
	Pressed() bool
}
