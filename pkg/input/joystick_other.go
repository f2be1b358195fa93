//go:build !linux

package input

import "errors"

// Open is only supported on linux.
func Open(index int) (Device, error) {
	return nil, errors.New("joystick not supported on this platform")
}
