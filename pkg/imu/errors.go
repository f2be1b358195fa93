package imu

import (
	"errors"
	"fmt"
)

// ErrFrameSync indicates a byte was dropped because the accumulator did
// not start with the sync byte.
var ErrFrameSync = errors.New("frame sync lost")

// ChecksumError is reported for a frame with a known tag and a bad
// checksum. The retained value of that kind is left unchanged.
type ChecksumError struct {
	Kind Kind
	Want byte
	Got  byte
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: checksum error, want 0x%02x, got 0x%02x", e.Kind, e.Want, e.Got)
}
