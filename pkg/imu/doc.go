// Package imu decodes the serial inclinometer protocol.
//
// The inclinometer streams fixed 11-byte frames over a serial link:
//
//	0x55 | tag | 8 payload bytes | checksum
//
// The payload holds four little-endian 16-bit words. The first three are
// the X, Y, Z axes of the quantity selected by the tag, the fourth is an
// auxiliary field (temperature, voltage or version). The checksum is the
// low byte of the sum of every preceding byte in the frame.
//
// There is no sequence number and no resynchronization beyond the sync
// byte: a byte that is not 0x55 at the head of the accumulator clears it,
// so one corrupt byte costs at most one frame.
package imu
