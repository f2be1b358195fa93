//go:build linux

package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

type device struct {
	file        *os.File
	index       int
	name        string
	buttonCount uint8
}

// Open opens the joystick with specified index.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0666)
	if err != nil {
		return nil, err
	}
	d := &device{file: f, index: index}

	errno := d.ioctl(iocGBUTTONS, unsafe.Pointer(&d.buttonCount))
	if errno == 0 {
		var buf [256]byte
		errno = d.ioctl(iocGNAME, unsafe.Pointer(&buf))
		if errno == 0 {
			if pos := bytes.IndexByte(buf[:], 0); pos >= 0 {
				d.name = string(buf[:pos])
			} else {
				d.name = string(buf[:])
			}
		}
	}
	if errno != 0 {
		d.file.Close()
		return nil, errno
	}
	return d, nil
}

// Close implements Device.
func (d *device) Close() error {
	return d.file.Close()
}

// Index implements Device.
func (d *device) Index() int {
	return d.index
}

// Name implements Device.
func (d *device) Name() string {
	return d.name
}

// ButtonCount implements Device.
func (d *device) ButtonCount() int {
	return int(d.buttonCount)
}

// ReadEvent implements Device.
func (d *device) ReadEvent() (Event, error) {
	buf := make([]byte, EventSize)
	if _, err := io.ReadFull(d.file, buf); err != nil {
		return nil, err
	}
	return DecodeEvent(buf)
}

const (
	iocGBUTTONS uint = 0x80016a12
	iocGNAME    uint = 0x80ff6a13
)

func (d *device) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL, uintptr(d.file.Fd()), uintptr(req), uintptr(ptr))
	return err
}
