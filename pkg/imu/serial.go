package imu

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goburrow/serial"
)

// SimulatorScheme prefixes addresses opening a Simulator instead of a
// serial device.
const SimulatorScheme = "sim://"

// DefaultBaudRate of the inclinometer.
const DefaultBaudRate = 9600

var errSerialTimeout = serial.ErrTimeout

// OpenSerial opens the inclinometer port 8N1 at the given baud rate.
// Reads time out regularly so the reader notices cancellation.
func OpenSerial(address string, baudRate int) (io.ReadCloser, error) {
	if strings.HasPrefix(address, SimulatorScheme) {
		return ParseSimulatorURL(address)
	}
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(&serial.Config{
		Address:  address,
		BaudRate: baudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  200 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %q: %w", address, err)
	}
	return port, nil
}
