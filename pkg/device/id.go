package device

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

// AppID salts the machine ID so it is not exposed as is.
const AppID = "astro-alarm"

// ID returns the unique ID identifying the device, falling back to the
// host name when the machine ID is not available.
func ID() string {
	if id, err := machineid.ProtectedID(AppID); err == nil {
		return id[:16]
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return AppID
}
