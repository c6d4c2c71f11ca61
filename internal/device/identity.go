// drivesend/internal/device/identity.go

// Package device identifies the uploading machine so artifacts in a shared
// bucket can be attributed to their producer.
package device

import (
	"fmt"
	"os"
	"runtime"

	"github.com/denisbrodbeck/machineid"
)

// Identity describes the uploading machine.
type Identity struct {
	DeviceID string
	Hostname string
	Platform string
}

// Current returns the identity of this machine. The machine ID is hashed
// with the application name so the raw OS identifier never leaves the host;
// when the OS provides none, the hostname stands in.
func Current() Identity {
	id, err := machineid.ProtectedID("drivesend")
	if err != nil {
		id = getHostname()
	}
	return Identity{
		DeviceID: id,
		Hostname: getHostname(),
		Platform: fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Metadata renders the identity as object-metadata key/value pairs.
func (i Identity) Metadata() map[string]string {
	return map[string]string{
		"uploader-id":       i.DeviceID,
		"uploader-platform": i.Platform,
	}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
