// Package errkind defines the sentinel error kinds from the engine's
// error-handling design (spec §7): construction, device-timeout,
// runtime-transient, runtime-fatal. Callers use errors.Is against
// these to decide propagation policy without string matching.
package errkind

import "errors"

var (
	// Construction marks a node built without a required dependency,
	// or a mapping referencing an unknown device class/role.
	Construction = errors.New("construction error")

	// DeviceTimeout marks a required device that never appeared
	// within the device-wait window.
	DeviceTimeout = errors.New("device timeout")

	// RuntimeTransient marks a single tick failing to read a device;
	// swallowed at the tick boundary to preserve cadence.
	RuntimeTransient = errors.New("runtime transient error")

	// RuntimeFatal marks a virtual device write rejection or a
	// terminal VR runtime error; the process exits.
	RuntimeFatal = errors.New("runtime fatal error")
)
