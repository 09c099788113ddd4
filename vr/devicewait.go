package vr

import (
	"fmt"
	"strings"
	"time"

	"github.com/ThePletch/steam-vr-wheel/errkind"
	"github.com/ThePletch/steam-vr-wheel/logx"
)

// DefaultDevicePollInterval and DefaultDeviceWaitTimeout mirror the
// original implementation's DEVICE_POLL_TIME / DEVICE_WAIT_TIMEOUT
// (SPEC_FULL.md "SUPPLEMENTED FEATURES").
const (
	DefaultDevicePollInterval = 5 * time.Second
	DefaultDeviceWaitTimeout  = 120 * time.Second
)

// Requirement names a (class, role) pair a mapping needs present
// before it can be built (spec §4.6 step 3).
type Requirement struct {
	Class DeviceClass
	Role  ControllerRole
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s.%s", r.Class, r.Role)
}

// TimeoutError is returned by [WaitForRequiredDevices] when not every
// required device appeared within the wait window (spec §7
// device-timeout).
type TimeoutError struct {
	Waited  time.Duration
	Missing []Requirement
}

func (e *TimeoutError) Error() string {
	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = m.String()
	}
	return fmt.Sprintf("vr: timed out after %v waiting for controller(s): %s",
		e.Waited, strings.Join(names, ", "))
}

// Unwrap lets callers use errors.Is(err, errkind.DeviceTimeout).
func (e *TimeoutError) Unwrap() error {
	return errkind.DeviceTimeout
}

// WaitForRequiredDevices polls s.DeviceIDForType for every requirement
// every pollInterval, up to timeout, refreshing the device index each
// iteration (spec §4.1). On success it returns the resolved device id
// for every requirement; on failure it returns a *TimeoutError.
func WaitForRequiredDevices(s *Source, required []Requirement, pollInterval, timeout time.Duration) (map[Requirement]DeviceID, error) {
	var waited time.Duration
	for {
		s.RefreshDeviceIndex()

		resolved := make(map[Requirement]DeviceID, len(required))
		var missing []Requirement
		for _, req := range required {
			id, err := s.DeviceIDForType(req.Class, req.Role)
			if err != nil {
				missing = append(missing, req)
				continue
			}
			resolved[req] = id
		}

		if len(missing) == 0 {
			return resolved, nil
		}

		if waited >= timeout {
			return nil, &TimeoutError{Waited: waited, Missing: missing}
		}

		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = m.String()
		}
		logx.Infof("vr: waiting for controller(s): %s", strings.Join(names, ", "))

		time.Sleep(pollInterval)
		waited += pollInterval
	}
}
