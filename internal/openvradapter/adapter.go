// Package openvradapter is the integration seam between [vr.Runtime]
// and a real OpenVR installation. The VR runtime is explicitly out of
// scope for the core engine (spec §1: "treated as external
// collaborators with named interfaces only") — production deployments
// bind this seam to OpenVR's IVRSystem via cgo; nothing in the
// retrieved example pack ships such a binding, so this adapter reports
// no tracked devices rather than link against a library this module
// doesn't depend on.
package openvradapter

import "github.com/ThePletch/steam-vr-wheel/vr"

// Adapter is a [vr.Runtime] with no devices connected. Replace it with
// a real OpenVR cgo binding to drive the engine from live hardware.
type Adapter struct{}

// New returns an Adapter with no tracked devices.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) PollNextEvent() (vr.Event, bool) { return vr.Event{}, false }

func (a *Adapter) TrackedDeviceClass(i vr.DeviceID) vr.DeviceClass { return vr.ClassInvalid }

func (a *Adapter) ControllerRole(i vr.DeviceID) vr.ControllerRole { return vr.RoleInvalid }

func (a *Adapter) DeviceToAbsoluteTrackingPose(out []vr.Pose) {
	for i := range out {
		out[i] = vr.Pose{}
	}
}

func (a *Adapter) ControllerState(i vr.DeviceID) (vr.RawControllerState, bool) {
	return vr.RawControllerState{}, false
}

func (a *Adapter) TriggerHapticPulse(device vr.DeviceID, axis int, durationMicros int) {}
