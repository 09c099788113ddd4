// Package vrtest provides a scriptable [vr.Runtime] for engine tests,
// grounded on phanxgames-willow's inject.go synthetic input queue: both
// let a test drive a tick-based system by queueing events ahead of time
// and draining them deterministically rather than needing live hardware.
package vrtest

import "github.com/ThePletch/steam-vr-wheel/vr"

// deviceInfo is the static (class, role) assignment for one slot.
type deviceInfo struct {
	class vr.DeviceClass
	role  vr.ControllerRole
}

// Fake is an in-memory [vr.Runtime] driven entirely by direct field
// writes and queued events. Nothing in it touches real hardware or a
// clock; tests advance it tick by tick.
type Fake struct {
	devices map[vr.DeviceID]deviceInfo
	poses   map[vr.DeviceID]vr.Pose
	states  map[vr.DeviceID]vr.RawControllerState

	eventQueue []vr.Event
	pulses     []HapticCall
}

// HapticCall records one TriggerHapticPulse invocation for assertions.
type HapticCall struct {
	Device         vr.DeviceID
	Axis           int
	DurationMicros int
}

// New returns an empty Fake with no devices registered.
func New() *Fake {
	return &Fake{
		devices: make(map[vr.DeviceID]deviceInfo),
		poses:   make(map[vr.DeviceID]vr.Pose),
		states:  make(map[vr.DeviceID]vr.RawControllerState),
	}
}

// AddDevice registers a device slot with a class and role and an
// initial identity pose.
func (f *Fake) AddDevice(id vr.DeviceID, class vr.DeviceClass, role vr.ControllerRole) {
	f.devices[id] = deviceInfo{class: class, role: role}
	pose := vr.Pose{Valid: true}
	pose.Matrix[0][0], pose.Matrix[1][1], pose.Matrix[2][2] = 1, 1, 1
	f.poses[id] = pose
}

// SetPose overwrites the pose for a device slot.
func (f *Fake) SetPose(id vr.DeviceID, pose vr.Pose) {
	pose.Valid = true
	f.poses[id] = pose
}

// SetControllerState overwrites the raw analog state for a device slot.
func (f *Fake) SetControllerState(id vr.DeviceID, state vr.RawControllerState) {
	f.states[id] = state
}

// QueueEvent appends a synthetic runtime event, consumed in FIFO order
// by the next calls to PollNextEvent (typically one per Source.Update).
func (f *Fake) QueueEvent(evt vr.Event) {
	f.eventQueue = append(f.eventQueue, evt)
}

// PressButton is a convenience that queues a press event.
func (f *Fake) PressButton(id vr.DeviceID, button vr.ButtonID) {
	f.QueueEvent(vr.Event{Type: vr.EventButtonPress, Device: id, Button: button})
}

// ReleaseButton is a convenience that queues an unpress event.
func (f *Fake) ReleaseButton(id vr.DeviceID, button vr.ButtonID) {
	f.QueueEvent(vr.Event{Type: vr.EventButtonUnpress, Device: id, Button: button})
}

// PollNextEvent implements [vr.Runtime].
func (f *Fake) PollNextEvent() (vr.Event, bool) {
	if len(f.eventQueue) == 0 {
		return vr.Event{}, false
	}
	evt := f.eventQueue[0]
	f.eventQueue = f.eventQueue[1:]
	return evt, true
}

// TrackedDeviceClass implements [vr.Runtime].
func (f *Fake) TrackedDeviceClass(i vr.DeviceID) vr.DeviceClass {
	return f.devices[i].class
}

// ControllerRole implements [vr.Runtime].
func (f *Fake) ControllerRole(i vr.DeviceID) vr.ControllerRole {
	return f.devices[i].role
}

// DeviceToAbsoluteTrackingPose implements [vr.Runtime].
func (f *Fake) DeviceToAbsoluteTrackingPose(out []vr.Pose) {
	for i := range out {
		out[i] = vr.Pose{}
	}
	for id, pose := range f.poses {
		if int(id) < len(out) {
			out[id] = pose
		}
	}
}

// ControllerState implements [vr.Runtime].
func (f *Fake) ControllerState(i vr.DeviceID) (vr.RawControllerState, bool) {
	if f.devices[i].class != vr.ClassController {
		return vr.RawControllerState{}, false
	}
	return f.states[i], true
}

// TriggerHapticPulse implements [vr.Runtime], recording the call for
// assertions via [Fake.HapticCalls].
func (f *Fake) TriggerHapticPulse(device vr.DeviceID, axis int, durationMicros int) {
	f.pulses = append(f.pulses, HapticCall{Device: device, Axis: axis, DurationMicros: durationMicros})
}

// HapticCalls returns every TriggerHapticPulse call recorded so far.
func (f *Fake) HapticCalls() []HapticCall {
	return f.pulses
}
