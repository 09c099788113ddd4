package vr

// Runtime is the external VR runtime collaborator (spec §6). The
// engine treats it as a named-interface dependency: pose polling,
// event polling, and haptic pulse emission live behind this seam, and
// no concrete implementation ships as part of the core (spec §1).
type Runtime interface {
	// PollNextEvent drains one pending event, if any. Called once at
	// the top of every tick by [Source.Update] until it returns false.
	PollNextEvent() (Event, bool)

	// TrackedDeviceClass reports the class of the device at slot i.
	TrackedDeviceClass(i DeviceID) DeviceClass

	// ControllerRole reports the hand-role of the device at slot i.
	// Only meaningful when TrackedDeviceClass(i) == ClassController.
	ControllerRole(i DeviceID) ControllerRole

	// DeviceToAbsoluteTrackingPose fills out with the current pose of
	// every tracked device slot, in seated-universe space, predicted
	// to the present (spec §6: space=seated, predicted=0). out must
	// have length MaxDevices; out[i].Valid is false for unused slots.
	DeviceToAbsoluteTrackingPose(out []Pose)

	// ControllerState returns the raw analog state for the device at
	// slot i, or ok=false if i is not a controller.
	ControllerState(i DeviceID) (state RawControllerState, ok bool)

	// TriggerHapticPulse emits a haptic pulse on the given device and
	// axis for durationMicros microseconds (spec §4.5, §6).
	TriggerHapticPulse(device DeviceID, axis int, durationMicros int)
}
