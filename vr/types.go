// Package vr models the VR runtime's state as consumed by the dataflow
// engine (spec §3.1, §4.1, §6). It owns no connection to a real VR
// runtime itself — [Runtime] is the seam an adapter implements — but it
// defines the typed package the rest of the engine reads from, the
// device index, and the device-wait routine used at mapping construction.
package vr

import "fmt"

// MaxDevices bounds the tracked-device array, matching OpenVR's
// k_unMaxTrackedDeviceCount.
const MaxDevices = 64

// DeviceID identifies a tracked device slot, 0 <= id < MaxDevices.
type DeviceID int

// DeviceClass classifies a tracked device.
type DeviceClass int

const (
	ClassInvalid DeviceClass = iota
	ClassHMD
	ClassController
	ClassTracker
	ClassTrackingReference
)

func (c DeviceClass) String() string {
	switch c {
	case ClassHMD:
		return "hmd"
	case ClassController:
		return "controller"
	case ClassTracker:
		return "tracker"
	case ClassTrackingReference:
		return "tracking_reference"
	default:
		return "invalid"
	}
}

// ControllerRole distinguishes left/right hand controllers. Devices
// that aren't hand controllers (HMD, trackers) report RoleInvalid.
type ControllerRole int

const (
	RoleInvalid ControllerRole = iota
	RoleLeftHand
	RoleRightHand
)

func (r ControllerRole) String() string {
	switch r {
	case RoleLeftHand:
		return "left_hand"
	case RoleRightHand:
		return "right_hand"
	default:
		return "invalid"
	}
}

// ButtonID identifies a physical button or touch surface on a device
// (OpenVR's EVRButtonId space: trigger, grip, trackpad/thumbstick,
// menu, system, ...). The engine treats it as an opaque small integer.
type ButtonID int

// Known button ids, matching OpenVR's EVRButtonId for the controls the
// node kinds in §4.4 reference by name.
const (
	ButtonSystem ButtonID = iota
	ButtonMenu
	ButtonGrip
	ButtonTrackpad
	ButtonTrigger
	ButtonA
)

// Pose is a tracked device's position, orientation, and motion in
// seated-universe space (spec §3.1).
type Pose struct {
	// Matrix is the 3x4 pose matrix: Matrix[row][col], row in [0,2],
	// col in [0,3]. Columns 0-2 are the rotation basis; column 3 is
	// the translation (spec §4.3 XAxis/YAxis/ZAxis read Matrix[i][3]).
	Matrix          [3][4]float64
	Velocity        [3]float64
	AngularVelocity [3]float64
	// Valid reports whether the runtime has a current tracking result
	// for this device (false devices keep their last emitted pose).
	Valid bool
}

// Axis2 is one analog input pair (trigger, trackpad, thumbstick) from
// a controller's raw state.
type Axis2 struct {
	X, Y float64
}

// RawControllerState mirrors OpenVR's VRControllerState_t: up to five
// 2-axis analog controls, rAxis[0..4] (spec §4.3 ControllerAxis).
type RawControllerState struct {
	Axes [5]Axis2
}

// EventType enumerates the VR runtime event kinds the engine consumes.
// Additional runtime event types exist (device connect/disconnect,
// chaperone, etc.) but no node kind in §4 reads them, so they are not
// modeled here; an adapter may silently drop them.
type EventType int

const (
	EventUnknown EventType = iota
	EventButtonPress
	EventButtonUnpress
	EventButtonTouch
	EventButtonUntouch
)

// Event is a single drained runtime event (spec §6 pollNextEvent).
type Event struct {
	Type   EventType
	Device DeviceID
	Button ButtonID
}

// State is the per-tick VR state package assembled by [Source.Update]
// (spec §3.1). Pressed and Touched are sticky across ticks: only
// events mutate them (spec §4.1 step 1).
type State struct {
	Poses            map[DeviceID]Pose
	ControllerStates map[DeviceID]RawControllerState
	Pressed          map[DeviceID]map[ButtonID]bool
	Touched          map[DeviceID]map[ButtonID]bool
}

// NoSuchDeviceError is returned by [Source.DeviceIDForType] when no
// tracked device currently matches the requested (class, role).
type NoSuchDeviceError struct {
	Class DeviceClass
	Role  ControllerRole
}

func (e *NoSuchDeviceError) Error() string {
	return fmt.Sprintf("vr: no such device: class=%s role=%s", e.Class, e.Role)
}
