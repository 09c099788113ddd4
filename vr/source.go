package vr

import "github.com/ThePletch/steam-vr-wheel/logx"

// Source owns the connection to the VR runtime and produces one
// [State] package per tick (spec §4.1). It is the root of the node
// graph's ownership: every other node is owned by the graph, but the
// root's connection to the runtime is owned here.
type Source struct {
	runtime Runtime

	pressed map[DeviceID]map[ButtonID]bool
	touched map[DeviceID]map[ButtonID]bool

	poseBuf []Pose

	// deviceIndex maps (class, role) to the tracked device slot last
	// seen occupying it. Refreshed on demand by RefreshDeviceIndex,
	// not on every tick (spec §4.1: "refreshed on demand during
	// device-wait").
	deviceIndex map[deviceKey]DeviceID
}

type deviceKey struct {
	class DeviceClass
	role  ControllerRole
}

// NewSource binds a Source to a concrete VR runtime.
func NewSource(runtime Runtime) *Source {
	return &Source{
		runtime:     runtime,
		pressed:     make(map[DeviceID]map[ButtonID]bool),
		touched:     make(map[DeviceID]map[ButtonID]bool),
		poseBuf:     make([]Pose, MaxDevices),
		deviceIndex: make(map[deviceKey]DeviceID),
	}
}

// Update drains the runtime's event queue, refreshes poses and
// controller states, and returns the combined package for this tick
// (spec §4.1 steps 1-4). The event drain is a single batched step
// at the top of the tick; it is never interleaved with node
// evaluation (spec §9 "Event-driven VR state").
func (s *Source) Update() *State {
	s.drainEvents()
	s.runtime.DeviceToAbsoluteTrackingPose(s.poseBuf)

	poses := make(map[DeviceID]Pose, len(s.poseBuf))
	controllers := make(map[DeviceID]RawControllerState)
	for i := 0; i < MaxDevices; i++ {
		id := DeviceID(i)
		if !s.poseBuf[i].Valid {
			continue
		}
		poses[id] = s.poseBuf[i]
		if cs, ok := s.runtime.ControllerState(id); ok {
			controllers[id] = cs
		}
	}

	return &State{
		Poses:            poses,
		ControllerStates: controllers,
		Pressed:          s.pressed,
		Touched:          s.touched,
	}
}

func (s *Source) drainEvents() {
	for {
		evt, ok := s.runtime.PollNextEvent()
		if !ok {
			return
		}
		s.apply(evt)
	}
}

func (s *Source) apply(evt Event) {
	switch evt.Type {
	case EventButtonPress:
		s.set(s.pressed, evt.Device, evt.Button, true)
	case EventButtonUnpress:
		s.set(s.pressed, evt.Device, evt.Button, false)
	case EventButtonTouch:
		s.set(s.touched, evt.Device, evt.Button, true)
	case EventButtonUntouch:
		s.set(s.touched, evt.Device, evt.Button, false)
	}
}

func (s *Source) set(m map[DeviceID]map[ButtonID]bool, device DeviceID, button ButtonID, active bool) {
	devMap, ok := m[device]
	if !ok {
		devMap = make(map[ButtonID]bool)
		m[device] = devMap
	}
	if active {
		devMap[button] = true
	} else {
		delete(devMap, button)
	}
}

// TriggerHapticPulse forwards a haptic pulse request to the bound
// runtime (spec §4.5, §6). Exposed on Source rather than Runtime
// directly so HapticPulseTrigger nodes only need to hold the same
// *Source reference the graph root already carries.
func (s *Source) TriggerHapticPulse(device DeviceID, axis int, durationMicros int) {
	s.runtime.TriggerHapticPulse(device, axis, durationMicros)
}

// RefreshDeviceIndex rebuilds the (class, role) -> device-id index by
// scanning every tracked device slot. Called on demand during
// device-wait (spec §4.1), mirroring the original implementation's
// load_devices_by_index re-scan on every poll iteration.
func (s *Source) RefreshDeviceIndex() {
	for i := 0; i < MaxDevices; i++ {
		id := DeviceID(i)
		class := s.runtime.TrackedDeviceClass(id)
		if class == ClassInvalid {
			continue
		}
		role := RoleInvalid
		if class == ClassController {
			role = s.runtime.ControllerRole(id)
		}
		s.deviceIndex[deviceKey{class, role}] = id
		logx.Debugf("vr: device slot %d is class=%s role=%s", id, class, role)
	}
}

// DeviceIDForType returns the device-id currently occupying the given
// (class, role), or [NoSuchDeviceError] if none does (spec §4.1).
func (s *Source) DeviceIDForType(class DeviceClass, role ControllerRole) (DeviceID, error) {
	id, ok := s.deviceIndex[deviceKey{class, role}]
	if !ok {
		return 0, &NoSuchDeviceError{Class: class, Role: role}
	}
	return id, nil
}
