// Package mapping supplies a concrete mapping exercising most of the
// node kinds in package graph: a two-handed steering wheel whose angle
// is read off the grip line between the controllers and compensated
// for head roll, trigger-gated throttle and brake, a sticky
// forward-tilt handbrake gesture, a circular hand motion for cruise
// control, a push-down-then-forward horn gesture, a triple-grip-click
// steering-hold toggle, and a double-click gear-shift-up button with a
// haptic pulse when it engages. Grounded on the original project's
// WheelMapping, wired with the node vocabulary graph provides.
package mapping

import (
	"github.com/ThePletch/steam-vr-wheel/graph"
	"github.com/ThePletch/steam-vr-wheel/host"
	"github.com/ThePletch/steam-vr-wheel/vr"
)

// Axis/button layout published by [SteeringWheel].
const (
	AxisSteering = host.AxisX
	AxisThrottle = host.AxisY
	AxisBrake    = host.AxisRX

	ButtonHandbrake     host.ButtonID = 1
	ButtonGearUp        host.ButtonID = 2
	ButtonCruiseControl host.ButtonID = 3
	ButtonHorn          host.ButtonID = 4
)

var (
	reqHMD   = vr.Requirement{Class: vr.ClassHMD, Role: vr.RoleInvalid}
	reqLeft  = vr.Requirement{Class: vr.ClassController, Role: vr.RoleLeftHand}
	reqRight = vr.Requirement{Class: vr.ClassController, Role: vr.RoleRightHand}
)

// triggerAxisIndex is rAxis[1], the analog trigger slot in OpenVR's
// raw controller state (rAxis[0] is the trackpad/thumbstick).
const triggerAxisIndex = 1

// steeringScalar converts the Wheel/RollAxis angle differential, in
// radians, into steering travel: an eighth of a turn of the grip line
// (pi/4) either way saturates the axis.
const steeringScalar = 2 / 3.14159265358979323846

// handbrakePitchThreshold is how far forward (radians), relative to
// head pitch and to the pitch at the moment the grip was pressed, the
// left controller must tilt while its grip is held to engage the
// handbrake; once engaged it stays engaged until the tilt recovers past
// half that or the grip is released.
const handbrakePitchThreshold = 0.35

// cruiseControlGestureRadius is the hand displacement, in meters, each
// quadrant of the cruise-control circle gesture must cross.
const cruiseControlGestureRadius = 0.05

// hornGestureThreshold is the hand displacement, in meters, each step
// of the horn's push-down-then-forward gesture must cross.
const hornGestureThreshold = 0.05

// gearUpClickWindow is how long a second grip-side-A press has to
// land after the first to register as a double-click gear shift.
const gearUpClickWindow = 0.4

// steeringHoldClickWindow and steeringHoldClicks gate the
// triple-grip-click toggle that freezes steering tracking.
const (
	steeringHoldClickWindow = 0.5
	steeringHoldClicks      = 3
)

// gearShiftPulseMicros and the edge set it fires on give haptic
// feedback on a successful upshift (S5's haptic-pulse-on-edges shape).
const gearShiftPulseMicros = 1500

// steeringHoldPulseMicros gives haptic feedback on the triple-click
// that toggles steering tracking.
const steeringHoldPulseMicros = 1000

// SteeringWheel is a [host.Mapping] built from two hand controllers
// and an HMD.
func SteeringWheel() host.Mapping {
	return host.Mapping{
		RequiredDevices: []vr.Requirement{reqHMD, reqLeft, reqRight},
		Build:           buildSteeringWheel,
	}
}

func buildSteeringWheel(c *graph.Cache, base *graph.Node, devices map[vr.Requirement]vr.DeviceID) (host.BuiltMapping, error) {
	hmd := devices[reqHMD]
	left := devices[reqLeft]
	right := devices[reqRight]

	leftGrip, err := c.DirectButton(base, left, vr.ButtonGrip, false)
	if err != nil {
		return host.BuiltMapping{}, err
	}
	rightGrip, err := c.DirectButton(base, right, vr.ButtonGrip, false)
	if err != nil {
		return host.BuiltMapping{}, err
	}
	bothGrips, err := c.AndButton(leftGrip, rightGrip)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	steering, steeringPulseLeft, steeringPulseRight, err := steeringAxis(c, base, hmd, left, right, bothGrips)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	throttle, err := pedalAxis(c, base, right)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	brake, err := pedalAxis(c, base, left)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	handbrake, err := handbrakeButton(c, base, hmd, left, leftGrip)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	cruiseControl, err := cruiseControlGesture(c, base, left, leftGrip)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	horn, err := hornGesture(c, base, hmd, right, rightGrip)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	gearUp, gearPulse, err := gearShiftButton(c, base, right)
	if err != nil {
		return host.BuiltMapping{}, err
	}

	return host.BuiltMapping{
		Axes: map[host.AxisID]*graph.Node{
			AxisSteering: steering,
			AxisThrottle: throttle,
			AxisBrake:    brake,
		},
		Buttons: map[host.ButtonID]*graph.Node{
			ButtonHandbrake:     handbrake,
			ButtonGearUp:        gearUp,
			ButtonCruiseControl: cruiseControl,
			ButtonHorn:          horn,
		},
		SideEffects: []*graph.Node{gearPulse, steeringPulseLeft, steeringPulseRight},
	}, nil
}

// steeringAxis reads the grip-line angle between the two controllers
// (spec §8 S6's Wheel/RollAxis differential), compensated for head
// roll so leaning your whole body doesn't steer, and scales it into
// [0,1] around a centered 0.5. A triple-click of both grips toggles
// steering tracking off, freezing the axis at center and pulsing both
// controllers, so the driver can let go of the wheel without the
// virtual wheel drifting to whatever angle their hands end up at.
func steeringAxis(c *graph.Cache, base *graph.Node, hmd, left, right vr.DeviceID, bothGrips *graph.Node) (axis, pulseLeft, pulseRight *graph.Node, err error) {
	wheelAngle, err := c.Wheel(base, left, right)
	if err != nil {
		return nil, nil, nil, err
	}
	hmdRoll, err := c.RollAxis(base, hmd)
	if err != nil {
		return nil, nil, nil, err
	}
	diff, err := c.DifferenceAxis(wheelAngle, hmdRoll)
	if err != nil {
		return nil, nil, nil, err
	}
	scaled, err := c.ScaleAxis(diff, steeringScalar, 0, 0.5)
	if err != nil {
		return nil, nil, nil, err
	}
	clamped, err := c.AxisClamp(scaled, 0, 1)
	if err != nil {
		return nil, nil, nil, err
	}

	tripleClick, err := c.MultiClickButton(bothGrips, steeringHoldClicks, steeringHoldClickWindow)
	if err != nil {
		return nil, nil, nil, err
	}
	held, err := c.ToggleButton(tripleClick)
	if err != nil {
		return nil, nil, nil, err
	}
	tracking, err := c.NotButton(held)
	if err != nil {
		return nil, nil, nil, err
	}
	axis, err = c.GatedAxis(tracking, clamped, 0.5)
	if err != nil {
		return nil, nil, nil, err
	}

	pulseLeft, err = c.HapticPulseTrigger(base, tripleClick, left, 0, steeringHoldPulseMicros, graph.SetJustPressed)
	if err != nil {
		return nil, nil, nil, err
	}
	pulseRight, err = c.HapticPulseTrigger(base, tripleClick, right, 0, steeringHoldPulseMicros, graph.SetJustPressed)
	return axis, pulseLeft, pulseRight, err
}

// pedalAxis reads a controller's analog trigger as a [0,1] pedal.
func pedalAxis(c *graph.Cache, base *graph.Node, device vr.DeviceID) (*graph.Node, error) {
	raw, err := c.ControllerAxis(base, device, triggerAxisIndex, graph.ComponentX)
	if err != nil {
		return nil, err
	}
	return c.AxisClamp(raw, 0, 1)
}

// handbrakeButton is a forward-tilt gesture with hysteresis: it
// engages once the left controller's pitch, relative to head pitch,
// has moved past handbrakePitchThreshold since the grip was pressed,
// while the grip is held; it disengages as soon as the pitch recovers
// past half that threshold OR the grip is released (a grip release
// drops it regardless of pitch). Composing two non-sticky
// GestureButtons through a StickyPairButton gives this hysteresis for
// free, since the full-threshold gesture implies the half-threshold
// one.
func handbrakeButton(c *graph.Cache, base *graph.Node, hmd, left vr.DeviceID, grip *graph.Node) (*graph.Node, error) {
	controllerPitch, err := c.PitchAxis(base, left)
	if err != nil {
		return nil, err
	}
	hmdPitch, err := c.PitchAxis(base, hmd)
	if err != nil {
		return nil, err
	}
	relativePitch, err := c.DifferenceAxis(controllerPitch, hmdPitch)
	if err != nil {
		return nil, err
	}
	initiator, err := c.GestureButton(grip, relativePitch, graph.GreaterThan, handbrakePitchThreshold, false)
	if err != nil {
		return nil, err
	}
	limiter, err := c.GestureButton(grip, relativePitch, graph.GreaterThan, handbrakePitchThreshold/2, false)
	if err != nil {
		return nil, err
	}
	return c.StickyPairButton(initiator, limiter)
}

// cruiseControlGesture traces a circle with the left hand, grip held,
// to toggle cruise control (spec §4.4 CircleGesture "≝").
func cruiseControlGesture(c *graph.Cache, base *graph.Node, left vr.DeviceID, grip *graph.Node) (*graph.Node, error) {
	x, err := c.XAxis(base, left)
	if err != nil {
		return nil, err
	}
	y, err := c.YAxis(base, left)
	if err != nil {
		return nil, err
	}
	return c.CircleGesture(true, cruiseControlGestureRadius, x, y, grip)
}

// hornGesture is a push-down-then-forward motion of the right hand,
// grip held, each step's motion measured relative to head position so
// leaning doesn't trigger it (spec §4.4 SequentialGesture "≝").
func hornGesture(c *graph.Cache, base *graph.Node, hmd, right vr.DeviceID, grip *graph.Node) (*graph.Node, error) {
	rightY, err := c.YAxis(base, right)
	if err != nil {
		return nil, err
	}
	hmdY, err := c.YAxis(base, hmd)
	if err != nil {
		return nil, err
	}
	rightZ, err := c.ZAxis(base, right)
	if err != nil {
		return nil, err
	}
	hmdZ, err := c.ZAxis(base, hmd)
	if err != nil {
		return nil, err
	}
	down, err := c.DifferenceAxis(rightY, hmdY)
	if err != nil {
		return nil, err
	}
	forward, err := c.DifferenceAxis(rightZ, hmdZ)
	if err != nil {
		return nil, err
	}
	return c.SequentialGesture(grip,
		graph.NewGestureStep(-hornGestureThreshold, down),
		graph.NewGestureStep(-hornGestureThreshold, forward),
	)
}

// gearShiftButton becomes active on the second press of a double-click
// of the right controller's A button and stays active until A is
// released, and returns the haptic pulse trigger that rides its
// just_pressed edge.
func gearShiftButton(c *graph.Cache, base *graph.Node, right vr.DeviceID) (gearUp, pulse *graph.Node, err error) {
	raw, err := c.DirectButton(base, right, vr.ButtonA, false)
	if err != nil {
		return nil, nil, err
	}
	gearUp, err = c.MultiClickButton(raw, 2, gearUpClickWindow)
	if err != nil {
		return nil, nil, err
	}
	pulse, err = c.HapticPulseTrigger(base, gearUp, right, 0, gearShiftPulseMicros, graph.SetJustPressed)
	if err != nil {
		return nil, nil, err
	}
	return gearUp, pulse, nil
}
