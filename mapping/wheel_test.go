package mapping_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ThePletch/steam-vr-wheel/graph"
	"github.com/ThePletch/steam-vr-wheel/host"
	"github.com/ThePletch/steam-vr-wheel/mapping"
	"github.com/ThePletch/steam-vr-wheel/vr"
	"github.com/ThePletch/steam-vr-wheel/vr/vrtest"
)

const (
	deviceHMD   vr.DeviceID = 0
	deviceLeft  vr.DeviceID = 1
	deviceRight vr.DeviceID = 2
)

func buildWheel(t *testing.T, fake *vrtest.Fake) (host.BuiltMapping, *graph.Cache, []*graph.Node) {
	t.Helper()
	fake.AddDevice(deviceHMD, vr.ClassHMD, vr.RoleInvalid)
	fake.AddDevice(deviceLeft, vr.ClassController, vr.RoleLeftHand)
	fake.AddDevice(deviceRight, vr.ClassController, vr.RoleRightHand)

	src := vr.NewSource(fake)
	cache := graph.NewCache()
	base := cache.NewVRStateSource(src)

	m := mapping.SteeringWheel()
	devices, err := vr.WaitForRequiredDevices(src, m.RequiredDevices, time.Millisecond, time.Millisecond)
	require.NoError(t, err)

	built, err := m.Build(cache, base, devices)
	require.NoError(t, err)

	terminals := make([]*graph.Node, 0, len(built.Axes)+len(built.Buttons)+len(built.SideEffects))
	for _, n := range built.Axes {
		terminals = append(terminals, n)
	}
	for _, n := range built.Buttons {
		terminals = append(terminals, n)
	}
	terminals = append(terminals, built.SideEffects...)
	return built, cache, terminals
}

// handPose is an untilted pose at the given horizontal/vertical
// translation, used to position a controller along the Wheel grip
// line between the two hands.
func handPose(x, y float64) vr.Pose {
	p := vr.Pose{}
	p.Matrix[0][0], p.Matrix[1][1], p.Matrix[2][2] = 1, 1, 1
	p.Matrix[0][3] = x
	p.Matrix[1][3] = y
	return p
}

func identityPose(offsetX float64) vr.Pose {
	return handPose(offsetX, 0)
}

func TestSteeringWheel_CenteredControllersReadHalf(t *testing.T) {
	fake := vrtest.New()
	built, _, terminals := buildWheel(t, fake)

	fake.SetPose(deviceLeft, identityPose(0))
	fake.SetPose(deviceRight, identityPose(0))

	order := graph.TopoOrder(terminals)
	graph.Tick(order, graph.TickContext{Tick: 1, Now: time.Now()})

	require.InDelta(t, 0.5, built.Axes[mapping.AxisSteering].AxisValue(), 1e-9)
}

func TestSteeringWheel_FullLockSteering(t *testing.T) {
	fake := vrtest.New()
	built, _, terminals := buildWheel(t, fake)

	// Grip line rotated to exactly pi/4 relative to the HMD: scaled by
	// 2/pi, this saturates the [0,1] steering axis at 1.0.
	fake.SetPose(deviceLeft, handPose(-0.3, -0.3))
	fake.SetPose(deviceRight, handPose(0.3, 0.3))

	order := graph.TopoOrder(terminals)
	graph.Tick(order, graph.TickContext{Tick: 1, Now: time.Now()})

	require.InDelta(t, 1.0, built.Axes[mapping.AxisSteering].AxisValue(), 1e-9)
}

func TestSteeringWheel_BodyLeanDoesNotAffectSteering(t *testing.T) {
	fake := vrtest.New()
	built, _, terminals := buildWheel(t, fake)

	const lean = 0.4
	dy := math.Tan(lean)
	fake.SetPose(deviceLeft, handPose(-0.5, -dy/2))
	fake.SetPose(deviceRight, handPose(0.5, dy/2))

	tilted := vr.Pose{}
	tilted.Matrix[0][0] = math.Cos(lean)
	tilted.Matrix[1][0] = math.Sin(lean)
	tilted.Matrix[0][1] = -math.Sin(lean)
	tilted.Matrix[1][1] = math.Cos(lean)
	tilted.Matrix[2][2] = 1
	fake.SetPose(deviceHMD, tilted)

	order := graph.TopoOrder(terminals)
	graph.Tick(order, graph.TickContext{Tick: 1, Now: time.Now()})

	// The grip line is rotated by the same angle as the head, so
	// leaning the whole body together doesn't register as steering.
	require.InDelta(t, 0.5, built.Axes[mapping.AxisSteering].AxisValue(), 1e-9)
}

func TestSteeringWheel_TripleGripClickFreezesSteering(t *testing.T) {
	fake := vrtest.New()
	built, _, terminals := buildWheel(t, fake)
	order := graph.TopoOrder(terminals)
	now := time.Now()

	tick := func() {
		now = now.Add(10 * time.Millisecond)
		graph.Tick(order, graph.TickContext{Tick: int64(now.UnixNano()), Now: now})
	}

	fake.SetPose(deviceLeft, identityPose(0))
	fake.SetPose(deviceRight, identityPose(0))

	for i := 0; i < 3; i++ {
		fake.PressButton(deviceLeft, vr.ButtonGrip)
		fake.PressButton(deviceRight, vr.ButtonGrip)
		tick()
		fake.ReleaseButton(deviceLeft, vr.ButtonGrip)
		fake.ReleaseButton(deviceRight, vr.ButtonGrip)
		tick()
	}
	require.Len(t, fake.HapticCalls(), 2, "triple click pulses both controllers once")

	fake.SetPose(deviceLeft, handPose(-0.3, -0.3))
	fake.SetPose(deviceRight, handPose(0.3, 0.3))
	tick()
	require.InDelta(t, 0.5, built.Axes[mapping.AxisSteering].AxisValue(), 1e-9, "steering frozen at center after toggle")
}

func TestSteeringWheel_HandbrakeRequiresGripAndTilt(t *testing.T) {
	fake := vrtest.New()
	built, _, terminals := buildWheel(t, fake)
	order := graph.TopoOrder(terminals)
	now := time.Now()

	tick := func() {
		now = now.Add(33 * time.Millisecond)
		graph.Tick(order, graph.TickContext{Tick: int64(now.UnixNano()), Now: now})
	}

	tick()
	require.False(t, built.Buttons[mapping.ButtonHandbrake].ButtonValue().Active, "nothing held")

	fake.PressButton(deviceLeft, vr.ButtonGrip)
	tick()
	require.False(t, built.Buttons[mapping.ButtonHandbrake].ButtonValue().Active, "grip alone, flat pose")

	tiltedLeft := vr.Pose{}
	tiltedLeft.Matrix[0][0] = 1
	tiltedLeft.Matrix[2][1] = 0.5
	tiltedLeft.Matrix[2][2] = 1
	fake.SetPose(deviceLeft, tiltedLeft)
	tick()
	require.True(t, built.Buttons[mapping.ButtonHandbrake].ButtonValue().Active, "tilt past threshold while held engages")

	// Recovering only partway, to just above half the threshold, isn't
	// enough to drop it while the grip is still held.
	partialLeft := vr.Pose{}
	partialLeft.Matrix[0][0] = 1
	partialLeft.Matrix[2][1] = 0.3
	partialLeft.Matrix[2][2] = 1
	fake.SetPose(deviceLeft, partialLeft)
	tick()
	require.True(t, built.Buttons[mapping.ButtonHandbrake].ButtonValue().Active, "partial recovery while grip held stays engaged")

	fake.ReleaseButton(deviceLeft, vr.ButtonGrip)
	tick()
	require.False(t, built.Buttons[mapping.ButtonHandbrake].ButtonValue().Active, "releasing grip disengages")
}

func TestSteeringWheel_CruiseControlCircleGesture(t *testing.T) {
	fake := vrtest.New()
	built, _, terminals := buildWheel(t, fake)
	order := graph.TopoOrder(terminals)
	now := time.Now()

	tick := func() {
		now = now.Add(10 * time.Millisecond)
		graph.Tick(order, graph.TickContext{Tick: int64(now.UnixNano()), Now: now})
	}

	fake.SetPose(deviceLeft, handPose(0, 0))
	fake.PressButton(deviceLeft, vr.ButtonGrip)
	tick()
	require.False(t, built.Buttons[mapping.ButtonCruiseControl].ButtonValue().Active)

	// Clockwise circle starting at the top: right, down, left, up.
	fake.SetPose(deviceLeft, handPose(0.06, 0))
	tick()
	fake.SetPose(deviceLeft, handPose(0.06, -0.06))
	tick()
	fake.SetPose(deviceLeft, handPose(0, -0.06))
	tick()
	require.False(t, built.Buttons[mapping.ButtonCruiseControl].ButtonValue().Active, "not yet back to top")

	fake.SetPose(deviceLeft, handPose(0, 0))
	tick()
	require.True(t, built.Buttons[mapping.ButtonCruiseControl].ButtonValue().Active, "full circle completes the gesture")
}

func TestSteeringWheel_GearUpDoubleClickPulses(t *testing.T) {
	fake := vrtest.New()
	built, _, terminals := buildWheel(t, fake)
	order := graph.TopoOrder(terminals)
	now := time.Now()

	tick := func(d time.Duration) {
		now = now.Add(d)
		graph.Tick(order, graph.TickContext{Tick: int64(now.UnixNano()), Now: now})
	}

	fake.PressButton(deviceRight, vr.ButtonA)
	tick(10 * time.Millisecond)
	require.False(t, built.Buttons[mapping.ButtonGearUp].ButtonValue().Active)
	require.Empty(t, fake.HapticCalls())

	fake.ReleaseButton(deviceRight, vr.ButtonA)
	tick(10 * time.Millisecond)

	fake.PressButton(deviceRight, vr.ButtonA)
	tick(50 * time.Millisecond)
	require.True(t, built.Buttons[mapping.ButtonGearUp].ButtonValue().Active)
	require.Len(t, fake.HapticCalls(), 1)
}
