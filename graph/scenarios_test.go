package graph_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ThePletch/steam-vr-wheel/graph"
	"github.com/ThePletch/steam-vr-wheel/vr"
	"github.com/ThePletch/steam-vr-wheel/vr/vrtest"
)

// harness wires a fake runtime to a fresh cache and VR state source,
// and drives ticks with a monotonically increasing fake wall clock.
type harness struct {
	t      *testing.T
	fake   *vrtest.Fake
	src    *vr.Source
	cache  *graph.Cache
	base   *graph.Node
	tick   int64
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	fake := vrtest.New()
	src := vr.NewSource(fake)
	cache := graph.NewCache()
	return &harness{
		t:     t,
		fake:  fake,
		src:   src,
		cache: cache,
		base:  cache.NewVRStateSource(src),
		now:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// step advances time by d and runs one tick over the topological order
// rooted at terminals.
func (h *harness) step(d time.Duration, terminals ...*graph.Node) {
	h.tick++
	h.now = h.now.Add(d)
	order := graph.TopoOrder(terminals)
	graph.Tick(order, graph.TickContext{Tick: h.tick, Now: h.now})
}

const (
	deviceHMD   vr.DeviceID = 0
	deviceLeft  vr.DeviceID = 1
	deviceRight vr.DeviceID = 2
)

// S1: ToggleButton flips once per just_pressed edge and holds across
// intervening ticks.
func TestScenario_ToggleButton(t *testing.T) {
	h := newHarness(t)
	h.fake.AddDevice(deviceLeft, vr.ClassController, vr.RoleLeftHand)

	trigger, err := h.cache.DirectButton(h.base, deviceLeft, vr.ButtonTrigger, false)
	require.NoError(t, err)
	toggle, err := h.cache.ToggleButton(trigger)
	require.NoError(t, err)

	h.step(33 * time.Millisecond, toggle)
	require.False(t, toggle.ButtonValue().Active)

	h.fake.PressButton(deviceLeft, vr.ButtonTrigger)
	h.step(33*time.Millisecond, toggle)
	require.True(t, toggle.ButtonValue().Active)
	require.Equal(t, graph.JustPressed, trigger.ButtonValue().TickState)

	h.step(33*time.Millisecond, toggle)
	require.True(t, toggle.ButtonValue().Active, "toggle stays latched while button remains held")

	h.fake.ReleaseButton(deviceLeft, vr.ButtonTrigger)
	h.step(33*time.Millisecond, toggle)
	require.True(t, toggle.ButtonValue().Active, "toggle does not flip back on release")

	h.fake.PressButton(deviceLeft, vr.ButtonTrigger)
	h.step(33*time.Millisecond, toggle)
	require.False(t, toggle.ButtonValue().Active, "second press flips the latch back off")
}

// S2: MultiClickButton fires exactly on the tick the Nth just_pressed
// edge lands within the interval of the first.
func TestScenario_MultiClickButton(t *testing.T) {
	h := newHarness(t)
	h.fake.AddDevice(deviceLeft, vr.ClassController, vr.RoleLeftHand)

	trigger, err := h.cache.DirectButton(h.base, deviceLeft, vr.ButtonTrigger, false)
	require.NoError(t, err)
	dbl, err := h.cache.MultiClickButton(trigger, 2, 0.5)
	require.NoError(t, err)

	h.fake.PressButton(deviceLeft, vr.ButtonTrigger)
	h.step(10*time.Millisecond, dbl)
	require.False(t, dbl.ButtonValue().Active)

	h.fake.ReleaseButton(deviceLeft, vr.ButtonTrigger)
	h.step(10*time.Millisecond, dbl)
	require.False(t, dbl.ButtonValue().Active)

	h.fake.PressButton(deviceLeft, vr.ButtonTrigger)
	h.step(50*time.Millisecond, dbl)
	require.True(t, dbl.ButtonValue().Active, "second click within interval fires")

	h.step(10*time.Millisecond, dbl)
	require.True(t, dbl.ButtonValue().Active, "stays active while the parent button is still held")

	h.fake.ReleaseButton(deviceLeft, vr.ButtonTrigger)
	h.step(10*time.Millisecond, dbl)
	require.False(t, dbl.ButtonValue().Active, "releases only when the parent button releases")
}

// S3: a sticky forward-tilt gesture. Composing two AxisThresholdButtons
// at an initiator (-0.8) and a looser limiter (-0.4) threshold through
// StickyPairButton gives a hysteresis latch for free: the initiator
// implies the limiter, so the AND-to-initiate condition reduces to the
// initiator alone, and once latched it takes the limiter going false
// to drop. Wrapping that in a second StickyPairButton with grip means
// the gesture only deactivates once the tilt has recovered past the
// limiter AND the grip has released.
func TestScenario_StickyForwardTiltGesture(t *testing.T) {
	h := newHarness(t)
	h.fake.AddDevice(deviceLeft, vr.ClassController, vr.RoleLeftHand)

	grip, err := h.cache.DirectButton(h.base, deviceLeft, vr.ButtonGrip, false)
	require.NoError(t, err)
	pitch, err := h.cache.PitchAxis(h.base, deviceLeft)
	require.NoError(t, err)
	initiator, err := h.cache.AxisThresholdButton(pitch, graph.LessThan, -0.8)
	require.NoError(t, err)
	limiter, err := h.cache.AxisThresholdButton(pitch, graph.LessThan, -0.4)
	require.NoError(t, err)
	tilt, err := h.cache.StickyPairButton(initiator, limiter)
	require.NoError(t, err)
	gesture, err := h.cache.StickyPairButton(tilt, grip)
	require.NoError(t, err)

	// atan2(Matrix[2][1], Matrix[2][2]) == p for Matrix[2][2]=1.
	pitchPose := func(p float64) vr.Pose {
		pose := vr.Pose{}
		pose.Matrix[0][0] = 1
		pose.Matrix[2][1] = math.Tan(p)
		pose.Matrix[2][2] = 1
		return pose
	}

	h.fake.PressButton(deviceLeft, vr.ButtonGrip)
	h.fake.SetPose(deviceLeft, pitchPose(0))
	h.step(33*time.Millisecond, gesture)
	require.False(t, gesture.ButtonValue().Active, "grip held, no tilt")

	h.fake.SetPose(deviceLeft, pitchPose(-1.0))
	h.step(33*time.Millisecond, gesture)
	require.True(t, gesture.ButtonValue().Active, "crossing the initiator threshold engages")

	h.fake.SetPose(deviceLeft, pitchPose(-0.3))
	h.step(33*time.Millisecond, gesture)
	require.True(t, gesture.ButtonValue().Active, "pitch recovered past the limiter, but grip still held")

	h.fake.ReleaseButton(deviceLeft, vr.ButtonGrip)
	h.step(33*time.Millisecond, gesture)
	require.False(t, gesture.ButtonValue().Active, "recovered pitch and released grip together deactivate")

	h.fake.SetPose(deviceLeft, pitchPose(-1.0))
	h.step(33*time.Millisecond, gesture)
	require.False(t, gesture.ButtonValue().Active, "tilt alone, grip released, never engages")
}

// S4: repeated calls with identical (kind, params, deps) share a
// single node instance — the cache's whole reason for existing.
func TestScenario_CacheSharing(t *testing.T) {
	h := newHarness(t)
	h.fake.AddDevice(deviceLeft, vr.ClassController, vr.RoleLeftHand)

	a1, err := h.cache.XAxis(h.base, deviceLeft)
	require.NoError(t, err)
	a2, err := h.cache.XAxis(h.base, deviceLeft)
	require.NoError(t, err)
	require.Same(t, a1, a2, "identical leaf axis requests must collapse to one node")

	s1, err := h.cache.ScaleAxis(a1, 2, 0, 0)
	require.NoError(t, err)
	s2, err := h.cache.ScaleAxis(a2, 2, 0, 0)
	require.NoError(t, err)
	require.Same(t, s1, s2, "identical transforms over the same parent must collapse")

	s3, err := h.cache.ScaleAxis(a1, 3, 0, 0)
	require.NoError(t, err)
	require.NotSame(t, s1, s3, "different parameters must not collapse")

	_, misses := h.cache.Stats()
	require.Equal(t, 3, misses, "XAxis + one ScaleAxis variant + the other ScaleAxis variant; the VR state source bypasses the cache")
}

// S5: HapticPulseTrigger fires exactly on the configured edges.
func TestScenario_HapticPulseOnEdges(t *testing.T) {
	h := newHarness(t)
	h.fake.AddDevice(deviceLeft, vr.ClassController, vr.RoleLeftHand)

	trigger, err := h.cache.DirectButton(h.base, deviceLeft, vr.ButtonTrigger, false)
	require.NoError(t, err)
	pulse, err := h.cache.HapticPulseTrigger(h.base, trigger, deviceLeft, 0, 1000,
		graph.SetJustPressed|graph.SetJustUnpressed)
	require.NoError(t, err)

	h.step(33*time.Millisecond, pulse)
	require.Empty(t, h.fake.HapticCalls())

	h.fake.PressButton(deviceLeft, vr.ButtonTrigger)
	h.step(33*time.Millisecond, pulse)
	require.Len(t, h.fake.HapticCalls(), 1)

	h.step(33*time.Millisecond, pulse)
	require.Len(t, h.fake.HapticCalls(), 1, "holding the button fires no additional pulse")

	h.fake.ReleaseButton(deviceLeft, vr.ButtonTrigger)
	h.step(33*time.Millisecond, pulse)
	require.Len(t, h.fake.HapticCalls(), 2)
}

// S6: a wheel angle derived from two controllers' pose, minus head
// roll, so leaning the whole body together doesn't register as
// steering (spec §8 S6's literal Wheel(L,R)/RollAxis differential).
func TestScenario_WheelAngleDifferential(t *testing.T) {
	h := newHarness(t)
	h.fake.AddDevice(deviceHMD, vr.ClassHMD, vr.RoleInvalid)
	h.fake.AddDevice(deviceLeft, vr.ClassController, vr.RoleLeftHand)
	h.fake.AddDevice(deviceRight, vr.ClassController, vr.RoleRightHand)

	wheel, err := h.cache.Wheel(h.base, deviceLeft, deviceRight)
	require.NoError(t, err)
	hmdRoll, err := h.cache.RollAxis(h.base, deviceHMD)
	require.NoError(t, err)
	diff, err := h.cache.DifferenceAxis(wheel, hmdRoll)
	require.NoError(t, err)

	leftPose := vr.Pose{Matrix: [3][4]float64{{1, 0, 0, 0}, {0, 1, 0, 1}, {0, 0, 1, 0}}}
	rightPose := vr.Pose{Matrix: [3][4]float64{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 0}}}
	h.fake.SetPose(deviceLeft, leftPose)
	h.fake.SetPose(deviceRight, rightPose)

	h.step(33*time.Millisecond, diff)
	require.InDelta(t, 0, diff.AxisValue(), 1e-9)

	rolledHMD := vr.Pose{}
	rolledHMD.Matrix[0][0] = math.Cos(0.3)
	rolledHMD.Matrix[1][0] = math.Sin(0.3)
	rolledHMD.Matrix[0][1] = -math.Sin(0.3)
	rolledHMD.Matrix[1][1] = math.Cos(0.3)
	rolledHMD.Matrix[2][2] = 1
	h.fake.SetPose(deviceHMD, rolledHMD)
	h.step(33*time.Millisecond, diff)
	require.InDelta(t, -0.3, diff.AxisValue(), 1e-9)
}
