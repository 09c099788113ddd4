package graph

import (
	"fmt"
	"math"

	"github.com/ThePletch/steam-vr-wheel/vr"
)

// --- Leaf axes (spec §4.3) ---

// XAxis, YAxis, ZAxis read pose[0..2][3] of the bound device.
func (c *Cache) XAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindXAxis, base, device, ComponentX)
}
func (c *Cache) YAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindYAxis, base, device, ComponentY)
}
func (c *Cache) ZAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindZAxis, base, device, ComponentZ)
}

// VXAxis, VYAxis, VZAxis read velocity[0..2].
func (c *Cache) VXAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindVXAxis, base, device, ComponentX)
}
func (c *Cache) VYAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindVYAxis, base, device, ComponentY)
}
func (c *Cache) VZAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindVZAxis, base, device, ComponentZ)
}

// YawAxis computes -asin(pose[2][0]).
func (c *Cache) YawAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindYawAxis, base, device, ComponentX)
}

// PitchAxis computes atan2(pose[2][1], pose[2][2]).
func (c *Cache) PitchAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindPitchAxis, base, device, ComponentX)
}

// RollAxis computes atan2(pose[1][0], pose[0][0]).
func (c *Cache) RollAxis(base *Node, device vr.DeviceID) (*Node, error) {
	return c.leafAxis(KindRollAxis, base, device, ComponentX)
}

// Wheel computes atan2(right.y-left.y, right.x-left.x): the steering
// angle implied by the line between two controllers, used to derive a
// wheel-grip steering axis from a two-handed hold (spec §4.3, §8 S6).
func (c *Cache) Wheel(base *Node, left, right vr.DeviceID) (*Node, error) {
	if base == nil || base.kind != KindVRStateSource {
		return nil, construction(KindWheel, "missing required dependency %q", "base_state")
	}
	paramKey := fmt.Sprintf("left=%d,right=%d", left, right)
	return c.getOrBuild(KindWheel, paramKey, []*Node{base}, func() (config, state) {
		return config{deviceID: left, axisDeviceID: right}, state{}
	}), nil
}

func (c *Cache) leafAxis(kind Kind, base *Node, device vr.DeviceID, comp Component) (*Node, error) {
	if base == nil || base.kind != KindVRStateSource {
		return nil, construction(kind, "missing required dependency %q", "base_state")
	}
	paramKey := fmt.Sprintf("device=%d", device)
	return c.getOrBuild(kind, paramKey, []*Node{base}, func() (config, state) {
		return config{deviceID: device, component: comp}, state{}
	}), nil
}

// ControllerAxis reads controller_state.rAxis[i].{x|y} (spec §4.3).
func (c *Cache) ControllerAxis(base *Node, device vr.DeviceID, axisIndex int, comp Component) (*Node, error) {
	if base == nil || base.kind != KindVRStateSource {
		return nil, construction(KindControllerAxis, "missing required dependency %q", "base_state")
	}
	if axisIndex < 0 || axisIndex > 4 {
		return nil, construction(KindControllerAxis, "axis index %d out of range [0,4]", axisIndex)
	}
	paramKey := fmt.Sprintf("device=%d,axis=%d,comp=%d", device, axisIndex, comp)
	return c.getOrBuild(KindControllerAxis, paramKey, []*Node{base}, func() (config, state) {
		return config{deviceID: device, axisIndex: axisIndex, component: comp}, state{}
	}), nil
}

func evalLeafAxis(n *Node) error {
	src := n.deps[0]
	st := src.st.vrState
	if st == nil {
		return fmt.Errorf("vr state not yet produced")
	}

	switch n.kind {
	case KindXAxis, KindYAxis, KindZAxis:
		pose, ok := st.Poses[n.cfg.deviceID]
		if !ok {
			return fmt.Errorf("no pose for device %d", n.cfg.deviceID)
		}
		n.axisValue = pose.Matrix[int(n.cfg.component)][3]
	case KindVXAxis, KindVYAxis, KindVZAxis:
		pose, ok := st.Poses[n.cfg.deviceID]
		if !ok {
			return fmt.Errorf("no pose for device %d", n.cfg.deviceID)
		}
		n.axisValue = pose.Velocity[int(n.cfg.component)]
	case KindYawAxis:
		pose, ok := st.Poses[n.cfg.deviceID]
		if !ok {
			return fmt.Errorf("no pose for device %d", n.cfg.deviceID)
		}
		n.axisValue = -math.Asin(pose.Matrix[2][0])
	case KindPitchAxis:
		pose, ok := st.Poses[n.cfg.deviceID]
		if !ok {
			return fmt.Errorf("no pose for device %d", n.cfg.deviceID)
		}
		n.axisValue = math.Atan2(pose.Matrix[2][1], pose.Matrix[2][2])
	case KindRollAxis:
		pose, ok := st.Poses[n.cfg.deviceID]
		if !ok {
			return fmt.Errorf("no pose for device %d", n.cfg.deviceID)
		}
		n.axisValue = math.Atan2(pose.Matrix[1][0], pose.Matrix[0][0])
	case KindControllerAxis:
		cs, ok := st.ControllerStates[n.cfg.deviceID]
		if !ok {
			return fmt.Errorf("no controller state for device %d", n.cfg.deviceID)
		}
		axis := cs.Axes[n.cfg.axisIndex]
		if n.cfg.component == ComponentX {
			n.axisValue = axis.X
		} else {
			n.axisValue = axis.Y
		}
	case KindWheel:
		left, ok := st.Poses[n.cfg.deviceID]
		if !ok {
			return fmt.Errorf("no pose for device %d", n.cfg.deviceID)
		}
		right, ok := st.Poses[n.cfg.axisDeviceID]
		if !ok {
			return fmt.Errorf("no pose for device %d", n.cfg.axisDeviceID)
		}
		n.axisValue = math.Atan2(right.Matrix[1][3]-left.Matrix[1][3], right.Matrix[0][3]-left.Matrix[0][3])
	}
	return nil
}

// --- Pure axis transforms (spec §4.3) ---

// ScaleAxis computes (x - zero) * factor + outZero.
func (c *Cache) ScaleAxis(parent *Node, factor, zero, outZero float64) (*Node, error) {
	if parent == nil {
		return nil, construction(KindScaleAxis, "missing required dependency %q", "parent_axis")
	}
	paramKey := fmt.Sprintf("factor=%v,zero=%v,outZero=%v", factor, zero, outZero)
	return c.getOrBuild(KindScaleAxis, paramKey, []*Node{parent}, func() (config, state) {
		return config{factor: factor, zero: zero, outZero: outZero}, state{}
	}), nil
}

// AxisShifter computes ((x - min + shift) mod (max - min)) + min.
func (c *Cache) AxisShifter(parent *Node, min, max, shift float64) (*Node, error) {
	if parent == nil {
		return nil, construction(KindAxisShifter, "missing required dependency %q", "parent_axis")
	}
	if max <= min {
		return nil, construction(KindAxisShifter, "max (%v) must be greater than min (%v)", max, min)
	}
	paramKey := fmt.Sprintf("min=%v,max=%v,shift=%v", min, max, shift)
	return c.getOrBuild(KindAxisShifter, paramKey, []*Node{parent}, func() (config, state) {
		return config{min: min, max: max, shift: shift}, state{}
	}), nil
}

// AxisClamp clamps x to [min, max].
func (c *Cache) AxisClamp(parent *Node, min, max float64) (*Node, error) {
	if parent == nil {
		return nil, construction(KindAxisClamp, "missing required dependency %q", "parent_axis")
	}
	paramKey := fmt.Sprintf("min=%v,max=%v", min, max)
	return c.getOrBuild(KindAxisClamp, paramKey, []*Node{parent}, func() (config, state) {
		return config{min: min, max: max}, state{}
	}), nil
}

// DeadzoneAxis emits 0 when |x| < d, else x.
func (c *Cache) DeadzoneAxis(parent *Node, d float64) (*Node, error) {
	if parent == nil {
		return nil, construction(KindDeadzoneAxis, "missing required dependency %q", "parent_axis")
	}
	paramKey := fmt.Sprintf("d=%v", d)
	return c.getOrBuild(KindDeadzoneAxis, paramKey, []*Node{parent}, func() (config, state) {
		return config{deadzone: d}, state{}
	}), nil
}

// InvertedAxis emits -x.
func (c *Cache) InvertedAxis(parent *Node) (*Node, error) {
	if parent == nil {
		return nil, construction(KindInvertedAxis, "missing required dependency %q", "parent_axis")
	}
	return c.getOrBuild(KindInvertedAxis, "", []*Node{parent}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalPureAxis(n *Node) error {
	x := n.deps[0].axisValue
	switch n.kind {
	case KindScaleAxis:
		n.axisValue = (x-n.cfg.zero)*n.cfg.factor + n.cfg.outZero
	case KindAxisShifter:
		span := n.cfg.max - n.cfg.min
		shifted := math.Mod(x-n.cfg.min+n.cfg.shift, span)
		if shifted < 0 {
			shifted += span
		}
		n.axisValue = shifted + n.cfg.min
	case KindAxisClamp:
		n.axisValue = math.Max(n.cfg.min, math.Min(n.cfg.max, x))
	case KindDeadzoneAxis:
		if math.Abs(x) < n.cfg.deadzone {
			n.axisValue = 0
		} else {
			n.axisValue = x
		}
	case KindInvertedAxis:
		n.axisValue = -x
	}
	return nil
}

// --- Stateful axis transforms (spec §4.3) ---

// ResettableAxis holds a baseline, reset to parent_axis's value on
// every tick reset_button.tick_state == just_pressed, and emits
// parent_axis - baseline.
func (c *Cache) ResettableAxis(resetButton, parentAxis *Node) (*Node, error) {
	if resetButton == nil {
		return nil, construction(KindResettableAxis, "missing required dependency %q", "reset_button")
	}
	if parentAxis == nil {
		return nil, construction(KindResettableAxis, "missing required dependency %q", "parent_axis")
	}
	return c.getOrBuild(KindResettableAxis, "", []*Node{resetButton, parentAxis}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalResettableAxis(n *Node) error {
	resetButton, parent := n.deps[0], n.deps[1]
	if resetButton.buttonValue.TickState == JustPressed || !n.st.baselineSet {
		n.st.baseline = parent.axisValue
		n.st.baselineSet = true
	}
	n.axisValue = parent.axisValue - n.st.baseline
	return nil
}

// GatedAxis emits parent_axis when gate_button.active, else
// disabledValue.
func (c *Cache) GatedAxis(gateButton, parentAxis *Node, disabledValue float64) (*Node, error) {
	if gateButton == nil {
		return nil, construction(KindGatedAxis, "missing required dependency %q", "gate_button")
	}
	if parentAxis == nil {
		return nil, construction(KindGatedAxis, "missing required dependency %q", "parent_axis")
	}
	paramKey := fmt.Sprintf("disabled=%v", disabledValue)
	return c.getOrBuild(KindGatedAxis, paramKey, []*Node{gateButton, parentAxis}, func() (config, state) {
		return config{disabledValue: disabledValue}, state{}
	}), nil
}

func evalGatedAxis(n *Node) error {
	gate, parent := n.deps[0], n.deps[1]
	if gate.buttonValue.Active {
		n.axisValue = parent.axisValue
	} else {
		n.axisValue = n.cfg.disabledValue
	}
	return nil
}

// DeltaAxis ≝ GatedAxis(0)(button, ResettableAxis(button, axis)) (spec
// §4.3). Implemented as sugar over the cache rather than its own Kind:
// two mappings that each write DeltaAxis(b, a) collapse to the same
// pair of cached nodes, satisfying spec §8 invariant 3 for free.
func (c *Cache) DeltaAxis(button, axis *Node) (*Node, error) {
	resettable, err := c.ResettableAxis(button, axis)
	if err != nil {
		return nil, err
	}
	return c.GatedAxis(button, resettable, 0)
}

// PushPullAxis holds baseline and modified. While enable_button is
// active, modified tracks baseline + DeltaAxis(enable_button,
// parent_axis); on just_unpressed, baseline absorbs modified. Emits
// modified (spec §4.3).
func (c *Cache) PushPullAxis(enableButton, parentAxis *Node) (*Node, error) {
	if enableButton == nil {
		return nil, construction(KindPushPullAxis, "missing required dependency %q", "enable_button")
	}
	if parentAxis == nil {
		return nil, construction(KindPushPullAxis, "missing required dependency %q", "parent_axis")
	}
	delta, err := c.DeltaAxis(enableButton, parentAxis)
	if err != nil {
		return nil, err
	}
	return c.getOrBuild(KindPushPullAxis, "", []*Node{enableButton, delta}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalPushPullAxis(n *Node) error {
	enable, delta := n.deps[0], n.deps[1]
	if enable.buttonValue.Active {
		n.st.modified = n.st.baseline + delta.axisValue
	}
	if enable.buttonValue.TickState == JustUnpressed {
		n.st.baseline = n.st.modified
	}
	n.axisValue = n.st.modified
	return nil
}

// --- Pair axis combinators (spec §4.3) ---

func (c *Cache) pairAxis(kind Kind, a, b *Node) (*Node, error) {
	if a == nil || b == nil {
		return nil, construction(kind, "missing required dependency %q or %q", "axis_a", "axis_b")
	}
	return c.getOrBuild(kind, "", []*Node{a, b}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func (c *Cache) SumAxis(a, b *Node) (*Node, error)        { return c.pairAxis(KindSumAxis, a, b) }
func (c *Cache) DifferenceAxis(a, b *Node) (*Node, error) { return c.pairAxis(KindDifferenceAxis, a, b) }
func (c *Cache) ProductAxis(a, b *Node) (*Node, error)    { return c.pairAxis(KindProductAxis, a, b) }
func (c *Cache) QuotientAxis(a, b *Node) (*Node, error)   { return c.pairAxis(KindQuotientAxis, a, b) }
func (c *Cache) MaxAxis(a, b *Node) (*Node, error)        { return c.pairAxis(KindMaxAxis, a, b) }
func (c *Cache) MinAxis(a, b *Node) (*Node, error)        { return c.pairAxis(KindMinAxis, a, b) }
func (c *Cache) MeanAxis(a, b *Node) (*Node, error)       { return c.pairAxis(KindMeanAxis, a, b) }

func evalPairAxis(n *Node) error {
	a, b := n.deps[0].axisValue, n.deps[1].axisValue
	switch n.kind {
	case KindSumAxis:
		n.axisValue = a + b
	case KindDifferenceAxis:
		n.axisValue = a - b
	case KindProductAxis:
		n.axisValue = a * b
	case KindQuotientAxis:
		n.axisValue = a / b
	case KindMaxAxis:
		n.axisValue = math.Max(a, b)
	case KindMinAxis:
		n.axisValue = math.Min(a, b)
	case KindMeanAxis:
		n.axisValue = (a + b) / 2
	}
	return nil
}

// SwitchAxis emits on_axis if switch_button.active, else off_axis.
func (c *Cache) SwitchAxis(switchButton, offAxis, onAxis *Node) (*Node, error) {
	if switchButton == nil {
		return nil, construction(KindSwitchAxis, "missing required dependency %q", "switch_button")
	}
	if offAxis == nil || onAxis == nil {
		return nil, construction(KindSwitchAxis, "missing required dependency %q or %q", "off_axis", "on_axis")
	}
	return c.getOrBuild(KindSwitchAxis, "", []*Node{switchButton, offAxis, onAxis}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalSwitchAxis(n *Node) error {
	sw, off, on := n.deps[0], n.deps[1], n.deps[2]
	if sw.buttonValue.Active {
		n.axisValue = on.axisValue
	} else {
		n.axisValue = off.axisValue
	}
	return nil
}
