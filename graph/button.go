package graph

import (
	"fmt"
	"time"

	"github.com/ThePletch/steam-vr-wheel/vr"
)

// --- Leaf buttons (spec §4.4) ---

// DirectButton reads base_state.pressed[device][button], or
// .touched[device][button] when touch is true.
func (c *Cache) DirectButton(base *Node, device vr.DeviceID, button vr.ButtonID, touch bool) (*Node, error) {
	if base == nil || base.kind != KindVRStateSource {
		return nil, construction(KindDirectButton, "missing required dependency %q", "base_state")
	}
	paramKey := fmt.Sprintf("device=%d,button=%d,touch=%v", device, button, touch)
	return c.getOrBuild(KindDirectButton, paramKey, []*Node{base}, func() (config, state) {
		return config{deviceID: device, buttonID: button, touch: touch}, state{}
	}), nil
}

func evalDirectButton(n *Node) error {
	src := n.deps[0]
	st := src.st.vrState
	if st == nil {
		return fmt.Errorf("vr state not yet produced")
	}
	m := st.Pressed
	if n.cfg.touch {
		m = st.Touched
	}
	active := m[n.cfg.deviceID][n.cfg.buttonID]
	n.setButton(active)
	return nil
}

// AlwaysOff and AlwaysOn are constant buttons with no dependencies,
// useful as SwitchAxis/SwitchButton/GatedAxis defaults (spec §4.4).
func (c *Cache) AlwaysOff() *Node { return c.constantButton(KindAlwaysOff) }
func (c *Cache) AlwaysOn() *Node  { return c.constantButton(KindAlwaysOn) }

func (c *Cache) constantButton(kind Kind) *Node {
	return c.getOrBuild(kind, "", nil, func() (config, state) {
		return config{}, state{}
	})
}

func evalConstantButton(n *Node, active bool) error {
	n.setButton(active)
	return nil
}

// FlickeringButton is active every tick except one tick every
// interval of wall time, where it drops for exactly that tick before
// recovering (spec §4.4: "if the node's current state is on and
// now-last_flicker>interval, emit off... otherwise emit on"). It
// starts active, since its prior state is off on the first tick and
// the blip condition requires the prior state to already be on. It
// has no dependencies; its clock is ctx.Now, not a simulated tick
// count, matching the source implementation's time.time()-based blink.
func (c *Cache) FlickeringButton(interval float64) (*Node, error) {
	if interval <= 0 {
		return nil, construction(KindFlickeringButton, "interval must be positive, got %v", interval)
	}
	paramKey := fmt.Sprintf("interval=%v", interval)
	return c.getOrBuild(KindFlickeringButton, paramKey, nil, func() (config, state) {
		return config{interval: time.Duration(interval * float64(time.Second))}, state{}
	}), nil
}

func evalFlickeringButton(n *Node, ctx TickContext) error {
	wasOn := n.st.flickerOn
	active := true
	if wasOn && ctx.Now.Sub(n.st.lastFlicker) > n.cfg.interval {
		n.st.lastFlicker = ctx.Now
		active = false
	}
	n.st.flickerOn = active
	n.setButton(active)
	return nil
}

// --- Stateful button transforms (spec §4.4) ---

// ToggleButton flips a latch on every just_pressed edge of
// parent_button and emits the latch.
func (c *Cache) ToggleButton(parent *Node) (*Node, error) {
	if parent == nil {
		return nil, construction(KindToggleButton, "missing required dependency %q", "parent_button")
	}
	return c.getOrBuild(KindToggleButton, "", []*Node{parent}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalToggleButton(n *Node) error {
	parent := n.deps[0]
	if parent.buttonValue.TickState == JustPressed {
		n.st.latched = !n.st.latched
	}
	n.setButton(n.st.latched)
	return nil
}

// MultiClickButton counts just_pressed edges of parent_button that
// fall within interval of one another, and is active while that count
// has reached clickCount AND parent_button is still held — it stays
// active until parent releases, not just for the triggering tick
// (spec §4.4, invariant 9).
func (c *Cache) MultiClickButton(parent *Node, clickCount int, interval float64) (*Node, error) {
	if parent == nil {
		return nil, construction(KindMultiClickButton, "missing required dependency %q", "parent_button")
	}
	if clickCount < 1 {
		return nil, construction(KindMultiClickButton, "click_count must be at least 1, got %d", clickCount)
	}
	paramKey := fmt.Sprintf("count=%d,interval=%v", clickCount, interval)
	return c.getOrBuild(KindMultiClickButton, paramKey, []*Node{parent}, func() (config, state) {
		return config{clickCount: clickCount, interval: time.Duration(interval * float64(time.Second))}, state{}
	}), nil
}

func evalMultiClickButton(n *Node, ctx TickContext) error {
	parent := n.deps[0]
	if parent.buttonValue.TickState == JustPressed {
		if !n.st.haveClicked || ctx.Now.Sub(n.st.lastClickTime) > n.cfg.interval {
			n.st.clickCount = 0
		}
		n.st.lastClickTime = ctx.Now
		n.st.clickCount++
		n.st.haveClicked = true
	}
	active := n.st.clickCount >= n.cfg.clickCount && parent.buttonValue.Active
	n.setButton(active)
	return nil
}

// --- Boolean combinators (spec §4.4) ---

func (c *Cache) booleanPairButton(kind Kind, a, b *Node) (*Node, error) {
	if a == nil || b == nil {
		return nil, construction(kind, "missing required dependency %q or %q", "a", "b")
	}
	return c.getOrBuild(kind, "", []*Node{a, b}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func (c *Cache) AndButton(a, b *Node) (*Node, error) { return c.booleanPairButton(KindAndButton, a, b) }
func (c *Cache) OrButton(a, b *Node) (*Node, error)  { return c.booleanPairButton(KindOrButton, a, b) }
func (c *Cache) XorButton(a, b *Node) (*Node, error) { return c.booleanPairButton(KindXorButton, a, b) }

func evalBooleanPairButton(n *Node) error {
	a, b := n.deps[0].buttonValue.Active, n.deps[1].buttonValue.Active
	var active bool
	switch n.kind {
	case KindAndButton:
		active = a && b
	case KindOrButton:
		active = a || b
	case KindXorButton:
		active = a != b
	}
	n.setButton(active)
	return nil
}

// NotButton emits the logical negation of parent_button.
func (c *Cache) NotButton(parent *Node) (*Node, error) {
	if parent == nil {
		return nil, construction(KindNotButton, "missing required dependency %q", "parent_button")
	}
	return c.getOrBuild(KindNotButton, "", []*Node{parent}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalNotButton(n *Node) error {
	n.setButton(!n.deps[0].buttonValue.Active)
	return nil
}

// SwitchButton emits on_button if switch_button.active, else
// off_button (spec §4.4).
func (c *Cache) SwitchButton(switchButton, offButton, onButton *Node) (*Node, error) {
	if switchButton == nil {
		return nil, construction(KindSwitchButton, "missing required dependency %q", "switch_button")
	}
	if offButton == nil || onButton == nil {
		return nil, construction(KindSwitchButton, "missing required dependency %q or %q", "off_button", "on_button")
	}
	return c.getOrBuild(KindSwitchButton, "", []*Node{switchButton, offButton, onButton}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalSwitchButton(n *Node) error {
	sw, off, on := n.deps[0], n.deps[1], n.deps[2]
	if sw.buttonValue.Active {
		n.setButton(on.buttonValue.Active)
	} else {
		n.setButton(off.buttonValue.Active)
	}
	return nil
}

// StickyPairButton requires both a and b active to initiate, then
// stays active while either remains held: once active, it only drops
// when both a and b release (spec §4.4, invariant 8).
func (c *Cache) StickyPairButton(a, b *Node) (*Node, error) {
	if a == nil || b == nil {
		return nil, construction(KindStickyPairButton, "missing required dependency %q or %q", "a", "b")
	}
	return c.getOrBuild(KindStickyPairButton, "", []*Node{a, b}, func() (config, state) {
		return config{}, state{}
	}), nil
}

func evalStickyPairButton(n *Node) error {
	a, b := n.deps[0].buttonValue.Active, n.deps[1].buttonValue.Active
	var active bool
	if n.st.latched {
		active = a || b
	} else {
		active = a && b
	}
	n.st.latched = active
	n.setButton(active)
	return nil
}

// AxisThresholdButton is active while comparator(parent_axis, threshold)
// holds (spec §4.4).
func (c *Cache) AxisThresholdButton(parent *Node, comparator Comparator, threshold float64) (*Node, error) {
	if parent == nil {
		return nil, construction(KindAxisThresholdButton, "missing required dependency %q", "parent_axis")
	}
	paramKey := fmt.Sprintf("cmp=%d,threshold=%v", comparator, threshold)
	return c.getOrBuild(KindAxisThresholdButton, paramKey, []*Node{parent}, func() (config, state) {
		return config{comparator: comparator, threshold: threshold}, state{}
	}), nil
}

func evalAxisThresholdButton(n *Node) error {
	active := n.cfg.comparator.eval(n.deps[0].axisValue, n.cfg.threshold)
	n.setButton(active)
	return nil
}

// GestureButton ≝ AxisThresholdButton(threshold, comparator) over
// DeltaAxis(activation, axis), wrapped in StickyPairButton with
// activation when sticky is true, or AndButton with it when sticky is
// false (spec §4.4 "≝"). While holding activation, moving axis past
// threshold relative to the point activation was pressed engages the
// gesture; sticky holds it until activation releases, non-sticky drops
// it as soon as the threshold is no longer met.
func (c *Cache) GestureButton(activation, axis *Node, comparator Comparator, threshold float64, sticky bool) (*Node, error) {
	if activation == nil {
		return nil, construction(KindAxisThresholdButton, "missing required dependency %q", "activation_button")
	}
	delta, err := c.DeltaAxis(activation, axis)
	if err != nil {
		return nil, err
	}
	axisAction, err := c.AxisThresholdButton(delta, comparator, threshold)
	if err != nil {
		return nil, err
	}
	if sticky {
		return c.StickyPairButton(axisAction, activation)
	}
	return c.AndButton(axisAction, activation)
}
