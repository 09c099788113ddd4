package graph

import (
	"fmt"

	"github.com/ThePletch/steam-vr-wheel/vr"
)

// HapticPulseTrigger fires a haptic pulse on device/axisIndex whenever
// parent_button's tick_state falls in edgeSet (spec §4.5). Unlike
// every other node kind, its "output" is a side effect on the bound
// VR source rather than an axis/button value — it still participates
// in the tick walk so its edge detection runs exactly once per tick
// like everything else, but nothing reads its AxisValue/ButtonValue.
func (c *Cache) HapticPulseTrigger(base *Node, parent *Node, device vr.DeviceID, axisIndex int, durationMicros int, edgeSet TickStateSet) (*Node, error) {
	if base == nil || base.kind != KindVRStateSource {
		return nil, construction(KindHapticPulseTrigger, "missing required dependency %q", "base_state")
	}
	if parent == nil {
		return nil, construction(KindHapticPulseTrigger, "missing required dependency %q", "parent_button")
	}
	paramKey := fmt.Sprintf("device=%d,axis=%d,duration=%d,edges=%d", device, axisIndex, durationMicros, edgeSet)
	return c.getOrBuild(KindHapticPulseTrigger, paramKey, []*Node{base, parent}, func() (config, state) {
		return config{
			axisDeviceID:   device,
			axisIndex:      axisIndex,
			durationMicros: durationMicros,
			edgeSet:        edgeSet,
		}, state{}
	}), nil
}

func evalHapticPulseTrigger(n *Node) error {
	base, parent := n.deps[0], n.deps[1]
	if n.cfg.edgeSet.Contains(parent.buttonValue.TickState) {
		base.cfg.vrSource.TriggerHapticPulse(n.cfg.axisDeviceID, n.cfg.axisIndex, n.cfg.durationMicros)
	}
	return nil
}
