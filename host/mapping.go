package host

import (
	"github.com/ThePletch/steam-vr-wheel/graph"
	"github.com/ThePletch/steam-vr-wheel/vr"
)

// Mapping is everything a concrete mapping package supplies the host
// (spec §4.6): which devices must be present, which terminal nodes
// publish to which virtual-device ids, and which nodes exist purely
// for side effects.
type Mapping struct {
	// RequiredDevices lists the (class, role) pairs that must be
	// present before the mapping's graph can be built.
	RequiredDevices []vr.Requirement

	// Build constructs the mapping's node graph against the given
	// cache and resolved device ids, and returns the terminal axis
	// nodes, terminal button nodes, and side-effect-only nodes. Build
	// runs once, after device-wait succeeds (spec §4.6 step 4).
	Build func(c *graph.Cache, base *graph.Node, devices map[vr.Requirement]vr.DeviceID) (BuiltMapping, error)
}

// BuiltMapping is the result of a [Mapping.Build] call: the terminal
// nodes the host publishes every tick, plus any nodes that exist only
// for their side effects (haptic triggers).
type BuiltMapping struct {
	Axes        map[AxisID]*graph.Node
	Buttons     map[ButtonID]*graph.Node
	SideEffects []*graph.Node
}

// terminals returns every root the tick's topological walk must cover:
// every published axis, every published button, and every side-effect
// node.
func (b BuiltMapping) terminals() []*graph.Node {
	out := make([]*graph.Node, 0, len(b.Axes)+len(b.Buttons)+len(b.SideEffects))
	for _, n := range b.Axes {
		out = append(out, n)
	}
	for _, n := range b.Buttons {
		out = append(out, n)
	}
	out = append(out, b.SideEffects...)
	return out
}
