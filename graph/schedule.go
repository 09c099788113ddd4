package graph

import (
	"time"

	"github.com/ThePletch/steam-vr-wheel/logx"
)

// TickContext carries the per-tick values every node kind needs but
// that aren't themselves graph edges: the tick index (for the
// once-per-tick gate) and a wall-clock timestamp (for the handful of
// kinds with time-based behavior: FlickeringButton, MultiClickButton).
// Real time, not simulated time, matches the original implementation
// and spec §4.4's "now" references.
type TickContext struct {
	Tick int64
	Now  time.Time
}

// TopoOrder flattens the DAG reachable from roots into a dependency-
// ordered slice: every node appears after all of its dependencies and
// before any of its consumers, ties broken by first-discovery order.
// Per spec §9 ("Back-edges from generators to consumers"), this
// replaces the source implementation's recursive back-edge
// propagation with the flat topo-sorted vector it recommends — no
// per-node child list, no recursive dispatch, just a loop over this
// slice once per tick.
func TopoOrder(roots []*Node) []*Node {
	visited := make(map[uint64]bool)
	var order []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		if n == nil || visited[n.id] {
			return
		}
		visited[n.id] = true
		for _, d := range n.deps {
			visit(d)
		}
		order = append(order, n)
	}
	for _, r := range roots {
		visit(r)
	}
	return order
}

// Tick drives every node in order exactly once, per spec §4.7. order
// must be the result of [TopoOrder] over the mapping's terminal nodes,
// so the VR state source comes before every node that reads from it;
// nodes with no dependencies (constant and flickering buttons) may come
// before it.
//
// A node update that returns an error is logged at WARN and keeps its
// previous value (spec §7 runtime-transient / per-node computation
// failure); lastUpdated still advances to ctx.Tick so downstream
// consumers see a value for this tick rather than stalling the whole
// walk on one failed leaf.
func Tick(order []*Node, ctx TickContext) {
	for _, n := range order {
		if n.lastUpdated == ctx.Tick {
			continue // already updated this tick (shared via the cache)
		}
		if err := evaluate(n, ctx); err != nil {
			logx.Warnf("graph: node kind=%d id=%d failed to update: %v (keeping previous value)", n.kind, n.id, err)
		}
		n.lastUpdated = ctx.Tick
	}
}

// evaluate computes n's output for the current tick from its already-
// updated dependencies. It is the single dispatch point the spec §9
// design note calls for: one tagged-union switch instead of per-kind
// virtual dispatch.
func evaluate(n *Node, ctx TickContext) error {
	switch n.kind {
	case KindVRStateSource:
		return evalVRStateSource(n)

	case KindXAxis, KindYAxis, KindZAxis, KindVXAxis, KindVYAxis, KindVZAxis,
		KindYawAxis, KindPitchAxis, KindRollAxis, KindControllerAxis, KindWheel:
		return evalLeafAxis(n)

	case KindScaleAxis, KindAxisShifter, KindAxisClamp, KindDeadzoneAxis, KindInvertedAxis:
		return evalPureAxis(n)

	case KindResettableAxis:
		return evalResettableAxis(n)
	case KindGatedAxis:
		return evalGatedAxis(n)
	case KindPushPullAxis:
		return evalPushPullAxis(n)

	case KindSumAxis, KindDifferenceAxis, KindProductAxis, KindQuotientAxis,
		KindMaxAxis, KindMinAxis, KindMeanAxis:
		return evalPairAxis(n)
	case KindSwitchAxis:
		return evalSwitchAxis(n)

	case KindDirectButton:
		return evalDirectButton(n)
	case KindAlwaysOff:
		return evalConstantButton(n, false)
	case KindAlwaysOn:
		return evalConstantButton(n, true)
	case KindFlickeringButton:
		return evalFlickeringButton(n, ctx)
	case KindToggleButton:
		return evalToggleButton(n)
	case KindMultiClickButton:
		return evalMultiClickButton(n, ctx)
	case KindAndButton, KindOrButton, KindXorButton:
		return evalBooleanPairButton(n)
	case KindNotButton:
		return evalNotButton(n)
	case KindSwitchButton:
		return evalSwitchButton(n)
	case KindStickyPairButton:
		return evalStickyPairButton(n)
	case KindAxisThresholdButton:
		return evalAxisThresholdButton(n)
	case KindFlick:
		return evalFlick(n)

	case KindHapticPulseTrigger:
		return evalHapticPulseTrigger(n)
	}
	return nil
}

// setButton applies the fixed tick_state table (spec §3.1) from the
// node's own previous active state and stores the new active state for
// next tick, then writes the result.
func (n *Node) setButton(active bool) {
	ts := deriveTickState(n.st.prevActive, active)
	n.st.prevActive = active
	n.buttonValue = ButtonValue{Active: active, TickState: ts}
}
