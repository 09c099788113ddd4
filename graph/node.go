// Package graph implements the dataflow evaluation engine at the heart
// of the system (spec §1-§4, §7-§9): the node graph, the deduplicating
// constructor cache, every node kind, and the tick scheduler.
//
// Following spec §9's design note, every node kind is a value of the
// single [Node] type distinguished by its [Kind] tag rather than a
// family of per-kind types — the same trade-off phanxgames-willow's
// Node makes (one flat struct for every NodeType, to avoid interface
// dispatch on the hot path). A kind's configuration lives in the
// node's [config] fields; only the fields a given kind uses are set.
package graph

import (
	"fmt"
	"time"

	"github.com/ThePletch/steam-vr-wheel/vr"
)

// Kind tags a Node's variant. The comment on each constant names the
// spec section it implements and its named dependency edges, using
// the well-known edge names spec §3.2 calls for (e.g. "parent_button",
// "base_state").
type Kind int

const (
	// KindVRStateSource is the graph root; it has no dependencies and
	// produces no axis/button value, only a *vr.State snapshot stashed
	// in its own state cell and read directly by every leaf node that
	// depends on it (spec §4.1).
	KindVRStateSource Kind = iota

	// --- Leaf axes (spec §4.3) ---
	KindXAxis
	KindYAxis
	KindZAxis
	KindVXAxis
	KindVYAxis
	KindVZAxis
	KindYawAxis
	KindPitchAxis
	KindRollAxis
	KindControllerAxis
	KindWheel // deps: base_state; reads left/right devices' poses directly

	// --- Pure axis transforms (one dep: "parent_axis") ---
	KindScaleAxis
	KindAxisShifter
	KindAxisClamp
	KindDeadzoneAxis
	KindInvertedAxis

	// --- Stateful axis transforms ---
	KindResettableAxis // deps: reset_button, parent_axis
	KindGatedAxis      // deps: gate_button, parent_axis
	KindPushPullAxis   // deps: enable_button, parent_axis

	// --- Pair axis combinators (deps: axis_a, axis_b) ---
	KindSumAxis
	KindDifferenceAxis
	KindProductAxis
	KindQuotientAxis
	KindMaxAxis
	KindMinAxis
	KindMeanAxis
	KindSwitchAxis // deps: switch_button, off_axis, on_axis

	// --- Buttons (spec §4.4) ---
	KindDirectButton
	KindAlwaysOff
	KindAlwaysOn
	KindFlickeringButton
	KindToggleButton     // deps: parent_button
	KindMultiClickButton // deps: parent_button
	KindAndButton        // deps: a, b
	KindOrButton         // deps: a, b
	KindXorButton        // deps: a, b
	KindNotButton        // deps: parent_button
	KindSwitchButton     // deps: switch_button, off_button, on_button
	KindStickyPairButton // deps: a, b
	KindAxisThresholdButton // deps: parent_axis
	KindFlick               // deps: vx_axis, vy_axis, vz_axis

	// --- Event triggers (spec §4.5) ---
	KindHapticPulseTrigger // deps: parent_button
)

// Component selects which vector/matrix element a leaf axis reads.
type Component int

const (
	ComponentX Component = iota
	ComponentY
	ComponentZ
)

// config holds every kind's configuration fields. Only the fields the
// node's Kind uses are populated; this mirrors phanxgames-willow's
// Node, which carries sprite, mesh, particle, and text fields on one
// struct and only populates the set relevant to its NodeType.
type config struct {
	deviceID      vr.DeviceID
	buttonID      vr.ButtonID
	touch         bool
	axisIndex     int
	component     Component
	factor        float64
	zero          float64
	outZero       float64
	min           float64
	max           float64
	shift         float64
	deadzone      float64
	disabledValue float64
	threshold     float64
	comparator    Comparator
	interval      time.Duration
	clickCount    int
	edgeSet       TickStateSet
	durationMicros int
	axisDeviceID   vr.DeviceID // HapticPulseTrigger target device; Wheel right-hand device

	vrSource *vr.Source // KindVRStateSource only
}

// state holds every kind's cross-tick private memory. As with config,
// only the fields relevant to the node's Kind are used.
type state struct {
	baselineSet bool
	baseline    float64
	modified    float64

	lastClickTime time.Time
	haveClicked   bool
	clickCount    int

	latched bool

	flickerOn   bool
	lastFlicker time.Time

	prevActive bool // drives deriveTickState for every button kind

	vrState *vr.State // KindVRStateSource only: last snapshot produced
}

// Node is a vertex in the dataflow graph (spec §3.2). Every field
// after construction is private; callers observe a node only through
// [Node.AxisValue] / [Node.ButtonValue] / [Node.Name].
type Node struct {
	id   uint64
	kind Kind
	name string

	deps []*Node
	cfg  config
	st   state

	axisValue   float64
	buttonValue ButtonValue

	lastUpdated int64 // tick index; -1 before the first update
}

// ID returns the node's cache identity, stable for the life of the
// graph. Used to build dependency-identity cache keys and for
// diagnostic logging; never exposed as part of a value.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node's variant tag.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the node's debug label, if one was set at construction.
func (n *Node) Name() string { return n.name }

// AxisValue returns the node's current axis output. Only meaningful
// when the node last updated in the tick currently being read; callers
// within the engine only ever read it during or after that same tick,
// per the tick-index gate (spec §3.2 invariants).
func (n *Node) AxisValue() float64 { return n.axisValue }

// ButtonValue returns the node's current button output.
func (n *Node) ButtonValue() ButtonValue { return n.buttonValue }

// LastUpdated returns the tick index this node last produced output
// for, or -1 if it has never updated.
func (n *Node) LastUpdated() int64 { return n.lastUpdated }

// ConstructionError reports a node built without a required
// dependency or with an invalid parameter (spec §7, §3.2: "missing
// names are a construction-time failure").
type ConstructionError struct {
	Kind   Kind
	Detail string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("graph: construction error for kind %d: %s", e.Kind, e.Detail)
}

func (e *ConstructionError) Unwrap() error { return errConstructionSentinel }
