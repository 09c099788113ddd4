// Package ecsbridge publishes tick results into a Donburi ECS world
// for downstream observers (macro systems, telemetry, companion
// tooling) that want to react to axis values and button edges without
// polling the node graph directly. It mirrors
// phanxgames-willow's ecs.NewDonburiStore: a thin publisher over a
// single typed Donburi event.
package ecsbridge

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/ThePletch/steam-vr-wheel/graph"
)

// TickEvent is published once per tick: the tick index plus a
// snapshot of every button terminal's value and every axis terminal's
// value, keyed by the caller-supplied label used when the sink was
// wired up.
type TickEvent struct {
	Tick    int64
	Axes    map[string]float64
	Buttons map[string]graph.ButtonValue
}

// TickEventType is the Donburi event type TickEvents are published
// under. Consumers drain it with TickEventType.Each(world, ...), the
// same pattern phanxgames-willow's ECS adapter uses for its own
// per-frame event types.
var TickEventType = events.NewEventType[TickEvent]()

// Sink publishes tick snapshots into a bound Donburi world.
type Sink struct {
	world donburi.World
}

// NewTickEventBridge binds a Sink to world. Call [Sink.Publish] once
// per tick, after the terminal nodes for that tick have settled.
func NewTickEventBridge(world donburi.World) *Sink {
	return &Sink{world: world}
}

// Publish emits one TickEvent built from the given labeled terminal
// nodes.
func (s *Sink) Publish(tick int64, axes map[string]*graph.Node, buttons map[string]*graph.Node) {
	evt := TickEvent{
		Tick:    tick,
		Axes:    make(map[string]float64, len(axes)),
		Buttons: make(map[string]graph.ButtonValue, len(buttons)),
	}
	for label, n := range axes {
		evt.Axes[label] = n.AxisValue()
	}
	for label, n := range buttons {
		evt.Buttons[label] = n.ButtonValue()
	}
	TickEventType.Publish(s.world, evt)
}
