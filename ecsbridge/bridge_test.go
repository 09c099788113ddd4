package ecsbridge_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"

	"github.com/ThePletch/steam-vr-wheel/ecsbridge"
	"github.com/ThePletch/steam-vr-wheel/graph"
	"github.com/ThePletch/steam-vr-wheel/vr"
	"github.com/ThePletch/steam-vr-wheel/vr/vrtest"
)

func TestSink_PublishDeliversTickEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := ecsbridge.NewTickEventBridge(world)

	fake := vrtest.New()
	fake.AddDevice(1, vr.ClassController, vr.RoleLeftHand)
	fake.PressButton(1, vr.ButtonTrigger)

	src := vr.NewSource(fake)
	cache := graph.NewCache()
	base := cache.NewVRStateSource(src)
	axis, err := cache.XAxis(base, 1)
	require.NoError(t, err)
	button, err := cache.DirectButton(base, 1, vr.ButtonTrigger, false)
	require.NoError(t, err)

	order := graph.TopoOrder([]*graph.Node{axis, button})
	graph.Tick(order, graph.TickContext{Tick: 1, Now: time.Now()})

	sink.Publish(1, map[string]*graph.Node{"x": axis}, map[string]*graph.Node{"trigger": button})

	var received []ecsbridge.TickEvent
	ecsbridge.TickEventType.Each(world, func(evt ecsbridge.TickEvent) {
		received = append(received, evt)
	})

	require.Len(t, received, 1)
	require.Equal(t, int64(1), received[0].Tick)
	require.True(t, received[0].Buttons["trigger"].Active)
}
