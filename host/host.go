package host

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ThePletch/steam-vr-wheel/errkind"
	"github.com/ThePletch/steam-vr-wheel/graph"
	"github.com/ThePletch/steam-vr-wheel/logx"
	"github.com/ThePletch/steam-vr-wheel/vr"
)

// DefaultTickRate is 30 Hz, the fixed frequency spec §5 specifies.
const DefaultTickRate = 30

// Host binds a built [Mapping] to a [Device] and a [vr.Runtime] and
// drives the tick loop (spec §4.6, §5).
type Host struct {
	src    *vr.Source
	device Device
	cache  *graph.Cache
	base   *graph.Node
	built  BuiltMapping
	order  []*graph.Node

	tick       int64
	tickPeriod time.Duration
}

// Option configures [New] beyond its required arguments.
type Option func(*options)

type options struct {
	devicePollInterval time.Duration
	deviceWaitTimeout  time.Duration
}

// WithDeviceWait overrides the device-wait poll interval and timeout,
// which otherwise default to [vr.DefaultDevicePollInterval] and
// [vr.DefaultDeviceWaitTimeout]. Tests use this to avoid waiting the
// production 120-second timeout for a device that will never appear.
func WithDeviceWait(pollInterval, timeout time.Duration) Option {
	return func(o *options) {
		o.devicePollInterval = pollInterval
		o.deviceWaitTimeout = timeout
	}
}

// New waits for the mapping's required devices, builds its node graph,
// and claims the virtual device (spec §4.6 steps 1-4). tickRate is in
// Hz; pass 0 to use [DefaultTickRate].
func New(runtime vr.Runtime, device Device, m Mapping, tickRate int, opts ...Option) (*Host, error) {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}

	o := options{
		devicePollInterval: vr.DefaultDevicePollInterval,
		deviceWaitTimeout:  vr.DefaultDeviceWaitTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	src := vr.NewSource(runtime)
	cache := graph.NewCache()
	base := cache.NewVRStateSource(src)

	resolved, err := vr.WaitForRequiredDevices(src, m.RequiredDevices,
		o.devicePollInterval, o.deviceWaitTimeout)
	if err != nil {
		return nil, err
	}

	built, err := m.Build(cache, base, resolved)
	if err != nil {
		return nil, fmt.Errorf("host: building mapping graph: %w", err)
	}

	if err := device.Claim(); err != nil {
		return nil, fmt.Errorf("host: claiming virtual device: %w: %w", errkind.RuntimeFatal, err)
	}

	return &Host{
		src:        src,
		device:     device,
		cache:      cache,
		base:       base,
		built:      built,
		order:      graph.TopoOrder(built.terminals()),
		tickPeriod: time.Second / time.Duration(tickRate),
	}, nil
}

// Run drives the tick loop until ctx is cancelled, returning nil on a
// clean cancellation (spec §6 "exit codes: 0 normal exit on signal")
// or a wrapped errkind.RuntimeFatal error if the virtual device
// rejects a write.
func (h *Host) Run(ctx context.Context) error {
	defer h.device.Release()

	ticker := time.NewTicker(h.tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case start := <-ticker.C:
			if err := h.runTick(start); err != nil {
				return err
			}
		}
	}
}

// runTick drives one tick and publishes its results (spec §4.6 steps
// 1-4). A panic escaping graph evaluation — a single tick failing to
// read a device in a way that error returns didn't catch — is treated
// as runtime-transient: logged, outputs from the previous tick are
// left in place, and the loop continues (spec §7).
func (h *Host) runTick(start time.Time) (fatalErr error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Warnf("host: tick %d panicked: %v (runtime-transient, outputs unchanged)", h.tick, r)
		}
	}()

	h.tick++
	graph.Tick(h.order, graph.TickContext{Tick: h.tick, Now: start})

	if err := h.publish(); err != nil {
		return err
	}

	if elapsed := time.Since(start); elapsed > h.tickPeriod {
		logx.Warnf("host: tick %d took %v, exceeding the %v budget", h.tick, elapsed, h.tickPeriod)
	}
	return nil
}

// publish writes every terminal node's current value to the virtual
// device (spec §4.6 steps 3-4). A write rejection is runtime-fatal.
func (h *Host) publish() error {
	for id, n := range h.built.Axes {
		v := math.Max(0, math.Min(1, n.AxisValue()))
		if err := h.device.SetAxis(id, int(v*AxisPrecision)); err != nil {
			return fmt.Errorf("host: writing axis %d: %w: %w", id, errkind.RuntimeFatal, err)
		}
	}
	for id, n := range h.built.Buttons {
		if err := h.device.SetButton(id, n.ButtonValue().Active); err != nil {
			return fmt.Errorf("host: writing button %d: %w: %w", id, errkind.RuntimeFatal, err)
		}
	}
	return nil
}
