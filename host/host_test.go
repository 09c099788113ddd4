package host_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ThePletch/steam-vr-wheel/graph"
	"github.com/ThePletch/steam-vr-wheel/host"
	"github.com/ThePletch/steam-vr-wheel/vr"
	"github.com/ThePletch/steam-vr-wheel/vr/vrtest"
)

type fakeDevice struct {
	claimed  bool
	released bool
	axes     map[host.AxisID]int
	buttons  map[host.ButtonID]bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{axes: make(map[host.AxisID]int), buttons: make(map[host.ButtonID]bool)}
}

func (d *fakeDevice) Claim() error   { d.claimed = true; return nil }
func (d *fakeDevice) Release() error { d.released = true; return nil }
func (d *fakeDevice) SetAxis(axis host.AxisID, value int) error {
	d.axes[axis] = value
	return nil
}
func (d *fakeDevice) SetButton(button host.ButtonID, active bool) error {
	d.buttons[button] = active
	return nil
}

const testButtonUp host.ButtonID = 1

// trivialMapping publishes a single axis (raw left-controller X) and a
// single button (left trigger), with no side effects.
func trivialMapping() host.Mapping {
	leftReq := vr.Requirement{Class: vr.ClassController, Role: vr.RoleLeftHand}
	return host.Mapping{
		RequiredDevices: []vr.Requirement{leftReq},
		Build: func(c *graph.Cache, base *graph.Node, devices map[vr.Requirement]vr.DeviceID) (host.BuiltMapping, error) {
			left := devices[leftReq]
			axis, err := c.XAxis(base, left)
			if err != nil {
				return host.BuiltMapping{}, err
			}
			button, err := c.DirectButton(base, left, vr.ButtonTrigger, false)
			if err != nil {
				return host.BuiltMapping{}, err
			}
			return host.BuiltMapping{
				Axes:    map[host.AxisID]*graph.Node{host.AxisX: axis},
				Buttons: map[host.ButtonID]*graph.Node{testButtonUp: button},
			}, nil
		},
	}
}

func TestHost_RunPublishesTerminalValues(t *testing.T) {
	fake := vrtest.New()
	fake.AddDevice(1, vr.ClassController, vr.RoleLeftHand)
	pose := vr.Pose{}
	pose.Matrix[0][3] = 0.25
	pose.Matrix[0][0], pose.Matrix[1][1], pose.Matrix[2][2] = 1, 1, 1
	fake.SetPose(1, pose)
	fake.PressButton(1, vr.ButtonTrigger)

	device := newFakeDevice()
	h, err := host.New(fake, device, trivialMapping(), 1000,
		host.WithDeviceWait(time.Millisecond, 50*time.Millisecond))
	require.NoError(t, err)
	require.True(t, device.claimed)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	err = h.Run(ctx)
	require.NoError(t, err)
	require.True(t, device.released)

	require.Equal(t, int(0.25*host.AxisPrecision), device.axes[host.AxisX])
	require.True(t, device.buttons[testButtonUp])
}

func TestHost_DeviceWaitTimeout(t *testing.T) {
	fake := vrtest.New() // no devices registered
	device := newFakeDevice()

	_, err := host.New(fake, device, trivialMapping(), 30,
		host.WithDeviceWait(time.Millisecond, 5*time.Millisecond))
	require.Error(t, err)
	var timeoutErr *vr.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.False(t, device.claimed)
}
