// Package vjoyadapter is the integration seam between [host.Device]
// and a real vJoy (or equivalent) virtual-joystick driver. Like the VR
// runtime, the virtual HID device is explicitly out of scope for the
// core engine (spec §1, §6) — production deployments bind this seam to
// the OS's virtual-joystick API; this adapter logs every write instead
// of performing one, since no such driver binding exists in the
// retrieved example pack.
package vjoyadapter

import (
	"github.com/ThePletch/steam-vr-wheel/host"
	"github.com/ThePletch/steam-vr-wheel/logx"
)

// Adapter is a [host.Device] that logs writes instead of reaching a
// real virtual joystick. deviceID is the vJoy device index selected by
// the CLI's positional argument (spec §6).
type Adapter struct {
	deviceID int
}

// New returns an Adapter bound to the given vJoy device id.
func New(deviceID int) *Adapter { return &Adapter{deviceID: deviceID} }

func (a *Adapter) Claim() error {
	logx.Infof("vjoyadapter: claiming virtual device %d", a.deviceID)
	return nil
}

func (a *Adapter) Release() error {
	logx.Infof("vjoyadapter: releasing virtual device %d", a.deviceID)
	return nil
}

func (a *Adapter) SetAxis(axis host.AxisID, value int) error {
	logx.Debugf("vjoyadapter: device %d axis %d = %d", a.deviceID, axis, value)
	return nil
}

func (a *Adapter) SetButton(button host.ButtonID, active bool) error {
	logx.Debugf("vjoyadapter: device %d button %d = %v", a.deviceID, button, active)
	return nil
}
