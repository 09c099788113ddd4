// Package host implements the Mapping Host (spec §4.6): the glue that
// binds a mapping's terminal nodes to a virtual HID device, waits for
// the VR devices the mapping requires, and drives the fixed-frequency
// tick loop.
package host

// AxisPrecision is the integer range every axis value is scaled into
// before being written to the virtual device (spec §6).
const AxisPrecision = 0x8000

// AxisID names one of the virtual device's fixed analog axes (spec
// §6: "Standard axis ids (fixed)").
type AxisID int

const (
	AxisX AxisID = iota
	AxisY
	AxisZ
	AxisRX
	AxisRY
	AxisRZ
	AxisSL0
	AxisSL1
)

// ButtonID names one of the virtual device's digital buttons.
// Button ids are consecutive positive integers starting at 1 (spec §6).
type ButtonID int

// Device is the virtual HID sink the host writes tick results to
// (spec §6). Production code binds this to a real virtual-joystick
// driver; tests bind it to a recording fake.
type Device interface {
	// Claim acquires exclusive ownership of the virtual device (spec
	// §4.6 step 2). Called once, before any SetAxis/SetButton call.
	Claim() error
	// Release gives up ownership of the virtual device. Called once,
	// when the host's Run loop returns.
	Release() error
	// SetAxis writes value, an integer in [0, AxisPrecision], to the
	// named axis.
	SetAxis(axis AxisID, value int) error
	// SetButton writes the digital state of the named button.
	SetButton(button ButtonID, active bool) error
}
