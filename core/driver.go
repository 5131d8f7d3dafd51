package core

import "pendulum/protocol"

// DriverConfig carries the compile-time configuration of the control loop.
type DriverConfig struct {
	// Cart is the linear axis channel; its raw tick count goes on the wire.
	Cart *Encoder

	// Pendulum is the angular axis channel; its tick count is folded into
	// [0, AngleWrap) before transmission.
	Pendulum *Encoder

	// Actuator receives clamped motor commands.
	Actuator Actuator

	// Indicator reflects whether the last applied command was non-zero.
	// Optional.
	Indicator Indicator

	// CommandLimit bounds the accepted drive magnitude. Zero selects
	// DefaultCommandLimit.
	CommandLimit int16

	// Output receives encoded telemetry frames. The board main flushes it
	// to the serial port after each iteration.
	Output protocol.OutputBuffer
}

// Driver is the recurring polling cycle tying sensing to actuation: read
// both channels, transmit telemetry on change, and forward decoded host
// commands to the actuator. It has no terminal state; malformed input never
// halts the loop.
type Driver struct {
	cart      *Encoder
	pendulum  *Encoder
	actuator  Actuator
	indicator Indicator
	limit     int16
	output    protocol.OutputBuffer
	scanner   *protocol.CommandScanner

	// Last-sent telemetry snapshot for change detection. Nothing has been
	// sent before the first iteration, so the first reading always goes
	// out.
	lastPosition int16
	lastAngle    uint16
	sentAny      bool
}

// NewDriver creates the control loop driver.
func NewDriver(cfg DriverConfig) *Driver {
	d := &Driver{
		cart:      cfg.Cart,
		pendulum:  cfg.Pendulum,
		actuator:  cfg.Actuator,
		indicator: cfg.Indicator,
		limit:     cfg.CommandLimit,
		output:    cfg.Output,
	}
	if d.limit == 0 {
		d.limit = DefaultCommandLimit
	}
	if d.indicator == nil {
		d.indicator = nopIndicator{}
	}
	d.scanner = protocol.NewCommandScanner(d.handleCommand)
	return d
}

// Poll runs one iteration of the control cycle. input holds whatever bytes
// arrived from the host since the last call; partial command frames are
// carried over to the next iteration by the scanner.
func (d *Driver) Poll(input protocol.InputBuffer) {
	position := int16(d.cart.Ticks())
	angle := NormalizeAngle(d.pendulum.Ticks())

	if !d.sentAny || position != d.lastPosition || angle != d.lastAngle {
		protocol.EncodeTelemetry(d.output, position, angle)
		d.lastPosition = position
		d.lastAngle = angle
		d.sentAny = true
	}

	d.scanner.Receive(input)
}

// handleCommand clamps and applies one decoded host command. Actuator
// errors are not escalated: the device runs indefinitely and the host sends
// a fresh command soon enough.
func (d *Driver) handleCommand(value int16) {
	value = ClampCommand(value, d.limit)
	_ = d.actuator.Apply(value)
	d.indicator.Set(value != 0)
}
