//go:build rp2040 || rp2350

package main

import (
	"machine"

	"tinygo.org/x/drivers"

	"pendulum/core"
)

// hBridge drives a DC motor through a dual H-bridge: two direction pins
// select polarity, a PWM channel on the enable pin sets the magnitude. It
// implements core.Actuator; the control loop clamps commands to the
// configured limit before Apply.
type hBridge struct {
	forward machine.Pin
	reverse machine.Pin
	speed   drivers.PWM
	channel uint8
	limit   uint32
}

// newHBridge configures the direction pins and the PWM slice for the
// enable pin.
func newHBridge(forward, reverse machine.Pin, speed drivers.PWM, speedPin machine.Pin, limit int16) (*hBridge, error) {
	forward.Configure(machine.PinConfig{Mode: machine.PinOutput})
	reverse.Configure(machine.PinConfig{Mode: machine.PinOutput})
	forward.Low()
	reverse.Low()

	if err := speed.Configure(machine.PWMConfig{Period: motorPWMPeriod}); err != nil {
		return nil, err
	}
	channel, err := speed.Channel(speedPin)
	if err != nil {
		return nil, err
	}
	speed.Set(channel, 0)

	return &hBridge{
		forward: forward,
		reverse: reverse,
		speed:   speed,
		channel: channel,
		limit:   uint32(limit),
	}, nil
}

// Apply drives the bridge. The sign of command selects direction, the
// magnitude scales the PWM duty cycle against the configured limit. Zero
// releases both direction pins.
func (m *hBridge) Apply(command int16) error {
	var magnitude uint32
	switch {
	case command > 0:
		m.forward.High()
		m.reverse.Low()
		magnitude = uint32(command)
	case command < 0:
		m.forward.Low()
		m.reverse.High()
		magnitude = uint32(-int32(command))
	default:
		m.forward.Low()
		m.reverse.Low()
	}

	if magnitude > m.limit {
		magnitude = m.limit
	}
	m.speed.Set(m.channel, magnitude*m.speed.Top()/m.limit)
	return nil
}

var _ core.Actuator = (*hBridge)(nil)

// ledIndicator drives the board LED as the link liveness indicator.
type ledIndicator struct {
	pin machine.Pin
}

func newLedIndicator(pin machine.Pin) ledIndicator {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return ledIndicator{pin: pin}
}

func (l ledIndicator) Set(on bool) {
	l.pin.Set(on)
}
