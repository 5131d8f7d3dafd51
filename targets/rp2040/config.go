//go:build rp2040 || rp2350

package main

import (
	"machine"

	"pendulum/core"
)

// Board wiring. All of this is fixed at compile time: the channel count,
// pin assignments and latch modes never change at runtime.
const (
	// Pendulum encoder phases
	pendulumPinA = machine.GP2
	pendulumPinB = machine.GP3

	// Cart encoder phases
	cartPinA = machine.GP4
	cartPinB = machine.GP5

	// H-bridge: two direction inputs plus the PWM-driven enable
	motorForwardPin = machine.GP6
	motorReversePin = machine.GP7
	motorSpeedPin   = machine.GP8 // PWM slice 4, channel A

	// Liveness LED, on while the last applied command is non-zero
	statusLedPin = machine.LED
)

const (
	// Both channels filter contact bounce by latching every half cycle
	encoderLatchMode = core.LatchTwo03

	// Drive magnitude accepted by the H-bridge
	motorCommandLimit = 255

	// Motor PWM period in nanoseconds (20 kHz, above audible range)
	motorPWMPeriod = 50000

	// Received command bytes buffered between loop iterations
	inputFifoSize = 256
)
