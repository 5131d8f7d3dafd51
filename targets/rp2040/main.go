//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"pendulum/core"
	"pendulum/protocol"
)

func main() {
	// machine.Serial is USB CDC on RP2040; the configured baud rate is
	// ignored, the host opens the port at 115200.
	if err := machine.Serial.Configure(machine.UARTConfig{}); err != nil {
		return
	}

	cart := core.NewEncoder(encoderLatchMode)
	pendulum := core.NewEncoder(encoderLatchMode)
	attachEncoder(cart, cartPinA, cartPinB)
	attachEncoder(pendulum, pendulumPinA, pendulumPinB)

	motor, err := newHBridge(motorForwardPin, motorReversePin, machine.PWM4, motorSpeedPin, motorCommandLimit)
	if err != nil {
		// No drive stage means no safe operation; park with the LED on
		led := newLedIndicator(statusLedPin)
		led.Set(true)
		for {
			time.Sleep(time.Second)
		}
	}

	input := protocol.NewFifoBuffer(inputFifoSize)
	output := protocol.NewScratchOutput()

	driver := core.NewDriver(core.DriverConfig{
		Cart:         cart,
		Pendulum:     pendulum,
		Actuator:     motor,
		Indicator:    newLedIndicator(statusLedPin),
		CommandLimit: motorCommandLimit,
		Output:       output,
	})

	go serialReaderLoop(input)

	for {
		driver.Poll(input)

		if output.Len() > 0 {
			// The write blocks until USB drains; telemetry is at most one
			// frame per iteration so the backlog stays small
			machine.Serial.Write(output.Result())
			output.Reset()
		}

		// Yield to the reader goroutine
		time.Sleep(10 * time.Microsecond)
	}
}

// attachEncoder configures both phase pins with pull-ups and routes their
// edge interrupts into the encoder. The closure binds the encoder instance;
// no shared globals between channels.
func attachEncoder(e *core.Encoder, pinA, pinB machine.Pin) {
	pinA.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinB.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	onEdge := func(machine.Pin) {
		e.OnEdge(pinA.Get(), pinB.Get())
	}
	pinA.SetInterrupt(machine.PinToggle, onEdge)
	pinB.SetInterrupt(machine.PinToggle, onEdge)
}

// serialReaderLoop drains USB CDC into the FIFO from its own goroutine so
// the polling loop never blocks on serial reads.
func serialReaderLoop(input *protocol.FifoBuffer) {
	for {
		n := machine.Serial.Buffered()
		if n == 0 {
			time.Sleep(100 * time.Microsecond)
			continue
		}
		for i := 0; i < n; i++ {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			// A full FIFO drops bytes; the command scanner recovers at the
			// next sync marker
			input.WriteByte(b)
		}
	}
}
