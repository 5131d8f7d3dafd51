// Package core implements the hardware-independent control logic of the
// pendulum board: quadrature decoding, angle folding, and the polling loop
// that ties the sensors to the motor through the serial link.
package core

import "sync/atomic"

// LatchMode selects how many valid phase sub-transitions make up one
// logical tick. Coarser modes trade counting speed for contact-bounce
// rejection. Fixed at configuration time.
type LatchMode uint8

const (
	// LatchFour3 counts one tick per full quadrature cycle, latched at
	// phase state 0b11.
	LatchFour3 LatchMode = iota

	// LatchFour0 counts one tick per full quadrature cycle, latched at
	// phase state 0b00.
	LatchFour0

	// LatchTwo03 counts one tick per half cycle, latched at 0b00 and 0b11.
	// Two valid sub-transitions per tick; the default for both axes.
	LatchTwo03
)

// edgeDelta maps (oldState<<2 | newState) to the signed sub-step carried by
// that phase transition. Zero entries are invalid combinations (both phases
// appearing to flip at once), produced by electrical noise; they are
// ignored and the count self-corrects on the next valid transition.
var edgeDelta = [16]int32{
	0, -1, 1, 0,
	1, 0, 0, -1,
	-1, 0, 0, 1,
	0, 1, -1, 0,
}

// Encoder maintains the signed tick count of one quadrature channel.
//
// OnEdge and SetTicks mutate the phase state and sub-step accumulator and
// must run with the channel's edge interrupts masked (OnEdge runs inside
// the handler itself, SetTicks masks explicitly). The latched tick count is
// published with an atomic store so Ticks can be read from the polling loop
// without tearing.
type Encoder struct {
	mode LatchMode

	// Interrupt-context state. Never touched from the polling loop.
	phase uint8 // last observed 2-bit phase state (B<<1 | A)
	sub   int32 // sub-step accumulator, +-1 per valid transition

	ticks int32 // latched tick count, atomic access only
}

// NewEncoder creates an encoder channel with the given latch mode. The tick
// count starts at zero.
func NewEncoder(mode LatchMode) *Encoder {
	return &Encoder{mode: mode}
}

// OnEdge processes one edge interrupt. a and b are the current levels of
// the two phase pins, read by the caller inside the interrupt handler. The
// handler is O(1): a table lookup, an add, and at most one atomic store.
func (e *Encoder) OnEdge(a, b bool) {
	state := uint8(0)
	if a {
		state |= 1
	}
	if b {
		state |= 2
	}
	if state == e.phase {
		return
	}

	e.sub += edgeDelta[e.phase<<2|state]
	e.phase = state
	e.latch(state)
}

// latch publishes the tick count when the new phase state is a latch point
// for the configured mode.
func (e *Encoder) latch(state uint8) {
	switch e.mode {
	case LatchFour3:
		if state == 3 {
			atomic.StoreInt32(&e.ticks, e.sub>>2)
		}
	case LatchFour0:
		if state == 0 {
			atomic.StoreInt32(&e.ticks, e.sub>>2)
		}
	case LatchTwo03:
		if state == 0 || state == 3 {
			atomic.StoreInt32(&e.ticks, e.sub>>1)
		}
	}
}

// Ticks returns the current latched tick count. Safe to call from the
// polling loop while edge interrupts are firing.
func (e *Encoder) Ticks() int32 {
	return atomic.LoadInt32(&e.ticks)
}

// SetTicks overwrites the tick count, e.g. to zero a channel after homing.
// The sub-steps of an in-progress tick are kept, so re-homing between latch
// points does not skew the count by a fraction of a tick. It touches
// interrupt-owned state, so interrupts are masked for the duration.
func (e *Encoder) SetTicks(n int32) {
	state := disableInterrupts()
	switch e.mode {
	case LatchTwo03:
		e.sub = n<<1 | e.sub&1
	default:
		e.sub = n<<2 | e.sub&3
	}
	atomic.StoreInt32(&e.ticks, n)
	restoreInterrupts(state)
}
