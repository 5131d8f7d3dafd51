//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts so loop-context code can touch
// encoder state owned by the edge handlers.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the saved interrupt mask.
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
