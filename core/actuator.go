package core

// Actuator translates a signed motor command into a physical drive signal.
// The sign selects direction, the magnitude selects intensity. Callers
// clamp the command to the supported range before Apply; implementations
// may assume it is in range.
type Actuator interface {
	Apply(command int16) error
}

// Indicator reflects link liveness: on while the most recently applied
// command is non-zero. Typically the board LED.
type Indicator interface {
	Set(on bool)
}

// DefaultCommandLimit is the drive magnitude accepted by the stock
// H-bridge wiring (8-bit PWM).
const DefaultCommandLimit = 255

// ClampCommand limits a command to [-limit, limit].
func ClampCommand(command, limit int16) int16 {
	if command > limit {
		return limit
	}
	if command < -limit {
		return -limit
	}
	return command
}

// nopIndicator is used when a board has no liveness LED wired.
type nopIndicator struct{}

func (nopIndicator) Set(bool) {}
