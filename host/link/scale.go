package link

import (
	"math"

	"pendulum/core"
)

// Units converts raw wire values into engineering units for the reference
// rig geometry.
type Units struct {
	// TravelTicks is the cart encoder count across the full rail; zero
	// ticks sits at one end, so the midpoint is TravelTicks/2.
	TravelTicks int

	// TicksPerMM converts cart ticks to millimeters.
	TicksPerMM float64
}

// AngleRadians converts a folded angle reading to radians in [0, 2*pi).
// Zero is the pendulum at rest, hanging down.
func AngleRadians(angle uint16) float64 {
	return float64(angle) * 2 * math.Pi / core.AngleWrap
}

// AngleDegrees converts a folded angle reading to degrees in [0, 360).
func AngleDegrees(angle uint16) float64 {
	return float64(angle) * 360 / core.AngleWrap
}

// PositionMM converts a cart tick count to millimeters from rail center.
func (u Units) PositionMM(ticks int16) float64 {
	return (float64(ticks) - float64(u.TravelTicks)/2) / u.TicksPerMM
}

// ScaleControl maps a controller output onto the motor command range while
// compensating for static friction: the input is clipped to
// [-maxInput, maxInput], normalized, scaled onto the range left above the
// friction threshold, and then offset past the threshold so any non-zero
// control actually moves the cart.
func ScaleControl(raw, maxInput float64, threshold, maxOutput int16) int16 {
	if raw == 0 {
		return 0
	}

	clipped := math.Max(-maxInput, math.Min(maxInput, raw))
	norm := clipped / maxInput
	scaled := int16(norm * float64(maxOutput-threshold))

	if scaled > 0 {
		scaled += threshold
	} else if scaled < 0 {
		scaled -= threshold
	}
	return scaled
}
