package link

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleControl(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		expected int16
	}{
		{"zero passes through", 0, 0},
		{"full scale", 100, 255},
		{"full scale negative", -100, -255},
		{"half scale", 50, 132},
		{"half scale negative", -50, -132},
		{"clipped above", 150, 255},
		{"clipped below", -150, -255},
		{"small value jumps threshold", 1, 12},
		{"small negative jumps threshold", -1, -12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScaleControl(tt.raw, 100, 10, 255))
		})
	}
}

func TestScaleControlNeverBelowThreshold(t *testing.T) {
	// Any non-zero control must produce a command past the static
	// friction threshold
	for raw := -100.0; raw <= 100.0; raw += 0.5 {
		got := ScaleControl(raw, 100, 10, 255)
		if raw == 0 {
			assert.Equal(t, int16(0), got)
			continue
		}
		if got != 0 {
			assert.GreaterOrEqual(t, abs16(got), int16(10), "raw=%v", raw)
		}
		assert.LessOrEqual(t, abs16(got), int16(255), "raw=%v", raw)
	}
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func TestAngleConversions(t *testing.T) {
	assert.Equal(t, 0.0, AngleRadians(0))
	assert.InDelta(t, math.Pi, AngleRadians(600), 1e-9)
	assert.InDelta(t, 2*math.Pi*1199/1200, AngleRadians(1199), 1e-9)

	assert.Equal(t, 180.0, AngleDegrees(600))
	assert.InDelta(t, 15.0, AngleDegrees(50), 1e-9)
}

func TestPositionMM(t *testing.T) {
	u := Units{TravelTicks: 16220, TicksPerMM: 27}

	assert.InDelta(t, 0.0, u.PositionMM(8110), 1e-9)
	assert.InDelta(t, 100.0/27, u.PositionMM(8210), 1e-9)
	assert.InDelta(t, -8110.0/27, u.PositionMM(0), 1e-9)
}
