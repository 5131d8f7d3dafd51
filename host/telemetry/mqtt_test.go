package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pendulum/host/link"
)

func TestNewSample(t *testing.T) {
	units := link.Units{TravelTicks: 16220, TicksPerMM: 27}
	received := time.UnixMilli(1700000000123)

	s := newSample(units, link.State{
		Position: 8110,
		Angle:    600,
		Received: received,
	})

	assert.Equal(t, int16(8110), s.PositionTicks)
	assert.Equal(t, uint16(600), s.AngleUnits)
	assert.InDelta(t, 0.0, s.PositionMM, 1e-9)
	assert.InDelta(t, 3.14159265, s.AngleRadians, 1e-6)
	assert.Equal(t, int64(1700000000123), s.TimeMS)
}

func TestSampleJSONFields(t *testing.T) {
	payload, err := json.Marshal(Sample{
		PositionTicks: -200,
		AngleUnits:    1199,
		PositionMM:    -7.5,
		AngleRadians:  6.277,
		TimeMS:        42,
	})
	require.NoError(t, err)

	// Field names are the subscriber contract
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	for _, key := range []string{"position_ticks", "angle_units", "position_mm", "angle_rad", "time_ms"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, float64(-200), decoded["position_ticks"])
	assert.Equal(t, float64(1199), decoded["angle_units"])
}
