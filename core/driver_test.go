package core

import (
	"bytes"
	"testing"

	"pendulum/protocol"
)

type recordingActuator struct {
	applied []int16
}

func (a *recordingActuator) Apply(command int16) error {
	a.applied = append(a.applied, command)
	return nil
}

type recordingIndicator struct {
	states []bool
}

func (i *recordingIndicator) Set(on bool) {
	i.states = append(i.states, on)
}

type driverFixture struct {
	cart      *Encoder
	pendulum  *Encoder
	actuator  *recordingActuator
	indicator *recordingIndicator
	output    *protocol.ScratchOutput
	driver    *Driver
}

func newDriverFixture() *driverFixture {
	f := &driverFixture{
		cart:      NewEncoder(LatchTwo03),
		pendulum:  NewEncoder(LatchTwo03),
		actuator:  &recordingActuator{},
		indicator: &recordingIndicator{},
		output:    protocol.NewScratchOutput(),
	}
	f.driver = NewDriver(DriverConfig{
		Cart:         f.cart,
		Pendulum:     f.pendulum,
		Actuator:     f.actuator,
		Indicator:    f.indicator,
		CommandLimit: 255,
		Output:       f.output,
	})
	return f
}

func (f *driverFixture) poll(input []byte) {
	f.driver.Poll(protocol.NewSliceInputBuffer(input))
}

func TestDriverChangeDetection(t *testing.T) {
	f := newDriverFixture()

	// First iteration always transmits the initial reading
	f.poll(nil)
	if f.output.Len() != protocol.TelemetryFrameLen {
		t.Fatalf("Expected one frame after first poll, got %d bytes", f.output.Len())
	}

	// Nothing changed: no frame
	f.output.Reset()
	f.poll(nil)
	f.poll(nil)
	if f.output.Len() != 0 {
		t.Errorf("Expected no frames without changes, got %d bytes", f.output.Len())
	}

	// One axis changed: exactly one frame per changed iteration
	f.cart.SetTicks(1)
	f.poll(nil)
	if f.output.Len() != protocol.TelemetryFrameLen {
		t.Errorf("Expected one frame after cart change, got %d bytes", f.output.Len())
	}

	f.output.Reset()
	f.pendulum.SetTicks(3)
	f.poll(nil)
	if f.output.Len() != protocol.TelemetryFrameLen {
		t.Errorf("Expected one frame after pendulum change, got %d bytes", f.output.Len())
	}

	// Unchanged again
	f.output.Reset()
	f.poll(nil)
	if f.output.Len() != 0 {
		t.Errorf("Expected no frame after repeat reading, got %d bytes", f.output.Len())
	}
}

func TestDriverTelemetryBytes(t *testing.T) {
	f := newDriverFixture()

	// Cart at 100 ticks, pendulum one revolution plus 50
	f.cart.SetTicks(100)
	f.pendulum.SetTicks(1250)
	f.poll(nil)

	expected := []byte{0xAA, 0x64, 0x00, 0x32, 0x00}
	if !bytes.Equal(f.output.Result(), expected) {
		t.Errorf("Telemetry bytes = % X, expected % X", f.output.Result(), expected)
	}
}

func TestDriverAngleWrapsNegative(t *testing.T) {
	f := newDriverFixture()

	f.pendulum.SetTicks(-1)
	f.poll(nil)

	// -1 raw folds to 1199 = 0x04AF
	expected := []byte{0xAA, 0x00, 0x00, 0xAF, 0x04}
	if !bytes.Equal(f.output.Result(), expected) {
		t.Errorf("Telemetry bytes = % X, expected % X", f.output.Result(), expected)
	}
}

func TestDriverCommandDispatch(t *testing.T) {
	f := newDriverFixture()

	// -200 is inside the +-255 range and passes through unchanged
	f.poll([]byte{0x55, 0x38, 0xFF})
	if len(f.actuator.applied) != 1 || f.actuator.applied[0] != -200 {
		t.Fatalf("Expected apply(-200), got %v", f.actuator.applied)
	}
	if len(f.indicator.states) != 1 || !f.indicator.states[0] {
		t.Errorf("Indicator should be on after non-zero command, got %v", f.indicator.states)
	}

	// Zero command turns the indicator off
	f.poll([]byte{0x55, 0x00, 0x00})
	if len(f.actuator.applied) != 2 || f.actuator.applied[1] != 0 {
		t.Fatalf("Expected apply(0), got %v", f.actuator.applied)
	}
	if !f.indicator.states[0] || f.indicator.states[1] {
		t.Errorf("Indicator states = %v, expected [true false]", f.indicator.states)
	}
}

func TestDriverClampsCommands(t *testing.T) {
	f := newDriverFixture()

	// 300 = 0x012C clamps to 255, -300 = 0xFED4 clamps to -255
	f.poll([]byte{0x55, 0x2C, 0x01, 0x55, 0xD4, 0xFE})

	expected := []int16{255, -255}
	if len(f.actuator.applied) != 2 {
		t.Fatalf("Expected 2 applied commands, got %v", f.actuator.applied)
	}
	for i, want := range expected {
		if f.actuator.applied[i] != want {
			t.Errorf("Command %d: expected %d, got %d", i, want, f.actuator.applied[i])
		}
	}
}

func TestDriverPartialCommandAcrossPolls(t *testing.T) {
	f := newDriverFixture()

	f.poll([]byte{0x55})
	f.poll([]byte{0x38})
	if len(f.actuator.applied) != 0 {
		t.Fatalf("No command expected before the payload completes, got %v", f.actuator.applied)
	}

	f.poll([]byte{0xFF})
	if len(f.actuator.applied) != 1 || f.actuator.applied[0] != -200 {
		t.Fatalf("Expected apply(-200) after payload completes, got %v", f.actuator.applied)
	}
}

func TestDriverSurvivesNoise(t *testing.T) {
	f := newDriverFixture()

	f.poll([]byte{0x00, 0xFF, 0x13, 0x37, 0xAA, 0xAA})
	if len(f.actuator.applied) != 0 {
		t.Errorf("Noise should not produce commands, got %v", f.actuator.applied)
	}

	// A valid frame after noise still decodes
	f.poll([]byte{0x42, 0x55, 0x64, 0x00})
	if len(f.actuator.applied) != 1 || f.actuator.applied[0] != 100 {
		t.Errorf("Expected apply(100) after noise, got %v", f.actuator.applied)
	}
}

func TestClampCommand(t *testing.T) {
	testCases := []struct {
		command  int16
		limit    int16
		expected int16
	}{
		{0, 255, 0},
		{100, 255, 100},
		{-200, 255, -200},
		{255, 255, 255},
		{256, 255, 255},
		{-255, 255, -255},
		{-256, 255, -255},
		{32767, 255, 255},
		{-32768, 255, -255},
		{500, 1000, 500},
	}

	for _, tc := range testCases {
		got := ClampCommand(tc.command, tc.limit)
		if got != tc.expected {
			t.Errorf("ClampCommand(%d, %d) = %d, expected %d",
				tc.command, tc.limit, got, tc.expected)
		}
	}
}
