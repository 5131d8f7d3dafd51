// Package serial provides the host-side serial port used to talk to the
// pendulum board, plus port discovery.
package serial

import (
	"io"
)

// Port represents a serial port interface.
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - In-memory ports for tests
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM5")
	Device string

	// Baud rate; the board runs the link at 115200
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is the fixed link baud rate.
const DefaultBaud = 115200

// DefaultConfig returns the standard configuration for the pendulum link.
// The short read timeout keeps the link reader responsive to shutdown.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
