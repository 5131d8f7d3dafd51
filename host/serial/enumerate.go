package serial

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial port found on the host.
type PortInfo struct {
	Device       string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

// Enumerate lists the serial ports present on the host.
func Enumerate() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Device:       d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
		})
	}
	return ports, nil
}

// AutoDetect returns the device path of the first USB serial port, the
// usual appearance of the board's CDC interface. It fails when no USB
// serial port is present rather than guessing at a non-USB one.
func AutoDetect() (string, error) {
	ports, err := Enumerate()
	if err != nil {
		return "", err
	}
	for _, p := range ports {
		if p.IsUSB {
			return p.Device, nil
		}
	}
	return "", fmt.Errorf("no USB serial port found")
}
