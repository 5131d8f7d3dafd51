// Package protocol implements the pendulum serial link framing: fixed-size
// little-endian telemetry and command frames exchanged between the
// controller board and the host.
package protocol

// Frame sync markers. Each direction of the link has its own marker so a
// stream scanner can lock onto frames without length negotiation.
const (
	SyncTelemetry byte = 0xAA // device -> host
	SyncCommand   byte = 0x55 // host -> device
)

// Frame sizes on the wire, sync marker included.
const (
	TelemetryFrameLen = 5 // sync + position (2) + angle (2)
	CommandFrameLen   = 3 // sync + motor command (2)
)

// EncodeTelemetry writes one telemetry frame: the cart position and the
// normalized pendulum angle as little-endian 16-bit fields behind the sync
// marker. Exactly one frame per call, no batching.
func EncodeTelemetry(out OutputBuffer, position int16, angle uint16) {
	out.Output([]byte{
		SyncTelemetry,
		byte(uint16(position)),
		byte(uint16(position) >> 8),
		byte(angle),
		byte(angle >> 8),
	})
}

// EncodeCommand writes one motor command frame. The sign of value selects
// direction, the magnitude selects drive intensity. Used by the host side
// of the link.
func EncodeCommand(out OutputBuffer, value int16) {
	out.Output([]byte{
		SyncCommand,
		byte(uint16(value)),
		byte(uint16(value) >> 8),
	})
}
