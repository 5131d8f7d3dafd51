package protocol

// frameScanner recovers fixed-size frames from an unstructured byte stream.
// It scans forward for the sync marker, collects the payload bytes that
// follow, and dispatches each completed payload. Partial payloads are kept
// in the scanner between calls, so input may arrive in fragments of any
// size. Bytes outside a frame are dropped without error signaling; the
// stream carries no checksum, the next sync marker is the only recovery
// point.
type frameScanner struct {
	sync       byte
	payloadLen int
	dispatch   func(payload []byte)

	payload [TelemetryFrameLen - 1]byte
	have    int
	inFrame bool
}

// Receive consumes all available bytes from input and dispatches every
// frame completed by them. It never blocks: with too few bytes buffered it
// returns and resumes on the next call.
func (s *frameScanner) Receive(input InputBuffer) {
	data := input.Data()

	for _, b := range data {
		if !s.inFrame {
			if b == s.sync {
				s.inFrame = true
				s.have = 0
			}
			continue
		}

		s.payload[s.have] = b
		s.have++
		if s.have == s.payloadLen {
			s.inFrame = false
			s.dispatch(s.payload[:s.payloadLen])
		}
	}

	input.Pop(len(data))
}

// CommandHandler receives each motor command decoded from the host stream.
type CommandHandler func(value int16)

// CommandScanner decodes host -> device command frames. Used on the
// device side of the link.
type CommandScanner struct {
	frameScanner
}

// NewCommandScanner creates a scanner that calls handler for every decoded
// command value.
func NewCommandScanner(handler CommandHandler) *CommandScanner {
	s := &CommandScanner{}
	s.sync = SyncCommand
	s.payloadLen = CommandFrameLen - 1
	s.dispatch = func(payload []byte) {
		handler(int16(uint16(payload[0]) | uint16(payload[1])<<8))
	}
	return s
}

// TelemetryHandler receives each sensor reading decoded from the device
// stream.
type TelemetryHandler func(position int16, angle uint16)

// TelemetryScanner decodes device -> host telemetry frames. Used on the
// host side of the link.
type TelemetryScanner struct {
	frameScanner
}

// NewTelemetryScanner creates a scanner that calls handler for every
// decoded telemetry frame.
func NewTelemetryScanner(handler TelemetryHandler) *TelemetryScanner {
	s := &TelemetryScanner{}
	s.sync = SyncTelemetry
	s.payloadLen = TelemetryFrameLen - 1
	s.dispatch = func(payload []byte) {
		pos := int16(uint16(payload[0]) | uint16(payload[1])<<8)
		angle := uint16(payload[2]) | uint16(payload[3])<<8
		handler(pos, angle)
	}
	return s
}
