// Package link implements the host side of the pendulum serial protocol: a
// background reader that tracks the board's latest telemetry and a command
// writer with range clamping and safety bounds.
package link

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"

	"pendulum/core"
	"pendulum/host/serial"
	"pendulum/protocol"
)

// State is the most recent sensor reading received from the board.
type State struct {
	// Position is the raw cart tick count.
	Position int16

	// Angle is the folded pendulum angle in [0, core.AngleWrap).
	Angle uint16

	// Received is when the frame arrived.
	Received time.Time

	// Frames counts telemetry frames received so far.
	Frames uint64
}

// Bounds is the operating envelope the host enforces before driving the
// motor. Outside of it every drive request turns into a stop; detecting a
// stalled or silent board is also the host's job, the firmware never times
// out.
type Bounds struct {
	// MaxAngleDeg is the allowed deviation from upright (180 degrees).
	MaxAngleDeg float64

	// MaxPositionMM is the allowed cart distance from rail center.
	MaxPositionMM float64
}

// Options configures a Link.
type Options struct {
	Units  Units
	Bounds Bounds

	// CommandLimit bounds the command magnitude written to the wire.
	// Zero selects core.DefaultCommandLimit.
	CommandLimit int16

	// FrictionThreshold and MaxControlInput parameterize ScaleControl for
	// Drive.
	FrictionThreshold int16
	MaxControlInput   float64

	// OnState, when set, is called for every received telemetry frame
	// from the reader goroutine.
	OnState func(State)
}

// Link owns a serial port connected to the board. A background goroutine
// drains inbound bytes through a telemetry scanner; commands are written
// synchronously from the calling goroutine.
type Link struct {
	port serial.Port
	opts Options

	mu        sync.Mutex
	state     State
	haveState bool
	lastSent  int16
	hasSent   bool

	done    chan struct{}
	stopped sync.WaitGroup
}

// New starts a link over an open port. Close releases the port.
func New(port serial.Port, opts Options) *Link {
	if opts.CommandLimit == 0 {
		opts.CommandLimit = core.DefaultCommandLimit
	}
	if opts.MaxControlInput == 0 {
		opts.MaxControlInput = 100
	}
	l := &Link{
		port: port,
		opts: opts,
		done: make(chan struct{}),
	}
	l.stopped.Add(1)
	go l.readLoop()
	return l
}

// readLoop drains the port through the telemetry scanner until the port
// closes. Read fragments of any size are fine; the scanner keeps partial
// frames between reads.
func (l *Link) readLoop() {
	defer l.stopped.Done()

	scanner := protocol.NewTelemetryScanner(l.handleFrame)
	buf := make([]byte, 256)

	for {
		select {
		case <-l.done:
			return
		default:
		}

		n, err := l.port.Read(buf)
		if n > 0 {
			scanner.Receive(protocol.NewSliceInputBuffer(buf[:n]))
		}
		if err != nil {
			if err != io.EOF {
				glog.Errorf("link: serial read failed: %v", err)
			}
			return
		}
	}
}

func (l *Link) handleFrame(position int16, angle uint16) {
	l.mu.Lock()
	l.state = State{
		Position: position,
		Angle:    angle,
		Received: time.Now(),
		Frames:   l.state.Frames + 1,
	}
	l.haveState = true
	st := l.state
	l.mu.Unlock()

	glog.V(2).Infof("link: telemetry position=%d angle=%d", position, angle)
	if l.opts.OnState != nil {
		l.opts.OnState(st)
	}
}

// State returns the latest telemetry and whether any frame has arrived yet.
func (l *Link) State() (State, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.haveState
}

// Send clamps value to the command limit and writes one command frame.
func (l *Link) Send(value int16) error {
	value = core.ClampCommand(value, l.opts.CommandLimit)

	out := protocol.NewScratchOutput()
	protocol.EncodeCommand(out, value)
	if _, err := l.port.Write(out.Result()); err != nil {
		return fmt.Errorf("failed to send command %d: %w", value, err)
	}

	l.mu.Lock()
	l.lastSent = value
	l.hasSent = true
	l.mu.Unlock()

	glog.V(2).Infof("link: sent command %d", value)
	return nil
}

// Drive scales a controller output onto the motor range and sends it,
// enforcing the safety envelope: with no telemetry yet or a reading outside
// the bounds, the motor is stopped instead. Repeats of the last sent value
// are suppressed. It returns the command actually written to the wire, or
// the previous one when the send was suppressed.
func (l *Link) Drive(control float64) (int16, error) {
	command := ScaleControl(control, l.opts.MaxControlInput,
		l.opts.FrictionThreshold, l.opts.CommandLimit)

	st, ok := l.State()
	if !ok || !l.inBounds(st) {
		command = 0
	}

	l.mu.Lock()
	skip := l.hasSent && l.lastSent == command
	l.mu.Unlock()
	if skip {
		return command, nil
	}

	return command, l.Send(command)
}

// Stop sends a zero command unconditionally.
func (l *Link) Stop() error {
	return l.Send(0)
}

func (l *Link) inBounds(st State) bool {
	if math.Abs(AngleDegrees(st.Angle)-180) > l.opts.Bounds.MaxAngleDeg {
		return false
	}
	if math.Abs(l.opts.Units.PositionMM(st.Position)) > l.opts.Bounds.MaxPositionMM {
		return false
	}
	return true
}

// Close stops the motor, shuts down the reader, and closes the port.
func (l *Link) Close() error {
	// Best effort: the board keeps the last command applied, so leave it
	// stopped.
	if err := l.Stop(); err != nil {
		glog.Warningf("link: failed to stop motor on close: %v", err)
	}

	close(l.done)
	err := l.port.Close()
	l.stopped.Wait()
	return err
}
