package actuator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// ErrNoPort is returned when autodetection finds no USB serial port.
var ErrNoPort = errors.New("no USB serial port found")

// Sink delivers frames to the hardware.
type Sink interface {
	Send(ctx context.Context, f Frame) error
}

// LineSink writes one text line per frame.
type LineSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineSink creates a sink writing to w.
func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

func (s *LineSink) Send(ctx context.Context, f Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, f.String()+"\n"); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// LogSink only logs frames. Used when no hardware is attached.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(ctx context.Context, f Frame) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Actuator frame", "frame", f.String())
	return nil
}

// OpenSerial opens the serial link to the hardware. An empty port name picks
// the first USB serial port. It returns the opened port and its name.
func OpenSerial(portName string, baud int) (serial.Port, string, error) {
	if portName == "" {
		ports, err := enumerator.GetDetailedPortsList()
		if err != nil {
			return nil, "", fmt.Errorf("failed to list serial ports: %w", err)
		}
		portName, err = choosePort(ports)
		if err != nil {
			return nil, "", err
		}
	}

	p, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, "", fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return p, portName, nil
}

func choosePort(ports []*enumerator.PortDetails) (string, error) {
	for _, p := range ports {
		if p.IsUSB {
			return p.Name, nil
		}
	}
	return "", ErrNoPort
}
