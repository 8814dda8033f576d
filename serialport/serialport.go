// Package serialport adapts a host serial device to the protocol.Transport
// contract: byte writes, an available-count poll, and bounded non-blocking
// reads.
package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultPollTimeout bounds one Available poll against the device.
const DefaultPollTimeout = time.Millisecond

// Config holds the caller-supplied connection parameters. Nothing here is
// environment-derived.
type Config struct {
	Device      string
	Baud        int
	PollTimeout time.Duration
}

// Port is an open serial device. Bytes read during an Available poll are
// held in a pending buffer until ReadAvailable consumes them, so the count
// reported never goes backwards.
type Port struct {
	dev     serial.Port
	pending []byte
	scratch [256]byte
}

// Open opens the device 8N1 at the configured baud rate and discards any
// bytes already sitting in the OS input buffer.
func Open(cfg Config) (*Port, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("serialport: device name required")
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("serialport: invalid baud rate %d", cfg.Baud)
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	dev, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Device, err)
	}
	if err := dev.SetReadTimeout(cfg.PollTimeout); err != nil {
		dev.Close()
		return nil, fmt.Errorf("serialport: set read timeout: %w", err)
	}
	if err := dev.ResetInputBuffer(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("serialport: reset input buffer: %w", err)
	}
	return &Port{dev: dev}, nil
}

// newPort wraps an already-open device; used by tests.
func newPort(dev serial.Port) *Port {
	return &Port{dev: dev}
}

func (p *Port) Write(b []byte) (int, error) {
	return p.dev.Write(b)
}

// Available performs one bounded poll of the device and reports how many
// bytes can be read without blocking.
func (p *Port) Available() (int, error) {
	n, err := p.dev.Read(p.scratch[:])
	if n > 0 {
		p.pending = append(p.pending, p.scratch[:n]...)
	}
	if err != nil {
		return len(p.pending), fmt.Errorf("serialport: read: %w", err)
	}
	return len(p.pending), nil
}

// ReadAvailable copies up to len(dst) pending bytes without touching the
// device.
func (p *Port) ReadAvailable(dst []byte) (int, error) {
	n := copy(dst, p.pending)
	p.pending = p.pending[n:]
	if len(p.pending) == 0 {
		p.pending = nil
	}
	return n, nil
}

func (p *Port) Close() error {
	return p.dev.Close()
}

// List returns the serial devices visible to the host.
func List() ([]string, error) {
	return serial.GetPortsList()
}
