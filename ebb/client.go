package ebb

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/ebbctl/protocol"
	"github.com/danmuck/ebbctl/serialport"
)

// DefaultBaud is the protocol's documented serial rate.
const DefaultBaud = 115200

// Options configures a Client.
type Options struct {
	// Timing overrides the round-trip timing knobs. The zero value selects
	// protocol.DefaultTiming.
	Timing protocol.Timing
	// OldBoard selects the voltage scale factor of pre-2.3 hardware for
	// the QC current/voltage reading.
	OldBoard bool
	// Logger receives per-round-trip diagnostics at debug level. Nil
	// disables logging.
	Logger *zerolog.Logger
}

// Client owns one connection to an EBB. See the package documentation for
// the half-duplex and non-reentrancy contract.
type Client struct {
	tr       protocol.Transport
	timing   protocol.Timing
	oldBoard bool
	log      zerolog.Logger

	busy   atomic.Bool
	closed bool

	// Last commanded microstep modes. Kept client-side because not every
	// firmware revision answers QE; this reflects "last commanded", not
	// "currently true".
	motorModes    [2]MotorMode
	motorModesSet bool
}

// NewClient wraps an already-open transport. The caller supplies the
// transport; the client takes ownership and closes it on Close if it
// implements io.Closer.
func NewClient(tr protocol.Transport, opts Options) *Client {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	timing := opts.Timing
	if timing == (protocol.Timing{}) {
		timing = protocol.DefaultTiming()
	}
	return &Client{tr: tr, timing: timing, oldBoard: opts.OldBoard, log: log}
}

// Open connects to the EBB on the named serial device. A baud of 0 selects
// DefaultBaud.
func Open(device string, baud int, opts Options) (*Client, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := serialport.Open(serialport.Config{Device: device, Baud: baud})
	if err != nil {
		return nil, err
	}
	return NewClient(port, opts), nil
}

// Close releases the connection. No further operations may be issued
// without reopening. Safe to call more than once.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.tr.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// roundTrip runs one send-command/await-reply cycle: drain leftovers,
// transmit, pause for the firmware turnaround, then frame the reply per the
// mnemonic's class. Errors propagate untouched so callers can distinguish
// timeout, protocol, and decode faults.
func (c *Client) roundTrip(mnemonic string, args ...string) ([]byte, error) {
	if c.closed || c.tr == nil {
		return nil, ErrClosed
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	spec := protocol.Lookup(mnemonic)
	stale, err := protocol.Drain(c.tr)
	if err != nil {
		return nil, fmt.Errorf("drain before %s: %w", mnemonic, err)
	}
	if stale > 0 {
		c.log.Debug().Str("cmd", mnemonic).Int("stale", stale).Msg("drained leftover bytes")
	}

	if _, err := c.tr.Write(protocol.Format(mnemonic, args...)); err != nil {
		return nil, fmt.Errorf("send %s: %w", mnemonic, err)
	}
	if c.timing.Turnaround > 0 {
		time.Sleep(c.timing.Turnaround)
	}

	start := time.Now()
	raw, err := protocol.ReadReply(c.tr, spec, c.timing)
	if err != nil {
		c.log.Debug().Str("cmd", mnemonic).Err(err).Msg("round trip failed")
		return nil, err
	}
	c.log.Debug().
		Str("cmd", mnemonic).
		Str("class", spec.Class.String()).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(raw)).
		Msg("round trip complete")
	return raw, nil
}

// exec runs an Acknowledged round trip and discards the payload.
func (c *Client) exec(mnemonic string, args ...string) error {
	raw, err := c.roundTrip(mnemonic, args...)
	if err != nil {
		return err
	}
	_, err = protocol.Ack(protocol.Lookup(mnemonic), raw)
	return err
}

// sendOnly transmits a command whose reply never arrives because the board
// drops the connection (RB, BL), then closes the client.
func (c *Client) sendOnly(mnemonic string) error {
	if c.closed || c.tr == nil {
		return ErrClosed
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	_, werr := c.tr.Write(protocol.Format(mnemonic))
	c.busy.Store(false)
	if cerr := c.Close(); werr == nil {
		return cerr
	}
	return werr
}
