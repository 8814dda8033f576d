package protocol

import (
	"bytes"
	"strings"
	"time"
)

var okMarker = []byte("OK")

// Timing holds the knobs of one round trip. InactivityWindow is the quiet
// period that stands in for a terminator on the reply shapes the firmware
// never marks (BareValue always, HexStatusByte and MultiFieldLine as a
// fallback); it is an inherent protocol limitation, not a tunable of taste.
type Timing struct {
	// Deadline bounds the whole read, regardless of class or partial data.
	Deadline time.Duration
	// InactivityWindow completes unterminated replies once at least one
	// byte has arrived and no further bytes do.
	InactivityWindow time.Duration
	// PollInterval paces the available-byte polls while waiting.
	PollInterval time.Duration
	// Turnaround is the fixed pause between transmit and the first poll;
	// the firmware needs a minimum processing window before it replies.
	Turnaround time.Duration
}

// DefaultTiming matches the firmware documentation: 3 s hard deadline,
// ~100 ms quiet window, 1 ms polls.
func DefaultTiming() Timing {
	return Timing{
		Deadline:         3 * time.Second,
		InactivityWindow: 100 * time.Millisecond,
		PollInterval:     time.Millisecond,
		Turnaround:       10 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.Deadline <= 0 {
		t.Deadline = def.Deadline
	}
	if t.InactivityWindow <= 0 {
		t.InactivityWindow = def.InactivityWindow
	}
	if t.PollInterval <= 0 {
		t.PollInterval = def.PollInterval
	}
	if t.Turnaround < 0 {
		t.Turnaround = def.Turnaround
	}
	return t
}

// ReadReply accumulates bytes from tr until spec's reply class reports the
// reply syntactically complete, or the deadline passes. CR/LF bytes are kept
// in the accumulation except for HexStatusByte, which strips them as they
// arrive. On timeout the error carries the partial accumulation.
func ReadReply(tr Transport, spec Spec, timing Timing) ([]byte, error) {
	timing = timing.withDefaults()
	start := time.Now()
	lastByte := start
	var buf []byte

	for {
		avail, err := tr.Available()
		if err != nil {
			return buf, err
		}
		if avail > 0 {
			chunk := make([]byte, avail)
			n, err := tr.ReadAvailable(chunk)
			if err != nil {
				return buf, err
			}
			if n > 0 {
				buf = accumulate(spec.Class, buf, chunk[:n])
				lastByte = time.Now()
			}
		}

		quiet := time.Duration(0)
		if len(buf) > 0 {
			quiet = time.Since(lastByte)
		}
		if complete(spec, buf, quiet, timing) {
			return buf, nil
		}
		if elapsed := time.Since(start); elapsed >= timing.Deadline {
			return nil, TimeoutError{Mnemonic: spec.Mnemonic, Partial: buf, Elapsed: elapsed}
		}
		if avail == 0 {
			time.Sleep(timing.PollInterval)
		}
	}
}

// accumulate appends chunk to buf, applying the per-class byte filter.
func accumulate(class ReplyClass, buf, chunk []byte) []byte {
	if class != HexStatusByte {
		return append(buf, chunk...)
	}
	for _, b := range chunk {
		if b == '\r' || b == '\n' {
			continue
		}
		buf = append(buf, b)
	}
	return buf
}

// complete decides whether the accumulation is a syntactically finished
// reply for the class. quiet is zero until the first byte arrives.
func complete(spec Spec, buf []byte, quiet time.Duration, timing Timing) bool {
	switch spec.Class {
	case Acknowledged:
		return bytes.Contains(buf, okMarker)
	case BareValue:
		return len(buf) > 0 && quiet >= timing.InactivityWindow
	case HexStatusByte:
		if len(buf) >= 2 && isHexDigit(buf[0]) && isHexDigit(buf[1]) {
			return true
		}
		return len(buf) > 0 && quiet >= timing.InactivityWindow
	case MultiFieldLine:
		if bytes.IndexByte(buf, '\n') >= 0 {
			return true
		}
		return quiet >= timing.InactivityWindow && hasMinFields(spec, buf)
	case StatusThenOK:
		return bytes.Count(buf, []byte{'\r'}) >= 2
	default:
		return false
	}
}

// hasMinFields reports whether buf already holds the command's echoed prefix
// and required field count, the fallback completion signal for the line
// replies the firmware fails to terminate.
func hasMinFields(spec Spec, buf []byte) bool {
	line := strings.Trim(string(buf), "\r\n")
	if line == "" {
		return false
	}
	fields := strings.Split(line, ",")
	if spec.Prefix != "" && fields[0] != spec.Prefix {
		return false
	}
	return len(fields) >= spec.MinFields
}

func isHexDigit(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'f':
		return true
	case b >= 'A' && b <= 'F':
		return true
	}
	return false
}
