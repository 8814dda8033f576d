package protocol

import (
	"fmt"
	"time"
)

// TimeoutError reports a reply deadline expiring mid round trip. Partial
// holds whatever bytes had accumulated when the deadline passed.
type TimeoutError struct {
	Mnemonic string
	Partial  []byte
	Elapsed  time.Duration
}

func (e TimeoutError) Error() string {
	if len(e.Partial) == 0 {
		return fmt.Sprintf("protocol: %s timed out after %v with no reply", e.Mnemonic, e.Elapsed)
	}
	return fmt.Sprintf("protocol: %s timed out after %v with partial reply %q", e.Mnemonic, e.Elapsed, e.Partial)
}

// ProtocolError reports a reply that arrived but does not match the expected
// marker or shape.
type ProtocolError struct {
	Mnemonic string
	Raw      []byte
	Reason   string
}

func (e ProtocolError) Error() string {
	return fmt.Sprintf("protocol: %s: %s (reply %q)", e.Mnemonic, e.Reason, e.Raw)
}

// DecodeError reports a reply that framed correctly but failed to parse.
type DecodeError struct {
	Mnemonic string
	Raw      []byte
	Reason   string
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("protocol: %s: %s (reply %q)", e.Mnemonic, e.Reason, e.Raw)
}
