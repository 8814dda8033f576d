package ebb

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned for operations on a closed or never-opened
	// connection. The client never reopens implicitly.
	ErrClosed = errors.New("ebb: connection closed")

	// ErrBusy is returned when a round trip is issued while another is
	// still in flight on the same connection.
	ErrBusy = errors.New("ebb: round trip already in flight")
)

// ValidationError reports an argument outside the protocol's documented
// range. It is raised before any bytes reach the wire.
type ValidationError struct {
	Op     string
	Arg    string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ebb: %s: %s: %s", e.Op, e.Arg, e.Reason)
}
