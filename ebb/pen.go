package ebb

import (
	"errors"

	"github.com/danmuck/ebbctl/protocol"
)

// Pen state values on the wire: the firmware counts 0 as down.
const (
	penDownValue = 0
	penUpValue   = 1
)

// SetPenState raises or lowers the pen (SP). durationMs delays the next
// command by that many milliseconds; portBPin redirects the output to a
// PortB pin (0-7). Pass a negative value to omit either optional argument.
func (c *Client) SetPenState(down bool, durationMs, portBPin int) error {
	state := penUpValue
	if down {
		state = penDownValue
	}
	args := []string{itoa(state)}
	if durationMs >= 0 {
		if err := inRange("SetPenState", "duration", durationMs, 0, 65535); err != nil {
			return err
		}
		args = append(args, itoa(durationMs))
	}
	if portBPin >= 0 {
		if durationMs < 0 {
			return ValidationError{Op: "SetPenState", Arg: "duration", Reason: "required when a pin is given"}
		}
		if err := validPin("SetPenState", portBPin); err != nil {
			return err
		}
		args = append(args, itoa(portBPin))
	}
	return c.exec("SP", args...)
}

// TogglePen flips the pen state (TP). A non-negative durationMs overrides
// the configured delay.
func (c *Client) TogglePen(durationMs int) error {
	if durationMs >= 0 {
		if err := inRange("TogglePen", "duration", durationMs, 1, 65535); err != nil {
			return err
		}
		return c.exec("TP", itoa(durationMs))
	}
	return c.exec("TP")
}

// PenDown queries the pen state (QP). True means the pen is down.
func (c *Client) PenDown() (bool, error) {
	raw, err := c.roundTrip("QP")
	if err != nil {
		return false, err
	}
	return protocol.LeadingDigitBool(protocol.Lookup("QP"), raw, '0')
}

// PenDownOrDefault is PenDown with an explicit, documented substitution:
// a malformed reply (decode or protocol fault) reads as pen up, so a
// transient glitch cannot abort a plot mid-stroke. Timeouts still surface;
// a dead board must not be mistaken for a raised pen.
func (c *Client) PenDownOrDefault() (bool, error) {
	down, err := c.PenDown()
	if isReplyFault(err) {
		c.log.Debug().Err(err).Msg("QP reply fault, assuming pen up")
		return false, nil
	}
	return down, err
}

// ButtonPressed reports whether the PRG button was pushed since the last
// query (QB). The firmware clears the latch on read.
func (c *Client) ButtonPressed() (bool, error) {
	raw, err := c.roundTrip("QB")
	if err != nil {
		return false, err
	}
	return protocol.LeadingDigitBool(protocol.Lookup("QB"), raw, '1')
}

// ButtonPressedOrDefault is ButtonPressed with an explicit substitution:
// a malformed reply reads as not-pressed. Timeouts still surface.
func (c *Client) ButtonPressedOrDefault() (bool, error) {
	pressed, err := c.ButtonPressed()
	if isReplyFault(err) {
		c.log.Debug().Err(err).Msg("QB reply fault, assuming button not pressed")
		return false, nil
	}
	return pressed, err
}

// ConfigureServo sets one stepper/servo mode parameter (SC), e.g. pen-up and
// pen-down servo positions or rates.
func (c *Client) ConfigureServo(param, value int) error {
	if err := validByte("ConfigureServo", "param", param); err != nil {
		return err
	}
	if err := inRange("ConfigureServo", "value", value, 0, 65535); err != nil {
		return err
	}
	return c.exec("SC", itoa(param), itoa(value))
}

// ServoOutput drives an RC servo pulse on a pin (S2). rate and delayMs may
// be zero to keep the firmware defaults.
func (c *Client) ServoOutput(position, pin, rate, delayMs int) error {
	if err := inRange("ServoOutput", "position", position, 0, 65535); err != nil {
		return err
	}
	if err := inRange("ServoOutput", "pin", pin, 0, 24); err != nil {
		return err
	}
	if err := inRange("ServoOutput", "rate", rate, 0, 65535); err != nil {
		return err
	}
	if err := inRange("ServoOutput", "delay", delayMs, 0, 65535); err != nil {
		return err
	}
	return c.exec("S2", itoa(position), itoa(pin), itoa(rate), itoa(delayMs))
}

// ServoPowered queries whether the pen servo is energized (QR).
func (c *Client) ServoPowered() (bool, error) {
	raw, err := c.roundTrip("QR")
	if err != nil {
		return false, err
	}
	spec := protocol.Lookup("QR")
	fields, err := protocol.StatusLine(spec, raw)
	if err != nil {
		return false, err
	}
	v, err := protocol.Int(spec, raw, fields[0])
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// SetServoPowerTimeout sets how long the pen servo stays energized after a
// move (SR) and the immediate power state.
func (c *Client) SetServoPowerTimeout(timeoutMs int, powerOn bool) error {
	if err := inRange("SetServoPowerTimeout", "timeout", timeoutMs, 0, max24Bit); err != nil {
		return err
	}
	return c.exec("SR", itoa(timeoutMs), boolArg(powerOn))
}

// isReplyFault reports whether err is a data-shape fault (decode/protocol)
// as opposed to a timeout, validation, or transport error.
func isReplyFault(err error) bool {
	var decodeErr protocol.DecodeError
	var protoErr protocol.ProtocolError
	return errors.As(err, &decodeErr) || errors.As(err, &protoErr)
}
