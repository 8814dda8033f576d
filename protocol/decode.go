package protocol

import (
	"bytes"
	"strconv"
	"strings"
)

// Decoders are pure functions from a raw accumulation (as produced by
// ReadReply for the matching class) to a typed value. They either fully
// succeed or fail; no partial results.

// Ack verifies the OK marker and returns whatever data preceded it with
// line-ending characters removed.
func Ack(spec Spec, raw []byte) (string, error) {
	i := bytes.Index(raw, okMarker)
	if i < 0 {
		return "", ProtocolError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "missing OK marker"}
	}
	return strings.Trim(string(raw[:i]), "\r\n"), nil
}

// LeadingDigitBool decodes the boolean status replies (QP, QB). The result
// anchors on the first payload byte ahead of the marker; the firmware glues
// the digit straight onto "OK" on some revisions, so searching the buffer
// for a '1' would misread digits embedded elsewhere.
func LeadingDigitBool(spec Spec, raw []byte, trueDigit byte) (bool, error) {
	payload, err := Ack(spec, raw)
	if err != nil {
		return false, err
	}
	if payload == "" {
		return false, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "missing status digit"}
	}
	switch payload[0] {
	case '0', '1':
		return payload[0] == trueDigit, nil
	default:
		return false, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "status digit not 0 or 1"}
	}
}

// StatusFlags is the decoded QG status byte. FIFOEmpty inverts bit 0: the
// firmware reports FIFO-occupied, callers want FIFO-empty.
type StatusFlags struct {
	PinRB5           bool
	PinRB2           bool
	ButtonPressed    bool
	PenDown          bool
	CommandExecuting bool
	Motor1Moving     bool
	Motor2Moving     bool
	FIFOEmpty        bool
}

// HexStatus decodes the single ASCII hex status byte (QG). Total over
// 0x00-0xFF; extra characters past the first two are ignored, matching the
// defensive framing.
func HexStatus(spec Spec, raw []byte) (StatusFlags, error) {
	s := strings.Trim(string(raw), "\r\n")
	if s == "" {
		return StatusFlags{}, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "empty status byte"}
	}
	if len(s) > 2 {
		s = s[:2]
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return StatusFlags{}, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "status byte not hex"}
	}
	b := byte(v)
	bit := func(n uint) bool { return b&(1<<n) != 0 }
	return StatusFlags{
		PinRB5:           bit(7),
		PinRB2:           bit(6),
		ButtonPressed:    bit(5),
		PenDown:          bit(4),
		CommandExecuting: bit(3),
		Motor1Moving:     bit(2),
		Motor2Moving:     bit(1),
		FIFOEmpty:        !bit(0),
	}, nil
}

// Fields decodes a MultiFieldLine reply: the first line of the accumulation,
// split on commas, with the echoed prefix checked and the minimum field
// count enforced. The prefix field is included in the result.
func Fields(spec Spec, raw []byte) ([]string, error) {
	line := string(raw)
	line = strings.TrimLeft(line, "\r\n")
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSuffix(line, "OK")
	if line == "" {
		return nil, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "incomplete response"}
	}
	fields := strings.Split(line, ",")
	if spec.Prefix != "" && fields[0] != spec.Prefix {
		return nil, ProtocolError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "expected " + spec.Prefix + " prefix"}
	}
	if len(fields) < spec.MinFields {
		return nil, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "incomplete response"}
	}
	return fields, nil
}

// StatusLine decodes a StatusThenOK reply: comma-separated fields from the
// data line, after verifying the second logical line reads exactly "OK".
// An OK mismatch is a protocol fault, not a decode fault.
func StatusLine(spec Spec, raw []byte) ([]string, error) {
	lines := splitLines(raw)
	if len(lines) < 2 {
		return nil, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "incomplete response"}
	}
	if lines[len(lines)-1] != "OK" {
		return nil, ProtocolError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "expected OK line"}
	}
	fields := strings.Split(lines[0], ",")
	if len(fields) < spec.MinFields {
		return nil, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "incomplete response"}
	}
	return fields, nil
}

// Text decodes a string-valued StatusThenOK reply (QT). Only line-ending
// characters are stripped; interior whitespace is data. When the cleaned
// value is empty, fallback substitutes.
func Text(spec Spec, raw []byte, fallback string) (string, error) {
	s := string(raw)
	i := strings.LastIndex(s, "OK")
	if i < 0 || strings.Trim(s[i+len("OK"):], "\r\n") != "" {
		return "", ProtocolError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "expected OK line"}
	}
	data := strings.Trim(s[:i], "\r\n")
	if data == "" {
		return fallback, nil
	}
	return data, nil
}

// Bare decodes an unterminated reply (V): the accumulation verbatim, with
// only line-ending characters stripped.
func Bare(spec Spec, raw []byte) (string, error) {
	s := strings.Trim(string(raw), "\r\n")
	if s == "" {
		return "", DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "empty reply"}
	}
	return s, nil
}

// Int parses one positional field as a decimal integer.
func Int(spec Spec, raw []byte, field string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, DecodeError{Mnemonic: spec.Mnemonic, Raw: raw, Reason: "field " + strconv.Quote(field) + " not numeric"}
	}
	return v, nil
}

func splitLines(raw []byte) []string {
	return strings.FieldsFunc(string(raw), func(r rune) bool { return r == '\r' || r == '\n' })
}
