package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestAckTrimsLineEndings(t *testing.T) {
	payload, err := Ack(Lookup("SP"), []byte("\r\nOK\r\n"))
	if err != nil {
		t.Fatalf("ack: %v", err)
	}
	if payload != "" {
		t.Fatalf("expected empty payload, got %q", payload)
	}
}

func TestAckMissingMarker(t *testing.T) {
	_, err := Ack(Lookup("SP"), []byte("!8 Err: whoops\r\n"))
	var perr ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if perr.Mnemonic != "SP" {
		t.Fatalf("expected mnemonic carried, got %q", perr.Mnemonic)
	}
}

func TestLeadingDigitBool(t *testing.T) {
	cases := []struct {
		raw       string
		trueDigit byte
		want      bool
	}{
		{"0OK", '0', true},   // pen down, glued form
		{"1OK", '0', false},  // pen up, glued form
		{"0\r\nOK\r\n", '0', true},
		{"1\r\nOK\r\n", '1', true},
		{"0\r\nOK\r\n", '1', false},
	}
	for _, tc := range cases {
		got, err := LeadingDigitBool(Lookup("QP"), []byte(tc.raw), tc.trueDigit)
		if err != nil {
			t.Fatalf("%q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q trueDigit=%c: got %v want %v", tc.raw, tc.trueDigit, got, tc.want)
		}
	}
}

func TestLeadingDigitBoolRejectsNonDigit(t *testing.T) {
	_, err := LeadingDigitBool(Lookup("QB"), []byte("xOK"), '1')
	var derr DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	_, err = LeadingDigitBool(Lookup("QB"), []byte("OK"), '1')
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError for missing digit, got %v", err)
	}
}

func TestHexStatusTotal(t *testing.T) {
	// Every byte value decodes, and decodes the same way twice.
	for v := 0; v <= 0xFF; v++ {
		raw := []byte(fmt.Sprintf("%02X", v))
		first, err := HexStatus(Lookup("QG"), raw)
		if err != nil {
			t.Fatalf("%02X: %v", v, err)
		}
		second, err := HexStatus(Lookup("QG"), raw)
		if err != nil {
			t.Fatalf("%02X second pass: %v", v, err)
		}
		if first != second {
			t.Fatalf("%02X: nondeterministic decode", v)
		}
	}
}

func TestHexStatusBits(t *testing.T) {
	flags, err := HexStatus(Lookup("QG"), []byte("9F\r\n"))
	if err != nil {
		t.Fatalf("hex status: %v", err)
	}
	// 0x9F = 1001 1111
	if !flags.PinRB5 || flags.PinRB2 {
		t.Fatalf("pin bits wrong: %+v", flags)
	}
	if flags.ButtonPressed || !flags.PenDown {
		t.Fatalf("button/pen bits wrong: %+v", flags)
	}
	if !flags.CommandExecuting || !flags.Motor1Moving || !flags.Motor2Moving {
		t.Fatalf("motion bits wrong: %+v", flags)
	}
	if flags.FIFOEmpty {
		t.Fatalf("bit 0 set means FIFO occupied: %+v", flags)
	}

	empty, err := HexStatus(Lookup("QG"), []byte("00"))
	if err != nil {
		t.Fatalf("hex status: %v", err)
	}
	if !empty.FIFOEmpty {
		t.Fatalf("bit 0 clear means FIFO empty: %+v", empty)
	}
}

func TestHexStatusRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "\r\n", "ZZ"} {
		_, err := HexStatus(Lookup("QG"), []byte(raw))
		var derr DecodeError
		if !errors.As(err, &derr) {
			t.Fatalf("%q: expected DecodeError, got %v", raw, err)
		}
	}
}

func TestFieldsMinimumCount(t *testing.T) {
	spec := Lookup("QM")
	if _, err := Fields(spec, []byte("QM,1,1,0,0\r\n")); err != nil {
		t.Fatalf("five fields should decode: %v", err)
	}
	_, err := Fields(spec, []byte("QM,1,1,0\r\n"))
	var derr DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("four fields should be a DecodeError, got %v", err)
	}
}

func TestFieldsPrefixMismatch(t *testing.T) {
	_, err := Fields(Lookup("QM"), []byte("PI,1,1,0,0\r\n"))
	var perr ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
}

func TestFieldsIncludesPrefix(t *testing.T) {
	fields, err := Fields(Lookup("PI"), []byte("PI,1\r\n"))
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if len(fields) != 2 || fields[0] != "PI" || fields[1] != "1" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestStatusLineRejectsMissingOK(t *testing.T) {
	_, err := StatusLine(Lookup("QL"), []byte("4\r\nNO\r\n"))
	var perr ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
}

func TestStatusLineFields(t *testing.T) {
	fields, err := StatusLine(Lookup("QS"), []byte("1024,-512\r\nOK\r\n"))
	if err != nil {
		t.Fatalf("status line: %v", err)
	}
	if len(fields) != 2 || fields[0] != "1024" || fields[1] != "-512" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestTextFallbackAndWhitespace(t *testing.T) {
	spec := Lookup("QT")
	got, err := Text(spec, []byte("\r\nOK\r\n"), "EBB")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "EBB" {
		t.Fatalf("expected fallback, got %q", got)
	}

	got, err = Text(spec, []byte("my plotter \r\nOK\r\n"), "EBB")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got != "my plotter " {
		t.Fatalf("interior and trailing spaces are data, got %q", got)
	}
}

func TestBareStripsOnlyLineEndings(t *testing.T) {
	got, err := Bare(Lookup("V"), []byte("EBBv13_and_above EB Firmware Version 2.5.3\r\n"))
	if err != nil {
		t.Fatalf("bare: %v", err)
	}
	if got != "EBBv13_and_above EB Firmware Version 2.5.3" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestIntRejectsNonNumeric(t *testing.T) {
	spec := Lookup("QL")
	if v, err := Int(spec, []byte("4"), " 4"); err != nil || v != 4 {
		t.Fatalf("expected 4, got %d, %v", v, err)
	}
	_, err := Int(spec, []byte("x"), "x")
	var derr DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
