package protocol

import "strings"

// ReplyClass selects the framing strategy for a command's reply. Every
// mnemonic is statically bound to exactly one class; the firmware never
// mixes shapes for the same command.
type ReplyClass int

const (
	// Acknowledged replies terminate with the literal marker "OK" anywhere
	// in the stream. Some firmware revisions glue a status digit directly
	// to the marker ("0OK"), so the scan is a substring match, not anchored.
	Acknowledged ReplyClass = iota

	// BareValue replies carry no marker or terminator at all; an inactivity
	// window after the first byte is the only completion signal.
	BareValue

	// HexStatusByte replies are a single ASCII hex byte, CR/LF stripped as
	// encountered, with the inactivity window as a fallback.
	HexStatusByte

	// MultiFieldLine replies are comma-separated fields terminated by a
	// line break, which the firmware does not reliably emit; a recognized
	// prefix plus minimum field count plus quiet period also completes.
	MultiFieldLine

	// StatusThenOK replies are two logical lines: a data line, then a line
	// expected to read exactly "OK".
	StatusThenOK
)

func (c ReplyClass) String() string {
	switch c {
	case Acknowledged:
		return "acknowledged"
	case BareValue:
		return "bare-value"
	case HexStatusByte:
		return "hex-status-byte"
	case MultiFieldLine:
		return "multi-field-line"
	case StatusThenOK:
		return "status-then-ok"
	default:
		return "unknown"
	}
}

// Spec binds a mnemonic to its reply framing. Prefix and MinFields only
// apply to the field-structured classes.
type Spec struct {
	Mnemonic  string
	Class     ReplyClass
	Prefix    string
	MinFields int
}

// specs fixes the reply shape per mnemonic, straight from the firmware
// command documentation. Adding a command is a data entry here, never a new
// conditional branch in the framing or decode paths.
var specs = map[string]Spec{
	"V":  {Mnemonic: "V", Class: BareValue},
	"QG": {Mnemonic: "QG", Class: HexStatusByte},

	"A":  {Mnemonic: "A", Class: MultiFieldLine, Prefix: "A", MinFields: 1},
	"I":  {Mnemonic: "I", Class: MultiFieldLine, Prefix: "I", MinFields: 6},
	"MR": {Mnemonic: "MR", Class: MultiFieldLine, Prefix: "MR", MinFields: 2},
	"PI": {Mnemonic: "PI", Class: MultiFieldLine, Prefix: "PI", MinFields: 2},
	"QM": {Mnemonic: "QM", Class: MultiFieldLine, Prefix: "QM", MinFields: 5},

	"QP": {Mnemonic: "QP", Class: Acknowledged},
	"QB": {Mnemonic: "QB", Class: Acknowledged},

	"ES": {Mnemonic: "ES", Class: StatusThenOK, MinFields: 5},
	"QC": {Mnemonic: "QC", Class: StatusThenOK, MinFields: 2},
	"QE": {Mnemonic: "QE", Class: StatusThenOK, MinFields: 2},
	"QL": {Mnemonic: "QL", Class: StatusThenOK, MinFields: 1},
	"QN": {Mnemonic: "QN", Class: StatusThenOK, MinFields: 1},
	"QR": {Mnemonic: "QR", Class: StatusThenOK, MinFields: 1},
	"QS": {Mnemonic: "QS", Class: StatusThenOK, MinFields: 2},
	"QT": {Mnemonic: "QT", Class: StatusThenOK},
}

// Lookup returns the Spec for a mnemonic. Mnemonics without a table entry
// reply with a bare OK line (Acknowledged).
func Lookup(mnemonic string) Spec {
	if s, ok := specs[mnemonic]; ok {
		return s
	}
	return Spec{Mnemonic: mnemonic, Class: Acknowledged}
}

// Format renders the wire form of a command: mnemonic, comma-joined
// arguments, carriage return.
func Format(mnemonic string, args ...string) []byte {
	if len(args) == 0 {
		return []byte(mnemonic + "\r")
	}
	return []byte(mnemonic + "," + strings.Join(args, ",") + "\r")
}
