package ebb

import (
	"github.com/danmuck/ebbctl/protocol"
)

// DefaultNickname substitutes for an unset board nickname.
const DefaultNickname = "EBB"

// ReadMemory reads one byte of the firmware's RAM space (MR).
func (c *Client) ReadMemory(address int) (byte, error) {
	if err := inRange("ReadMemory", "address", address, 0, 4095); err != nil {
		return 0, err
	}
	raw, err := c.roundTrip("MR", itoa(address))
	if err != nil {
		return 0, err
	}
	spec := protocol.Lookup("MR")
	fields, err := protocol.Fields(spec, raw)
	if err != nil {
		return 0, err
	}
	v, err := protocol.Int(spec, raw, fields[1])
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 255 {
		return 0, protocol.DecodeError{Mnemonic: "MR", Raw: raw, Reason: "value not a byte"}
	}
	return byte(v), nil
}

// WriteMemory writes one byte of the firmware's RAM space (MW).
func (c *Client) WriteMemory(address, value int) error {
	if err := inRange("WriteMemory", "address", address, 0, 4095); err != nil {
		return err
	}
	if err := validByte("WriteMemory", "value", value); err != nil {
		return err
	}
	return c.exec("MW", itoa(address), itoa(value))
}

// IncrementNodeCount bumps the node counter (NI).
func (c *Client) IncrementNodeCount() error {
	return c.exec("NI")
}

// DecrementNodeCount lowers the node counter (ND).
func (c *Client) DecrementNodeCount() error {
	return c.exec("ND")
}

// SetNodeCount overwrites the node counter (SN).
func (c *Client) SetNodeCount(value uint32) error {
	return c.exec("SN", itoa(int(value)))
}

// NodeCount reads the node counter (QN).
func (c *Client) NodeCount() (uint32, error) {
	raw, err := c.roundTrip("QN")
	if err != nil {
		return 0, err
	}
	fields, err := c.statusInts(protocol.Lookup("QN"), raw)
	if err != nil {
		return 0, err
	}
	return uint32(fields[0]), nil
}

// SetLayer stores the layer variable (SL), a scratch byte for plot software.
func (c *Client) SetLayer(value int) error {
	if err := inRange("SetLayer", "layer", value, 0, 127); err != nil {
		return err
	}
	return c.exec("SL", itoa(value))
}

// Layer reads the layer variable (QL).
func (c *Client) Layer() (int, error) {
	raw, err := c.roundTrip("QL")
	if err != nil {
		return 0, err
	}
	fields, err := c.statusInts(protocol.Lookup("QL"), raw)
	if err != nil {
		return 0, err
	}
	return fields[0], nil
}

// SetNickname stores a name for the board (ST).
func (c *Client) SetNickname(name string) error {
	if len(name) > 16 {
		return ValidationError{Op: "SetNickname", Arg: "name", Reason: "longer than 16 characters"}
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7e || name[i] == ',' {
			return ValidationError{Op: "SetNickname", Arg: "name", Reason: "must be printable ASCII without commas"}
		}
	}
	return c.exec("ST", name)
}

// Nickname reads the board's stored name (QT), substituting DefaultNickname
// when none is set.
func (c *Client) Nickname() (string, error) {
	raw, err := c.roundTrip("QT")
	if err != nil {
		return "", err
	}
	return protocol.Text(protocol.Lookup("QT"), raw, DefaultNickname)
}

// Version reads the firmware version string (V). The reply carries no
// terminator; the inactivity window ends it.
func (c *Client) Version() (string, error) {
	raw, err := c.roundTrip("V")
	if err != nil {
		return "", err
	}
	return protocol.Bare(protocol.Lookup("V"), raw)
}

// GeneralStatus reads the QG status byte as named flags.
func (c *Client) GeneralStatus() (GeneralStatus, error) {
	raw, err := c.roundTrip("QG")
	if err != nil {
		return GeneralStatus{}, err
	}
	return protocol.HexStatus(protocol.Lookup("QG"), raw)
}

// Current-reading scale factors. The RA0 divider is fixed; the V+ divider
// changed between board revisions.
const (
	adcReference    = 3.3
	adcRange        = 1023.0
	currentDivider  = 1.76
	voltageScale    = 1.0 / 9.2
	voltageScaleOld = 1.0 / 11.0
	voltageOffset   = 0.3
)

// CurrentInfo reads the motor current setpoint and input voltage (QC),
// converting the two raw ADC counts to physical units. Options.OldBoard
// selects the pre-2.3 voltage divider.
func (c *Client) CurrentInfo() (CurrentInfo, error) {
	raw, err := c.roundTrip("QC")
	if err != nil {
		return CurrentInfo{}, err
	}
	fields, err := c.statusInts(protocol.Lookup("QC"), raw)
	if err != nil {
		return CurrentInfo{}, err
	}
	ra0 := adcReference * float64(fields[0]) / adcRange
	vplus := adcReference * float64(fields[1]) / adcRange
	scale := voltageScale
	if c.oldBoard {
		scale = voltageScaleOld
	}
	return CurrentInfo{
		MaxCurrent:   ra0 / currentDivider,
		PowerVoltage: vplus/scale + voltageOffset,
	}, nil
}

// SetUserOptions writes the three CU configuration flags in sequence: OK
// replies after commands, parameter limit checking, and the FIFO-empty LED.
// Each flag is its own round trip with no atomicity across them; an error
// partway leaves the board partially configured.
func (c *Client) SetUserOptions(okResponses, paramCheck, fifoLED bool) error {
	for _, opt := range [...]struct {
		index int
		value bool
	}{
		{1, okResponses},
		{2, paramCheck},
		{3, fifoLED},
	} {
		if err := c.exec("CU", itoa(opt.index), boolArg(opt.value)); err != nil {
			return err
		}
	}
	return nil
}

// Reset restores the firmware's power-on defaults (R) without rebooting.
func (c *Client) Reset() error {
	return c.exec("R")
}

// Reboot restarts the board (RB). The board drops off the bus, so no reply
// is awaited and the connection is closed.
func (c *Client) Reboot() error {
	return c.sendOnly("RB")
}

// EnterBootloader drops the board into its bootloader (BL) for firmware
// updates. The board re-enumerates, so the connection is closed.
func (c *Client) EnterBootloader() error {
	return c.sendOnly("BL")
}
