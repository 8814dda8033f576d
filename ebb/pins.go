package ebb

import (
	"strconv"
	"strings"

	"github.com/danmuck/ebbctl/protocol"
)

// ConfigurePinDirections writes the TRIS direction registers for ports A-E
// (C). Each value is a byte bitmask; a set bit makes the pin an input.
func (c *Client) ConfigurePinDirections(tris [5]int) error {
	args := make([]string, len(tris))
	for i, v := range tris {
		if err := validByte("ConfigurePinDirections", "tris"+string(rune('A'+i)), v); err != nil {
			return err
		}
		args[i] = itoa(v)
	}
	return c.exec("C", args...)
}

// SetPinMode configures one pin as input or output (PD).
func (c *Client) SetPinMode(port byte, pin int, output bool) error {
	if err := validPort("SetPinMode", port); err != nil {
		return err
	}
	if err := validPin("SetPinMode", pin); err != nil {
		return err
	}
	// TRIS semantics: 0 = output, 1 = input.
	dir := 1
	if output {
		dir = 0
	}
	return c.exec("PD", string(port), itoa(pin), itoa(dir))
}

// PinInput reads one digital pin (PI).
func (c *Client) PinInput(port byte, pin int) (bool, error) {
	if err := validPort("PinInput", port); err != nil {
		return false, err
	}
	if err := validPin("PinInput", pin); err != nil {
		return false, err
	}
	raw, err := c.roundTrip("PI", string(port), itoa(pin))
	if err != nil {
		return false, err
	}
	fields, err := protocol.Fields(protocol.Lookup("PI"), raw)
	if err != nil {
		return false, err
	}
	return fields[1] == "1", nil
}

// SetPinOutput drives one digital pin (PO). The pin must already be an
// output; PO does not change direction.
func (c *Client) SetPinOutput(port byte, pin int, high bool) error {
	if err := validPort("SetPinOutput", port); err != nil {
		return err
	}
	if err := validPin("SetPinOutput", pin); err != nil {
		return err
	}
	return c.exec("PO", string(port), itoa(pin), boolArg(high))
}

// SetDigitalOutputs writes the LAT output registers for ports A-E (O).
func (c *Client) SetDigitalOutputs(outputs [5]int) error {
	args := make([]string, len(outputs))
	for i, v := range outputs {
		if err := validByte("SetDigitalOutputs", "port"+string(rune('A'+i)), v); err != nil {
			return err
		}
		args[i] = itoa(v)
	}
	return c.exec("O", args...)
}

// DigitalInputs reads the five port registers A-E (I).
func (c *Client) DigitalInputs() ([5]int, error) {
	var out [5]int
	raw, err := c.roundTrip("I")
	if err != nil {
		return out, err
	}
	spec := protocol.Lookup("I")
	fields, err := protocol.Fields(spec, raw)
	if err != nil {
		return out, err
	}
	for i := 0; i < 5; i++ {
		v, err := protocol.Int(spec, raw, fields[i+1])
		if err != nil {
			return [5]int{}, err
		}
		out[i] = v
	}
	return out, nil
}

// AnalogValues reads every enabled analog channel (A) as a map from channel
// number to raw count (0-1023). Channels are reported as "ch:value" pairs;
// a board with no channels enabled yields an empty map.
func (c *Client) AnalogValues() (map[int]int, error) {
	raw, err := c.roundTrip("A")
	if err != nil {
		return nil, err
	}
	spec := protocol.Lookup("A")
	fields, err := protocol.Fields(spec, raw)
	if err != nil {
		return nil, err
	}
	values := make(map[int]int, len(fields)-1)
	for _, pair := range fields[1:] {
		ch, val, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, protocol.DecodeError{Mnemonic: "A", Raw: raw, Reason: "field " + strconv.Quote(pair) + " not ch:value"}
		}
		channel, err := protocol.Int(spec, raw, ch)
		if err != nil {
			return nil, err
		}
		count, err := protocol.Int(spec, raw, val)
		if err != nil {
			return nil, err
		}
		values[channel] = count
	}
	return values, nil
}

// ConfigureAnalogInput enables or disables one ADC channel (AC).
func (c *Client) ConfigureAnalogInput(channel int, enable bool) error {
	if err := inRange("ConfigureAnalogInput", "channel", channel, 0, 15); err != nil {
		return err
	}
	return c.exec("AC", itoa(channel), boolArg(enable))
}

// TimedRead streams pin readings for a duration (T), digital or analog.
// The readings themselves arrive asynchronously and are not collected here.
func (c *Client) TimedRead(durationMs int, digital bool) error {
	if err := inRange("TimedRead", "duration", durationMs, 1, 65535); err != nil {
		return err
	}
	mode := 1 // analog
	if digital {
		mode = 0
	}
	return c.exec("T", itoa(durationMs), itoa(mode))
}

// ConfigurePulse sets the pulse generator's per-pin durations and periods
// (PC), eight values for the four RB0-RB3 outputs.
func (c *Client) ConfigurePulse(params [8]int) error {
	args := make([]string, len(params))
	for i, v := range params {
		if err := inRange("ConfigurePulse", "param"+itoa(i), v, 0, 65535); err != nil {
			return err
		}
		args[i] = itoa(v)
	}
	return c.exec("PC", args...)
}

// PulseGenerator starts or stops pulse generation (PG) as configured by
// ConfigurePulse.
func (c *Client) PulseGenerator(enable bool) error {
	return c.exec("PG", boolArg(enable))
}

// SetEngraver switches the engraver output (SE) with a PWM power level.
func (c *Client) SetEngraver(on bool, power int) error {
	if err := inRange("SetEngraver", "power", power, 0, 1023); err != nil {
		return err
	}
	return c.exec("SE", boolArg(on), itoa(power))
}
