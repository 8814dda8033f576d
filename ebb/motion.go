package ebb

import (
	"strconv"

	"github.com/danmuck/ebbctl/protocol"
)

const (
	maxStepFrequency = 25000
	max24Bit         = 1<<24 - 1
)

// EnableMotors sets the microstep mode per motor (EM). MotorDisable
// de-energizes a motor. The commanded modes are cached for LastMotorModes.
func (c *Client) EnableMotors(m1, m2 MotorMode) error {
	if err := inRange("EnableMotors", "motor1 mode", int(m1), int(MotorDisable), int(MotorStepDiv1)); err != nil {
		return err
	}
	if err := inRange("EnableMotors", "motor2 mode", int(m2), int(MotorDisable), int(MotorStepDiv1)); err != nil {
		return err
	}
	if err := c.exec("EM", itoa(int(m1)), itoa(int(m2))); err != nil {
		return err
	}
	c.motorModes = [2]MotorMode{m1, m2}
	c.motorModesSet = true
	return nil
}

// Move queues a relative stepper move (SM) lasting durationMs.
func (c *Client) Move(durationMs, steps1, steps2 int) error {
	if err := inRange("Move", "duration", durationMs, 1, max24Bit); err != nil {
		return err
	}
	if err := inRange("Move", "steps1", steps1, -max24Bit, max24Bit); err != nil {
		return err
	}
	if err := inRange("Move", "steps2", steps2, -max24Bit, max24Bit); err != nil {
		return err
	}
	return c.exec("SM", itoa(durationMs), itoa(steps1), itoa(steps2))
}

// MoveAbsolute moves to an absolute position relative to home (HM).
func (c *Client) MoveAbsolute(stepFrequency, pos1, pos2 int) error {
	if err := inRange("MoveAbsolute", "step frequency", stepFrequency, 2, maxStepFrequency); err != nil {
		return err
	}
	return c.exec("HM", itoa(stepFrequency), itoa(pos1), itoa(pos2))
}

// MoveMixedAxis queues a mixed-axis geometry move (XM) where the two motors
// drive A=M1+M2 and B=M1-M2.
func (c *Client) MoveMixedAxis(durationMs, stepsA, stepsB int) error {
	if err := inRange("MoveMixedAxis", "duration", durationMs, 1, max24Bit); err != nil {
		return err
	}
	if err := inRange("MoveMixedAxis", "stepsA", stepsA, -max24Bit, max24Bit); err != nil {
		return err
	}
	if err := inRange("MoveMixedAxis", "stepsB", stepsB, -max24Bit, max24Bit); err != nil {
		return err
	}
	return c.exec("XM", itoa(durationMs), itoa(stepsA), itoa(stepsB))
}

// MoveLowLevel queues a step-limited low-level move (LM). The clear flags
// zero each motor's accumulator before the move starts.
func (c *Client) MoveLowLevel(rate1, steps1, accel1 int64, clear1 bool, rate2, steps2, accel2 int64, clear2 bool) error {
	for _, a := range [...]struct {
		name string
		v    int64
	}{
		{"rate1", rate1}, {"steps1", steps1}, {"accel1", accel1},
		{"rate2", rate2}, {"steps2", steps2}, {"accel2", accel2},
	} {
		if err := inRange64("MoveLowLevel", a.name, a.v, -2147483647, 2147483647); err != nil {
			return err
		}
	}
	return c.exec("LM",
		itoa64(rate1), itoa64(steps1), itoa64(accel1),
		itoa64(rate2), itoa64(steps2), itoa64(accel2),
		itoa(clearMask(clear1, clear2)))
}

// MoveTimed queues a time-limited low-level move (LT) lasting the given
// number of 40 us intervals.
func (c *Client) MoveTimed(intervals, rate1, accel1 int64, clear1 bool, rate2, accel2 int64, clear2 bool) error {
	if err := inRange64("MoveTimed", "intervals", intervals, 1, 2147483647); err != nil {
		return err
	}
	for _, a := range [...]struct {
		name string
		v    int64
	}{
		{"rate1", rate1}, {"accel1", accel1},
		{"rate2", rate2}, {"accel2", accel2},
	} {
		if err := inRange64("MoveTimed", a.name, a.v, -2147483647, 2147483647); err != nil {
			return err
		}
	}
	return c.exec("LT",
		itoa64(intervals),
		itoa64(rate1), itoa64(accel1),
		itoa64(rate2), itoa64(accel2),
		itoa(clearMask(clear1, clear2)))
}

// EmergencyStop aborts any motion in progress (ES) and reports what was
// discarded. disableMotors additionally de-energizes both motors.
func (c *Client) EmergencyStop(disableMotors bool) (StopInfo, error) {
	var raw []byte
	var err error
	if disableMotors {
		raw, err = c.roundTrip("ES", "1")
	} else {
		raw, err = c.roundTrip("ES")
	}
	if err != nil {
		return StopInfo{}, err
	}
	spec := protocol.Lookup("ES")
	fields, err := c.statusInts(spec, raw)
	if err != nil {
		return StopInfo{}, err
	}
	return StopInfo{
		Interrupted:    fields[0] == 1,
		FIFOSteps:      [2]int{fields[1], fields[2]},
		RemainingSteps: [2]int{fields[3], fields[4]},
	}, nil
}

// ClearStepPosition zeroes both step position counters (CS).
func (c *Client) ClearStepPosition() error {
	return c.exec("CS")
}

// StepPositions reports the global step positions of both motors (QS).
func (c *Client) StepPositions() ([2]int, error) {
	raw, err := c.roundTrip("QS")
	if err != nil {
		return [2]int{}, err
	}
	fields, err := c.statusInts(protocol.Lookup("QS"), raw)
	if err != nil {
		return [2]int{}, err
	}
	return [2]int{fields[0], fields[1]}, nil
}

// MotorStatus reports motion and FIFO state (QM).
func (c *Client) MotorStatus() (MotorStatus, error) {
	raw, err := c.roundTrip("QM")
	if err != nil {
		return MotorStatus{}, err
	}
	spec := protocol.Lookup("QM")
	fields, err := protocol.Fields(spec, raw)
	if err != nil {
		return MotorStatus{}, err
	}
	executing, err := protocol.Int(spec, raw, fields[1])
	if err != nil {
		return MotorStatus{}, err
	}
	fifo, err := protocol.Int(spec, raw, fields[4])
	if err != nil {
		return MotorStatus{}, err
	}
	return MotorStatus{
		CommandExecuting: executing > 0,
		Motor1Moving:     fields[2] == "1",
		Motor2Moving:     fields[3] == "1",
		FIFOEmpty:        fifo == 0,
	}, nil
}

// MotorConfig queries the live microstep modes (QE). Not every firmware
// revision implements QE; callers hitting a protocol or timeout error can
// fall back to LastMotorModes.
func (c *Client) MotorConfig() ([2]MotorMode, error) {
	raw, err := c.roundTrip("QE")
	if err != nil {
		return [2]MotorMode{}, err
	}
	spec := protocol.Lookup("QE")
	fields, err := c.statusInts(spec, raw)
	if err != nil {
		return [2]MotorMode{}, err
	}
	var modes [2]MotorMode
	for i, divisor := range fields[:2] {
		mode, ok := qeModes[divisor]
		if !ok {
			return [2]MotorMode{}, protocol.DecodeError{Mnemonic: "QE", Raw: raw, Reason: "unknown microstep divisor"}
		}
		modes[i] = mode
	}
	return modes, nil
}

// LastMotorModes reports the modes last commanded through EnableMotors on
// this connection. It is process-local, best-effort state: it does not
// survive a restart and says nothing about what the board is doing now.
// ok is false until EnableMotors has succeeded at least once.
func (c *Client) LastMotorModes() (modes [2]MotorMode, ok bool) {
	return c.motorModes, c.motorModesSet
}

// statusInts decodes every field of a StatusThenOK data line as an integer.
func (c *Client) statusInts(spec protocol.Spec, raw []byte) ([]int, error) {
	fields, err := protocol.StatusLine(spec, raw)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := protocol.Int(spec, raw, f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func clearMask(clear1, clear2 bool) int {
	mask := 0
	if clear1 {
		mask |= 1
	}
	if clear2 {
		mask |= 2
	}
	return mask
}

func itoa(v int) string { return strconv.Itoa(v) }

func itoa64(v int64) string { return strconv.FormatInt(v, 10) }
