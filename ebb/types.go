package ebb

import "github.com/danmuck/ebbctl/protocol"

// MotorMode is the microstep setting passed to EM and reported by QE.
type MotorMode int

const (
	MotorDisable MotorMode = iota
	MotorStepDiv16
	MotorStepDiv8
	MotorStepDiv4
	MotorStepDiv2
	MotorStepDiv1
)

// Servo output channels on the board headers.
const (
	ServoChannelJP2 = 3
	ServoChannelPen = 4
	ServoChannelJP1 = 4
	ServoChannelJP3 = 5
	ServoChannelJP4 = 6
)

// GeneralStatus is the 8-flag record decoded from the QG status byte.
type GeneralStatus = protocol.StatusFlags

// MotorStatus is the QM motion/FIFO query result.
type MotorStatus struct {
	CommandExecuting bool
	Motor1Moving     bool
	Motor2Moving     bool
	FIFOEmpty        bool
}

// StopInfo is the ES emergency-stop report.
type StopInfo struct {
	Interrupted    bool
	FIFOSteps      [2]int
	RemainingSteps [2]int
}

// CurrentInfo is the QC analog reading converted to physical units.
type CurrentInfo struct {
	MaxCurrent   float64 // amps
	PowerVoltage float64 // volts
}

// qeModes maps the raw QE microstep divisor to the EM mode constants.
var qeModes = map[int]MotorMode{
	0:  MotorDisable,
	1:  MotorStepDiv1,
	2:  MotorStepDiv2,
	4:  MotorStepDiv4,
	8:  MotorStepDiv8,
	16: MotorStepDiv16,
}
