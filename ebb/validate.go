package ebb

import (
	"fmt"
	"strings"
)

// Argument validation per the firmware documentation. A failed validation
// must never reach the wire, so every facade operation validates before
// touching the dispatcher.

func inRange(op, arg string, v, min, max int) error {
	if v < min || v > max {
		return ValidationError{
			Op:     op,
			Arg:    arg,
			Reason: fmt.Sprintf("%d out of range %d..%d", v, min, max),
		}
	}
	return nil
}

func inRange64(op, arg string, v, min, max int64) error {
	if v < min || v > max {
		return ValidationError{
			Op:     op,
			Arg:    arg,
			Reason: fmt.Sprintf("%d out of range %d..%d", v, min, max),
		}
	}
	return nil
}

func validByte(op, arg string, v int) error {
	return inRange(op, arg, v, 0, 255)
}

func validPort(op string, port byte) error {
	if !strings.ContainsRune("ABCDE", rune(port)) {
		return ValidationError{Op: op, Arg: "port", Reason: fmt.Sprintf("letter %q must be A-E", port)}
	}
	return nil
}

func validPin(op string, pin int) error {
	return inRange(op, "pin", pin, 0, 7)
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
