package intcode

import (
	"errors"
	"fmt"
)

// Fault kinds; every error that faults a VM wraps one of these, or an I/O or
// memory limit error from outside the machine.
var (
	ErrInvalidOpcode      = errors.New("invalid opcode")
	ErrInvalidMode        = errors.New("invalid parameter mode")
	ErrInvalidWriteTarget = errors.New("invalid write target")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInputExhausted     = errors.New("input exhausted")
)

// FaultError records where a VM faulted.
type FaultError struct {
	IP   uint
	Word int64
	Err  error
}

func (fe *FaultError) Error() string {
	return fmt.Sprintf("fault @%v (%v): %v", fe.IP, fe.Word, fe.Err)
}

func (fe *FaultError) Unwrap() error { return fe.Err }

type opcodeError int64

func (word opcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %v in word %v", int64(word)%100, int64(word))
}
func (opcodeError) Unwrap() error { return ErrInvalidOpcode }

type modeError struct {
	word  int64
	param int
	mode  Mode
}

func (me modeError) Error() string {
	return fmt.Sprintf("invalid mode %d for parameter %v of word %v", int64(me.mode), me.param+1, me.word)
}
func (modeError) Unwrap() error { return ErrInvalidMode }

type writeTargetError struct {
	word  int64
	param int
}

func (we writeTargetError) Error() string {
	return fmt.Sprintf("immediate mode write target for parameter %v of word %v", we.param+1, we.word)
}
func (writeTargetError) Unwrap() error { return ErrInvalidWriteTarget }

type addrError int64

func (addr addrError) Error() string { return fmt.Sprintf("invalid address %v", int64(addr)) }
func (addrError) Unwrap() error      { return ErrInvalidAddress }
