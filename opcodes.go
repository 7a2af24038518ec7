package intcode

import "strconv"

// Opcode identifies one of the ten Intcode instructions; it is the low two
// decimal digits of an instruction word.
type Opcode int64

// Intcode opcodes.
const (
	OpAdd         Opcode = 1
	OpMul         Opcode = 2
	OpInput       Opcode = 3
	OpOutput      Opcode = 4
	OpJumpIfTrue  Opcode = 5
	OpJumpIfFalse Opcode = 6
	OpLessThan    Opcode = 7
	OpEquals      Opcode = 8
	OpAdjustBase  Opcode = 9
	OpHalt        Opcode = 99
)

type paramKind uint8

const (
	paramRead paramKind = iota + 1
	paramWrite
)

type opInfo struct {
	name   string
	params []paramKind
}

// opTable is indexed by opcode; entries with an empty name are invalid.
var opTable = [100]opInfo{
	OpAdd:         {"add", []paramKind{paramRead, paramRead, paramWrite}},
	OpMul:         {"mul", []paramKind{paramRead, paramRead, paramWrite}},
	OpInput:       {"in", []paramKind{paramWrite}},
	OpOutput:      {"out", []paramKind{paramRead}},
	OpJumpIfTrue:  {"jnz", []paramKind{paramRead, paramRead}},
	OpJumpIfFalse: {"jz", []paramKind{paramRead, paramRead}},
	OpLessThan:    {"lt", []paramKind{paramRead, paramRead, paramWrite}},
	OpEquals:      {"eq", []paramKind{paramRead, paramRead, paramWrite}},
	OpAdjustBase:  {"arb", []paramKind{paramRead}},
	OpHalt:        {"halt", nil},
}

func (op Opcode) info() (opInfo, bool) {
	if op < 0 || int(op) >= len(opTable) {
		return opInfo{}, false
	}
	info := opTable[op]
	return info, info.name != ""
}

// Valid returns true if op is one of the ten defined opcodes.
func (op Opcode) Valid() bool {
	_, ok := op.info()
	return ok
}

// Arity returns the number of parameters taken by op, or -1 if op is invalid.
func (op Opcode) Arity() int {
	if info, ok := op.info(); ok {
		return len(info.params)
	}
	return -1
}

func (op Opcode) String() string {
	if info, ok := op.info(); ok {
		return info.name
	}
	return "op" + strconv.FormatInt(int64(op), 10)
}

// Mode is a parameter addressing mode: a single decimal digit of an
// instruction word above the opcode.
type Mode int64

// Addressing modes.
const (
	ModePosition  Mode = 0
	ModeImmediate Mode = 1
	ModeRelative  Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	default:
		return "mode" + strconv.FormatInt(int64(m), 10)
	}
}
