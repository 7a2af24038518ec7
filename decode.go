package intcode

import (
	"fmt"
	"strings"
)

// Param is one decoded instruction parameter: its raw memory value and the
// mode that says how to interpret it.
type Param struct {
	Raw  int64
	Mode Mode
}

func (p Param) String() string {
	switch p.Mode {
	case ModePosition:
		return fmt.Sprintf("@%d", p.Raw)
	case ModeImmediate:
		return fmt.Sprintf("%d", p.Raw)
	case ModeRelative:
		return fmt.Sprintf("@rb%+d", p.Raw)
	default:
		return fmt.Sprintf("?%d", p.Raw)
	}
}

// Instruction is a decoded instruction word along with its parameters.
type Instruction struct {
	Word   int64
	Op     Opcode
	Params []Param
}

// Size returns the number of memory cells occupied by the instruction.
func (in Instruction) Size() uint { return uint(len(in.Params)) + 1 }

func (in Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(in.Op.String())
	for i, p := range in.Params {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Loader provides random read access to memory; both *mem.Cells and Words
// implement it.
type Loader interface {
	Load(addr uint) (int64, error)
}

// Words adapts a plain slice to a Loader; addresses past its end read as 0.
type Words []int64

// Load returns the value at addr, or 0 if addr is past the end of ws.
func (ws Words) Load(addr uint) (int64, error) {
	if addr < uint(len(ws)) {
		return ws[addr], nil
	}
	return 0, nil
}

// Decode decodes the instruction at ip.
//
// The opcode is the word modulo 100; the mode for parameter i is the decimal
// digit (word / 10^(i+2)) % 10. Unknown opcodes, unknown modes, and immediate
// write targets are errors.
func Decode(m Loader, ip uint) (in Instruction, err error) {
	if in.Word, err = m.Load(ip); err != nil {
		return in, err
	}
	in.Op = Opcode(in.Word % 100)
	info, ok := in.Op.info()
	if !ok {
		return in, opcodeError(in.Word)
	}
	if len(info.params) > 0 {
		in.Params = make([]Param, len(info.params))
	}
	modes := in.Word / 100
	for i, kind := range info.params {
		mode := Mode(modes % 10)
		modes /= 10
		switch mode {
		case ModePosition, ModeRelative:
		case ModeImmediate:
			if kind == paramWrite {
				return in, writeTargetError{in.Word, i}
			}
		default:
			return in, modeError{in.Word, i, mode}
		}
		raw, err := m.Load(ip + 1 + uint(i))
		if err != nil {
			return in, err
		}
		in.Params[i] = Param{raw, mode}
	}
	return in, nil
}
