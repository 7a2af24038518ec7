package intcode

import (
	"context"

	"github.com/jcorbin/intcode/internal/mem"
)

// State is the run state of a VM.
type State int

// VM run states; Halted and Faulted are terminal.
const (
	Running State = iota
	AwaitingInput
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingInput:
		return "awaiting input"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "invalid state"
	}
}

// VM is an Intcode machine: a private memory, an instruction pointer, a
// relative base, and the Input and Output it was configured with.
type VM struct {
	logging

	mem  mem.Cells
	ip   uint
	base int64

	state State
	err   error
	steps uint64

	in  Input
	out Output

	patches []patch
}

type patch struct {
	addr   uint
	values []int64
}

// New creates a VM with a fresh copy of prog loaded at address 0.
// Any error while loading, e.g. exceeding a memory limit, leaves the VM
// Faulted.
func New(prog Program, opts ...Option) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	Options(opts...).apply(&vm)
	if vm.state == Faulted {
		return &vm
	}
	if err := vm.load(prog); err != nil {
		vm.fault(err)
	}
	return &vm
}

func (vm *VM) load(prog Program) error {
	if err := vm.mem.Grow(uint(len(prog))); err != nil {
		return err
	}
	if err := vm.mem.Stor(0, prog...); err != nil {
		return err
	}
	for _, p := range vm.patches {
		if err := vm.mem.Stor(p.addr, p.values...); err != nil {
			return err
		}
	}
	vm.patches = nil
	return nil
}

// State returns the current run state.
func (vm *VM) State() State { return vm.state }

// Err returns the error that faulted the VM, if any.
func (vm *VM) Err() error { return vm.err }

// IP returns the instruction pointer.
func (vm *VM) IP() uint { return vm.ip }

// RelativeBase returns the current relative base offset.
func (vm *VM) RelativeBase() int64 { return vm.base }

// Steps returns the number of instructions completed so far; an input
// instruction that found no value does not count.
func (vm *VM) Steps() uint64 { return vm.steps }

// Load returns the memory value at addr; addresses never written read as 0.
func (vm *VM) Load(addr uint) (int64, error) { return vm.mem.Load(addr) }

// MaxSnapshot caps the number of words copied by Memory.
const MaxSnapshot = 1 << 20

// MemoryLen returns one past the highest address ever written.
func (vm *VM) MemoryLen() uint { return vm.mem.Len() }

// Memory returns a copy of memory from address 0 up to one past the highest
// address ever written, truncated to at most MaxSnapshot words; use
// MemoryLen to tell whether it was, and Load to read beyond.
func (vm *VM) Memory() []int64 {
	n := vm.mem.Len()
	if n > MaxSnapshot {
		n = MaxSnapshot
	}
	buf := make([]int64, n)
	vm.mem.LoadInto(0, buf)
	return buf
}

// Resume runs the VM until it halts, faults, or needs input that is not yet
// available. A VM that was AwaitingInput retries its input instruction.
// The context is checked between instructions.
func (vm *VM) Resume(ctx context.Context) (State, error) {
	if vm.state == AwaitingInput {
		vm.state = Running
	}
	for vm.state == Running {
		if err := ctx.Err(); err != nil {
			return vm.state, err
		}
		if err := vm.Step(); err != nil {
			return vm.state, err
		}
	}
	if vm.state == Faulted {
		return vm.state, vm.err
	}
	return vm.state, nil
}

// Step executes a single instruction. It returns a non-nil error only if the
// VM is, or becomes, Faulted; a halted VM steps as a no-op.
func (vm *VM) Step() error {
	switch vm.state {
	case Halted:
		return nil
	case Faulted:
		return vm.err
	case AwaitingInput:
		vm.state = Running
	}

	in, err := Decode(&vm.mem, vm.ip)
	if err != nil {
		return vm.fault(err)
	}
	if vm.logfn != nil {
		vm.logf("exec", "@%v %v -- rb:%v", vm.ip, in, vm.base)
	}

	switch in.Op {
	case OpAdd, OpMul, OpLessThan, OpEquals:
		a, err := vm.value(in.Params[0])
		if err != nil {
			return vm.fault(err)
		}
		b, err := vm.value(in.Params[1])
		if err != nil {
			return vm.fault(err)
		}
		var r int64
		switch in.Op {
		case OpAdd:
			r = a + b
		case OpMul:
			r = a * b
		case OpLessThan:
			r = boolInt(a < b)
		case OpEquals:
			r = boolInt(a == b)
		}
		if err := vm.stor(in.Params[2], r); err != nil {
			return vm.fault(err)
		}

	case OpInput:
		if err := vm.flush(); err != nil {
			return vm.fault(err)
		}
		val, ok := vm.in.NextInput()
		if !ok {
			if ie, isErr := vm.in.(interface{ Err() error }); isErr {
				if err := ie.Err(); err != nil {
					return vm.fault(err)
				}
			}
			vm.logf("wait", "awaiting input @%v", vm.ip)
			vm.state = AwaitingInput
			return nil
		}
		vm.logf("in", "%v", val)
		if err := vm.stor(in.Params[0], val); err != nil {
			return vm.fault(err)
		}

	case OpOutput:
		val, err := vm.value(in.Params[0])
		if err != nil {
			return vm.fault(err)
		}
		vm.logf("out", "%v", val)
		if err := vm.out.EmitOutput(val); err != nil {
			return vm.fault(err)
		}

	case OpJumpIfTrue, OpJumpIfFalse:
		cond, err := vm.value(in.Params[0])
		if err != nil {
			return vm.fault(err)
		}
		if (cond != 0) == (in.Op == OpJumpIfTrue) {
			target, err := vm.value(in.Params[1])
			if err != nil {
				return vm.fault(err)
			}
			if target < 0 {
				return vm.fault(addrError(target))
			}
			vm.steps++
			vm.ip = uint(target)
			return nil
		}

	case OpAdjustBase:
		delta, err := vm.value(in.Params[0])
		if err != nil {
			return vm.fault(err)
		}
		vm.base += delta

	case OpHalt:
		vm.steps++
		return vm.halt()
	}

	vm.steps++
	vm.ip += in.Size()
	return nil
}

// addr resolves a position or relative parameter to a memory address.
func (vm *VM) addr(p Param) (uint, error) {
	a := p.Raw
	if p.Mode == ModeRelative {
		a += vm.base
	}
	if a < 0 {
		return 0, addrError(a)
	}
	return uint(a), nil
}

func (vm *VM) value(p Param) (int64, error) {
	if p.Mode == ModeImmediate {
		return p.Raw, nil
	}
	addr, err := vm.addr(p)
	if err != nil {
		return 0, err
	}
	return vm.mem.Load(addr)
}

func (vm *VM) stor(p Param, val int64) error {
	addr, err := vm.addr(p)
	if err != nil {
		return err
	}
	return vm.mem.Stor(addr, val)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
