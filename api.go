package intcode

import (
	"context"

	"github.com/jcorbin/intcode/internal/panicerr"
)

// Run runs the VM until it halts. Needing input that its Input cannot supply
// faults the VM with ErrInputExhausted; any panic, e.g. from an I/O adapter,
// is recovered as an error.
func (vm *VM) Run(ctx context.Context) error {
	return panicerr.Recover("intcode", func() error {
		state, err := vm.Resume(ctx)
		if err != nil {
			return err
		}
		if state == AwaitingInput {
			if err := ctx.Err(); err != nil {
				return err
			}
			return vm.fault(ErrInputExhausted)
		}
		return nil
	})
}

// RunProgram runs a fresh VM loaded with prog, feeding it the given inputs,
// and returns all of its output.
func RunProgram(ctx context.Context, prog Program, inputs ...int64) ([]int64, error) {
	var out Collector
	vm := New(prog, WithInput(Values(inputs...)), WithOutput(&out))
	err := vm.Run(ctx)
	return out.Values, err
}

// WithInput sets the VM's input source; by default a VM has no input.
func WithInput(in Input) Option { return inputOption{in} }

// WithInputValues sets a fixed sequence of input values.
func WithInputValues(values ...int64) Option { return inputOption{Values(values...)} }

// WithOutput sets the VM's output sink; by default output is discarded.
func WithOutput(out Output) Option { return outputOption{out} }

// WithTee adds an additional output sink alongside any existing one.
func WithTee(out Output) Option { return teeOption{out} }

// WithMemLimit limits the addresses that the VM may access.
func WithMemLimit(limit uint) Option { return memLimitOption(limit) }

// WithPageSize sets the memory page size, i.e. the granularity of growth.
func WithPageSize(size uint) Option { return pageSizeOption(size) }

// WithPatch overwrites memory starting at addr after the program is loaded,
// e.g. to set a program's "noun" and "verb" at addresses 1 and 2.
func WithPatch(addr uint, values ...int64) Option {
	return patchOption{addr, append([]int64(nil), values...)}
}

// WithLogf enables instruction tracing through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithLogPrefix prefixes all trace lines; it must come after WithLogf.
func WithLogPrefix(prefix string) Option { return logPrefixOption(prefix) }
