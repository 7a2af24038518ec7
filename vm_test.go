package intcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jcorbin/intcode/internal/logio"
	"github.com/jcorbin/intcode/internal/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day5CompareProg = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31," +
	"1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104," +
	"999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"

const quineProg = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"

func TestVM(t *testing.T) {
	vmTestCases{
		// arithmetic
		vmTest("add mul").withProg(1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50).apply(
			expectVMMemory(3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50),
			expectVMIP(8),
			expectVMSteps(3),
		),
		vmTest("add self").withProg(1, 0, 0, 0, 99).apply(
			expectVMMemory(2, 0, 0, 0, 99),
		),
		vmTest("mul into next").withProg(2, 3, 0, 3, 99).apply(
			expectVMMemory(2, 3, 0, 6, 99),
		),
		vmTest("mul past program").withProg(2, 4, 4, 5, 99, 0).apply(
			expectVMMemory(2, 4, 4, 5, 99, 9801),
		),
		vmTest("self modifying").withProg(1, 1, 1, 4, 99, 5, 6, 0, 99).apply(
			expectVMMemory(30, 1, 1, 4, 2, 5, 6, 0, 99),
		),
		vmTest("immediate mode").withProg(1002, 4, 3, 4, 33).apply(
			expectVMMemory(1002, 4, 3, 4, 99),
		),
		vmTest("negative immediate").withProg(1101, 100, -1, 4, 0).apply(
			expectVMMemory(1101, 100, -1, 4, 99),
		),
		vmTest("patched noun and verb").withProg(1, 0, 0, 0, 99, 30, 40).apply(
			withVMPatch(1, 5, 6),
			expectVMMemory(70, 5, 6, 0, 99, 30, 40),
		),

		// I/O
		vmTest("echo").withProg(3, 0, 4, 0, 99).apply(
			withVMInput(42),
			expectVMOutput(42),
		),
		vmTest("no output").withProg(99).apply(
			expectVMOutput(),
			expectVMState(Halted),
			expectVMSteps(1),
		),
		vmTest("equal 8 position").withProg(3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8).apply(
			withVMInput(8),
			expectVMOutput(1),
		),
		vmTest("not equal 8 position").withProg(3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8).apply(
			withVMInput(7),
			expectVMOutput(0),
		),
		vmTest("less than 8 immediate").withProg(3, 3, 1107, -1, 8, 3, 4, 3, 99).apply(
			withVMInput(5),
			expectVMOutput(1),
		),
		vmTest("not less than 8 immediate").withProg(3, 3, 1107, -1, 8, 3, 4, 3, 99).apply(
			withVMInput(8),
			expectVMOutput(0),
		),
		vmTest("jump position zero").withProg(3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9).apply(
			withVMInput(0),
			expectVMOutput(0),
		),
		vmTest("jump position nonzero").withProg(3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9).apply(
			withVMInput(-3),
			expectVMOutput(1),
		),
		vmTest("jump immediate zero").withProg(3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1).apply(
			withVMInput(0),
			expectVMOutput(0),
		),
		vmTest("jump immediate nonzero").withProg(3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1).apply(
			withVMInput(5),
			expectVMOutput(1),
		),
		vmTest("compare below 8").withProg(MustParse(day5CompareProg)...).apply(
			withVMInput(7),
			expectVMOutput(999),
		),
		vmTest("compare equal 8").withProg(MustParse(day5CompareProg)...).apply(
			withVMInput(8),
			expectVMOutput(1000),
		),
		vmTest("compare above 8").withProg(MustParse(day5CompareProg)...).apply(
			withVMInput(9),
			expectVMOutput(1001),
		),

		// relative mode and large values
		vmTest("quine").withProg(MustParse(quineProg)...).apply(
			expectVMOutput(MustParse(quineProg)...),
		),
		vmTest("sixteen digits").withProg(1102, 34915192, 34915192, 7, 4, 7, 99, 0).apply(
			expectVMOutput(1219070632396864),
		),
		vmTest("large immediate").withProg(104, 1125899906842624, 99).apply(
			expectVMOutput(1125899906842624),
		),
		vmTest("relative base").withProg(109, 2000, 109, 19, 204, -34, 99).apply(
			withVMPatch(1985, 42),
			expectVMOutput(42),
			expectVMRelativeBase(2019),
		),
		vmTest("relative write").withProg(109, 10, 21101, 3, 4, 0, 204, 0, 99).apply(
			expectVMOutput(7),
			expectVMMemAt(10, 7),
		),
		vmTest("grow on write").withProg(1101, 1, 2, 1000, 4, 1000, 99).apply(
			expectVMOutput(3),
			expectVMMemAt(999, 0, 3),
			withVMPageSize(16),
		),
		vmTest("read past end").withProg(4, 5000, 99).apply(
			expectVMOutput(0),
		),

		// faults
		vmTest("invalid opcode").withProg(0).apply(
			expectVMError(ErrInvalidOpcode),
			expectVMState(Faulted),
		),
		vmTest("invalid opcode after add").withProg(1101, 1, 1, 0, 42).apply(
			expectVMError(ErrInvalidOpcode),
			expectVMIP(4),
		),
		vmTest("invalid mode").withProg(304, 0, 99).apply(
			expectVMError(ErrInvalidMode),
		),
		vmTest("immediate write target").withProg(11101, 1, 1, 0, 99).apply(
			expectVMError(ErrInvalidWriteTarget),
		),
		vmTest("negative relative address").withProg(204, -5, 99).apply(
			expectVMError(ErrInvalidAddress),
		),
		vmTest("negative position address").withProg(4, -1, 99).apply(
			expectVMError(ErrInvalidAddress),
		),
		vmTest("negative jump").withProg(1105, 1, -3).apply(
			expectVMError(ErrInvalidAddress),
		),
		vmTest("input exhausted").withProg(3, 0, 99).apply(
			expectVMError(ErrInputExhausted),
			expectVMState(Faulted),
			expectVMIP(0),
		),
		vmTest("input exhausted after output").withProg(104, 7, 3, 0, 99).apply(
			withVMInput(),
			expectVMError(ErrInputExhausted),
			expectVMOutput(7),
			expectVMIP(2),
		),

		// ascii
		vmTest("ascii echo").withProg(3, 100, 4, 100, 1008, 100, 10, 101, 1006, 101, 0, 104, 1000, 99).apply(
			withVMASCIIInput("hi\n"),
			expectVMASCIIOutput("hi\n1000\n"),
		),
	}.run(t)
}

func TestVM_resume(t *testing.T) {
	var (
		in  Queue
		out Collector
	)
	vm := New(Program{3, 20, 3, 21, 1, 20, 21, 22, 4, 22, 99}, WithInput(&in), WithOutput(&out))
	ctx := context.Background()

	state, err := vm.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, AwaitingInput, state)
	assert.Equal(t, uint(0), vm.IP(), "input instruction not consumed")
	assert.Equal(t, uint64(0), vm.Steps())

	in.Push(3)
	state, err = vm.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, AwaitingInput, state)
	assert.Equal(t, uint(2), vm.IP())

	in.Push(4)
	state, err = vm.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, Halted, state)
	assert.Equal(t, []int64{7}, out.Values)

	state, err = vm.Resume(ctx)
	assert.NoError(t, err, "halted VM resumes as a no-op")
	assert.Equal(t, Halted, state)
	assert.NoError(t, vm.Step())
}

func TestVM_isolation(t *testing.T) {
	prog := Program{1101, 1, 2, 0, 99}
	a, b := New(prog), New(prog)
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, int64(3), a.Memory()[0])
	assert.Equal(t, int64(1101), b.Memory()[0], "sibling VM memory untouched")
	assert.Equal(t, int64(1101), prog[0], "program untouched")
}

func TestVM_memLimit(t *testing.T) {
	vm := New(Program{1101, 1, 1, 5000, 99}, WithMemLimit(1024))
	err := vm.Run(context.Background())
	var lim mem.LimitError
	require.True(t, errors.As(err, &lim), "expected limit error, got %v", err)
	assert.Equal(t, "stor", lim.Op)
	assert.Equal(t, Faulted, vm.State())

	var fe *FaultError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, uint(0), fe.IP)
	assert.Equal(t, int64(1101), fe.Word)
}

func TestVM_loadFault(t *testing.T) {
	vm := New(Program{99}, WithMemLimit(8), WithPatch(100, 1))
	assert.Equal(t, Faulted, vm.State())
	assert.Error(t, vm.Run(context.Background()))
}

func TestVM_contextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	vm := New(Program{1105, 1, 0})
	err := vm.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "expected cancelation, got %v", err)
	assert.Equal(t, Running, vm.State())
}

func TestVM_outputError(t *testing.T) {
	boom := errors.New("boom")
	vm := New(Program{104, 1, 99}, WithOutput(OutputFunc(func(int64) error { return boom })))
	err := vm.Run(context.Background())
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, Faulted, vm.State())
}

func TestVM_replacedOutputFlushError(t *testing.T) {
	boom := errors.New("boom")
	vm := New(Program{104, 1, 99},
		WithOutput(failFlusher{Discard, boom}),
		WithOutput(Discard))
	assert.Equal(t, Faulted, vm.State())
	assert.True(t, errors.Is(vm.Err(), boom), "expected flush error, got %v", vm.Err())
	assert.True(t, errors.Is(vm.Run(context.Background()), boom))
	assert.Equal(t, uint64(0), vm.Steps(), "faulted VM must not run")
}

type failFlusher struct {
	Output
	err error
}

func (ff failFlusher) Flush() error { return ff.err }

func TestVM_outputPanic(t *testing.T) {
	vm := New(Program{104, 1, 99}, WithOutput(OutputFunc(func(int64) error { panic("boom") })))
	err := vm.Run(context.Background())
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "boom")
	}
}

func TestRunProgram(t *testing.T) {
	out, err := RunProgram(context.Background(), MustParse(day5CompareProg), 8)
	require.NoError(t, err)
	assert.Equal(t, []int64{1000}, out)
}

func TestVM_trace(t *testing.T) {
	var lines []string
	vm := New(Program{104, 5, 99},
		WithLogf(func(mess string, args ...interface{}) {
			lines = append(lines, strings.TrimSpace(fmt.Sprintf(mess, args...)))
		}),
		WithLogPrefix("vm: "),
	)
	require.NoError(t, vm.Run(context.Background()))
	if assert.Len(t, lines, 4) {
		assert.Equal(t, "vm: exec @0 out 5 -- rb:0", lines[0])
		assert.Equal(t, "vm:  out 5", lines[1])
		assert.Equal(t, "vm: exec @2 halt -- rb:0", lines[2])
		assert.Equal(t, "vm: halt after 2 steps", lines[3])
	}
}

//// test builder

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type optFunc func(vm *VM)

func (f optFunc) apply(vm *VM) { f(vm) }

type vmTestCase struct {
	name    string
	prog    Program
	opts    []Option
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive bool
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withProg(values ...int64) vmTestCase {
	vmt.prog = Program(values)
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...Option) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

func (vmt vmTestCase) withInput(values ...int64) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		WithInput(Values(values...)).apply(vm)
	}))
	return vmt
}

func (vmt vmTestCase) withASCIIInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		WithInput(ASCIIInput(strings.NewReader(input))).apply(vm)
	}))
	return vmt
}

func (vmt vmTestCase) withPatch(addr uint, values ...int64) vmTestCase {
	vmt.opts = append(vmt.opts, WithPatch(addr, values...))
	return vmt
}

func (vmt vmTestCase) withPageSize(size uint) vmTestCase {
	vmt.opts = append(vmt.opts, WithPageSize(size))
	return vmt
}

func (vmt vmTestCase) withMemLimit(limit uint) vmTestCase {
	vmt.opts = append(vmt.opts, WithMemLimit(limit))
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectState(state State) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, state, vm.State(), "expected VM state")
	})
	return vmt
}

func (vmt vmTestCase) expectIP(ip uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, ip, vm.IP(), "expected instruction pointer")
	})
	return vmt
}

func (vmt vmTestCase) expectRelativeBase(base int64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, base, vm.RelativeBase(), "expected relative base")
	})
	return vmt
}

func (vmt vmTestCase) expectSteps(steps uint64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, steps, vm.Steps(), "expected step count")
	})
	return vmt
}

func (vmt vmTestCase) expectMemory(values ...int64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, values, vm.Memory(), "expected memory")
	})
	return vmt
}

func (vmt vmTestCase) expectMemAt(addr uint, values ...int64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		for i, value := range values {
			a := addr + uint(i)
			got, err := vm.Load(a)
			if assert.NoError(t, err, "unexpected load error @%v", a) {
				assert.Equal(t, value, got, "expected memory value @%v", a)
			}
		}
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(values ...int64) vmTestCase {
	var out Collector
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		out.Values = nil
		WithTee(&out).apply(vm)
	}))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, values, out.Values, "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectASCIIOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		out.Reset()
		WithTee(ASCIIOutput(&out)).apply(vm)
	}))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected ascii output")
	})
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) {
		logf := vm.logfn
		WithTee(OutputFunc(func(val int64) error {
			if logf != nil {
				logf("out: %v", val)
			}
			return nil
		})).apply(vm)
	}))
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Now().Sub(then))
	}(time.Now())

	if testFails(func(t *testing.T) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM())
	}) {
		vmt.runVMTest(context.Background(), t, vmt.buildVM(WithLogf(t.Logf)))
	}
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if t.Failed() {
			vmt.dumpToTest(t, vm)
		}
	}()

	if err := vm.Run(ctx); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) buildVM(opts ...Option) *VM {
	const defaultMemLimit = 64 * 1024
	return New(vmt.prog, WithMemLimit(defaultMemLimit), Options(opts...), Options(vmt.opts...))
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vm.Dump(&lw)
}

//// utilities

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}
