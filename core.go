package intcode

import (
	"fmt"
	"strings"
)

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark = strings.Repeat(" ", n) + mark
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}

type flusher interface{ Flush() error }

// flush flushes any buffered output; called before blocking on input and when
// the machine stops running.
func (vm *VM) flush() error {
	if fl, ok := vm.out.(flusher); ok {
		return fl.Flush()
	}
	return nil
}

// fault moves the VM into its terminal Faulted state, recording err against
// the current instruction pointer.
func (vm *VM) fault(err error) error {
	if ferr := vm.flush(); err == nil {
		err = ferr
	}
	word, _ := vm.mem.Load(vm.ip)
	fe := &FaultError{IP: vm.ip, Word: word, Err: err}
	vm.logf("fault", "%v", fe)
	vm.state = Faulted
	vm.err = fe
	return fe
}

func (vm *VM) halt() error {
	vm.logf("halt", "after %v steps", vm.steps)
	vm.state = Halted
	if err := vm.flush(); err != nil {
		return vm.fault(err)
	}
	return nil
}
