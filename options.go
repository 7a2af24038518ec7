package intcode

import "github.com/jcorbin/intcode/internal/mem"

// Option configures a VM under New.
type Option interface{ apply(vm *VM) }

// Options combines any number of options into one, applied in order.
func Options(opts ...Option) Option {
	var all options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			all = append(all, impl...)
		default:
			all = append(all, opt)
		}
	}
	if len(all) == 1 {
		return all[0]
	}
	return all
}

type options []Option

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

var defaultOptions = Options(
	inputOption{noInput},
	outputOption{Discard},
	pageSizeOption(mem.DefaultPageSize),
)

var noInput Input = InputFunc(func() (int64, bool) { return 0, false })

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) { vm.logfn = logfn }

type logPrefixOption string

func (prefix logPrefixOption) apply(vm *VM) { vm.withLogPrefix(string(prefix)) }

type inputOption struct{ Input }
type outputOption struct{ Output }
type teeOption struct{ Output }
type memLimitOption uint
type pageSizeOption uint
type patchOption patch

func (i inputOption) apply(vm *VM) { vm.in = i.Input }

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		if err := vm.flush(); err != nil {
			vm.fault(err)
		}
	}
	vm.out = o.Output
}

func (o teeOption) apply(vm *VM) { vm.out = Tee(vm.out, o.Output) }

func (lim memLimitOption) apply(vm *VM) { vm.mem.Limit = uint(lim) }

func (size pageSizeOption) apply(vm *VM) {
	if size == 0 {
		size = mem.DefaultPageSize
	}
	vm.mem.PageSize = uint(size)
}

func (p patchOption) apply(vm *VM) { vm.patches = append(vm.patches, patch(p)) }
