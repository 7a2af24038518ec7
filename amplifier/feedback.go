package amplifier

import (
	"context"
	"errors"

	"github.com/jcorbin/intcode"
	"github.com/jcorbin/intcode/internal/panicerr"
	"golang.org/x/sync/errgroup"
)

// Feedback runs one machine per phase in a ring, each stage's output feeding
// the next stage's input and the last stage feeding back into the first.
// Every stage first receives its phase; the first stage then receives 0.
//
// Stages are resumed round-robin in stage order on the calling goroutine.
// The ring ends when its last stage halts, and the result is the last value
// that stage emitted.
func Feedback(ctx context.Context, prog intcode.Program, phases []int64, opts ...intcode.Option) (int64, error) {
	n := len(phases)
	if n == 0 {
		return 0, ErrNoStages
	}

	queues := make([]*intcode.Queue, n)
	for i, phase := range phases {
		queues[i] = intcode.Values(phase)
	}
	queues[0].Push(0)

	var last intcode.Collector
	vms := make([]*intcode.VM, n)
	for i := range vms {
		var out intcode.Output = queues[(i+1)%n]
		if i == n-1 {
			out = intcode.Tee(out, &last)
		}
		vms[i] = intcode.New(prog, stageOptions(i, opts, queues[i], out))
	}

	for vms[n-1].State() != intcode.Halted {
		progress := false
		for i, vm := range vms {
			if vm.State() == intcode.Halted {
				continue
			}
			before := vm.Steps()
			if _, err := vm.Resume(ctx); err != nil {
				return 0, &StageError{i, err}
			}
			if vm.Steps() != before {
				progress = true
			}
		}
		if !progress {
			return 0, ErrDeadlock
		}
	}

	signal, ok := last.Last()
	if !ok {
		return 0, &StageError{n - 1, ErrNoSignal}
	}
	return signal, nil
}

// FeedbackConcurrent runs the same ring as Feedback, but with each stage on
// its own goroutine, linked by channels.
//
// A stage whose upstream has stopped, and whose input is drained, stops with
// intcode.ErrInputExhausted rather than blocking forever. Like Feedback, the
// ring's result is the last output of its last stage, once that stage halts;
// stages left running dry after that are not errors. Otherwise the error of a
// stage that failed on its own account is preferred over those that merely
// ran dry or were canceled as a result.
func FeedbackConcurrent(ctx context.Context, prog intcode.Program, phases []int64, opts ...intcode.Option) (int64, error) {
	n := len(phases)
	if n == 0 {
		return 0, ErrNoStages
	}

	chans := make([]chan int64, n)
	done := make([]chan struct{}, n)
	for i, phase := range phases {
		chans[i] = make(chan int64, 2)
		chans[i] <- phase
		done[i] = make(chan struct{})
	}
	chans[0] <- 0

	eg, ctx := errgroup.WithContext(ctx)
	errs := make([]error, n)
	vms := make([]*intcode.VM, n)
	var last intcode.Collector
	for i := range phases {
		i := i
		prev, next := (i+n-1)%n, (i+1)%n
		in := intcode.ChanInput(ctx, chans[i], done[prev])
		var out intcode.Output = intcode.ChanOutput(ctx, chans[next], done[next])
		if i == n-1 {
			out = intcode.Tee(&last, out)
		}
		vm := intcode.New(prog, stageOptions(i, opts, in, out))
		vms[i] = vm
		run := panicerr.Guard(StageName(i), func() error { return vm.Run(ctx) })
		eg.Go(func() error {
			err := run()
			if err != nil {
				errs[i] = &StageError{i, err}
			}
			close(done[i])
			if isConsequence(err) {
				return nil
			}
			return errs[i]
		})
	}

	err := eg.Wait()
	if vms[n-1].State() == intcode.Halted {
		signal, ok := last.Last()
		if !ok {
			return 0, &StageError{n - 1, ErrNoSignal}
		}
		return signal, nil
	}
	if err != nil {
		return 0, err
	}
	for _, serr := range errs {
		if serr != nil {
			return 0, serr
		}
	}
	return 0, &StageError{n - 1, ErrNoSignal}
}

// isConsequence reports whether a stage stopped only because its peers did:
// its input ran dry after its upstream stopped, or the ring was canceled.
func isConsequence(err error) bool {
	return errors.Is(err, intcode.ErrInputExhausted) || errors.Is(err, context.Canceled)
}
