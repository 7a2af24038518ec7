// Package amplifier runs arrangements of Intcode machines that each take a
// phase setting as their first input and pass a signal from one to the next.
package amplifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcorbin/intcode"
)

var (
	// ErrNoStages is returned when no phase settings are given.
	ErrNoStages = errors.New("no amplifier stages")

	// ErrNoSignal is returned when the last stage never emits a signal.
	ErrNoSignal = errors.New("no output signal")

	// ErrDeadlock is returned by Feedback when every running stage is
	// waiting for input that no other stage can produce.
	ErrDeadlock = errors.New("amplifier ring deadlocked")
)

// StageError is an error from one amplifier stage.
type StageError struct {
	Stage int
	Err   error
}

func (se *StageError) Error() string {
	return fmt.Sprintf("amplifier %v: %v", StageName(se.Stage), se.Err)
}

func (se *StageError) Unwrap() error { return se.Err }

// StageName returns the conventional letter name of stage i: A, B, C, ...
func StageName(i int) string {
	if 0 <= i && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("#%d", i)
}

// Runner runs one arrangement of amplifiers over prog with the given phases,
// returning the final signal; Chain, Feedback and FeedbackConcurrent are all
// Runners.
type Runner func(ctx context.Context, prog intcode.Program, phases []int64, opts ...intcode.Option) (int64, error)

func stageOptions(i int, opts []intcode.Option, in intcode.Input, out intcode.Output) intcode.Option {
	return intcode.Options(
		intcode.Options(opts...),
		intcode.WithInput(in),
		intcode.WithOutput(out),
		intcode.WithLogPrefix(StageName(i)+": "),
	)
}

// Chain runs one machine per phase in series: each stage's input is its phase
// followed by the previous stage's last output, starting from 0. It returns
// the last stage's last output.
func Chain(ctx context.Context, prog intcode.Program, phases []int64, opts ...intcode.Option) (int64, error) {
	if len(phases) == 0 {
		return 0, ErrNoStages
	}
	var signal int64
	for i, phase := range phases {
		var out intcode.Collector
		vm := intcode.New(prog, stageOptions(i, opts, intcode.Values(phase, signal), &out))
		if err := vm.Run(ctx); err != nil {
			return 0, &StageError{i, err}
		}
		last, ok := out.Last()
		if !ok {
			return 0, &StageError{i, ErrNoSignal}
		}
		signal = last
	}
	return signal, nil
}
