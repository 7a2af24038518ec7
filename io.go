package intcode

import (
	"context"
)

// Input is the machine's source of input values. NextInput returns the next
// value, or false if none is available (yet). Implementations may block.
//
// An Input that also implements Err() error may report why it ran dry; a
// non-nil Err faults the machine instead of leaving it awaiting input.
type Input interface {
	NextInput() (int64, bool)
}

// Output is the machine's sink for output values.
type Output interface {
	EmitOutput(val int64) error
}

// InputFunc adapts a plain function to an Input.
type InputFunc func() (int64, bool)

// NextInput calls f.
func (f InputFunc) NextInput() (int64, bool) { return f() }

// OutputFunc adapts a plain function to an Output.
type OutputFunc func(val int64) error

// EmitOutput calls f.
func (f OutputFunc) EmitOutput(val int64) error { return f(val) }

// Queue is a FIFO Input of pending values. The zero value is an empty queue.
//
// A Queue serves both fixed, pre-supplied input (use Values) and cooperative
// scheduling, where a host Pushes more values after a machine reports
// AwaitingInput and then resumes it.
type Queue struct {
	values []int64
}

// Values returns a Queue holding the given values.
func Values(values ...int64) *Queue {
	return &Queue{values: append([]int64(nil), values...)}
}

// Push appends values to the end of the queue.
func (q *Queue) Push(values ...int64) { q.values = append(q.values, values...) }

// EmitOutput pushes val, so that a Queue may link one machine's output to
// another's input.
func (q *Queue) EmitOutput(val int64) error {
	q.Push(val)
	return nil
}

// Len returns the number of values waiting in the queue.
func (q *Queue) Len() int { return len(q.values) }

// NextInput pops the next value, if any.
func (q *Queue) NextInput() (int64, bool) {
	if len(q.values) == 0 {
		return 0, false
	}
	val := q.values[0]
	if len(q.values) == 1 {
		q.values = q.values[:0]
	} else {
		q.values = q.values[1:]
	}
	return val, true
}

// Collector is an Output that retains every value emitted.
type Collector struct {
	Values []int64
}

// EmitOutput appends val.
func (c *Collector) EmitOutput(val int64) error {
	c.Values = append(c.Values, val)
	return nil
}

// Take returns all collected values, leaving the collector empty.
func (c *Collector) Take() []int64 {
	values := c.Values
	c.Values = nil
	return values
}

// Last returns the most recently collected value, if any.
func (c *Collector) Last() (int64, bool) {
	if i := len(c.Values) - 1; i >= 0 {
		return c.Values[i], true
	}
	return 0, false
}

// Discard is an Output that drops every value.
var Discard Output = OutputFunc(func(int64) error { return nil })

// WithDefault returns an Input that yields val whenever in has no value
// ready, instead of suspending the machine.
func WithDefault(in Input, val int64) Input {
	return InputFunc(func() (int64, bool) {
		if v, ok := in.NextInput(); ok {
			return v, true
		}
		return val, true
	})
}

// Tee returns an Output that emits every value to each of outs in order,
// stopping at the first error.
func Tee(outs ...Output) Output {
	switch all := appendOutputs(nil, outs...); len(all) {
	case 0:
		return Discard
	case 1:
		return all[0]
	default:
		return all
	}
}

type multiOutput []Output

func (outs multiOutput) EmitOutput(val int64) error {
	for _, out := range outs {
		if err := out.EmitOutput(val); err != nil {
			return err
		}
	}
	return nil
}

func (outs multiOutput) Flush() (err error) {
	for _, out := range outs {
		if fl, ok := out.(flusher); ok {
			if ferr := fl.Flush(); err == nil {
				err = ferr
			}
		}
	}
	return err
}

func appendOutputs(all multiOutput, some ...Output) multiOutput {
	for _, one := range some {
		if many, ok := one.(multiOutput); ok {
			all = append(all, many...)
		} else if one != nil {
			all = append(all, one)
		}
	}
	return all
}

// ChanInput returns an Input that blocks receiving from ch.
// It reports no value once ch is closed, ctx is done, or peer is closed with
// ch drained; peer should be closed when the sending machine stops, so that a
// receiver never waits on a sender that has already halted.
func ChanInput(ctx context.Context, ch <-chan int64, peer <-chan struct{}) Input {
	return chanInput{ctx, ch, peer}
}

type chanInput struct {
	ctx  context.Context
	ch   <-chan int64
	peer <-chan struct{}
}

func (ci chanInput) NextInput() (int64, bool) {
	select {
	case val, ok := <-ci.ch:
		return val, ok
	case <-ci.ctx.Done():
		return 0, false
	case <-ci.peer:
		select {
		case val, ok := <-ci.ch:
			return val, ok
		default:
			return 0, false
		}
	}
}

// ChanOutput returns an Output that blocks sending on ch.
// Once peer is closed, meaning the receiving machine has stopped, values are
// dropped; if ctx is done, its error is returned.
func ChanOutput(ctx context.Context, ch chan<- int64, peer <-chan struct{}) Output {
	return chanOutput{ctx, ch, peer}
}

type chanOutput struct {
	ctx  context.Context
	ch   chan<- int64
	peer <-chan struct{}
}

func (co chanOutput) EmitOutput(val int64) error {
	select {
	case co.ch <- val:
		return nil
	case <-co.peer:
		return nil
	case <-co.ctx.Done():
		return co.ctx.Err()
	}
}
