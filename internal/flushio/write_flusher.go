// Package flushio provides flush-able writers for buffered output sinks.
package flushio

import (
	"bufio"
	"io"
	"io/ioutil"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

var discardWriteFlusher WriteFlusher = nopFlusher{ioutil.Discard}

// NewWriteFlusher creates a new flushable writer: if the given writer is a
// buffer, or the discard writer, it is wrapped with a noop Flush; otherwise,
// unless the original writer is already a WriteFlusher, a new bufio.Writer is
// returned.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	if w == nil || w == ioutil.Discard {
		return discardWriteFlusher
	}

	if wf, is := w.(WriteFlusher); is {
		return wf
	}

	// in memory buffers, as implemented by types like bytes.Buffer and
	// strings.Builder, do not need to be flushed
	type buffer interface {
		io.Writer
		Cap() int
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

// IsBuffered returns true if wf needs to be flushed for writes to reach the
// underlying stream.
func IsBuffered(wf WriteFlusher) bool {
	_, isNop := wf.(nopFlusher)
	return !isNop
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }
