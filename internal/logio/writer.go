// Package logio adapts printf-style logging functions, like testing.T.Logf
// or a logrus level method, into io.Writer sinks.
package logio

import (
	"bytes"
	"sync"
)

// Writer is an io.Writer that logs each line written to it as one Logf call,
// prefixed by Prefix. Line endings, "\n" or "\r\n", are not logged.
// It is safe for use from multiple goroutines.
type Writer struct {
	Logf   func(string, ...interface{})
	Prefix string

	mu      sync.Mutex
	partial []byte
}

// Write logs every line that p completes, holding back any trailing partial
// line until a later Write or Sync finishes it.
func (lw *Writer) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	n := len(p)
	for {
		line, rest, found := bytes.Cut(p, []byte{'\n'})
		if !found {
			lw.partial = append(lw.partial, line...)
			return n, nil
		}
		lw.emit(line)
		p = rest
	}
}

// Sync logs any partial line still held back.
func (lw *Writer) Sync() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if len(lw.partial) > 0 {
		lw.emit(nil)
	}
	return nil
}

// Close calls Sync.
func (lw *Writer) Close() error { return lw.Sync() }

// emit logs the held back partial line followed by tail, then resets it.
func (lw *Writer) emit(tail []byte) {
	line := tail
	if len(lw.partial) > 0 {
		line = append(lw.partial, tail...)
		lw.partial = lw.partial[:0]
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})
	lw.Logf("%s%s", lw.Prefix, line)
}
