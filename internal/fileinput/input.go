// Package fileinput reads runes sequentially through a queue of named input
// streams, tracking the current file and line for error reporting.
package fileinput

import (
	"fmt"
	"io"

	"github.com/jcorbin/intcode/internal/runeio"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input implements sequential rune reading through a Queue of one or more
// input streams.
type Input struct {
	Queue []io.Reader

	rr  io.RuneReader
	loc Location
	nl  bool
}

// Location returns the position of the most recently read rune; line feeds
// count as the end of the line they terminate.
func (in *Input) Location() Location { return in.loc }

// ReadRune reads one rune from the current input stream, advancing to the next
// queued stream at EOF. Returns io.EOF only after the last stream is done.
func (in *Input) ReadRune() (rune, int, error) {
	for {
		if in.rr == nil && !in.nextIn() {
			return 0, 0, io.EOF
		}
		r, n, err := in.rr.ReadRune()
		if n > 0 {
			if in.nl {
				in.loc.Line++
			}
			in.nl = r == '\n'
			return r, n, nil
		}
		if err == io.EOF {
			in.closeIn()
			continue
		}
		return 0, 0, err
	}
}

func (in *Input) closeIn() {
	if cl, ok := in.rr.(io.Closer); ok {
		cl.Close()
	}
	in.rr = nil
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.rr = runeio.NewReader(r)
	in.loc = Location{Name: runeio.Name(r), Line: 1}
	in.nl = false
	return true
}

// NamedReader attaches a name to r for use in Input locations.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
