package intcode

import (
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/jcorbin/intcode/internal/fileinput"
	"github.com/pkg/errors"
)

// Program is an Intcode program: the initial memory image of a machine.
// Each VM loads its own copy, so a Program may be shared freely.
type Program []int64

// Clone returns a copy of prog.
func (prog Program) Clone() Program {
	return append(Program(nil), prog...)
}

func (prog Program) String() string {
	var sb strings.Builder
	for i, val := range prog {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(val, 10))
	}
	return sb.String()
}

// ParseProgram parses comma-separated decimal integers from r.
// Whitespace around values is ignored, a trailing comma is allowed, and
// parsing stops at the end of the first non-empty line.
func ParseProgram(r io.Reader) (Program, error) {
	in := fileinput.Input{Queue: []io.Reader{r}}
	return parseProgram(&in)
}

// ParseProgramString parses program text from a string.
func ParseProgramString(s string) (Program, error) {
	return ParseProgram(fileinput.NamedReader("<string>", strings.NewReader(s)))
}

// MustParse parses program text from a string, panicking on error.
func MustParse(s string) Program {
	prog, err := ParseProgramString(s)
	if err != nil {
		panic(err)
	}
	return prog
}

// ReadProgramFile parses the program text stored in the named file.
func ReadProgramFile(name string) (Program, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open program")
	}
	defer f.Close()
	return ParseProgram(f)
}

func parseProgram(in *fileinput.Input) (prog Program, _ error) {
	var (
		tok    strings.Builder
		loc    fileinput.Location
		spaced bool
	)

	flush := func() error {
		val, err := strconv.ParseInt(tok.String(), 10, 64)
		if err != nil {
			return errors.Wrapf(err, "%v: invalid program value %q", loc, tok.String())
		}
		prog = append(prog, val)
		tok.Reset()
		spaced = false
		return nil
	}

	for {
		r, _, err := in.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, "failed to read program")
		}

		switch {
		case r == ',':
			if tok.Len() == 0 {
				return nil, errors.Errorf("%v: empty program value", in.Location())
			}
			if err := flush(); err != nil {
				return nil, err
			}

		case r == '\n':
			if tok.Len() > 0 {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			if len(prog) > 0 {
				return prog, nil
			}

		case unicode.IsSpace(r):
			spaced = tok.Len() > 0

		default:
			if spaced {
				return nil, errors.Errorf("%v: missing comma before %q", in.Location(), r)
			}
			if tok.Len() == 0 {
				loc = in.Location()
			}
			tok.WriteRune(r)
		}
	}

	if tok.Len() > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	if len(prog) == 0 {
		return nil, errors.Errorf("%v: empty program", in.Location().Name)
	}
	return prog, nil
}
