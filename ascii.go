package intcode

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/intcode/internal/flushio"
	"github.com/jcorbin/intcode/internal/runeio"
)

// ASCIIInput returns an Input that feeds each rune read from r as one value.
// At EOF it reports no value; any other read error faults the machine.
func ASCIIInput(r io.Reader) Input {
	return &asciiInput{rr: runeio.NewReader(r)}
}

type asciiInput struct {
	rr  runeio.Reader
	err error
}

func (ai *asciiInput) NextInput() (int64, bool) {
	if ai.err != nil {
		return 0, false
	}
	r, _, err := ai.rr.ReadRune()
	if err != nil {
		if err != io.EOF {
			ai.err = err
		}
		return 0, false
	}
	return int64(r), true
}

func (ai *asciiInput) Err() error { return ai.err }

// ASCIIOutput returns an Output that writes values in the ASCII range to w as
// runes, and any other value as a decimal number on its own line.
// Output is buffered; the VM flushes it before reading input and when it stops.
func ASCIIOutput(w io.Writer) Output {
	return asciiOutput{flushio.NewWriteFlusher(w)}
}

type asciiOutput struct{ flushio.WriteFlusher }

func (ao asciiOutput) EmitOutput(val int64) error {
	if isASCII(val) {
		_, err := runeio.WriteRune(ao.WriteFlusher, rune(val))
		return err
	}
	_, err := fmt.Fprintf(ao.WriteFlusher, "%d\n", val)
	return err
}

func isASCII(val int64) bool { return 0 <= val && val < 0x80 }

// EncodeASCII converts s into input values, one per rune.
func EncodeASCII(s string) []int64 {
	vals := make([]int64, 0, len(s))
	for _, r := range s {
		vals = append(vals, int64(r))
	}
	return vals
}

// DecodeASCII splits output values into the text formed by ASCII-range values
// and the remaining non-ASCII values, both in order.
func DecodeASCII(vals []int64) (text string, rest []int64) {
	var sb strings.Builder
	for _, val := range vals {
		if isASCII(val) {
			sb.WriteByte(byte(val))
		} else {
			rest = append(rest, val)
		}
	}
	return sb.String(), rest
}
