package network

import (
	"fmt"

	"github.com/jcorbin/intcode"
)

// Packet is a message between network machines: a destination address and
// two values.
type Packet struct {
	Dest int
	X, Y int64
}

func (p Packet) String() string { return fmt.Sprintf("%v<-(%v, %v)", p.Dest, p.X, p.Y) }

// Packets returns an Output that groups values in threes, destination first,
// calling fn with each complete packet.
func Packets(fn func(Packet) error) intcode.Output {
	var (
		buf [3]int64
		n   int
	)
	return intcode.OutputFunc(func(val int64) error {
		buf[n] = val
		if n++; n < len(buf) {
			return nil
		}
		n = 0
		return fn(Packet{Dest: int(buf[0]), X: buf[1], Y: buf[2]})
	})
}
