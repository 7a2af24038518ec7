package intcode

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Dump writes a disassembly of memory to w, one line per instruction.
// Words that do not decode as a complete instruction are listed as data, with
// runs of zero collapsed into a single line.
func Dump(w io.Writer, memory []int64) error {
	return dumper{out: w, mem: memory, ip: -1}.dump()
}

// Dump writes the VM's registers followed by a disassembly of its memory,
// marking the instruction at the instruction pointer.
// Only allocated memory is disassembled; the stretches between are listed as
// runs of zero, so a sparse memory makes for a short dump.
func (vm *VM) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# VM Dump\n  state: %v ip: %v rb: %v steps: %v\n",
		vm.state, vm.ip, vm.base, vm.steps); err != nil {
		return err
	}
	if vm.err != nil {
		if _, err := fmt.Fprintf(w, "  error: %v\n", vm.err); err != nil {
			return err
		}
	}

	hi := vm.mem.Len()
	dump := dumper{out: w, ip: int64(vm.ip), addrWidth: addrWidth(hi)}
	var err error
	addr := uint(0)
	vm.mem.Spans(func(base, end uint) bool {
		if base >= hi {
			return false
		}
		if end > hi {
			end = hi
		}
		if err = dump.zeros(addr, base); err != nil {
			return false
		}
		dump.base, dump.mem = base, make(Words, end-base)
		if err = vm.mem.LoadInto(base, dump.mem); err != nil {
			return false
		}
		err = dump.dump()
		addr = end
		return err == nil
	})
	if err != nil {
		return err
	}
	return dump.zeros(addr, hi)
}

type lineBuffer struct{ bytes.Buffer }

func (buf *lineBuffer) WriteTo(w io.Writer) (int64, error) {
	buf.WriteByte('\n')
	return buf.Buffer.WriteTo(w)
}

type dumper struct {
	out  io.Writer
	mem  Words
	base uint
	ip   int64

	addrWidth int
}

// addrWidth returns the number of digits needed for addresses below n.
func addrWidth(n uint) int {
	if n == 0 {
		return 1
	}
	return len(strconv.FormatUint(uint64(n-1), 10))
}

func (dump dumper) dump() error {
	if dump.addrWidth == 0 {
		dump.addrWidth = addrWidth(dump.base + uint(len(dump.mem)))
	}
	var buf lineBuffer
	for off := uint(0); off < uint(len(dump.mem)); {
		dump.mark(&buf, dump.base+off)
		off = dump.formatMem(&buf, off)
		if _, err := buf.WriteTo(dump.out); err != nil {
			return err
		}
	}
	return nil
}

// zeros lists the unallocated addresses in [addr, end), splitting the run
// around the instruction pointer so that it stays marked.
func (dump dumper) zeros(addr, end uint) error {
	var buf lineBuffer
	for addr < end {
		next := end
		if ip := dump.ip; ip >= 0 && uint(ip) >= addr && uint(ip) < end {
			if uint(ip) == addr {
				next = addr + 1
			} else {
				next = uint(ip)
			}
		}
		dump.mark(&buf, addr)
		zeroRun(&buf, next-addr)
		if _, err := buf.WriteTo(dump.out); err != nil {
			return err
		}
		addr = next
	}
	return nil
}

func (dump dumper) mark(buf *lineBuffer, addr uint) {
	mark := ' '
	if dump.ip >= 0 && uint(dump.ip) == addr {
		mark = '>'
	}
	fmt.Fprintf(buf, "%c @%*v ", mark, dump.addrWidth, addr)
}

func (dump dumper) formatMem(buf *lineBuffer, off uint) uint {
	if in, err := Decode(dump.mem, off); err == nil && off+in.Size() <= uint(len(dump.mem)) {
		buf.WriteString(in.String())
		return off + in.Size()
	}

	val := dump.mem[off]
	if val != 0 {
		fmt.Fprintf(buf, "data %v", val)
		return off + 1
	}

	end := off + 1
	for end < uint(len(dump.mem)) && dump.mem[end] == 0 && int64(dump.base+end) != dump.ip {
		end++
	}
	zeroRun(buf, end-off)
	return end
}

func zeroRun(buf *lineBuffer, n uint) {
	if n > 1 {
		fmt.Fprintf(buf, "data 0 x%v", n)
	} else {
		buf.WriteString("data 0")
	}
}
