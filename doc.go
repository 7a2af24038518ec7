/*
Package intcode implements the Intcode virtual machine.

An Intcode program is a list of signed integers that is loaded as the initial
memory of a machine. Memory is addressed from 0, grows on demand, and reads as
0 wherever nothing has been written.

Each instruction word encodes an opcode in its two lowest decimal digits, and
one parameter mode per parameter in the digits above those:

	1  add a, b -> c      5  jump to b if a != 0     9  adjust relative base by a
	2  mul a, b -> c      6  jump to b if a == 0    99  halt
	3  input -> a         7  c = a < b ? 1 : 0
	4  output a           8  c = a == b ? 1 : 0

Modes are 0 for position (the parameter is an address), 1 for immediate (the
parameter is the value), and 2 for relative (the parameter is an address offset
from the relative base). Parameters that are written to may not be immediate.

A VM talks to the world through an Input and an Output. When an input
instruction finds no value ready, the VM pauses in the AwaitingInput state
without consuming the instruction; Resume picks up where it left off once more
input is available. This is what lets many machines be scheduled
cooperatively; see the amplifier and network packages.

*/
package intcode
