// Package network simulates a packet-switched network of Intcode machines,
// with a NAT that wakes the network whenever it goes idle.
package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcorbin/intcode"
)

var (
	// ErrNoNATPacket is returned when the network goes idle before the NAT
	// has captured any packet.
	ErrNoNATPacket = errors.New("network idle with no NAT packet")

	// ErrAllHalted is returned when every machine has halted.
	ErrAllHalted = errors.New("all machines halted")

	// ErrMaxRounds is returned when Config.MaxRounds is exceeded.
	ErrMaxRounds = errors.New("round limit exceeded")

	// ErrBadDestination faults a machine that sends a packet to an address
	// that is neither a machine nor the NAT.
	ErrBadDestination = errors.New("invalid packet destination")
)

// MachineError is an error from the machine at Addr.
type MachineError struct {
	Addr int
	Err  error
}

func (me *MachineError) Error() string { return fmt.Sprintf("machine %v: %v", me.Addr, me.Err) }

func (me *MachineError) Unwrap() error { return me.Err }

// Config parameterizes a network simulation.
type Config struct {
	// Size is the number of machines, addressed from 0.
	Size int

	// NATAddr is the address captured by the NAT.
	NATAddr int

	// IdleRounds is how many consecutive rounds must pass, with no machine
	// receiving a queued value or sending anything, before the network is
	// idle and the NAT delivers its packet to machine 0.
	IdleRounds int

	// MaxRounds, if positive, limits how many rounds are run.
	MaxRounds int

	// Logf, if set, receives network events, e.g. NAT captures and deliveries.
	Logf func(mess string, args ...interface{})
}

// DefaultConfig returns the configuration of the standard 50 machine network.
func DefaultConfig() Config {
	return Config{
		Size:       50,
		NATAddr:    255,
		IdleRounds: 1,
	}
}

// Result reports how a simulation ended.
type Result struct {
	// First is the first packet sent to the NAT.
	First Packet

	// Repeated is the NAT delivery whose Y value repeated that of the
	// delivery just before it.
	Repeated Packet

	// Rounds counts polling rounds; Deliveries counts NAT deliveries.
	Rounds     int
	Deliveries int

	// Dropped counts packets sent to machines that had already halted.
	Dropped int
}

// Network is a set of machines, each running its own copy of one program,
// exchanging packets.
//
// Machines are polled in address order, each running until it needs input
// that is not ready. In every round a machine is first given any values queued
// for it, then one -1 meaning "no packet"; asking again in the same round
// suspends it until the next round.
type Network struct {
	cfg  Config
	nics []*nic

	nat      Packet
	first    Packet
	hasFirst bool
	sent     int
	dropped  int
}

type nic struct {
	addr  int
	vm    *intcode.VM
	queue intcode.Queue

	polled   bool
	consumed bool
}

func (n *nic) NextInput() (int64, bool) {
	if val, ok := n.queue.NextInput(); ok {
		n.consumed = true
		return val, true
	}
	if !n.polled {
		n.polled = true
		return -1, true
	}
	return 0, false
}

// Run simulates a network running prog until the NAT delivers the same Y value
// twice in a row; any options apply to every machine.
func Run(ctx context.Context, prog intcode.Program, cfg Config, opts ...intcode.Option) (Result, error) {
	return New(prog, cfg, opts...).Run(ctx)
}

// New creates a network of cfg.Size machines, each with its address queued as
// its first input.
func New(prog intcode.Program, cfg Config, opts ...intcode.Option) *Network {
	if cfg.IdleRounds < 1 {
		cfg.IdleRounds = 1
	}
	net := &Network{cfg: cfg}
	net.nics = make([]*nic, cfg.Size)
	for addr := range net.nics {
		n := &nic{addr: addr}
		n.queue.Push(int64(addr))
		n.vm = intcode.New(prog,
			intcode.Options(opts...),
			intcode.WithInput(n),
			intcode.WithOutput(Packets(net.route)),
			intcode.WithLogPrefix(fmt.Sprintf("%02d: ", addr)),
		)
		net.nics[addr] = n
	}
	return net
}

func (net *Network) logf(mess string, args ...interface{}) {
	if net.cfg.Logf != nil {
		net.cfg.Logf(mess, args...)
	}
}

func (net *Network) route(p Packet) error {
	net.sent++
	if p.Dest == net.cfg.NATAddr {
		if !net.hasFirst {
			net.first, net.hasFirst = p, true
			net.logf("nat first %v", p)
		}
		net.nat = p
		return nil
	}
	if p.Dest < 0 || p.Dest >= len(net.nics) {
		return fmt.Errorf("%w %v", ErrBadDestination, p.Dest)
	}
	net.deliver(p)
	return nil
}

// deliver queues p for its destination machine, or drops it if that machine
// has halted and will never read it.
func (net *Network) deliver(p Packet) {
	n := net.nics[p.Dest]
	if n.vm.State() == intcode.Halted {
		net.dropped++
		net.logf("drop %v", p)
		return
	}
	n.queue.Push(p.X, p.Y)
}

// Run polls machines round after round, delivering the NAT's packet whenever
// the network has been idle for cfg.IdleRounds rounds.
func (net *Network) Run(ctx context.Context) (res Result, err error) {
	var (
		idle    int
		lastY   int64
		hasLast bool
	)
	for {
		if limit := net.cfg.MaxRounds; limit > 0 && res.Rounds >= limit {
			return res, ErrMaxRounds
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Rounds++
		active, err := net.round(ctx)
		if err != nil {
			return res, err
		}
		res.First = net.first
		res.Dropped = net.dropped
		if active {
			idle = 0
			continue
		}

		if idle++; idle < net.cfg.IdleRounds {
			continue
		}
		idle = 0
		if !net.hasFirst {
			return res, ErrNoNATPacket
		}

		p := net.nat
		p.Dest = 0
		net.deliver(p)
		res.Dropped = net.dropped
		res.Deliveries++
		net.logf("nat deliver %v after round %v", p, res.Rounds)
		if hasLast && p.Y == lastY {
			res.Repeated = p
			return res, nil
		}
		lastY, hasLast = p.Y, true
	}
}

// round polls every running machine once, returning whether any machine
// received a queued value, sent output, or still has values queued.
func (net *Network) round(ctx context.Context) (active bool, _ error) {
	net.sent = 0
	running := 0
	for _, n := range net.nics {
		n.polled, n.consumed = false, false
		if n.vm.State() == intcode.Halted {
			continue
		}
		if _, err := n.vm.Resume(ctx); err != nil {
			return false, &MachineError{n.addr, err}
		}
		if n.consumed {
			active = true
		}
		if n.vm.State() == intcode.Halted {
			if pending := n.queue.Len(); pending > 0 {
				net.dropped += pending / 2
				net.logf("drop %v values queued for halted machine %v", pending, n.addr)
				n.queue = intcode.Queue{}
			}
			continue
		}
		running++
		if n.queue.Len() > 0 {
			active = true
		}
	}
	if running == 0 {
		return false, ErrAllHalted
	}
	return active || net.sent > 0, nil
}
