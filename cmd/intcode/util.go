package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jcorbin/intcode"
	"github.com/jcorbin/intcode/internal/flushio"
	"github.com/jcorbin/intcode/internal/logio"
	"github.com/jcorbin/intcode/internal/panicerr"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

func getInt64(cmd *cobra.Command, flag string) int64 {
	r, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

func getInt64s(cmd *cobra.Command, flag string) []int64 {
	r, err := cmd.Flags().GetInt64Slice(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

func getUints(cmd *cobra.Command, flag string) []uint {
	r, err := cmd.Flags().GetUintSlice(flag)
	if err != nil {
		fatal(err)
	}
	return r
}

func fatal(err error) {
	if panicerr.IsPanic(err) {
		log.Debugf("panic stack:\n%s", panicerr.PanicStack(err))
	} else if panicerr.IsExit(err) {
		log.Debugf("machine goroutine exited early")
	}
	log.Fatal(err)
}

// Read the single program file argument; "-" reads standard input.
func readProgram(cmd *cobra.Command, args []string) intcode.Program {
	if len(args) != 1 {
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	var (
		prog intcode.Program
		err  error
	)
	if args[0] == "-" {
		prog, err = intcode.ParseProgram(os.Stdin)
	} else {
		prog, err = intcode.ReadProgramFile(args[0])
	}
	if err != nil {
		fatal(err)
	}
	log.Debugf("read %v values from %v", len(prog), args[0])
	return prog
}

// Options shared by every machine started from the command line.
func vmOptions(cmd *cobra.Command) []intcode.Option {
	var opts []intcode.Option
	if limit := getUint(cmd, "mem-limit"); limit > 0 {
		opts = append(opts, intcode.WithMemLimit(limit))
	}
	if log.IsLevelEnabled(log.TraceLevel) {
		opts = append(opts, intcode.WithLogf(log.Tracef))
	}
	return opts
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		fatal(err)
	}
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

// Dump a stopped machine to the debug log.
func debugDump(vm *intcode.VM) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	lw := logio.Writer{Logf: log.Debugf}
	defer lw.Close()
	if err := vm.Dump(&lw); err != nil {
		log.Warnf("dump failed: %v", err)
	}
}

// lineOutput writes each value as a decimal line.
type lineOutput struct{ flushio.WriteFlusher }

func newLineOutput() lineOutput { return lineOutput{flushio.NewWriteFlusher(os.Stdout)} }

func (lo lineOutput) EmitOutput(val int64) error {
	_, err := fmt.Fprintln(lo.WriteFlusher, val)
	return err
}
