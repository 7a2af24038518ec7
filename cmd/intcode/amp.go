package main

import (
	"fmt"

	"github.com/jcorbin/intcode/amplifier"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var ampCmd = &cobra.Command{
	Use:   "amp [flags] program_file",
	Short: "Run a chain of amplifiers.",
	Long: `Run one copy of the program per phase setting, passing a signal along
	the chain from 0. With --feedback the chain is closed into a ring; with
	--search every ordering of the phases is tried and the best one reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		prog := readProgram(cmd, args)
		ctx, cancel := commandContext(cmd)
		defer cancel()

		phases := getInt64s(cmd, "phases")
		run := amplifier.Runner(amplifier.Chain)
		if getFlag(cmd, "feedback") {
			run = amplifier.Feedback
			if getFlag(cmd, "concurrent") {
				run = amplifier.FeedbackConcurrent
			}
		}

		if getFlag(cmd, "search") {
			signal, best, err := amplifier.MaxSignal(ctx, prog, phases, run, vmOptions(cmd)...)
			if err != nil {
				fatal(err)
			}
			log.Debugf("best phases %v", best)
			fmt.Printf("%v %v\n", signal, best)
			return
		}

		signal, err := run(ctx, prog, phases, vmOptions(cmd)...)
		if err != nil {
			fatal(err)
		}
		fmt.Println(signal)
	},
}

func init() {
	rootCmd.AddCommand(ampCmd)
	ampCmd.Flags().Int64Slice("phases", []int64{0, 1, 2, 3, 4}, "phase settings, one per amplifier")
	ampCmd.Flags().Bool("feedback", false, "connect the last amplifier back to the first")
	ampCmd.Flags().Bool("concurrent", false, "run each feedback stage on its own goroutine")
	ampCmd.Flags().Bool("search", false, "find the phase ordering with the highest signal")
}
