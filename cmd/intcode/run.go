package main

import (
	"fmt"
	"os"

	"github.com/jcorbin/intcode"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program_file",
	Short: "Run an Intcode program.",
	Long: `Run an Intcode program to completion.
	Input values come from --input, and output values are printed one per line;
	with --ascii, standard input and output are used as text instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		prog := readProgram(cmd, args)
		ctx, cancel := commandContext(cmd)
		defer cancel()

		opts := vmOptions(cmd)
		if getFlag(cmd, "ascii") {
			opts = append(opts,
				intcode.WithInput(intcode.ASCIIInput(os.Stdin)),
				intcode.WithOutput(intcode.ASCIIOutput(os.Stdout)))
		} else {
			opts = append(opts,
				intcode.WithInput(intcode.Values(getInt64s(cmd, "input")...)),
				intcode.WithOutput(newLineOutput()))
		}
		if cmd.Flags().Changed("noun") {
			opts = append(opts, intcode.WithPatch(1, getInt64(cmd, "noun")))
		}
		if cmd.Flags().Changed("verb") {
			opts = append(opts, intcode.WithPatch(2, getInt64(cmd, "verb")))
		}

		vm := intcode.New(prog, opts...)
		err := vm.Run(ctx)
		log.Debugf("%v after %v steps", vm.State(), vm.Steps())
		if err != nil {
			debugDump(vm)
			fatal(err)
		}

		for _, addr := range getUints(cmd, "peek") {
			val, err := vm.Load(addr)
			if err != nil {
				fatal(err)
			}
			fmt.Printf("@%v = %v\n", addr, val)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int64SliceP("input", "i", nil, "input values, in order")
	runCmd.Flags().Bool("ascii", false, "use standard input and output as ASCII text")
	runCmd.Flags().Int64("noun", 0, "patch address 1 before running")
	runCmd.Flags().Int64("verb", 0, "patch address 2 before running")
	runCmd.Flags().UintSlice("peek", nil, "print memory at these addresses after halting")
}
