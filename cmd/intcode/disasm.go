package main

import (
	"os"

	"github.com/jcorbin/intcode"
	"github.com/jcorbin/intcode/internal/flushio"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] program_file",
	Short: "Disassemble an Intcode program.",
	Long: `Print one line per instruction, with decoded parameter modes.
	Words that do not decode as an instruction are listed as data.`,
	Run: func(cmd *cobra.Command, args []string) {
		prog := readProgram(cmd, args)
		out := flushio.NewWriteFlusher(os.Stdout)
		if err := intcode.Dump(out, prog); err != nil {
			fatal(err)
		}
		if flushio.IsBuffered(out) {
			if err := out.Flush(); err != nil {
				fatal(err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
