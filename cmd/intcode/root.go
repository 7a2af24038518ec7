package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intcode",
	Short: "Run and inspect Intcode programs.",
	Long: `Run and inspect Intcode programs.
	Programs are read from a file of comma-separated integers, or from
	standard input when the file is given as "-".`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		if getFlag(cmd, "trace") {
			log.SetLevel(log.TraceLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("trace", false, "log every executed instruction")
	rootCmd.PersistentFlags().Uint("mem-limit", 0, "limit machine memory, in cells (0 for no limit)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "abort after the given duration (0 for no timeout)")
}
