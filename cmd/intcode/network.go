package main

import (
	"fmt"

	"github.com/jcorbin/intcode/network"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network [flags] program_file",
	Short: "Run a network of machines until its NAT repeats itself.",
	Long: `Run one copy of the program per network address, routing packets
	between them. Reports the first packet sent to the NAT, and the first NAT
	delivery whose Y value repeats the one before it.`,
	Run: func(cmd *cobra.Command, args []string) {
		prog := readProgram(cmd, args)
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg := network.DefaultConfig()
		cfg.Size = getInt(cmd, "size")
		cfg.NATAddr = getInt(cmd, "nat-addr")
		cfg.IdleRounds = getInt(cmd, "idle-rounds")
		cfg.MaxRounds = getInt(cmd, "max-rounds")
		cfg.Logf = log.Debugf

		res, err := network.Run(ctx, prog, cfg, vmOptions(cmd)...)
		log.Debugf("%v rounds, %v NAT deliveries, %v dropped", res.Rounds, res.Deliveries, res.Dropped)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("first: %v\n", res.First.Y)
		fmt.Printf("repeated: %v\n", res.Repeated.Y)
	},
}

func init() {
	def := network.DefaultConfig()
	rootCmd.AddCommand(networkCmd)
	networkCmd.Flags().Int("size", def.Size, "number of machines")
	networkCmd.Flags().Int("nat-addr", def.NATAddr, "address of the NAT")
	networkCmd.Flags().Int("idle-rounds", def.IdleRounds, "idle rounds before the NAT delivers")
	networkCmd.Flags().Int("max-rounds", 0, "give up after this many rounds (0 for no limit)")
}
