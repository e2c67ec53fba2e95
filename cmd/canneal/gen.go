package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

func addGenFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("elements", 10000, "number of elements")
	f.Int32("max-x", 128, "grid width")
	f.Int32("max-y", 128, "grid height")
	f.Int("min-fanin", 1, "minimum fanin per element")
	f.Int("max-fanin", 5, "maximum fanin per element")
	f.Uint64("seed", 1, "random seed")
}

// genConfig reads the flags registered by addGenFlags.
func genConfig(cmd *cobra.Command) (netlist.GenConfig, *rand.Rand) {
	f := cmd.Flags()
	var cfg netlist.GenConfig
	cfg.Elements, _ = f.GetInt("elements")
	cfg.MaxX, _ = f.GetInt32("max-x")
	cfg.MaxY, _ = f.GetInt32("max-y")
	cfg.MinFanin, _ = f.GetInt("min-fanin")
	cfg.MaxFanin, _ = f.GetInt("max-fanin")
	seed, _ := f.GetUint64("seed")
	return cfg, rand.New(rand.NewPCG(seed, 0))
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a random netlist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, rng := genConfig(cmd)
			nl, err := netlist.Generate(rng, cfg)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" || out == "-" {
				return netlist.Write(cmd.OutOrStdout(), nl)
			}
			return writeNetlistFile(out, nl)
		},
	}
	addGenFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}

func writeNetlistFile(path string, nl *netlist.Netlist) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create netlist: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return netlist.Write(f, nl)
}
