package main

import (
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(exitCode(newRootCmd().Execute()))
}

// exitCode maps bad input or configuration to exitUsage and every other
// failure to exitError.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case cerrors.IsType(err, cerrors.ErrorTypeValidation), cerrors.IsType(err, cerrors.ErrorTypeConfiguration):
		return exitUsage
	default:
		return exitError
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "canneal",
		Short:        "Parallel simulated-annealing placement of a netlist",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newBenchCmd(), newGenCmd())
	return root
}
