package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/cost"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

type move struct {
	e              *netlist.Element
	oldLoc, newLoc core.Location
}

type benchResult struct {
	name    string
	total   core.Cost
	elapsed time.Duration
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare cost backends on a random netlist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, _ := cmd.Flags().GetInt("moves")
			if n < 1 {
				return errors.Newf(errors.ErrorTypeValidation, "bench", "moves must be positive, got %d", n)
			}

			cfg, rng := genConfig(cmd)
			nl, err := netlist.Generate(rng, cfg)
			if err != nil {
				return err
			}
			if nl.Len() < 2 {
				return errors.NewValidationError("bench", "need at least 2 elements")
			}

			moves := make([]move, n)
			elems := nl.Elements()
			for i := range moves {
				a, b := elems[rng.IntN(len(elems))], elems[rng.IntN(len(elems))]
				oldLoc, err := a.Location()
				if err != nil {
					return err
				}
				newLoc, err := b.Location()
				if err != nil {
					return err
				}
				moves[i] = move{e: a, oldLoc: oldLoc, newLoc: newLoc}
			}

			widths, _ := cmd.Flags().GetIntSlice("widths")
			evs := []cost.Evaluator{&cost.ScalarEvaluator{}}
			for _, w := range widths {
				ev, err := cost.NewBatchEvaluator(w)
				if err != nil {
					return err
				}
				evs = append(evs, ev)
			}

			results := make([]benchResult, 0, len(evs))
			for _, ev := range evs {
				r, err := benchEvaluator(ev, moves)
				if err != nil {
					return err
				}
				if len(results) > 0 && r.total != results[0].total {
					return errors.NewComputationError("bench", fmt.Sprintf(
						"%s disagrees with %s: %d != %d", r.name, results[0].name, r.total, results[0].total))
				}
				results = append(results, r)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BACKEND\tMOVES\tNS/MOVE\tSPEEDUP")
			base := results[0].elapsed
			for _, r := range results {
				perMove := float64(r.elapsed.Nanoseconds()) / float64(len(moves))
				speedup := float64(base) / float64(max(r.elapsed, 1))
				fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.2fx\n", r.name, len(moves), perMove, speedup)
			}
			return tw.Flush()
		},
	}
	addGenFlags(cmd)
	cmd.Flags().Int("moves", 100000, "number of swap evaluations per backend")
	cmd.Flags().IntSlice("widths", []int{4, 8, 16}, "batch widths to compare")
	return cmd
}

func benchEvaluator(ev cost.Evaluator, moves []move) (benchResult, error) {
	r := benchResult{name: ev.Name()}
	if b, ok := ev.(*cost.BatchEvaluator); ok {
		r.name = fmt.Sprintf("%s/%d", ev.Name(), b.Width())
	}
	start := time.Now()
	for _, m := range moves {
		c, err := ev.SwapCost(m.e, m.oldLoc, m.newLoc)
		if err != nil {
			return r, err
		}
		r.total += c
	}
	r.elapsed = time.Since(start)
	return r, nil
}
