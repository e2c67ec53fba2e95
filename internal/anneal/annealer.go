// Package anneal drives a parallel simulated-annealing placement over a
// netlist, scoring every proposed swap with a cost.Evaluator.
package anneal

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/cost"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/metrics"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

const coolingFactor = 1.5

// Outcome of a proposed swap.
type Outcome int

const (
	Rejected Outcome = iota
	Good
	Bad
	// Conflict is an accepted move that lost a race with another worker
	// touching one of its elements and was not applied.
	Conflict
)

func (o Outcome) String() string {
	switch o {
	case Good:
		return "good"
	case Bad:
		return "bad"
	case Conflict:
		return "conflict"
	default:
		return "rejected"
	}
}

// Stats summarizes a run.
type Stats struct {
	Steps       int
	Good        int64
	Bad         int64
	Rejected    int64
	Conflicts   int64
	InitialCost core.Cost
	FinalCost   core.Cost
	Duration    time.Duration
}

type stepCounts struct {
	good, bad, rejected, conflicts int64
}

func (s *stepCounts) add(o stepCounts) {
	s.good += o.good
	s.bad += o.bad
	s.rejected += o.rejected
	s.conflicts += o.conflicts
}

// Annealer owns one run over a fully placed netlist.
type Annealer struct {
	nl     *netlist.Netlist
	ev     cost.Evaluator
	cfg    Config
	logger zerolog.Logger
}

// New validates cfg and returns an annealer.
//
//nolint:gocritic // Logger passed by value for constructor simplicity
func New(nl *netlist.Netlist, ev cost.Evaluator, cfg Config, logger zerolog.Logger) (*Annealer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nl.Len() < 2 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "new_annealer", "need at least 2 elements, got %d", nl.Len())
	}
	return &Annealer{
		nl:  nl,
		ev:  ev,
		cfg: cfg,
		logger: logger.With().
			Str("component", "anneal").
			Str("run_id", uuid.NewString()).
			Str("backend", ev.Name()).
			Logger(),
	}, nil
}

// Run anneals until the configured number of temperature steps completes or
// ctx is cancelled. Workers publish accepted swaps while others evaluate, so
// costs seen mid-step are per-neighbor snapshots, not a global one. Each
// accepted swap commits both locations or neither, so the placement stays a
// permutation of the initial one.
func (a *Annealer) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	var stats Stats

	initial, err := a.nl.TotalRoutingCost(a.ev)
	if err != nil {
		return stats, err
	}
	stats.InitialCost = initial
	metrics.AnnealRoutingCost.Set(float64(initial))
	a.logger.Info().
		Int("elements", a.nl.Len()).
		Int("workers", a.cfg.Workers).
		Int64("cost", int64(initial)).
		Msg("annealing started")

	rngs := make([]*rand.Rand, a.cfg.Workers)
	for w := range rngs {
		rngs[w] = rand.New(rand.NewPCG(a.cfg.Seed, uint64(w)+1))
	}

	temp := a.cfg.StartTemp
	var last stepCounts
	for a.keepGoing(stats.Steps, last) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		last, err = a.step(ctx, rngs, temp)
		if err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			return stats, errors.WrapComputationError(err, "anneal_step", "worker failed").
				WithContext("step", stats.Steps)
		}
		stats.Steps++
		stats.Good += last.good
		stats.Bad += last.bad
		stats.Rejected += last.rejected
		stats.Conflicts += last.conflicts

		a.logger.Debug().
			Int("step", stats.Steps).
			Float64("temperature", temp).
			Int64("good", last.good).
			Int64("bad", last.bad).
			Int64("rejected", last.rejected).
			Int64("conflicts", last.conflicts).
			Msg("temperature step done")

		temp /= coolingFactor
	}

	final, err := a.nl.TotalRoutingCost(a.ev)
	if err != nil {
		return stats, err
	}
	stats.FinalCost = final
	stats.Duration = time.Since(start)
	metrics.AnnealRoutingCost.Set(float64(final))

	a.logger.Info().
		Int("steps", stats.Steps).
		Int64("initial_cost", int64(stats.InitialCost)).
		Int64("final_cost", int64(final)).
		Int64("good", stats.Good).
		Int64("bad", stats.Bad).
		Int64("rejected", stats.Rejected).
		Int64("conflicts", stats.Conflicts).
		Dur("duration", stats.Duration).
		Msg("annealing finished")

	return stats, nil
}

func (a *Annealer) keepGoing(completed int, last stepCounts) bool {
	if a.cfg.TempSteps == -1 {
		return completed == 0 || last.good > last.bad
	}
	return completed < a.cfg.TempSteps
}

// step runs one temperature step on every worker and waits for all of them.
func (a *Annealer) step(ctx context.Context, rngs []*rand.Rand, temp float64) (stepCounts, error) {
	start := time.Now()
	metrics.AnnealTemperature.Set(temp)

	counts := make([]stepCounts, len(rngs))
	g, gctx := errgroup.WithContext(ctx)
	for w := range rngs {
		g.Go(func() error {
			return a.work(gctx, rngs[w], temp, &counts[w])
		})
	}
	if err := g.Wait(); err != nil {
		return stepCounts{}, err
	}

	var total stepCounts
	for _, c := range counts {
		total.add(c)
	}
	metrics.AnnealMovesTotal.WithLabelValues(Good.String()).Add(float64(total.good))
	metrics.AnnealMovesTotal.WithLabelValues(Bad.String()).Add(float64(total.bad))
	metrics.AnnealMovesTotal.WithLabelValues(Rejected.String()).Add(float64(total.rejected))
	metrics.AnnealMovesTotal.WithLabelValues(Conflict.String()).Add(float64(total.conflicts))
	metrics.AnnealTemperatureStepsTotal.Inc()
	metrics.AnnealStepDurationSeconds.Observe(time.Since(start).Seconds())
	return total, nil
}

func (a *Annealer) work(ctx context.Context, rng *rand.Rand, temp float64, counts *stepCounts) error {
	elems := a.nl.Elements()
	for i := 0; i < a.cfg.SwapsPerTemp; i++ {
		if i&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		ia := rng.IntN(len(elems))
		ib := rng.IntN(len(elems) - 1)
		if ib >= ia {
			ib++
		}
		o, err := a.trySwap(elems[ia], elems[ib], temp, rng)
		if err != nil {
			return err
		}
		switch o {
		case Good:
			counts.good++
		case Bad:
			counts.bad++
		case Conflict:
			counts.conflicts++
		default:
			counts.rejected++
		}
	}
	return nil
}

// trySwap scores exchanging the locations of x and y and commits the
// exchange if accepted. The commit fails, and the move becomes a Conflict,
// when another worker published either location after it was read here.
func (a *Annealer) trySwap(x, y *netlist.Element, temp float64, rng *rand.Rand) (Outcome, error) {
	ox, err := x.Observe()
	if err != nil {
		return Rejected, err
	}
	oy, err := y.Observe()
	if err != nil {
		return Rejected, err
	}

	dx, err := a.ev.SwapCost(x, ox.Loc, oy.Loc)
	if err != nil {
		return Rejected, err
	}
	dy, err := a.ev.SwapCost(y, oy.Loc, ox.Loc)
	if err != nil {
		return Rejected, err
	}

	o := Accept(dx+dy, temp, rng.Float64())
	if o == Rejected {
		return Rejected, nil
	}
	if !netlist.SwapLocations(x, y, ox, oy) {
		return Conflict, nil
	}
	return o, nil
}

// Accept applies the Metropolis rule: improvements are always taken, and a
// regression of delta is taken when exp(-delta/temp) exceeds u in [0,1).
func Accept(delta core.Cost, temp, u float64) Outcome {
	if delta < 0 {
		return Good
	}
	if math.Exp(-float64(delta)/temp) > u {
		return Bad
	}
	return Rejected
}
