package anneal

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/cost"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/logging"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

func testNetlist(t *testing.T, seed uint64) *netlist.Netlist {
	t.Helper()
	n, err := netlist.Generate(rand.New(rand.NewPCG(seed, 0)), netlist.GenConfig{
		Elements: 200, MaxX: 16, MaxY: 16, MinFanin: 1, MaxFanin: 5,
	})
	require.NoError(t, err)
	return n
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"no swaps", func(c *Config) { c.SwapsPerTemp = 0 }},
		{"zero temperature", func(c *Config) { c.StartTemp = 0 }},
		{"negative steps", func(c *Config) { c.TempSteps = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
		})
	}
}

func TestAccept(t *testing.T) {
	assert.Equal(t, Good, Accept(-1, 1, 0.99))
	assert.Equal(t, Bad, Accept(0, 1, 0.99), "zero delta is always taken")
	assert.Equal(t, Bad, Accept(1, 100, 0.5))
	assert.Equal(t, Rejected, Accept(1000, 1, 0))
	assert.Equal(t, "good", Good.String())
	assert.Equal(t, "bad", Bad.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "conflict", Conflict.String())
}

func TestNewRejectsTinyNetlist(t *testing.T) {
	n := netlist.New(2, 2)
	n.CreateElement("only")
	_, err := New(n, cost.NewScalarEvaluator(), DefaultConfig(), logging.DiscardLogger())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

// With one worker and a near-zero temperature only swaps scored as
// non-worsening are taken, and no swap can conflict.
func TestRunSingleWorkerImproves(t *testing.T) {
	n := testNetlist(t, 1)
	before, err := n.Snapshot()
	require.NoError(t, err)

	ev, err := cost.NewBatchEvaluator(cost.DefaultBatchWidth)
	require.NoError(t, err)
	cfg := Config{Workers: 1, SwapsPerTemp: 2000, StartTemp: 1e-9, TempSteps: 5, Seed: 3}
	a, err := New(n, ev, cfg, logging.DiscardLogger())
	require.NoError(t, err)

	stats, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Steps)
	assert.Equal(t, int64(5*2000), stats.Good+stats.Bad+stats.Rejected)
	assert.Positive(t, stats.Good)
	assert.Zero(t, stats.Conflicts)
	assert.Less(t, stats.FinalCost, stats.InitialCost)

	total, err := n.TotalRoutingCost(cost.NewScalarEvaluator())
	require.NoError(t, err)
	assert.Equal(t, stats.FinalCost, total)

	after, err := n.Snapshot()
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)
}

func TestRunIsDeterministicWithOneWorker(t *testing.T) {
	run := func() []core.Location {
		n := testNetlist(t, 2)
		cfg := Config{Workers: 1, SwapsPerTemp: 500, StartTemp: 50, TempSteps: 4, Seed: 9}
		a, err := New(n, cost.NewScalarEvaluator(), cfg, logging.DiscardLogger())
		require.NoError(t, err)
		_, err = a.Run(context.Background())
		require.NoError(t, err)
		locs, err := n.Snapshot()
		require.NoError(t, err)
		return locs
	}
	assert.Equal(t, run(), run())
}

func TestRunConcurrentWorkers(t *testing.T) {
	for _, backend := range []string{cost.BackendScalar, cost.BackendBatch} {
		t.Run(backend, func(t *testing.T) {
			n := testNetlist(t, 4)
			ev, err := cost.New(cost.Config{Backend: backend})
			require.NoError(t, err)

			cfg := Config{Workers: 8, SwapsPerTemp: 1000, StartTemp: 100, TempSteps: 3, Seed: 5}
			a, err := New(n, cost.Instrument(ev), cfg, logging.DiscardLogger())
			require.NoError(t, err)

			before, err := n.Snapshot()
			require.NoError(t, err)

			stats, err := a.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(3*8*1000), stats.Good+stats.Bad+stats.Rejected+stats.Conflicts)

			after, err := n.Snapshot()
			require.NoError(t, err)
			assert.ElementsMatch(t, before, after)
		})
	}
}

// A full grid at a very high temperature accepts almost every move, so
// workers constantly collide on the same elements. Every slot must still be
// occupied exactly once afterwards.
func TestRunConcurrentWorkersKeepPermutation(t *testing.T) {
	n, err := netlist.Generate(rand.New(rand.NewPCG(11, 0)), netlist.GenConfig{
		Elements: 16, MaxX: 4, MaxY: 4, MinFanin: 1, MaxFanin: 3,
	})
	require.NoError(t, err)
	before, err := n.Snapshot()
	require.NoError(t, err)

	cfg := Config{Workers: 8, SwapsPerTemp: 20000, StartTemp: 1e6, TempSteps: 5, Seed: 2}
	a, err := New(n, cost.NewScalarEvaluator(), cfg, logging.DiscardLogger())
	require.NoError(t, err)

	stats, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, stats.Good+stats.Bad)

	after, err := n.Snapshot()
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)

	slots := make(map[core.Location]string, len(after))
	for i, loc := range after {
		if prev, dup := slots[loc]; dup {
			t.Fatalf("slot %v held by both %s and %s", loc, prev, n.Elements()[i].Name)
		}
		slots[loc] = n.Elements()[i].Name
	}
	assert.Len(t, slots, 16)

	total, err := n.TotalRoutingCost(cost.NewScalarEvaluator())
	require.NoError(t, err)
	assert.Equal(t, stats.FinalCost, total)
}

type failingEvaluator struct {
	cost.Evaluator
}

func (failingEvaluator) SwapCost(*netlist.Element, core.Location, core.Location) (core.Cost, error) {
	return 0, core.NewInvalidArgumentError("element", "scoring failed")
}

func TestRunWorkerErrorIsComputation(t *testing.T) {
	n := testNetlist(t, 8)
	cfg := Config{Workers: 2, SwapsPerTemp: 10, StartTemp: 1, TempSteps: 1, Seed: 1}
	a, err := New(n, failingEvaluator{cost.NewScalarEvaluator()}, cfg, logging.DiscardLogger())
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeComputation))
	var invalid *core.ErrInvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestRunUntilNoImprovement(t *testing.T) {
	n := testNetlist(t, 6)
	cfg := Config{Workers: 2, SwapsPerTemp: 300, StartTemp: 10, TempSteps: -1, Seed: 1}
	a, err := New(n, cost.NewScalarEvaluator(), cfg, logging.DiscardLogger())
	require.NoError(t, err)

	stats, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Steps, 1)
}

func TestRunCancelled(t *testing.T) {
	n := testNetlist(t, 7)
	a, err := New(n, cost.NewScalarEvaluator(), DefaultConfig(), logging.DiscardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunUnplacedNetlist(t *testing.T) {
	n := netlist.New(4, 4)
	x, y := n.CreateElement("x"), n.CreateElement("y")
	n.Connect(x, y)

	a, err := New(n, cost.NewScalarEvaluator(), DefaultConfig(), logging.DiscardLogger())
	require.NoError(t, err)
	_, err = a.Run(context.Background())
	var unassigned *core.ErrUnassignedLocation
	assert.ErrorAs(t, err, &unassigned)
}
