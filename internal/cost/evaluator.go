// Package cost computes the wirelength cost of placing a netlist element at a
// grid location, and the change in that cost when the element moves while its
// neighbors stay put.
//
// Two backends implement Evaluator: ScalarEvaluator is the reference, and
// BatchEvaluator processes neighbors in fixed-width lane groups. Both return
// identical results for every input. Evaluators hold no per-call state and
// are safe for concurrent use.
package cost

import (
	"strings"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/metrics"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

// Evaluator computes routing costs against the current neighbor locations.
//
// Each neighbor location is read with one atomic snapshot, so a single call
// may observe neighbors at different instants while other goroutines publish.
// A neighbor that was never placed fails the call with
// *core.ErrUnassignedLocation.
type Evaluator interface {
	// RoutingCostGivenLoc returns the summed Manhattan distance from loc to
	// every fanin and fanout neighbor of e.
	RoutingCostGivenLoc(e *netlist.Element, loc core.Location) (core.Cost, error)
	// SwapCost returns the routing cost change if e alone moved from oldLoc
	// to newLoc. Negative is an improvement.
	SwapCost(e *netlist.Element, oldLoc, newLoc core.Location) (core.Cost, error)
	// Name identifies the backend.
	Name() string
}

var (
	_ Evaluator = (*ScalarEvaluator)(nil)
	_ Evaluator = (*BatchEvaluator)(nil)
	_ Evaluator = (*InstrumentedEvaluator)(nil)

	_ netlist.RoutingCoster = Evaluator(nil)
)

// Backend names accepted by New.
const (
	BackendScalar = "scalar"
	BackendBatch  = "batch"
	BackendAuto   = "auto"
)

// Config selects an evaluator backend.
type Config struct {
	// Backend is "scalar", "batch" or "auto". Empty means auto.
	Backend string `envconfig:"BACKEND" default:"auto"`
	// BatchWidth is the lane count of the batch backend. Zero means DefaultBatchWidth.
	BatchWidth int `envconfig:"BATCH_WIDTH" default:"4"`
}

// DefaultConfig returns the default evaluator configuration.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendAuto,
		BatchWidth: DefaultBatchWidth,
	}
}

// New builds the evaluator described by cfg. The auto backend picks batch when
// the CPU has a vector unit and scalar otherwise.
func New(cfg Config) (Evaluator, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" || backend == BackendAuto {
		backend = autoBackend()
	}

	var ev Evaluator
	switch backend {
	case BackendScalar:
		ev = NewScalarEvaluator()
	case BackendBatch:
		width := cfg.BatchWidth
		if width == 0 {
			width = DefaultBatchWidth
		}
		b, err := NewBatchEvaluator(width)
		if err != nil {
			return nil, err
		}
		ev = b
	default:
		return nil, core.NewInvalidArgumentError("backend", "unknown cost backend "+cfg.Backend)
	}

	metrics.EvaluatorDispatchTotal.WithLabelValues(ev.Name()).Inc()
	return ev, nil
}
