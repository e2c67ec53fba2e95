package cost

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/metrics"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

const (
	opRoutingCost = "routing_cost"
	opSwapCost    = "swap_cost"
)

// InstrumentedEvaluator counts calls, failures and visited neighbors of
// another evaluator in Prometheus. Results pass through unchanged.
type InstrumentedEvaluator struct {
	next Evaluator

	routingCalls  prometheus.Counter
	routingErrors prometheus.Counter
	swapCalls     prometheus.Counter
	swapErrors    prometheus.Counter
	neighbors     prometheus.Counter
}

// Instrument wraps ev with metrics.
func Instrument(ev Evaluator) *InstrumentedEvaluator {
	name := ev.Name()
	return &InstrumentedEvaluator{
		next:          ev,
		routingCalls:  metrics.EvaluatorCallsTotal.WithLabelValues(name, opRoutingCost),
		routingErrors: metrics.EvaluatorErrorsTotal.WithLabelValues(name, opRoutingCost),
		swapCalls:     metrics.EvaluatorCallsTotal.WithLabelValues(name, opSwapCost),
		swapErrors:    metrics.EvaluatorErrorsTotal.WithLabelValues(name, opSwapCost),
		neighbors:     metrics.EvaluatorNeighborsTotal.WithLabelValues(name),
	}
}

// Unwrap returns the wrapped evaluator.
func (i *InstrumentedEvaluator) Unwrap() Evaluator { return i.next }

func (i *InstrumentedEvaluator) Name() string { return i.next.Name() }

func (i *InstrumentedEvaluator) RoutingCostGivenLoc(e *netlist.Element, loc core.Location) (core.Cost, error) {
	i.routingCalls.Inc()
	i.neighbors.Add(float64(e.NumNeighbors()))
	c, err := i.next.RoutingCostGivenLoc(e, loc)
	if err != nil {
		i.routingErrors.Inc()
	}
	return c, err
}

func (i *InstrumentedEvaluator) SwapCost(e *netlist.Element, oldLoc, newLoc core.Location) (core.Cost, error) {
	i.swapCalls.Inc()
	i.neighbors.Add(float64(e.NumNeighbors()))
	c, err := i.next.SwapCost(e, oldLoc, newLoc)
	if err != nil {
		i.swapErrors.Inc()
	}
	return c, err
}
