package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluatorDispatchTotal counts evaluator backend selections
	EvaluatorDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canneal_evaluator_dispatch_total",
			Help: "Number of times each cost evaluator backend was selected",
		},
		[]string{"backend"},
	)

	// EvaluatorCallsTotal counts instrumented evaluator calls
	EvaluatorCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canneal_evaluator_calls_total",
			Help: "Total number of cost evaluator calls",
		},
		[]string{"backend", "op"},
	)

	// EvaluatorErrorsTotal counts evaluator calls that returned an error
	EvaluatorErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canneal_evaluator_errors_total",
			Help: "Total number of cost evaluator calls that failed",
		},
		[]string{"backend", "op"},
	)

	// EvaluatorNeighborsTotal counts neighbor locations read by instrumented evaluators
	EvaluatorNeighborsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canneal_evaluator_neighbors_total",
			Help: "Total number of neighbor locations visited by cost evaluators",
		},
		[]string{"backend"},
	)

	// AnnealMovesTotal counts proposed swaps by outcome
	AnnealMovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canneal_anneal_moves_total",
			Help: "Total number of proposed swaps by outcome (good, bad, rejected, conflict)",
		},
		[]string{"outcome"},
	)

	// AnnealTemperatureStepsTotal counts completed temperature steps
	AnnealTemperatureStepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canneal_anneal_temperature_steps_total",
			Help: "Total number of completed temperature steps",
		},
	)

	// AnnealTemperature is the temperature of the step in progress
	AnnealTemperature = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "canneal_anneal_temperature",
			Help: "Current annealing temperature",
		},
	)

	// AnnealRoutingCost is the last measured total routing cost
	AnnealRoutingCost = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "canneal_anneal_routing_cost",
			Help: "Total routing cost of the placement at the last measurement",
		},
	)

	// AnnealStepDurationSeconds measures wall time per temperature step
	AnnealStepDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "canneal_anneal_step_duration_seconds",
			Help:    "Duration of one temperature step across all workers",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		},
	)

	// CheckpointOperationsTotal counts placement checkpoint reads and writes
	CheckpointOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canneal_checkpoint_operations_total",
			Help: "Total number of placement checkpoint operations",
		},
		[]string{"op", "status"},
	)
)
