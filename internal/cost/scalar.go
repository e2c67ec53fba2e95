package cost

import (
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

// ScalarEvaluator is the reference evaluator: one neighbor at a time.
type ScalarEvaluator struct{}

// NewScalarEvaluator returns the reference evaluator.
func NewScalarEvaluator() *ScalarEvaluator {
	return &ScalarEvaluator{}
}

func (*ScalarEvaluator) Name() string { return BackendScalar }

func (*ScalarEvaluator) RoutingCostGivenLoc(e *netlist.Element, loc core.Location) (core.Cost, error) {
	faninCost, err := routingCostScalar(e.Fanin, loc)
	if err != nil {
		return 0, err
	}
	fanoutCost, err := routingCostScalar(e.Fanout, loc)
	if err != nil {
		return 0, err
	}
	return faninCost + fanoutCost, nil
}

// SwapCost reads each neighbor once and scores it against both locations.
func (*ScalarEvaluator) SwapCost(e *netlist.Element, oldLoc, newLoc core.Location) (core.Cost, error) {
	var noSwap, yesSwap core.Cost
	for _, neighbors := range [2][]*netlist.Element{e.Fanin, e.Fanout} {
		for _, n := range neighbors {
			nl, err := n.Location()
			if err != nil {
				return 0, err
			}
			noSwap += core.AbsDiff(oldLoc.X, nl.X) + core.AbsDiff(oldLoc.Y, nl.Y)
			yesSwap += core.AbsDiff(newLoc.X, nl.X) + core.AbsDiff(newLoc.Y, nl.Y)
		}
	}
	return yesSwap - noSwap, nil
}

func routingCostScalar(neighbors []*netlist.Element, loc core.Location) (core.Cost, error) {
	var sum core.Cost
	for _, n := range neighbors {
		nl, err := n.Location()
		if err != nil {
			return 0, err
		}
		sum += core.AbsDiff(loc.X, nl.X) + core.AbsDiff(loc.Y, nl.Y)
	}
	return sum, nil
}
