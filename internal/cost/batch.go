package cost

import (
	"fmt"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

const (
	// DefaultBatchWidth matches four 32-bit lanes of a 128-bit vector register.
	DefaultBatchWidth = 4
	// MaxBatchWidth bounds the call-local lane groups.
	MaxBatchWidth = 16
)

// lanes is one lane group. Only the first width lanes of an evaluator are live.
type lanes [MaxBatchWidth]int64

// BatchEvaluator processes the fanin list, then the fanout list, in groups of
// width neighbors. A trailing partial group is padded with the query
// coordinate itself, which contributes zero to that accumulator, so results
// equal ScalarEvaluator exactly. With width 1 it degenerates to the scalar
// algorithm.
//
// Lane groups live on the stack of each call and are never shared.
type BatchEvaluator struct {
	width int
}

// NewBatchEvaluator returns a batch evaluator with the given lane count.
func NewBatchEvaluator(width int) (*BatchEvaluator, error) {
	if width < 1 || width > MaxBatchWidth {
		return nil, core.NewInvalidArgumentError("batch_width",
			fmt.Sprintf("must be in [1, %d], got %d", MaxBatchWidth, width))
	}
	return &BatchEvaluator{width: width}, nil
}

func (*BatchEvaluator) Name() string { return BackendBatch }

// Width returns the lane count.
func (b *BatchEvaluator) Width() int { return b.width }

func (b *BatchEvaluator) RoutingCostGivenLoc(e *netlist.Element, loc core.Location) (core.Cost, error) {
	faninCost, err := b.routingCostPass(e.Fanin, loc)
	if err != nil {
		return 0, err
	}
	fanoutCost, err := b.routingCostPass(e.Fanout, loc)
	if err != nil {
		return 0, err
	}
	return faninCost + fanoutCost, nil
}

func (b *BatchEvaluator) SwapCost(e *netlist.Element, oldLoc, newLoc core.Location) (core.Cost, error) {
	faninNo, faninYes, err := b.swapCostPass(e.Fanin, oldLoc, newLoc)
	if err != nil {
		return 0, err
	}
	fanoutNo, fanoutYes, err := b.swapCostPass(e.Fanout, oldLoc, newLoc)
	if err != nil {
		return 0, err
	}
	return (faninYes + fanoutYes) - (faninNo + fanoutNo), nil
}

func (b *BatchEvaluator) routingCostPass(neighbors []*netlist.Element, loc core.Location) (core.Cost, error) {
	if len(neighbors) == 0 {
		return 0, nil
	}
	w := b.width

	var xs, ys, qx, qy, acc lanes
	broadcast(&qx, loc.X, w)
	broadcast(&qy, loc.Y, w)

	full := len(neighbors) - len(neighbors)%w
	for i := 0; i < full; i += w {
		if err := gather(neighbors[i:i+w], &xs, &ys); err != nil {
			return 0, err
		}
		addAbsDiff(&acc, &xs, &qx, w)
		addAbsDiff(&acc, &ys, &qy, w)
	}

	if r := len(neighbors) - full; r > 0 {
		if err := gather(neighbors[full:], &xs, &ys); err != nil {
			return 0, err
		}
		pad(&xs, &ys, loc, r, w)
		addAbsDiff(&acc, &xs, &qx, w)
		addAbsDiff(&acc, &ys, &qy, w)
	}

	return reduce(&acc, w), nil
}

// swapCostPass accumulates cost at oldLoc (noSwap) and newLoc (yesSwap) over
// one neighbor list, gathering each neighbor once for both.
func (b *BatchEvaluator) swapCostPass(neighbors []*netlist.Element, oldLoc, newLoc core.Location) (noSwap, yesSwap core.Cost, err error) {
	if len(neighbors) == 0 {
		return 0, 0, nil
	}
	w := b.width

	var xs, ys, oldX, oldY, newX, newY, noAcc, yesAcc lanes
	broadcast(&oldX, oldLoc.X, w)
	broadcast(&oldY, oldLoc.Y, w)
	broadcast(&newX, newLoc.X, w)
	broadcast(&newY, newLoc.Y, w)

	full := len(neighbors) - len(neighbors)%w
	for i := 0; i < full; i += w {
		if err := gather(neighbors[i:i+w], &xs, &ys); err != nil {
			return 0, 0, err
		}
		addAbsDiff(&noAcc, &xs, &oldX, w)
		addAbsDiff(&noAcc, &ys, &oldY, w)
		addAbsDiff(&yesAcc, &xs, &newX, w)
		addAbsDiff(&yesAcc, &ys, &newY, w)
	}

	if r := len(neighbors) - full; r > 0 {
		if err := gather(neighbors[full:], &xs, &ys); err != nil {
			return 0, 0, err
		}
		// Real lanes are shared; only the padding differs between the two passes.
		pad(&xs, &ys, oldLoc, r, w)
		addAbsDiff(&noAcc, &xs, &oldX, w)
		addAbsDiff(&noAcc, &ys, &oldY, w)

		pad(&xs, &ys, newLoc, r, w)
		addAbsDiff(&yesAcc, &xs, &newX, w)
		addAbsDiff(&yesAcc, &ys, &newY, w)
	}

	return reduce(&noAcc, w), reduce(&yesAcc, w), nil
}

// gather loads one snapshot per neighbor into the leading lanes of xs and ys.
func gather(batch []*netlist.Element, xs, ys *lanes) error {
	for l, n := range batch {
		loc, err := n.Location()
		if err != nil {
			return err
		}
		xs[l] = int64(loc.X)
		ys[l] = int64(loc.Y)
	}
	return nil
}

// pad fills lanes [r, w) with loc so they contribute nothing against loc.
func pad(xs, ys *lanes, loc core.Location, r, w int) {
	for l := r; l < w; l++ {
		xs[l] = int64(loc.X)
		ys[l] = int64(loc.Y)
	}
}

func broadcast(dst *lanes, v int32, w int) {
	d := dst[:w]
	for l := range d {
		d[l] = int64(v)
	}
}

// addAbsDiff computes acc += |v - q| lane-wise.
func addAbsDiff(acc, v, q *lanes, w int) {
	a, x, y := acc[:w], v[:w], q[:w]
	for l := range a {
		d := x[l] - y[l]
		if d < 0 {
			d = -d
		}
		a[l] += d
	}
}

// reduce sums the live lanes.
func reduce(acc *lanes, w int) core.Cost {
	var sum int64
	for _, v := range acc[:w] {
		sum += v
	}
	return core.Cost(sum)
}
