package cost

import (
	"fmt"
	"math/rand/v2"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/netlist"
)

// star builds an element whose fanin and fanout neighbors sit at the given
// locations. The center itself is left unplaced.
func star(fanin, fanout []core.Location) *netlist.Element {
	n := netlist.New(1, 1)
	center := n.CreateElement("center")
	for i, loc := range fanin {
		nb := n.CreateElement(fmt.Sprintf("in%d", i))
		nb.Publish(loc)
		n.Connect(nb, center)
	}
	for i, loc := range fanout {
		nb := n.CreateElement(fmt.Sprintf("out%d", i))
		nb.Publish(loc)
		n.Connect(center, nb)
	}
	return center
}

func randLoc(rng *rand.Rand) core.Location {
	const span = int64(core.MaxCoordinate) - int64(core.MinCoordinate) + 1
	return core.Loc(
		int32(rng.Int64N(span)+core.MinCoordinate),
		int32(rng.Int64N(span)+core.MinCoordinate),
	)
}

func randLocs(rng *rand.Rand, n int) []core.Location {
	locs := make([]core.Location, n)
	for i := range locs {
		locs[i] = randLoc(rng)
	}
	return locs
}

func allEvaluators() []Evaluator {
	evs := []Evaluator{NewScalarEvaluator()}
	for w := 1; w <= MaxBatchWidth; w++ {
		b, err := NewBatchEvaluator(w)
		if err != nil {
			panic(err)
		}
		evs = append(evs, b)
	}
	return evs
}

func evalName(ev Evaluator) string {
	if b, ok := ev.(*BatchEvaluator); ok {
		return fmt.Sprintf("%s/w%d", b.Name(), b.Width())
	}
	return ev.Name()
}
