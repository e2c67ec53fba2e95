package cost

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
)

func BenchmarkSwapCost(b *testing.B) {
	for _, fan := range []int{3, 8, 17, 64} {
		rng := rand.New(rand.NewPCG(uint64(fan), 0))
		e := star(randLocs(rng, fan), randLocs(rng, fan/2))
		oldLoc, newLoc := randLoc(rng), randLoc(rng)

		for _, ev := range []Evaluator{NewScalarEvaluator(), mustBatch(4), mustBatch(8)} {
			b.Run(fmt.Sprintf("%s/fanin=%d", evalName(ev), fan), func(b *testing.B) {
				b.ReportAllocs()
				var sink core.Cost
				for i := 0; i < b.N; i++ {
					d, _ := ev.SwapCost(e, oldLoc, newLoc)
					sink += d
				}
				_ = sink
			})
		}
	}
}

func BenchmarkRoutingCostGivenLoc(b *testing.B) {
	rng := rand.New(rand.NewPCG(9, 9))
	e := star(randLocs(rng, 24), randLocs(rng, 7))
	loc := randLoc(rng)

	for _, ev := range []Evaluator{NewScalarEvaluator(), mustBatch(4)} {
		b.Run(evalName(ev), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = ev.RoutingCostGivenLoc(e, loc)
			}
		})
	}
}

func mustBatch(w int) *BatchEvaluator {
	b, err := NewBatchEvaluator(w)
	if err != nil {
		panic(err)
	}
	return b
}
