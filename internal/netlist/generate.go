package netlist

import (
	"fmt"
	"math/rand/v2"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
)

// GenConfig describes a random netlist.
type GenConfig struct {
	Elements int
	MaxX     int32
	MaxY     int32
	// Each element gets a fanin count drawn uniformly from [MinFanin, MaxFanin].
	MinFanin int
	MaxFanin int
}

// Validate checks that the configuration can produce a placeable netlist.
func (c GenConfig) Validate() error {
	const op = "generate_netlist"
	switch {
	case c.Elements < 0:
		return errors.Newf(errors.ErrorTypeValidation, op, "negative element count %d", c.Elements)
	case c.MaxX <= 0 || c.MaxY <= 0:
		return errors.Newf(errors.ErrorTypeValidation, op, "invalid grid %dx%d", c.MaxX, c.MaxY)
	case c.Elements > int(c.MaxX)*int(c.MaxY):
		return errors.Newf(errors.ErrorTypeValidation, op, "%d elements do not fit on a %dx%d grid", c.Elements, c.MaxX, c.MaxY)
	case c.MinFanin < 0 || c.MaxFanin < c.MinFanin:
		return errors.Newf(errors.ErrorTypeValidation, op, "invalid fanin range [%d, %d]", c.MinFanin, c.MaxFanin)
	case c.MaxFanin > 0 && c.Elements < 2:
		return errors.NewValidationError(op, "fanin requires at least 2 elements")
	}
	return nil
}

// Generate builds a random netlist, places it sequentially and shuffles the
// placement. Drivers are drawn with replacement but never equal the sink.
func Generate(rng *rand.Rand, cfg GenConfig) (*Netlist, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := New(cfg.MaxX, cfg.MaxY)
	for i := 0; i < cfg.Elements; i++ {
		n.CreateElement(fmt.Sprintf("e%d", i)).Type = 1
	}
	for i, sink := range n.elements {
		k := cfg.MinFanin
		if cfg.MaxFanin > cfg.MinFanin {
			k += rng.IntN(cfg.MaxFanin - cfg.MinFanin + 1)
		}
		for j := 0; j < k; j++ {
			d := rng.IntN(cfg.Elements - 1)
			if d >= i {
				d++
			}
			n.Connect(n.elements[d], sink)
		}
	}

	if err := n.PlaceSequential(); err != nil {
		return nil, err
	}
	if err := n.Shuffle(rng); err != nil {
		return nil, err
	}
	return n, nil
}
