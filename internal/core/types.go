package core

import "fmt"

// Coordinate bounds for a placement grid. Together with MaxNeighbors they
// bound the largest routing cost any single element can accumulate.
const (
	MaxCoordinate = 1 << 30
	MinCoordinate = -MaxCoordinate

	// MaxNeighbors is the largest fanin+fanout count a single element may carry.
	MaxNeighbors = 1 << 28

	// MaxManhattan is the largest |dx|+|dy| between two in-range locations.
	MaxManhattan = 2 * (MaxCoordinate - MinCoordinate)

	// MaxRoutingCost is MaxNeighbors * MaxManhattan, which stays below 1<<62.
	MaxRoutingCost = Cost(MaxNeighbors) * Cost(MaxManhattan)
)

// Cost is the routing cost accumulator. Signed so that swap deltas can be
// negative.
type Cost int64

// Location is a grid position. Values are never mutated after construction;
// moving an element publishes a new Location.
type Location struct {
	X int32
	Y int32
}

// Loc is shorthand for Location{X: x, Y: y}.
func Loc(x, y int32) Location {
	return Location{X: x, Y: y}
}

// InRange reports whether both coordinates lie within the supported bounds.
func (l Location) InRange() bool {
	return l.X >= MinCoordinate && l.X <= MaxCoordinate &&
		l.Y >= MinCoordinate && l.Y <= MaxCoordinate
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y| widened to Cost.
func Manhattan(a, b Location) Cost {
	return AbsDiff(a.X, b.X) + AbsDiff(a.Y, b.Y)
}

// AbsDiff returns |a-b| without int32 overflow.
func AbsDiff(a, b int32) Cost {
	d := Cost(a) - Cost(b)
	if d < 0 {
		return -d
	}
	return d
}
