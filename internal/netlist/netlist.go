package netlist

import (
	"math/rand/v2"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
)

// RoutingCoster computes the routing cost of an element at a location.
type RoutingCoster interface {
	RoutingCostGivenLoc(e *Element, loc core.Location) (core.Cost, error)
}

// Netlist owns every element and the grid they are placed on.
//
// Building (CreateElement, Connect, placement) is single-threaded. Once built,
// element fanin/fanout are read-only and only locations change.
type Netlist struct {
	maxX, maxY int32
	elements   []*Element
	byName     map[string]*Element
}

// New returns an empty netlist on a maxX by maxY grid.
func New(maxX, maxY int32) *Netlist {
	return &Netlist{
		maxX:   maxX,
		maxY:   maxY,
		byName: make(map[string]*Element),
	}
}

// MaxX returns the grid width.
func (n *Netlist) MaxX() int32 { return n.maxX }

// MaxY returns the grid height.
func (n *Netlist) MaxY() int32 { return n.maxY }

// Capacity is the number of grid slots.
func (n *Netlist) Capacity() int {
	return int(n.maxX) * int(n.maxY)
}

// Len returns the number of elements.
func (n *Netlist) Len() int {
	return len(n.elements)
}

// Elements returns the elements in creation order. The slice must not be modified.
func (n *Netlist) Elements() []*Element {
	return n.elements
}

// Element looks up an element by name.
func (n *Netlist) Element(name string) (*Element, bool) {
	e, ok := n.byName[name]
	return e, ok
}

// CreateElement returns the element called name, creating it with no
// neighbors and no location if it does not exist yet.
func (n *Netlist) CreateElement(name string) *Element {
	if e, ok := n.byName[name]; ok {
		return e
	}
	e := &Element{ID: len(n.elements), Name: name}
	n.elements = append(n.elements, e)
	n.byName[name] = e
	return e
}

// Connect records a connection driven by driver and consumed by sink.
func (n *Netlist) Connect(driver, sink *Element) {
	driver.Fanout = append(driver.Fanout, sink)
	sink.Fanin = append(sink.Fanin, driver)
}

// PlaceSequential assigns element i to (i mod maxX, i div maxX).
func (n *Netlist) PlaceSequential() error {
	if n.maxX <= 0 || n.maxY <= 0 {
		return errors.Newf(errors.ErrorTypeValidation, "place_sequential", "invalid grid %dx%d", n.maxX, n.maxY)
	}
	if len(n.elements) > n.Capacity() {
		return errors.Newf(errors.ErrorTypeValidation, "place_sequential",
			"%d elements do not fit on a %dx%d grid", len(n.elements), n.maxX, n.maxY)
	}
	for i, e := range n.elements {
		e.Publish(core.Loc(int32(i)%n.maxX, int32(i)/n.maxX))
	}
	return nil
}

// Shuffle permutes the current locations among all elements.
func (n *Netlist) Shuffle(rng *rand.Rand) error {
	locs, err := n.Snapshot()
	if err != nil {
		return err
	}
	rng.Shuffle(len(locs), func(i, j int) { locs[i], locs[j] = locs[j], locs[i] })
	for i, e := range n.elements {
		e.Publish(locs[i])
	}
	return nil
}

// Snapshot reads every element's location in creation order.
func (n *Netlist) Snapshot() ([]core.Location, error) {
	locs := make([]core.Location, len(n.elements))
	for i, e := range n.elements {
		loc, err := e.Location()
		if err != nil {
			return nil, err
		}
		locs[i] = loc
	}
	return locs, nil
}

// TotalRoutingCost sums every element's routing cost at its current location.
// Each connection is seen from both of its ends, so the sum is halved.
func (n *Netlist) TotalRoutingCost(rc RoutingCoster) (core.Cost, error) {
	var total core.Cost
	for _, e := range n.elements {
		loc, err := e.Location()
		if err != nil {
			return 0, err
		}
		c, err := rc.RoutingCostGivenLoc(e, loc)
		if err != nil {
			return 0, err
		}
		total += c
	}
	return total / 2, nil
}
