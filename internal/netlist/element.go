package netlist

import "github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"

// Element is one placeable cell of the netlist.
//
// Fanin and Fanout are fixed once the netlist is built and may be read by any
// number of goroutines without synchronization. The referenced elements are
// owned by the Netlist. The only mutable state is the location store.
type Element struct {
	ID     int
	Name   string
	Type   int
	Fanin  []*Element
	Fanout []*Element

	store LocationStore
}

// Location returns the element's current location, or
// *core.ErrUnassignedLocation if it has never been placed.
func (e *Element) Location() (core.Location, error) {
	loc, ok := e.store.Load()
	if !ok {
		return core.Location{}, core.NewUnassignedLocationError(e.Name)
	}
	return loc, nil
}

// Observe is Location that also records the publication read, for use with
// SwapLocations.
func (e *Element) Observe() (Observation, error) {
	o, ok := e.store.Observe()
	if !ok {
		return Observation{}, core.NewUnassignedLocationError(e.Name)
	}
	return o, nil
}

// Publish makes loc the element's current location.
func (e *Element) Publish(loc core.Location) {
	e.store.Store(loc)
}

// Store exposes the element's location store.
func (e *Element) Store() *LocationStore {
	return &e.store
}

// NumNeighbors returns len(Fanin) + len(Fanout).
func (e *Element) NumNeighbors() int {
	return len(e.Fanin) + len(e.Fanout)
}

func (e *Element) String() string {
	return e.Name
}
