package netlist

import (
	"sync/atomic"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
)

// slot is one published location. A claimed slot keeps the location it was
// claimed at, so readers see a valid value while a swap is in flight.
type slot struct {
	loc     core.Location
	claimed bool
}

// LocationStore is a single-slot, lock-free holder of an element's current
// location. Each Store publishes a freshly allocated slot, so a concurrent
// Load observes either the old or the new value in full.
//
// Loads carry no ordering guarantee relative to Stores on other elements.
type LocationStore struct {
	cur atomic.Pointer[slot]
}

// Observation is a location together with the publication it was read from.
// It lets a later commit prove that nothing was published in between.
type Observation struct {
	Loc  core.Location
	slot *slot
}

// Load returns a snapshot of the current location. ok is false until the
// first Store.
func (s *LocationStore) Load() (loc core.Location, ok bool) {
	p := s.cur.Load()
	if p == nil {
		return core.Location{}, false
	}
	return p.loc, true
}

// Observe is Load that also remembers which publication was read.
func (s *LocationStore) Observe() (Observation, bool) {
	p := s.cur.Load()
	if p == nil {
		return Observation{}, false
	}
	return Observation{Loc: p.loc, slot: p}, true
}

// Store publishes loc as the current location, overriding any claim.
func (s *LocationStore) Store(loc core.Location) {
	s.cur.Store(&slot{loc: loc})
}

// Assigned reports whether a location has ever been published.
func (s *LocationStore) Assigned() bool {
	return s.cur.Load() != nil
}

// Changed reports whether anything was published or claimed since o.
func (s *LocationStore) Changed(o Observation) bool {
	return s.cur.Load() != o.slot
}

// claim takes the store for a swap if it still holds the unclaimed
// publication o was read from.
func (s *LocationStore) claim(o Observation) bool {
	if o.slot == nil || o.slot.claimed {
		return false
	}
	return s.cur.CompareAndSwap(o.slot, &slot{loc: o.Loc, claimed: true})
}
