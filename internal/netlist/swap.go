package netlist

// SwapLocations exchanges the locations of a and b, provided neither has been
// published or claimed since oa and ob were observed. Both stores are claimed
// by compare-and-swap before either is rewritten, so of two concurrent swaps
// sharing an element at most one commits and the placement stays a
// permutation. It reports whether the exchange happened; on false neither
// location changed.
//
// Claims never wait: a swap that finds either store taken gives up.
func SwapLocations(a, b *Element, oa, ob Observation) bool {
	if a == b {
		return false
	}
	if !a.store.claim(oa) {
		return false
	}
	if !b.store.claim(ob) {
		a.store.Store(oa.Loc)
		return false
	}
	a.store.Store(ob.Loc)
	b.store.Store(oa.Loc)
	return true
}
