package netlist

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/core"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
)

type manhattanCoster struct{}

func (manhattanCoster) RoutingCostGivenLoc(e *Element, loc core.Location) (core.Cost, error) {
	var total core.Cost
	for _, list := range [][]*Element{e.Fanin, e.Fanout} {
		for _, nb := range list {
			nl, err := nb.Location()
			if err != nil {
				return 0, err
			}
			total += core.Manhattan(loc, nl)
		}
	}
	return total, nil
}

func TestCreateElementIsIdempotent(t *testing.T) {
	n := New(4, 4)
	a := n.CreateElement("a")
	b := n.CreateElement("b")
	assert.Same(t, a, n.CreateElement("a"))
	assert.Equal(t, 0, a.ID)
	assert.Equal(t, 1, b.ID)
	assert.Equal(t, 2, n.Len())

	got, ok := n.Element("b")
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = n.Element("missing")
	assert.False(t, ok)

	assert.Empty(t, a.Fanin)
	assert.Empty(t, a.Fanout)
	assert.False(t, a.Store().Assigned())
}

func TestConnect(t *testing.T) {
	n := New(4, 4)
	a, b, c := n.CreateElement("a"), n.CreateElement("b"), n.CreateElement("c")
	n.Connect(a, b)
	n.Connect(a, c)
	n.Connect(c, b)

	assert.Equal(t, []*Element{b, c}, a.Fanout)
	assert.Equal(t, []*Element{a, c}, b.Fanin)
	assert.Equal(t, []*Element{a}, c.Fanin)
	assert.Equal(t, []*Element{b}, c.Fanout)
	assert.Equal(t, 2, c.NumNeighbors())
}

func TestPlaceSequential(t *testing.T) {
	n := New(3, 2)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		n.CreateElement(name)
	}
	require.NoError(t, n.PlaceSequential())

	locs, err := n.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []core.Location{
		core.Loc(0, 0), core.Loc(1, 0), core.Loc(2, 0),
		core.Loc(0, 1), core.Loc(1, 1),
	}, locs)

	full := New(1, 1)
	full.CreateElement("x")
	full.CreateElement("y")
	err = full.PlaceSequential()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestShufflePreservesLocationMultiset(t *testing.T) {
	n := New(8, 8)
	for i := 0; i < 50; i++ {
		n.CreateElement(string(rune('A' + i)))
	}
	require.NoError(t, n.PlaceSequential())
	before, err := n.Snapshot()
	require.NoError(t, err)

	require.NoError(t, n.Shuffle(rand.New(rand.NewPCG(1, 2))))
	after, err := n.Snapshot()
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
	assert.ElementsMatch(t, before, after)
}

func TestShuffleUnplaced(t *testing.T) {
	n := New(2, 2)
	n.CreateElement("a")
	assert.Error(t, n.Shuffle(rand.New(rand.NewPCG(1, 2))))
}

func TestTotalRoutingCost(t *testing.T) {
	n := New(10, 10)
	a, b, c := n.CreateElement("a"), n.CreateElement("b"), n.CreateElement("c")
	n.Connect(a, b)
	n.Connect(b, c)
	a.Publish(core.Loc(0, 0))
	b.Publish(core.Loc(3, 0))
	c.Publish(core.Loc(3, 4))

	total, err := n.TotalRoutingCost(manhattanCoster{})
	require.NoError(t, err)
	assert.Equal(t, core.Cost(3+4), total)

	n.CreateElement("d")
	_, err = n.TotalRoutingCost(manhattanCoster{})
	var unassigned *core.ErrUnassignedLocation
	assert.ErrorAs(t, err, &unassigned)
}

func TestGenerate(t *testing.T) {
	cfg := GenConfig{Elements: 100, MaxX: 16, MaxY: 16, MinFanin: 1, MaxFanin: 6}
	n, err := Generate(rand.New(rand.NewPCG(7, 7)), cfg)
	require.NoError(t, err)
	require.Equal(t, 100, n.Len())

	seen := make(map[core.Location]bool)
	fanout := 0
	for _, e := range n.Elements() {
		assert.GreaterOrEqual(t, len(e.Fanin), 1)
		assert.LessOrEqual(t, len(e.Fanin), 6)
		for _, d := range e.Fanin {
			assert.NotSame(t, e, d)
		}
		fanout += len(e.Fanout)

		loc, err := e.Location()
		require.NoError(t, err)
		assert.False(t, seen[loc], "duplicate location %v", loc)
		seen[loc] = true
	}

	fanin := 0
	for _, e := range n.Elements() {
		fanin += len(e.Fanin)
	}
	assert.Equal(t, fanin, fanout)
}

func TestGenConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  GenConfig
	}{
		{"negative elements", GenConfig{Elements: -1, MaxX: 1, MaxY: 1}},
		{"empty grid", GenConfig{Elements: 1, MaxX: 0, MaxY: 1}},
		{"overfull grid", GenConfig{Elements: 5, MaxX: 2, MaxY: 2}},
		{"inverted fanin", GenConfig{Elements: 4, MaxX: 2, MaxY: 2, MinFanin: 3, MaxFanin: 1}},
		{"fanin without peers", GenConfig{Elements: 1, MaxX: 2, MaxY: 2, MaxFanin: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func sortedNames(es []*Element) []string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}
