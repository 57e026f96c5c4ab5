package walk

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/coverwalk/coverwalk/pkg/graph"
)

// diamond is A(0)-B(1)=1, B-C(2)=1, C-D(3)=1, B-D=5.
func diamond(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	require.NoError(t, b.AddEdge("A", "B", 1))
	require.NoError(t, b.AddEdge("B", "C", 1))
	require.NoError(t, b.AddEdge("C", "D", 1))
	require.NoError(t, b.AddEdge("B", "D", 5))
	return b.Build()
}

func walkOf(g *graph.Graph, length uint32, states ...graph.NodeID) Walk {
	return Walk{States: states, Length: length, Graph: g}
}

func TestExtend(t *testing.T) {
	g := diamond(t)
	parent := New(g, 0)

	child := parent.Extend(graph.Edge{Distance: 1, Target: 1})
	require.Equal(t, []graph.NodeID{0}, parent.States)
	require.Equal(t, uint32(0), parent.Length)
	require.Equal(t, []graph.NodeID{0, 1}, child.States)
	require.Equal(t, uint32(1), child.Length)
	require.Equal(t, graph.NodeID(1), child.Terminal())

	// siblings never share backing storage
	a := child.Extend(graph.Edge{Distance: 1, Target: 2})
	b := child.Extend(graph.Edge{Distance: 5, Target: 3})
	require.Equal(t, []graph.NodeID{0, 1, 2}, a.States)
	require.Equal(t, []graph.NodeID{0, 1, 3}, b.States)
}

func TestValid(t *testing.T) {
	g := diamond(t)
	for _, tc := range []struct {
		name   string
		states []graph.NodeID
		valid  bool
	}{
		{name: "single", states: []graph.NodeID{0}, valid: true},
		{name: "distinct", states: []graph.NodeID{0, 1, 2, 3}, valid: true},
		{name: "terminal_twice", states: []graph.NodeID{0, 1, 2, 1}, valid: true},
		{name: "terminal_three_times", states: []graph.NodeID{1, 2, 1, 2, 1}, valid: false},
		{name: "two_repeated_nodes", states: []graph.NodeID{0, 1, 0, 1}, valid: false},
		{name: "one_node_repeated_once_more", states: []graph.NodeID{0, 1, 2, 1, 3}, valid: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.valid, walkOf(g, 0, tc.states...).Valid())
		})
	}
}

func TestCovers(t *testing.T) {
	g := diamond(t)
	require.True(t, walkOf(g, 3, 0, 1, 2, 3).Covers())
	require.True(t, walkOf(g, 8, 0, 1, 2, 1, 3).Covers())
	require.False(t, walkOf(g, 6, 0, 1, 3).Covers())
	require.False(t, walkOf(g, 4, 0, 1, 0, 1, 3).Covers())
}

func TestString(t *testing.T) {
	g := diamond(t)
	w := walkOf(g, 3, 0, 1, 2, 3)
	require.Equal(t, "A->B->C->D->END, states 4, length 3", w.String())

	w.Graph = nil
	require.Equal(t, "0->1->2->3->END, states 4, length 3", w.String())
}

func TestExpand(t *testing.T) {
	g := diamond(t)

	t.Run("prefers_unvisited_then_heavier", func(t *testing.T) {
		// From B after A: A visited once, C and D unvisited. D is heavier.
		siblings := Expand(walkOf(g, 1, 0, 1))
		targets := make([]graph.NodeID, len(siblings))
		for i, s := range siblings {
			targets[i] = s.Edge.Target
		}
		require.Equal(t, []graph.NodeID{3, 2, 0}, targets)
		require.Equal(t, []int{0, 0, 1}, []int{siblings[0].Prior, siblings[1].Prior, siblings[2].Prior})
		require.Equal(t, uint32(6), siblings[0].Walk.Length)
	})

	t.Run("drops_second_repeat", func(t *testing.T) {
		// A,B,A: A is already repeated, so returning to B is invalid.
		require.Empty(t, Expand(walkOf(g, 2, 0, 1, 0)))
	})

	t.Run("children_match_full_validity", func(t *testing.T) {
		parents := [][]graph.NodeID{
			{0}, {0, 1}, {0, 1, 2}, {0, 1, 2, 1}, {0, 1, 0}, {0, 1, 3, 2}, {0, 1, 2, 3, 2},
		}
		for _, states := range parents {
			parent := walkOf(g, 0, states...)
			require.True(t, parent.Valid())

			var want []Walk
			for _, e := range g.Edges(parent.Terminal()) {
				if child := parent.Extend(e); child.Valid() {
					want = append(want, child)
				}
			}

			var got []Walk
			for _, s := range Expand(parent) {
				got = append(got, s.Walk)
			}

			less := func(a, b Walk) bool { return slices.Compare(a.States, b.States) < 0 }
			diff := cmp.Diff(want, got, cmpopts.SortSlices(less), cmpopts.IgnoreFields(Walk{}, "Graph"))
			require.Empty(t, diff)
		}
	})
}

func TestComparePreferenceIsStrictTotalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	siblings := make([]Sibling, 64)
	for i := range siblings {
		siblings[i] = Sibling{
			Edge:  graph.Edge{Distance: uint32(rng.Intn(4)), Target: graph.NodeID(rng.Intn(4))},
			Prior: rng.Intn(2),
			Index: i,
		}
	}

	for _, a := range siblings {
		require.Zero(t, ComparePreference(a, a))
		for _, b := range siblings {
			ab := ComparePreference(a, b)
			require.Equal(t, -ab, ComparePreference(b, a), "antisymmetry")
			if a.Index != b.Index {
				require.NotZero(t, ab)
			}
			for _, c := range siblings {
				if ab < 0 && ComparePreference(b, c) < 0 {
					require.Negative(t, ComparePreference(a, c), "transitivity")
				}
			}
		}
	}
}
