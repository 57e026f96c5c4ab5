package walk

import (
	"cmp"
	"slices"

	"github.com/coverwalk/coverwalk/pkg/graph"
)

// Sibling is a child walk together with what produced it from its parent.
type Sibling struct {
	Walk Walk
	Edge graph.Edge

	// Prior is how often Edge.Target occurred in the parent.
	Prior int

	// Index is the position of Edge in the parent's adjacency list.
	Index int
}

// ComparePreference is a strict total order over the siblings of one parent,
// from most to least preferred: fewer prior visits of the destination first,
// then the heavier edge, then the lower target id, then adjacency order.
func ComparePreference(a, b Sibling) int {
	if c := cmp.Compare(a.Prior, b.Prior); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Edge.Distance, a.Edge.Distance); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Edge.Target, b.Edge.Target); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

// hasRepeat reports whether any node occurs more than once.
func (w Walk) hasRepeat() bool {
	var seen [graph.MaxNodes]bool
	for _, s := range w.States {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}

// Expand returns the valid children of w, most preferred first. w itself must
// be valid. Children that would break the repetition rules are never built.
func Expand(w Walk) []Sibling {
	edges := w.Graph.Edges(w.Terminal())
	if len(edges) == 0 {
		return nil
	}

	repeated := w.hasRepeat()
	siblings := make([]Sibling, 0, len(edges))
	for i, e := range edges {
		prior := w.Count(e.Target)
		switch {
		case prior >= MaxOccurrences:
			continue
		case prior == 1 && repeated:
			continue
		}

		siblings = append(siblings, Sibling{
			Walk:  w.Extend(e),
			Edge:  e,
			Prior: prior,
			Index: i,
		})
	}

	slices.SortFunc(siblings, ComparePreference)
	return siblings
}
