// Package walk defines the candidate walks the search expands.
package walk

import (
	"slices"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"

	"github.com/coverwalk/coverwalk/pkg/graph"
)

// MaxOccurrences bounds how often the terminal node of a walk may appear in it.
const MaxOccurrences = 2

// Walk is an immutable sequence of node ids starting at the search start,
// together with the summed weight of the edges between them.
type Walk struct {
	States []graph.NodeID
	Length uint32
	Graph  *graph.Graph
}

// New returns the single-node walk that seeds a search.
func New(g *graph.Graph, start graph.NodeID) Walk {
	return Walk{
		States: []graph.NodeID{start},
		Graph:  g,
	}
}

// Terminal returns the last node of the walk.
func (w Walk) Terminal() graph.NodeID {
	return w.States[len(w.States)-1]
}

// Count returns the number of times id occurs in the walk.
func (w Walk) Count(id graph.NodeID) int {
	var count int
	for _, s := range w.States {
		if s == id {
			count++
		}
	}
	return count
}

// Extend returns a new walk with e's target appended. The receiver is left
// untouched.
func (w Walk) Extend(e graph.Edge) Walk {
	states := make([]graph.NodeID, len(w.States), len(w.States)+1)
	copy(states, w.States)
	return Walk{
		States: append(states, e.Target),
		Length: w.Length + e.Distance,
		Graph:  w.Graph,
	}
}

// Valid reports whether the walk obeys the repetition rules: the terminal node
// occurs at most MaxOccurrences times and no more than one distinct node
// occurs more than once.
func (w Walk) Valid() bool {
	if w.Count(w.Terminal()) > MaxOccurrences {
		return false
	}

	var counts [graph.MaxNodes]uint16
	repeated := 0
	for _, s := range w.States {
		counts[s]++
		if counts[s] == 2 {
			repeated++
			if repeated > 1 {
				return false
			}
		}
	}
	return true
}

// Covers reports whether every node of the graph occurs in the walk.
func (w Walk) Covers() bool {
	n := w.Graph.Len()
	if len(w.States) < n {
		return false
	}

	visited := hashset.New()
	for _, s := range w.States {
		visited.Add(s)
	}
	return visited.Size() == n
}

// Equal reports whether two walks hold the same states and length.
func (w Walk) Equal(o Walk) bool {
	return w.Length == o.Length && slices.Equal(w.States, o.States)
}

// String renders the walk as `A->B->...->END, states n, length l`.
func (w Walk) String() string {
	var sb strings.Builder
	for _, s := range w.States {
		if w.Graph != nil {
			sb.WriteString(w.Graph.Name(s))
		} else {
			sb.WriteString(strconv.Itoa(int(s)))
		}
		sb.WriteString("->")
	}
	sb.WriteString("END, states ")
	sb.WriteString(strconv.Itoa(len(w.States)))
	sb.WriteString(", length ")
	sb.WriteString(strconv.FormatUint(uint64(w.Length), 10))
	return sb.String()
}
