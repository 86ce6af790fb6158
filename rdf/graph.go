package rdf

import (
	"sort"
)

// Graph is a mutable set of triples. It is not safe for concurrent mutation.
type Graph struct {
	triples map[Triple]struct{}
}

// NewGraph returns an empty graph, optionally seeded with triples.
// Invalid seed triples are skipped.
func NewGraph(triples ...Triple) *Graph {
	g := &Graph{triples: make(map[Triple]struct{}, len(triples))}
	for _, t := range triples {
		_, _ = g.Add(t)
	}
	return g
}

// Add inserts a triple and reports whether it was not already present.
func (g *Graph) Add(t Triple) (bool, error) {
	if err := t.Validate(); err != nil {
		return false, err
	}
	t = NewTriple(t.S, t.P, t.O)
	if _, exists := g.triples[t]; exists {
		return false, nil
	}
	g.triples[t] = struct{}{}
	return true, nil
}

// Remove deletes a triple and reports whether it was present.
func (g *Graph) Remove(t Triple) bool {
	t = NewTriple(t.S, t.P, t.O)
	if _, exists := g.triples[t]; !exists {
		return false
	}
	delete(g.triples, t)
	return true
}

// Contains reports whether the graph holds the triple.
func (g *Graph) Contains(t Triple) bool {
	_, exists := g.triples[NewTriple(t.S, t.P, t.O)]
	return exists
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples sorted by their N-Triples rendering.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	sortTriples(out)
	return out
}

// Subjects returns the distinct subjects in sorted order.
func (g *Graph) Subjects() []Term {
	seen := make(map[Term]struct{})
	out := make([]Term, 0)
	for t := range g.triples {
		if _, ok := seen[t.S]; ok {
			continue
		}
		seen[t.S] = struct{}{}
		out = append(out, t.S)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// WithSubject returns the sorted triples whose subject equals s.
func (g *Graph) WithSubject(s Term) []Triple {
	out := make([]Triple, 0)
	for t := range g.triples {
		if t.S == s {
			out = append(out, t)
		}
	}
	sortTriples(out)
	return out
}

// Equal reports whether both graphs hold the same set of triples.
// Blank node labels are compared literally; no isomorphism check is made.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if len(g.triples) != len(other.triples) {
		return false
	}
	for t := range g.triples {
		if _, ok := other.triples[t]; !ok {
			return false
		}
	}
	return true
}

func sortTriples(triples []Triple) {
	sort.Slice(triples, func(i, j int) bool {
		return triples[i].String() < triples[j].String()
	})
}
