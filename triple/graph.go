package triple

import "sort"

// Triple is a single (subject, predicate, object) fact. Subject and
// predicate are IRIs; the object may be an IRI or a literal. Triples with
// canonical terms are comparable and usable as map keys.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    Term   `json:"object"`
}

// Key returns a canonical encoding for deterministic ordering.
func (t Triple) Key() string {
	return t.Subject + "|" + t.Predicate + "|" + t.Object.Key()
}

// Graph is a set of triples. Insertion order is irrelevant and duplicates
// collapse by value. The zero value is not usable; call NewGraph.
type Graph struct {
	triples map[Triple]struct{}
}

// NewGraph returns an empty graph.
func NewGraph(triples ...Triple) *Graph {
	g := &Graph{triples: make(map[Triple]struct{}, len(triples))}
	g.Add(triples...)
	return g
}

// Add inserts triples into the graph.
func (g *Graph) Add(triples ...Triple) {
	for _, t := range triples {
		g.triples[t] = struct{}{}
	}
}

// Remove deletes triples from the graph.
func (g *Graph) Remove(triples ...Triple) {
	for _, t := range triples {
		delete(g.triples, t)
	}
}

// Contains reports whether the graph holds the triple.
func (g *Graph) Contains(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the graph contents in deterministic (key-sorted) order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Merge adds every triple of other into g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for t := range other.triples {
		g.triples[t] = struct{}{}
	}
}

// Delta is the output of the diff engine: the edge sets to delete from and
// insert into the store, applied as one delete-then-insert update.
type Delta struct {
	Remove *Graph
	Add    *Graph
}

// NewDelta returns an empty delta.
func NewDelta() *Delta {
	return &Delta{Remove: NewGraph(), Add: NewGraph()}
}

// Empty reports whether the delta carries no edits.
func (d *Delta) Empty() bool {
	return d.Remove.Len() == 0 && d.Add.Len() == 0
}
