package ontology

import (
	"github.com/c360studio/semsync/triple"
	"github.com/c360studio/semsync/vocabulary/rdf"
)

// CollectDiff accumulates into delta the minimal edge additions and
// removals that move the store from the state implied by the instance's
// cache snapshot to its live property state, recursing through reference
// properties within the depth budget.
//
// Recursion descends into every live referenced instance of a reference
// property's added, removed, and unchanged elements: an unchanged edge at
// this level may still mask changes deeper in the referenced subgraph.
// Bare identifiers with no resident instance are skipped. The traversal
// records the deepest remaining budget each node has been expanded with
// and re-enters only when a new path arrives with a strictly larger
// budget, so diamond-shaped graphs never starve the deeper path and
// cyclic graphs still terminate even at DepthUnbounded.
func (s *Session) CollectDiff(inst *Instance, delta *triple.Delta, depth Depth) {
	s.collectDiff(inst, delta, depth, make(map[string]*diffVisit))
}

// diffVisit tracks one node of a diff traversal: the instance reached and
// the deepest remaining budget it has been expanded with so far.
type diffVisit struct {
	inst  *Instance
	depth Depth
}

func (s *Session) collectDiff(inst *Instance, delta *triple.Delta, depth Depth, visited map[string]*diffVisit) {
	if prior, seen := visited[inst.id]; seen {
		if prior.depth.Covers(depth) {
			return
		}
		prior.depth = depth
	} else {
		visited[inst.id] = &diffVisit{inst: inst, depth: depth}
	}

	recurse := depth.Recurse()
	next := depth.Next()

	for _, spec := range inst.schema.Properties() {
		p := inst.props[spec.Name]
		cached, _ := inst.cachedRange(spec.Name)

		if spec.Kind == Attribute {
			for t := range cached.literals {
				if _, ok := p.literals[t]; !ok {
					delta.Remove.Add(triple.Triple{Subject: inst.id, Predicate: spec.Predicate, Object: t})
				}
			}
			for t := range p.literals {
				if _, ok := cached.literals[t]; !ok {
					delta.Add.Add(triple.Triple{Subject: inst.id, Predicate: spec.Predicate, Object: t})
				}
			}
			continue
		}

		current := p.identifierSet()
		for id := range cached.refs {
			if _, ok := current[id]; !ok {
				delta.Remove.Add(triple.Triple{Subject: inst.id, Predicate: spec.Predicate, Object: triple.IRI(id)})
			}
		}
		for id := range current {
			if _, ok := cached.refs[id]; !ok {
				delta.Add.Add(triple.Triple{Subject: inst.id, Predicate: spec.Predicate, Object: triple.IRI(id)})
			}
		}

		if !recurse {
			continue
		}
		// Union of added, removed, and unchanged elements.
		for id := range current {
			s.recurseDiff(p, id, delta, next, visited)
		}
		for id := range cached.refs {
			if _, ok := current[id]; !ok {
				s.recurseDiff(p, id, delta, next, visited)
			}
		}
	}

	// The existence triple is emitted while the node has never been
	// observed in the store and no cached type tag exists. The flag flips
	// only when the cache is refreshed after a successful update, so a
	// failed push re-emits the triple on retry.
	if !inst.existsInStore && inst.cachedTypeTag() == "" {
		delta.Add.Add(triple.Triple{Subject: inst.id, Predicate: rdf.Type, Object: triple.IRI(inst.typeTag)})
	}

	if cached := inst.cachedComment(); cached != inst.comment {
		if cached != "" {
			delta.Remove.Add(triple.Triple{Subject: inst.id, Predicate: rdf.Comment, Object: triple.MustLiteral(cached)})
		}
		if inst.comment != "" {
			delta.Add.Add(triple.Triple{Subject: inst.id, Predicate: rdf.Comment, Object: triple.MustLiteral(inst.comment)})
		}
	}
}

// recurseDiff descends into the live instance behind a reference range
// element, consulting the registry for elements the property holds bare.
func (s *Session) recurseDiff(p *Property, id string, delta *triple.Delta, depth Depth, visited map[string]*diffVisit) {
	neighbor := p.resolve(id)
	if neighbor == nil {
		neighbor, _ = s.registry.Lookup(id)
	}
	if neighbor == nil {
		return
	}
	s.collectDiff(neighbor, delta, depth, visited)
}
