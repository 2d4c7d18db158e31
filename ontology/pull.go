package ontology

import (
	"context"

	"github.com/c360studio/semsync/triple"
	"github.com/c360studio/semsync/vocabulary/rdf"
)

// Pull materializes instances of the given schema for a batch of
// identifiers, fetching their outgoing edges and attributes in one store
// round-trip per recursion level.
//
// For identifiers already resident in the registry, in-memory property
// state wins: the store's values are not merged over local mutations, but
// referenced neighbors (both the freshly fetched ones and the ones only
// known in memory) are still resolved recursively within the depth
// budget, keeping previously loaded neighbors consistent. For new
// identifiers an instance is constructed from the fetched values, with
// reference ranges resolved recursively when the budget permits and held
// as bare identifiers otherwise. New instances enter the registry before
// their ranges resolve, so mutually referencing nodes resolve to each
// other instead of duplicating.
//
// The traversal records the deepest remaining budget each identifier has
// been fetched with and re-fetches only when a later path arrives with a
// strictly larger budget. Diamond-shaped graphs therefore materialize
// every node within the budget at the cost of one extra batch round-trip
// per re-fetch, and cyclic graphs still terminate even at DepthUnbounded.
//
// Every returned instance is marked as existing in the store and has its
// cache snapshot recaptured. Identifiers with no triples in the store are
// omitted from the result. The result order is not guaranteed to match
// the input order.
//
// If the transport call fails, the error is returned as a StoreQueryError
// and the registry is left untouched for the failed batch.
func (s *Session) Pull(ctx context.Context, schema *Schema, ids []string, depth Depth) ([]*Instance, error) {
	return s.pull(ctx, schema, ids, depth, make(map[string]Depth))
}

// PullAll pulls every instance of the schema's class known to the store.
func (s *Session) PullAll(ctx context.Context, schema *Schema, depth Depth) ([]*Instance, error) {
	ids, err := s.store.InstancesOfType(ctx, schema.TypeTag())
	if err != nil {
		return nil, &StoreQueryError{Op: "query instances", Err: err}
	}
	return s.Pull(ctx, schema, ids, depth)
}

func (s *Session) pull(ctx context.Context, schema *Schema, ids []string, depth Depth, pulled map[string]Depth) ([]*Instance, error) {
	batch := make([]string, 0, len(ids))
	for _, id := range dedupe(ids) {
		if prior, done := pulled[id]; done && prior.Covers(depth) {
			continue
		}
		pulled[id] = depth
		batch = append(batch, id)
	}
	if len(batch) == 0 {
		return nil, nil
	}

	nodes, err := s.store.OutgoingEdges(ctx, batch)
	if err != nil {
		return nil, &StoreQueryError{Op: "query edges", Err: err}
	}

	recurse := depth.Recurse()
	next := depth.Next()

	instances := make([]*Instance, 0, len(nodes))
	for id, props := range nodes {
		inst, resident := s.registry.Lookup(id)
		if resident {
			if err := s.reconcileResident(ctx, inst, props, recurse, next, pulled); err != nil {
				return nil, err
			}
		} else {
			// Registered before the ranges resolve so that cycles back to
			// this identifier find the instance under construction.
			inst = s.registry.RegisterIfAbsent(id, newInstance(schema, id, schema.TypeTag(), commentValue(props)))
			if err := s.populate(ctx, inst, props, recurse, next, pulled); err != nil {
				return nil, err
			}
		}
		inst.refreshCache()
		instances = append(instances, inst)
	}
	return instances, nil
}

// reconcileResident resolves the reference neighborhoods of an already
// resident instance without overwriting its in-memory property values.
func (s *Session) reconcileResident(ctx context.Context, inst *Instance, props map[string][]triple.Term, recurse bool, next Depth, pulled map[string]Depth) error {
	if !recurse {
		return nil
	}
	for _, spec := range inst.schema.Properties() {
		if spec.Kind != Reference || spec.Range == nil {
			continue
		}
		// Union of the freshly fetched referenced identifiers and the
		// ones currently held in memory.
		seen := make(map[string]struct{})
		var refIDs []string
		for _, term := range props[spec.Predicate] {
			if term.IsIRI() {
				if _, ok := seen[term.IRIValue()]; !ok {
					seen[term.IRIValue()] = struct{}{}
					refIDs = append(refIDs, term.IRIValue())
				}
			}
		}
		for _, id := range inst.props[spec.Name].Identifiers() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				refIDs = append(refIDs, id)
			}
		}
		if _, err := s.pull(ctx, spec.Range, refIDs, next, pulled); err != nil {
			return err
		}
	}
	return nil
}

// populate fills a freshly constructed instance from fetched property
// values.
func (s *Session) populate(ctx context.Context, inst *Instance, props map[string][]triple.Term, recurse bool, next Depth, pulled map[string]Depth) error {
	for _, spec := range inst.schema.Properties() {
		values := props[spec.Predicate]
		p := inst.props[spec.Name]

		if spec.Kind == Attribute {
			if err := p.Set(termValues(values)...); err != nil {
				return err
			}
			continue
		}

		refIDs := make([]string, 0, len(values))
		for _, term := range values {
			if term.IsIRI() {
				refIDs = append(refIDs, term.IRIValue())
			} else {
				return &UnsupportedRangeTypeError{Predicate: spec.Predicate, Value: term.Value}
			}
		}

		if recurse && spec.Range != nil {
			if _, err := s.pull(ctx, spec.Range, refIDs, next, pulled); err != nil {
				return err
			}
			// Identifiers the store returned no triples for, and never
			// registered otherwise, stay bare so the edge itself is not
			// lost from the range.
			rangeValues := make([]any, 0, len(refIDs))
			for _, refID := range refIDs {
				if n, ok := s.registry.Lookup(refID); ok {
					rangeValues = append(rangeValues, n)
				} else {
					rangeValues = append(rangeValues, refID)
				}
			}
			if err := p.Set(rangeValues...); err != nil {
				return err
			}
		} else {
			if err := p.Set(stringValues(refIDs)...); err != nil {
				return err
			}
		}
	}
	return nil
}

// commentValue extracts the rdfs:comment string from fetched properties.
func commentValue(props map[string][]triple.Term) string {
	for _, term := range props[rdf.Comment] {
		if !term.IsIRI() {
			if str, ok := term.Value.(string); ok {
				return str
			}
		}
	}
	return ""
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func termValues(terms []triple.Term) []any {
	out := make([]any, len(terms))
	for i, t := range terms {
		out[i] = t
	}
	return out
}

func stringValues(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
