package store

import (
	"context"
	"sync"

	"github.com/c360studio/semsync/triple"
	"github.com/c360studio/semsync/vocabulary/rdf"
)

// MemoryStore is a thread-safe in-memory triple store. It is the default
// embedded backend and the test double for the remote transports.
type MemoryStore struct {
	mu sync.RWMutex
	// subject -> predicate -> object set
	nodes map[string]map[string]map[triple.Term]struct{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nodes: make(map[string]map[string]map[triple.Term]struct{})}
}

// OutgoingEdges implements Client.
func (m *MemoryStore) OutgoingEdges(_ context.Context, ids []string) (map[string]map[string][]triple.Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]map[string][]triple.Term)
	for _, id := range ids {
		preds, ok := m.nodes[id]
		if !ok {
			continue
		}
		node := make(map[string][]triple.Term, len(preds))
		for pred, objs := range preds {
			values := make([]triple.Term, 0, len(objs))
			for o := range objs {
				values = append(values, o)
			}
			node[pred] = values
		}
		out[id] = node
	}
	return out, nil
}

// InstancesOfType implements Client.
func (m *MemoryStore) InstancesOfType(_ context.Context, typeTag string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := triple.IRI(typeTag)
	var ids []string
	for subject, preds := range m.nodes {
		if objs, ok := preds[rdf.Type]; ok {
			if _, ok := objs[want]; ok {
				ids = append(ids, subject)
			}
		}
	}
	return ids, nil
}

// ApplyDelta implements Client. Removals and insertions are applied under
// one lock acquisition.
func (m *MemoryStore) ApplyDelta(_ context.Context, delta *triple.Delta) error {
	if delta == nil || delta.Empty() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range delta.Remove.Triples() {
		m.remove(t)
	}
	for _, t := range delta.Add.Triples() {
		m.add(t)
	}
	return nil
}

// FreshIdentifier implements Client.
func (m *MemoryStore) FreshIdentifier(namespace, typeName string) string {
	return freshIdentifier(namespace, typeName)
}

// Add inserts triples directly, bypassing delta semantics. Intended for
// seeding stores in tests and imports.
func (m *MemoryStore) Add(triples ...triple.Triple) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range triples {
		m.add(t)
	}
}

// Contains reports whether the store holds the exact triple.
func (m *MemoryStore) Contains(t triple.Triple) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	preds, ok := m.nodes[t.Subject]
	if !ok {
		return false
	}
	objs, ok := preds[t.Predicate]
	if !ok {
		return false
	}
	_, ok = objs[t.Object]
	return ok
}

// AllTriples returns the full store contents in deterministic order.
func (m *MemoryStore) AllTriples() []triple.Triple {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g := triple.NewGraph()
	for subject, preds := range m.nodes {
		for pred, objs := range preds {
			for o := range objs {
				g.Add(triple.Triple{Subject: subject, Predicate: pred, Object: o})
			}
		}
	}
	return g.Triples()
}

// TripleCount returns the number of stored triples.
func (m *MemoryStore) TripleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, preds := range m.nodes {
		for _, objs := range preds {
			n += len(objs)
		}
	}
	return n
}

func (m *MemoryStore) add(t triple.Triple) {
	preds, ok := m.nodes[t.Subject]
	if !ok {
		preds = make(map[string]map[triple.Term]struct{})
		m.nodes[t.Subject] = preds
	}
	objs, ok := preds[t.Predicate]
	if !ok {
		objs = make(map[triple.Term]struct{})
		preds[t.Predicate] = objs
	}
	objs[t.Object] = struct{}{}
}

func (m *MemoryStore) remove(t triple.Triple) {
	preds, ok := m.nodes[t.Subject]
	if !ok {
		return
	}
	objs, ok := preds[t.Predicate]
	if !ok {
		return
	}
	delete(objs, t.Object)
	if len(objs) == 0 {
		delete(preds, t.Predicate)
	}
	if len(preds) == 0 {
		delete(m.nodes, t.Subject)
	}
}
