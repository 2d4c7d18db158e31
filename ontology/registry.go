package ontology

import "sync"

// Registry is the identity map from identifier to the single in-memory
// instance representing it. Registration is insert-if-absent: the first
// instance registered under an identifier stays resident for the
// registry's lifetime, and later registrations are no-ops.
//
// Each session owns one registry; there is no process-wide instance map.
type Registry struct {
	mu        sync.Mutex
	instances map[string]*Instance
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]*Instance)}
}

// Lookup returns the resident instance for an identifier, if any.
func (r *Registry) Lookup(id string) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	return inst, ok
}

// RegisterIfAbsent inserts inst under id unless an instance is already
// resident, and returns the resident instance. Callers must use the
// returned instance, not assume their argument won.
func (r *Registry) RegisterIfAbsent(id string, inst *Instance) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.instances[id]; ok {
		return existing
	}
	r.instances[id] = inst
	return inst
}

// Len returns the number of resident instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Clear drops every resident instance. Used at session boundaries and for
// test isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[string]*Instance)
}
