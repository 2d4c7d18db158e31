package ontology

import (
	"github.com/c360studio/semsync/triple"
)

// Instance is a typed node mirrored from the graph store: an identifier,
// a type tag, an optional comment, and the properties its schema declares.
// It owns a cache snapshot of its last-synchronized state, the baseline
// the diff engine works against.
//
// Instances are not safe for concurrent mutation; callers serialize access
// to a shared instance. The registry an instance lives in has its own
// lock.
type Instance struct {
	id      string
	typeTag string
	comment string

	schema *Schema
	props  map[string]*Property

	cache         *snapshot
	existsInStore bool
}

// snapshot is the reference-neutral copy of an instance's synchronized
// state: live references are recorded as bare identifiers so the cache
// never retains ownership of neighbors.
type snapshot struct {
	typeTag string
	comment string
	ranges  map[string]rangeSnapshot
}

type rangeSnapshot struct {
	kind     PropertyKind
	literals map[triple.Term]struct{}
	refs     map[string]struct{}
}

func newInstance(schema *Schema, id, typeTag, comment string) *Instance {
	inst := &Instance{
		id:      id,
		typeTag: typeTag,
		comment: comment,
		schema:  schema,
		props:   make(map[string]*Property, len(schema.Properties())),
	}
	for _, spec := range schema.Properties() {
		inst.props[spec.Name] = newProperty(spec)
	}
	return inst
}

// ID returns the instance identifier. Immutable after construction.
func (i *Instance) ID() string { return i.id }

// TypeTag returns the node's class IRI.
func (i *Instance) TypeTag() string { return i.typeTag }

// Schema returns the instance's static class descriptor.
func (i *Instance) Schema() *Schema { return i.schema }

// Comment returns the optional rdfs:comment value ("" when unset).
func (i *Instance) Comment() string { return i.comment }

// SetComment updates the comment.
func (i *Instance) SetComment(c string) { i.comment = c }

// ExistsInStore reports whether the node's existence triple has been
// observed or emitted.
func (i *Instance) ExistsInStore() bool { return i.existsInStore }

// Property returns the container for a declared field name, or nil for
// undeclared names.
func (i *Instance) Property(name string) *Property {
	return i.props[name]
}

// refreshCache recaptures the cache snapshot from current property state
// and marks the node as existing in the store. Called after a successful
// pull or push; a failed push leaves both untouched so the next diff
// re-emits the full delta, existence triple included.
func (i *Instance) refreshCache() {
	i.existsInStore = true
	snap := &snapshot{
		typeTag: i.typeTag,
		comment: i.comment,
		ranges:  make(map[string]rangeSnapshot, len(i.props)),
	}
	for name, p := range i.props {
		rs := rangeSnapshot{kind: p.Kind()}
		if p.Kind() == Attribute {
			rs.literals = copyTermSet(p.literals)
		} else {
			rs.refs = p.identifierSet()
		}
		snap.ranges[name] = rs
	}
	i.cache = snap
}

// cachedRange returns the snapshot for a field, along with whether any
// snapshot exists at all.
func (i *Instance) cachedRange(name string) (rangeSnapshot, bool) {
	if i.cache == nil {
		return rangeSnapshot{}, false
	}
	rs, ok := i.cache.ranges[name]
	return rs, ok
}

func (i *Instance) cachedTypeTag() string {
	if i.cache == nil {
		return ""
	}
	return i.cache.typeTag
}

func (i *Instance) cachedComment() string {
	if i.cache == nil {
		return ""
	}
	return i.cache.comment
}
