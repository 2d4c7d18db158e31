package ontology

import (
	"sort"
	"strings"

	"github.com/c360studio/semsync/triple"
)

// Property is the typed holder of a predicate and a set of range values.
// Attribute properties hold canonical literal terms; reference properties
// hold identifiers with an optionally resolved live instance. Two
// references to the same identifier are one element, whether resolved or
// bare.
//
// Every mutation validates value kinds and cardinality bounds before
// committing, so a failed call leaves the range unchanged.
type Property struct {
	spec     *PropertySpec
	literals map[triple.Term]struct{}
	refs     map[string]*Instance
}

func newProperty(spec *PropertySpec) *Property {
	p := &Property{spec: spec}
	if spec.Kind == Attribute {
		p.literals = make(map[triple.Term]struct{})
	} else {
		p.refs = make(map[string]*Instance)
	}
	return p
}

// Name returns the declared field name.
func (p *Property) Name() string { return p.spec.Name }

// Predicate returns the predicate IRI.
func (p *Property) Predicate() string { return p.spec.Predicate }

// Kind returns the property variant.
func (p *Property) Kind() PropertyKind { return p.spec.Kind }

// Len returns the range size.
func (p *Property) Len() int {
	if p.spec.Kind == Attribute {
		return len(p.literals)
	}
	return len(p.refs)
}

// Set replaces the range with the given values.
func (p *Property) Set(values ...any) error {
	if p.spec.Kind == Attribute {
		next, err := p.admitLiterals(make(map[triple.Term]struct{}, len(values)), values)
		if err != nil {
			return err
		}
		if err := p.checkCardinality(len(next)); err != nil {
			return err
		}
		p.literals = next
		return nil
	}
	next, err := p.admitRefs(make(map[string]*Instance, len(values)), values)
	if err != nil {
		return err
	}
	if err := p.checkCardinality(len(next)); err != nil {
		return err
	}
	p.refs = next
	return nil
}

// Add inserts values into the range.
func (p *Property) Add(values ...any) error {
	if p.spec.Kind == Attribute {
		next, err := p.admitLiterals(copyTermSet(p.literals), values)
		if err != nil {
			return err
		}
		if err := p.checkCardinality(len(next)); err != nil {
			return err
		}
		p.literals = next
		return nil
	}
	next, err := p.admitRefs(copyRefMap(p.refs), values)
	if err != nil {
		return err
	}
	if err := p.checkCardinality(len(next)); err != nil {
		return err
	}
	p.refs = next
	return nil
}

// Remove deletes values from the range. Unknown values are ignored.
func (p *Property) Remove(values ...any) error {
	if p.spec.Kind == Attribute {
		next := copyTermSet(p.literals)
		for _, v := range values {
			term, err := triple.Literal(v)
			if err != nil {
				return &UnsupportedLiteralError{Predicate: p.spec.Predicate, Value: v, Err: err}
			}
			delete(next, term)
		}
		if err := p.checkCardinality(len(next)); err != nil {
			return err
		}
		p.literals = next
		return nil
	}
	next := copyRefMap(p.refs)
	for _, v := range values {
		id, _, err := p.admitRef(v)
		if err != nil {
			return err
		}
		delete(next, id)
	}
	if err := p.checkCardinality(len(next)); err != nil {
		return err
	}
	p.refs = next
	return nil
}

// Clear empties the range.
func (p *Property) Clear() error {
	if err := p.checkCardinality(0); err != nil {
		return err
	}
	if p.spec.Kind == Attribute {
		p.literals = make(map[triple.Term]struct{})
	} else {
		p.refs = make(map[string]*Instance)
	}
	return nil
}

// Literals returns an attribute range in deterministic order. Empty for
// reference properties.
func (p *Property) Literals() []triple.Term {
	out := make([]triple.Term, 0, len(p.literals))
	for t := range p.literals {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Identifiers returns a reference range as sorted identifiers. Empty for
// attribute properties.
func (p *Property) Identifiers() []string {
	out := make([]string, 0, len(p.refs))
	for id := range p.refs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Resolved returns the live instances currently resolved in the range, in
// identifier order. Bare identifiers are skipped.
func (p *Property) Resolved() []*Instance {
	ids := p.Identifiers()
	out := make([]*Instance, 0, len(ids))
	for _, id := range ids {
		if inst := p.refs[id]; inst != nil {
			out = append(out, inst)
		}
	}
	return out
}

// Equal reports structural equality: same predicate and same range
// elements, order-independent, with resolved and bare references to the
// same identifier treated as equal.
func (p *Property) Equal(other *Property) bool {
	if other == nil {
		return false
	}
	return p.Fingerprint() == other.Fingerprint()
}

// Fingerprint returns a canonical encoding of (predicate, sorted range
// element keys) for change detection and set membership.
func (p *Property) Fingerprint() string {
	keys := make([]string, 0, p.Len())
	if p.spec.Kind == Attribute {
		for t := range p.literals {
			keys = append(keys, t.Key())
		}
	} else {
		for id := range p.refs {
			keys = append(keys, "r:"+id)
		}
	}
	sort.Strings(keys)
	return p.spec.Predicate + "(" + strings.Join(keys, ",") + ")"
}

// admitLiterals validates attribute values into dst.
func (p *Property) admitLiterals(dst map[triple.Term]struct{}, values []any) (map[triple.Term]struct{}, error) {
	for _, v := range values {
		if t, ok := v.(triple.Term); ok && t.IsIRI() {
			return nil, &UnsupportedLiteralError{Predicate: p.spec.Predicate, Value: v}
		}
		term, err := triple.Literal(v)
		if err != nil {
			return nil, &UnsupportedLiteralError{Predicate: p.spec.Predicate, Value: v, Err: err}
		}
		dst[term] = struct{}{}
	}
	return dst, nil
}

// admitRefs validates reference values into dst. A resolved instance wins
// over a bare identifier for the same element.
func (p *Property) admitRefs(dst map[string]*Instance, values []any) (map[string]*Instance, error) {
	for _, v := range values {
		id, inst, err := p.admitRef(v)
		if err != nil {
			return nil, err
		}
		if existing, ok := dst[id]; !ok || existing == nil {
			dst[id] = inst
		}
	}
	return dst, nil
}

func (p *Property) admitRef(v any) (string, *Instance, error) {
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return "", nil, &UnsupportedRangeTypeError{Predicate: p.spec.Predicate, Value: v}
		}
		return x.ID(), x, nil
	case string:
		if x == "" {
			return "", nil, &UnsupportedRangeTypeError{Predicate: p.spec.Predicate, Value: v}
		}
		return x, nil, nil
	case triple.Term:
		if !x.IsIRI() {
			return "", nil, &UnsupportedRangeTypeError{Predicate: p.spec.Predicate, Value: v}
		}
		return x.IRIValue(), nil, nil
	default:
		return "", nil, &UnsupportedRangeTypeError{Predicate: p.spec.Predicate, Value: v}
	}
}

func (p *Property) checkCardinality(size int) error {
	min, max := p.spec.MinCardinality, p.spec.MaxCardinality
	if size < min || (max > 0 && size > max) {
		return &CardinalityError{Predicate: p.spec.Predicate, Size: size, Min: min, Max: max}
	}
	return nil
}

// identifierSet returns the reference range as a bare identifier set.
func (p *Property) identifierSet() map[string]struct{} {
	out := make(map[string]struct{}, len(p.refs))
	for id := range p.refs {
		out[id] = struct{}{}
	}
	return out
}

// resolve returns the live instance for an identifier in the range, or
// nil when the element is bare.
func (p *Property) resolve(id string) *Instance {
	return p.refs[id]
}

func copyTermSet(src map[triple.Term]struct{}) map[triple.Term]struct{} {
	dst := make(map[triple.Term]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}

func copyRefMap(src map[string]*Instance) map[string]*Instance {
	dst := make(map[string]*Instance, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
