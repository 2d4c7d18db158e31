package ontology

import (
	"fmt"
	"strings"
)

// PropertyKind classifies a declared property.
type PropertyKind int

const (
	// Attribute properties hold scalar literals; recursion never applies.
	Attribute PropertyKind = iota

	// Reference properties hold other instances or bare identifiers;
	// pull and diff may recurse through them.
	Reference
)

func (k PropertyKind) String() string {
	switch k {
	case Attribute:
		return "attribute"
	case Reference:
		return "reference"
	default:
		return fmt.Sprintf("PropertyKind(%d)", int(k))
	}
}

// PropertySpec declares one property of an instance class. Specs are
// built once at schema construction and consulted by both the pull and
// diff engines instead of runtime introspection.
type PropertySpec struct {
	// Name is the declared field name, unique within the schema.
	Name string

	// Predicate is the property's predicate IRI. When empty it is derived
	// from the schema namespace and Name.
	Predicate string

	// Kind selects the attribute or reference variant.
	Kind PropertyKind

	// MinCardinality and MaxCardinality bound the range size.
	// MaxCardinality 0 means unbounded.
	MinCardinality int
	MaxCardinality int

	// Range is the schema of referenced instances. Only meaningful for
	// Reference properties; when nil, pulled references stay bare
	// identifiers.
	Range *Schema
}

// Schema is the static descriptor of a concrete instance class: its type
// tag and its declared properties, fixed in number and kind.
type Schema struct {
	name      string
	namespace string
	typeTag   string
	specs     []*PropertySpec
	byName    map[string]*PropertySpec
}

// NewSchema builds a schema in the given ontology namespace. The type tag
// is derived as namespace + name; empty spec predicates are derived as
// namespace + spec name. The derivation runs exactly once, here.
func NewSchema(namespace, name string, specs ...*PropertySpec) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name is required")
	}
	ns := normalizeNamespace(namespace)

	s := &Schema{
		name:      name,
		namespace: ns,
		typeTag:   ns + name,
		specs:     make([]*PropertySpec, 0, len(specs)),
		byName:    make(map[string]*PropertySpec, len(specs)),
	}
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("schema %s: property name is required", name)
		}
		if _, dup := s.byName[spec.Name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate property %s", name, spec.Name)
		}
		if spec.MaxCardinality > 0 && spec.MinCardinality > spec.MaxCardinality {
			return nil, fmt.Errorf("schema %s: property %s: min cardinality %d exceeds max %d",
				name, spec.Name, spec.MinCardinality, spec.MaxCardinality)
		}
		if spec.Predicate == "" {
			spec.Predicate = ns + spec.Name
		}
		s.specs = append(s.specs, spec)
		s.byName[spec.Name] = spec
	}
	return s, nil
}

// MustSchema is NewSchema for statically known declarations; it panics on
// error.
func MustSchema(namespace, name string, specs ...*PropertySpec) *Schema {
	s, err := NewSchema(namespace, name, specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the class name.
func (s *Schema) Name() string { return s.name }

// TypeTag returns the class IRI asserted as rdf:type on instances.
func (s *Schema) TypeTag() string { return s.typeTag }

// Namespace returns the normalized ontology namespace.
func (s *Schema) Namespace() string { return s.namespace }

// Properties returns the declared property specs in declaration order.
func (s *Schema) Properties() []*PropertySpec { return s.specs }

// Property returns the spec for a declared field name, or nil.
func (s *Schema) Property(name string) *PropertySpec { return s.byName[name] }

// SetReferenceRange wires the range schema of a declared reference
// property after construction. This is how mutually or self-referential
// schemas are declared.
func (s *Schema) SetReferenceRange(name string, r *Schema) error {
	spec := s.byName[name]
	if spec == nil {
		return fmt.Errorf("schema %s: unknown property %s", s.name, name)
	}
	if spec.Kind != Reference {
		return fmt.Errorf("schema %s: property %s is not a reference property", s.name, name)
	}
	spec.Range = r
	return nil
}

// normalizeNamespace appends a / separator unless the namespace already
// ends in /, # or : (URN class namespaces end in the latter).
func normalizeNamespace(ns string) string {
	if ns != "" && !strings.HasSuffix(ns, "/") && !strings.HasSuffix(ns, "#") && !strings.HasSuffix(ns, ":") {
		ns += "/"
	}
	return ns
}
