// Package triple provides the RDF data model used across semsync:
// terms, triples, triple sets, and add/remove deltas.
package triple

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TermKind distinguishes node references from literal values.
type TermKind int

const (
	// KindIRI marks a term naming another node or predicate.
	KindIRI TermKind = iota

	// KindLiteral marks a scalar value.
	KindLiteral
)

// Term is a single triple object: either an IRI or a literal.
//
// Literal values are canonicalized on construction so that equal values
// always compare equal: every integer kind becomes int64, float32 becomes
// float64, and timestamps are stripped of their monotonic clock reading.
// A canonical Term is comparable and safe to use as a map key.
type Term struct {
	Kind  TermKind
	Value any
}

// IRI returns a term naming the node or predicate with the given IRI.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Literal returns a canonical literal term for v.
// Supported kinds: string, bool, all integer kinds, float32/float64,
// and time.Time. An existing literal Term passes through unchanged.
func Literal(v any) (Term, error) {
	switch x := v.(type) {
	case Term:
		if x.Kind != KindLiteral {
			return Term{}, fmt.Errorf("term %s is not a literal", x)
		}
		return x, nil
	case string:
		return Term{Kind: KindLiteral, Value: x}, nil
	case bool:
		return Term{Kind: KindLiteral, Value: x}, nil
	case int:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case int8:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case int16:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case int32:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case int64:
		return Term{Kind: KindLiteral, Value: x}, nil
	case uint:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case uint8:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case uint16:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case uint32:
		return Term{Kind: KindLiteral, Value: int64(x)}, nil
	case float32:
		return Term{Kind: KindLiteral, Value: float64(x)}, nil
	case float64:
		return Term{Kind: KindLiteral, Value: x}, nil
	case time.Time:
		return Term{Kind: KindLiteral, Value: x.Round(0)}, nil
	default:
		return Term{}, fmt.Errorf("unsupported literal kind %T", v)
	}
}

// MustLiteral is Literal for values known to be supported.
// It panics on unsupported kinds and is intended for tests and static data.
func MustLiteral(v any) Term {
	t, err := Literal(v)
	if err != nil {
		panic(err)
	}
	return t
}

// IsIRI reports whether the term names a node rather than a literal.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IRIValue returns the IRI string, or "" for literals.
func (t Term) IRIValue() string {
	if t.Kind != KindIRI {
		return ""
	}
	s, _ := t.Value.(string)
	return s
}

// Key returns a canonical, kind-prefixed encoding of the term. Keys sort
// deterministically and are used for ordering, fingerprints, and storage
// key layouts.
func (t Term) Key() string {
	if t.Kind == KindIRI {
		return "i:" + t.IRIValue()
	}
	switch v := t.Value.(type) {
	case string:
		return "ls:" + v
	case bool:
		return "lb:" + strconv.FormatBool(v)
	case int64:
		return "li:" + strconv.FormatInt(v, 10)
	case float64:
		return "lf:" + strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return "lt:" + v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("l?:%v", v)
	}
}

// String renders the term for logs and error messages.
func (t Term) String() string {
	if t.Kind == KindIRI {
		return "<" + t.IRIValue() + ">"
	}
	return fmt.Sprintf("%v", t.Value)
}

// termJSON is the wire envelope for terms. Numeric and timestamp values
// travel as strings so that int64 precision survives JSON round-trips.
type termJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

const (
	wireIRI    = "iri"
	wireString = "string"
	wireBool   = "bool"
	wireInt    = "int"
	wireFloat  = "float"
	wireTime   = "time"
)

// MarshalJSON implements json.Marshaler.
func (t Term) MarshalJSON() ([]byte, error) {
	var w termJSON
	if t.Kind == KindIRI {
		w = termJSON{Kind: wireIRI, Value: t.IRIValue()}
		return json.Marshal(w)
	}
	switch v := t.Value.(type) {
	case string:
		w = termJSON{Kind: wireString, Value: v}
	case bool:
		w = termJSON{Kind: wireBool, Value: strconv.FormatBool(v)}
	case int64:
		w = termJSON{Kind: wireInt, Value: strconv.FormatInt(v, 10)}
	case float64:
		w = termJSON{Kind: wireFloat, Value: strconv.FormatFloat(v, 'g', -1, 64)}
	case time.Time:
		w = termJSON{Kind: wireTime, Value: v.UTC().Format(time.RFC3339Nano)}
	default:
		return nil, fmt.Errorf("unsupported literal kind %T", t.Value)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Term) UnmarshalJSON(data []byte) error {
	var w termJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case wireIRI:
		*t = IRI(w.Value)
	case wireString:
		*t = Term{Kind: KindLiteral, Value: w.Value}
	case wireBool:
		b, err := strconv.ParseBool(w.Value)
		if err != nil {
			return fmt.Errorf("parse bool term: %w", err)
		}
		*t = Term{Kind: KindLiteral, Value: b}
	case wireInt:
		i, err := strconv.ParseInt(w.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("parse int term: %w", err)
		}
		*t = Term{Kind: KindLiteral, Value: i}
	case wireFloat:
		f, err := strconv.ParseFloat(w.Value, 64)
		if err != nil {
			return fmt.Errorf("parse float term: %w", err)
		}
		*t = Term{Kind: KindLiteral, Value: f}
	case wireTime:
		ts, err := time.Parse(time.RFC3339Nano, w.Value)
		if err != nil {
			return fmt.Errorf("parse time term: %w", err)
		}
		*t = Term{Kind: KindLiteral, Value: ts}
	default:
		return fmt.Errorf("unknown term kind %q", w.Kind)
	}
	return nil
}
