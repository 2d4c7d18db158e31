package ontology

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by operations the engine deliberately does
// not support yet, currently instance deletion.
var ErrNotImplemented = errors.New("not implemented")

// CardinalityError reports a property range whose size violates the
// declared cardinality bounds. It is raised at assignment time; the range
// is left unchanged.
type CardinalityError struct {
	Predicate string
	Size      int
	Min       int
	Max       int // 0 means unbounded
}

func (e *CardinalityError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("property %s: range size %d outside cardinality [%d, %d]", e.Predicate, e.Size, e.Min, e.Max)
	}
	return fmt.Sprintf("property %s: range size %d below minimum cardinality %d", e.Predicate, e.Size, e.Min)
}

// UnsupportedLiteralError reports a value an attribute property cannot
// represent.
type UnsupportedLiteralError struct {
	Predicate string
	Value     any
	Err       error
}

func (e *UnsupportedLiteralError) Error() string {
	return fmt.Sprintf("property %s: unsupported literal %v (%T)", e.Predicate, e.Value, e.Value)
}

func (e *UnsupportedLiteralError) Unwrap() error { return e.Err }

// UnsupportedRangeTypeError reports a value a reference property cannot
// hold: anything other than an instance or a bare identifier.
type UnsupportedRangeTypeError struct {
	Predicate string
	Value     any
}

func (e *UnsupportedRangeTypeError) Error() string {
	return fmt.Sprintf("property %s: unsupported range value %v (%T), want instance or identifier", e.Predicate, e.Value, e.Value)
}

// StoreQueryError wraps a transport failure during pull or push. The
// underlying error is propagated unchanged; no retry happens in the
// engine.
type StoreQueryError struct {
	Op  string
	Err error
}

func (e *StoreQueryError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreQueryError) Unwrap() error { return e.Err }
