package ontology

// Depth is the recursion budget for pull and diff traversals: DepthNone
// touches only the requested nodes, Bounded(n) descends n further levels,
// and DepthUnbounded never stops by depth (traversals then rely on their
// visited set for termination).
//
// The numeric encoding (0 / n / -1) is kept because it is the engine's
// boundary convention; Recurse and Next are the only places that interpret
// it.
type Depth int

const (
	// DepthNone fetches or diffs only the requested nodes.
	DepthNone Depth = 0

	// DepthUnbounded recurses without a depth limit.
	DepthUnbounded Depth = -1
)

// Bounded returns a budget of n further levels. Negative n is clamped to
// DepthUnbounded.
func Bounded(n int) Depth {
	if n < 0 {
		return DepthUnbounded
	}
	return Depth(n)
}

// Recurse reports whether the budget permits descending one more level.
func (d Depth) Recurse() bool {
	return d != DepthNone
}

// Covers reports whether d reaches at least as deep as e.
// DepthUnbounded covers every budget and only DepthUnbounded covers it.
func (d Depth) Covers(e Depth) bool {
	if d == DepthUnbounded {
		return true
	}
	if e == DepthUnbounded {
		return false
	}
	return d >= e
}

// Next returns the budget for the next level: bounded budgets decrement
// and floor at DepthNone, DepthUnbounded stays unbounded.
func (d Depth) Next() Depth {
	if d == DepthUnbounded {
		return DepthUnbounded
	}
	if d <= 0 {
		return DepthNone
	}
	return d - 1
}
