package triple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(s, p string, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

func TestGraph(t *testing.T) {
	t.Run("add is idempotent", func(t *testing.T) {
		g := NewGraph()
		edge := tr("urn:a", "urn:p", MustLiteral("v"))
		g.Add(edge)
		g.Add(edge)
		assert.Equal(t, 1, g.Len())
	})

	t.Run("remove absent triple is a no-op", func(t *testing.T) {
		g := NewGraph(tr("urn:a", "urn:p", MustLiteral("v")))
		g.Remove(tr("urn:b", "urn:p", MustLiteral("v")))
		assert.Equal(t, 1, g.Len())
	})

	t.Run("triples are sorted and grouped by subject", func(t *testing.T) {
		g := NewGraph(
			tr("urn:b", "urn:p", MustLiteral("1")),
			tr("urn:a", "urn:q", MustLiteral("2")),
			tr("urn:a", "urn:p", MustLiteral("3")),
		)
		out := g.Triples()
		require.Len(t, out, 3)
		assert.Equal(t, "urn:a", out[0].Subject)
		assert.Equal(t, "urn:a", out[1].Subject)
		assert.Equal(t, "urn:b", out[2].Subject)
	})

	t.Run("merge keeps both sets", func(t *testing.T) {
		a := NewGraph(tr("urn:a", "urn:p", MustLiteral("1")))
		b := NewGraph(
			tr("urn:a", "urn:p", MustLiteral("1")),
			tr("urn:b", "urn:p", MustLiteral("2")),
		)
		a.Merge(b)
		assert.Equal(t, 2, a.Len())
	})
}

func TestDelta(t *testing.T) {
	d := NewDelta()
	assert.True(t, d.Empty())

	d.Add.Add(tr("urn:a", "urn:p", MustLiteral("v")))
	assert.False(t, d.Empty())

	d = NewDelta()
	d.Remove.Add(tr("urn:a", "urn:p", MustLiteral("v")))
	assert.False(t, d.Empty())
}
