package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNS = "https://example.org/ontology/"

func TestNewSchema(t *testing.T) {
	t.Run("derives type tag and predicates", func(t *testing.T) {
		s, err := NewSchema(testNS, "Widget",
			&PropertySpec{Name: "hasSize", Kind: Attribute},
		)
		require.NoError(t, err)
		assert.Equal(t, testNS+"Widget", s.TypeTag())
		assert.Equal(t, testNS+"hasSize", s.Property("hasSize").Predicate)
	})

	t.Run("normalizes namespace without trailing separator", func(t *testing.T) {
		s, err := NewSchema("https://example.org/ontology", "Widget")
		require.NoError(t, err)
		assert.Equal(t, "https://example.org/ontology/Widget", s.TypeTag())
	})

	t.Run("keeps hash namespaces intact", func(t *testing.T) {
		s, err := NewSchema("https://example.org/ont#", "Widget")
		require.NoError(t, err)
		assert.Equal(t, "https://example.org/ont#Widget", s.TypeTag())
	})

	t.Run("keeps urn namespaces intact", func(t *testing.T) {
		s, err := NewSchema("urn:test:onto:", "Widget",
			&PropertySpec{Name: "hasSize", Kind: Attribute},
		)
		require.NoError(t, err)
		assert.Equal(t, "urn:test:onto:Widget", s.TypeTag())
		assert.Equal(t, "urn:test:onto:hasSize", s.Property("hasSize").Predicate)
	})

	t.Run("explicit predicate wins over derivation", func(t *testing.T) {
		s, err := NewSchema(testNS, "Widget",
			&PropertySpec{Name: "hasSize", Predicate: "urn:custom:size", Kind: Attribute},
		)
		require.NoError(t, err)
		assert.Equal(t, "urn:custom:size", s.Property("hasSize").Predicate)
	})

	t.Run("rejects duplicate property names", func(t *testing.T) {
		_, err := NewSchema(testNS, "Widget",
			&PropertySpec{Name: "hasSize", Kind: Attribute},
			&PropertySpec{Name: "hasSize", Kind: Attribute},
		)
		assert.Error(t, err)
	})

	t.Run("rejects min above max", func(t *testing.T) {
		_, err := NewSchema(testNS, "Widget",
			&PropertySpec{Name: "hasSize", Kind: Attribute, MinCardinality: 3, MaxCardinality: 1},
		)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSchema(testNS, "")
		assert.Error(t, err)
	})
}

func TestSetReferenceRange(t *testing.T) {
	t.Run("wires cyclic schemas", func(t *testing.T) {
		widget := MustSchema(testNS, "Widget",
			&PropertySpec{Name: "linksTo", Kind: Reference},
		)
		require.NoError(t, widget.SetReferenceRange("linksTo", widget))
		assert.Same(t, widget, widget.Property("linksTo").Range)
	})

	t.Run("rejects attribute properties", func(t *testing.T) {
		widget := MustSchema(testNS, "Widget",
			&PropertySpec{Name: "hasSize", Kind: Attribute},
		)
		assert.Error(t, widget.SetReferenceRange("hasSize", widget))
	})

	t.Run("rejects unknown properties", func(t *testing.T) {
		widget := MustSchema(testNS, "Widget")
		assert.Error(t, widget.SetReferenceRange("nope", widget))
	})
}
