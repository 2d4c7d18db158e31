package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semsync/triple"
	"github.com/c360studio/semsync/vocabulary/rdf"
)

func testGraph() *triple.Graph {
	return triple.NewGraph(
		triple.Triple{Subject: "urn:w:1", Predicate: rdf.Type, Object: triple.IRI("https://example.org/ontology/Widget")},
		triple.Triple{Subject: "urn:w:1", Predicate: "https://example.org/ontology/hasSize", Object: triple.MustLiteral(int64(5))},
		triple.Triple{Subject: "urn:w:1", Predicate: "https://example.org/ontology/linksTo", Object: triple.IRI("urn:w:2")},
		triple.Triple{Subject: "urn:w:2", Predicate: rdf.Type, Object: triple.IRI("https://example.org/ontology/Widget")},
	)
}

func TestExportNTriples(t *testing.T) {
	out, err := NewExporter(testGraph()).Export(FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, out, "<urn:w:1> <https://example.org/ontology/hasSize> \"5\"^^<http://www.w3.org/2001/XMLSchema#integer> .")
	assert.Contains(t, out, "<urn:w:1> <https://example.org/ontology/linksTo> <urn:w:2> .")
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), "every statement ends with a dot: %q", line)
	}
}

func TestExportTurtle(t *testing.T) {
	exporter := NewExporter(testGraph())
	exporter.AddPrefix("ont", "https://example.org/ontology/")
	out, err := exporter.Export(FormatTurtle)
	require.NoError(t, err)

	assert.Contains(t, out, "@prefix ont: <https://example.org/ontology/> .")
	assert.Contains(t, out, "@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .")
	assert.Contains(t, out, "<urn:w:1>")
	assert.Contains(t, out, "a <https://example.org/ontology/Widget>")
	assert.Contains(t, out, "\"5\"^^xsd:integer")

	// One subject block per subject, predicates joined by semicolons.
	assert.Equal(t, 1, strings.Count(out, "<urn:w:1>\n"))
	assert.Equal(t, 1, strings.Count(out, "<urn:w:2>\n"))
	assert.Equal(t, 2, strings.Count(out, " ;\n"), "urn:w:1 has three predicates joined by two semicolons")
}

func TestFormatTermLiterals(t *testing.T) {
	cases := map[string]struct {
		term triple.Term
		want string
	}{
		"string":  {triple.MustLiteral("hi"), `"hi"`},
		"bool":    {triple.MustLiteral(true), `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
		"int":     {triple.MustLiteral(int64(42)), `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		"float":   {triple.MustLiteral(2.5), `"2.5"^^<http://www.w3.org/2001/XMLSchema#double>`},
		"iri":     {triple.IRI("urn:x"), "<urn:x>"},
		"escaped": {triple.MustLiteral("say \"hi\"\n"), `"say \"hi\"\n"`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatTerm(tc.term, false))
		})
	}

	t.Run("time uses xsd dateTime", func(t *testing.T) {
		when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		got := formatTerm(triple.MustLiteral(when), false)
		assert.Contains(t, got, "2026-03-01T12:00:00Z")
		assert.Contains(t, got, "XMLSchema#dateTime")
	})
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := NewExporter(triple.NewGraph()).Export("jsonld")
	assert.Error(t, err)
}
