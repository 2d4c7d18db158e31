// Package export serializes triple graphs to standard RDF text formats.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/c360studio/semsync/triple"
	"github.com/c360studio/semsync/vocabulary/rdf"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// Exporter serializes a triple graph with configurable namespace prefixes.
type Exporter struct {
	graph    *triple.Graph
	prefixes map[string]string
}

// NewExporter creates an exporter over the given graph.
func NewExporter(g *triple.Graph) *Exporter {
	return &Exporter{
		graph:    g,
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the standard namespace prefixes.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  rdf.Namespace,
		"rdfs": rdf.RDFSNamespace,
		"owl":  rdf.OWLNamespace,
		"xsd":  rdf.XSDNamespace,
	}
}

// AddPrefix registers an additional namespace prefix for Turtle output.
func (e *Exporter) AddPrefix(prefix, namespace string) {
	e.prefixes[prefix] = namespace
}

// Export serializes the graph to the specified format.
func (e *Exporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// toTurtle serializes to Turtle format, grouping triples by subject.
func (e *Exporter) toTurtle() string {
	var sb strings.Builder

	for _, prefix := range sortedKeys(e.prefixes) {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, e.prefixes[prefix]))
	}
	sb.WriteString("\n")

	triples := e.graph.Triples()
	for i := 0; i < len(triples); {
		subject := triples[i].Subject
		j := i
		for j < len(triples) && triples[j].Subject == subject {
			j++
		}
		e.writeSubjectTurtle(&sb, triples[i:j])
		sb.WriteString("\n")
		i = j
	}

	return sb.String()
}

// writeSubjectTurtle writes one subject block. All triples share the subject.
func (e *Exporter) writeSubjectTurtle(sb *strings.Builder, triples []triple.Triple) {
	sb.WriteString(fmt.Sprintf("<%s>\n", triples[0].Subject))

	for i, t := range triples {
		if t.Predicate == rdf.Type && t.Object.IsIRI() {
			sb.WriteString(fmt.Sprintf("    a <%s>", t.Object.IRIValue()))
		} else {
			sb.WriteString(fmt.Sprintf("    <%s> %s", t.Predicate, formatTerm(t.Object, true)))
		}
		if i < len(triples)-1 {
			sb.WriteString(" ;\n")
		} else {
			sb.WriteString(" .\n")
		}
	}
}

// toNTriples serializes to N-Triples format, one statement per line.
func (e *Exporter) toNTriples() string {
	var sb strings.Builder

	for _, t := range e.graph.Triples() {
		sb.WriteString(fmt.Sprintf("<%s> <%s> %s .\n", t.Subject, t.Predicate, formatTerm(t.Object, false)))
	}

	return sb.String()
}

// formatTerm renders a term as a Turtle or N-Triples object. Turtle output
// uses the xsd: prefix for datatypes, N-Triples uses full datatype IRIs.
func formatTerm(term triple.Term, prefixed bool) string {
	if term.IsIRI() {
		return fmt.Sprintf("<%s>", term.IRIValue())
	}

	switch v := term.Value.(type) {
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case bool:
		return typedLiteral(fmt.Sprintf("%t", v), rdf.XSDBoolean, prefixed)
	case int64:
		return typedLiteral(fmt.Sprintf("%d", v), rdf.XSDInteger, prefixed)
	case float64:
		return typedLiteral(fmt.Sprintf("%g", v), rdf.XSDDouble, prefixed)
	case time.Time:
		return typedLiteral(v.Format(time.RFC3339Nano), rdf.XSDDateTime, prefixed)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprintf("%v", v)))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// typedLiteral renders a literal with its datatype IRI, compacted to the
// xsd: prefix in Turtle mode.
func typedLiteral(lexical, datatype string, prefixed bool) string {
	if prefixed {
		return fmt.Sprintf("\"%s\"^^xsd:%s", lexical, strings.TrimPrefix(datatype, rdf.XSDNamespace))
	}
	return fmt.Sprintf("\"%s\"^^<%s>", lexical, datatype)
}

// escapeString escapes special characters for RDF string literals.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
