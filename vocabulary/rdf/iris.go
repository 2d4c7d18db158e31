// Package rdf provides W3C standard vocabulary IRIs used by the sync
// engine and its serializers.
//
// References:
// - RDF: https://www.w3.org/TR/rdf11-concepts/
// - RDF Schema: https://www.w3.org/TR/rdf-schema/
// - OWL: https://www.w3.org/TR/owl2-overview/
// - XSD: https://www.w3.org/TR/xmlschema11-2/
package rdf

// Namespace prefixes for the standard vocabularies.
const (
	Namespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF and RDF Schema terms.
const (
	// Type asserts the class of a node. Every synchronized instance
	// carries exactly one rdf:type edge.
	Type = Namespace + "type"

	// Comment provides a human-readable description of a node.
	Comment = RDFSNamespace + "comment"
)

// XSD datatype IRIs used when serializing typed literals. Plain strings
// are serialized without a datatype annotation.
const (
	XSDBoolean  = XSDNamespace + "boolean"
	XSDInteger  = XSDNamespace + "integer"
	XSDDouble   = XSDNamespace + "double"
	XSDDateTime = XSDNamespace + "dateTime"
)
