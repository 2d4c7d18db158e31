// Package store provides the graph store transport consumed by the sync
// engine, with in-memory, badger-backed, and NATS request/reply
// implementations.
package store

import (
	"context"

	"github.com/c360studio/semsync/triple"
)

// Client is the transport contract between the sync engine and a graph
// store. Pull batches edge fetches through OutgoingEdges, push applies a
// delta as a single atomic delete-then-insert, and new instances draw
// identifiers from FreshIdentifier.
type Client interface {
	// OutgoingEdges returns, for each requested identifier present in the
	// store, its outgoing edges and literal attributes grouped by
	// predicate. Identifiers with no triples are omitted from the result.
	OutgoingEdges(ctx context.Context, ids []string) (map[string]map[string][]triple.Term, error)

	// InstancesOfType returns the identifiers of every node carrying an
	// rdf:type edge to the given class IRI.
	InstancesOfType(ctx context.Context, typeTag string) ([]string, error)

	// ApplyDelta removes then inserts the delta's edge sets as one atomic
	// update.
	ApplyDelta(ctx context.Context, delta *triple.Delta) error

	// FreshIdentifier mints a new instance identifier scoped to the given
	// entity namespace and type name.
	FreshIdentifier(namespace, typeName string) string
}
