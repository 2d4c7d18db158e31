// Package graph publishes applied sync deltas to the knowledge graph
// ingestion stream.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"

	"github.com/c360studio/semsync/triple"
)

// IngestSubject is the stream subject for sync delta ingestion.
const IngestSubject = "graph.ingest.sync"

// Source identifies this engine in published triples.
const Source = "semsync.push"

// StreamPublisher is the publishing surface the ingest publisher needs.
// *natsclient.Client satisfies it.
type StreamPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// Publisher emits applied deltas as graph ingestion messages. It
// implements the sync engine's DeltaPublisher contract.
type Publisher struct {
	nc StreamPublisher
}

// NewPublisher wraps a stream publisher.
func NewPublisher(nc StreamPublisher) *Publisher {
	return &Publisher{nc: nc}
}

// NewNATSPublisher wraps a semstreams NATS client.
func NewNATSPublisher(nc *natsclient.Client) *Publisher {
	return &Publisher{nc: nc}
}

// PublishDelta publishes the additions of an applied delta as the pushed
// entity's new assertions. Removals travel as a count only; downstream
// graph processors re-query the store when they need removal detail. A
// nil publisher target skips publication (graceful degradation).
func (p *Publisher) PublishDelta(ctx context.Context, entityID string, delta *triple.Delta) error {
	if p == nil || p.nc == nil {
		return nil
	}

	now := time.Now()
	added := delta.Add.Triples()
	triples := make([]message.Triple, 0, len(added))
	for _, t := range added {
		triples = append(triples, message.Triple{
			Subject:    t.Subject,
			Predicate:  t.Predicate,
			Object:     objectValue(t.Object),
			Source:     Source,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}

	payload := SyncPayload{
		EntityID_:    entityID,
		TripleData:   triples,
		RemovedCount: delta.Remove.Len(),
		UpdatedAt:    now,
	}
	data, err := json.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("marshal sync delta: %w", err)
	}

	if err := p.nc.PublishToStream(ctx, IngestSubject, data); err != nil {
		return fmt.Errorf("publish sync delta: %w", err)
	}
	return nil
}

// objectValue flattens a term for the ingestion feed: IRIs become their
// string form, literals keep their canonical value.
func objectValue(t triple.Term) any {
	if t.IsIRI() {
		return t.IRIValue()
	}
	return t.Value
}
