package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/semsync/triple"
)

// DefaultRequestTimeout bounds a single store round-trip when the caller's
// context carries no deadline.
const DefaultRequestTimeout = 30 * time.Second

// NATSStore is a remote graph store client speaking JSON request/reply
// over the graph.query.* and graph.update.* subjects.
type NATSStore struct {
	conn    *nats.Conn
	timeout time.Duration
}

// NATSOption customizes a NATSStore.
type NATSOption func(*NATSStore)

// WithRequestTimeout sets the fallback per-request timeout.
func WithRequestTimeout(d time.Duration) NATSOption {
	return func(s *NATSStore) { s.timeout = d }
}

// NewNATSStore wraps an established NATS connection.
func NewNATSStore(conn *nats.Conn, opts ...NATSOption) *NATSStore {
	s := &NATSStore{conn: conn, timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OutgoingEdges implements Client.
func (s *NATSStore) OutgoingEdges(ctx context.Context, ids []string) (map[string]map[string][]triple.Term, error) {
	var resp edgesResponse
	if err := s.request(ctx, SubjectQueryEdges, edgesRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("edges query failed: %s", resp.Error)
	}
	return resp.Nodes, nil
}

// InstancesOfType implements Client.
func (s *NATSStore) InstancesOfType(ctx context.Context, typeTag string) ([]string, error) {
	var resp instancesResponse
	if err := s.request(ctx, SubjectQueryInstances, instancesRequest{TypeTag: typeTag}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("instances query failed: %s", resp.Error)
	}
	return resp.IDs, nil
}

// ApplyDelta implements Client.
func (s *NATSStore) ApplyDelta(ctx context.Context, delta *triple.Delta) error {
	req := deltaRequest{
		Remove: delta.Remove.Triples(),
		Add:    delta.Add.Triples(),
	}
	var resp deltaResponse
	if err := s.request(ctx, SubjectUpdateDelta, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("delta update failed: %s", resp.Error)
	}
	return nil
}

// FreshIdentifier implements Client. Identifiers are minted locally; the
// remote store only learns them when the first delta is applied.
func (s *NATSStore) FreshIdentifier(namespace, typeName string) string {
	return freshIdentifier(namespace, typeName)
}

func (s *NATSStore) request(ctx context.Context, subject string, req, resp any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", subject, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := s.conn.RequestWithContext(ctx, subject, data)
	observeRequest(subject, time.Since(start).Seconds(), err)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return fmt.Errorf("no graph store listening on %s: %w", subject, err)
		}
		return fmt.Errorf("request %s: %w", subject, err)
	}

	if err := json.Unmarshal(msg.Data, resp); err != nil {
		return fmt.Errorf("decode %s response: %w", subject, err)
	}
	return nil
}
