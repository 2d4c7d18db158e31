package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/semsync/triple"
)

// DeltaPublisher receives deltas the bridge has applied, e.g. for graph
// ingestion downstream. *graph.Publisher satisfies it.
type DeltaPublisher interface {
	PublishDelta(ctx context.Context, entityID string, delta *triple.Delta) error
}

// Bridge serves the graph.query.* and graph.update.* subjects over any
// Client backend, exposing an embedded store to remote sync engines.
type Bridge struct {
	backend   Client
	logger    *slog.Logger
	publisher DeltaPublisher
	subs      []*nats.Subscription
}

// BridgeOption customizes a bridge.
type BridgeOption func(*Bridge)

// WithDeltaPublisher republishes every applied non-empty delta through p.
// Publication failures are logged, never surfaced to the updating client.
func WithDeltaPublisher(p DeltaPublisher) BridgeOption {
	return func(b *Bridge) { b.publisher = p }
}

// NewBridge wraps a backend store. A nil logger falls back to
// slog.Default.
func NewBridge(backend Client, logger *slog.Logger, opts ...BridgeOption) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{backend: backend, logger: logger}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Serve subscribes to the store subjects on conn. It returns once the
// subscriptions are established; handlers run on the NATS dispatch
// goroutines until Drain is called.
func (b *Bridge) Serve(conn *nats.Conn) error {
	handlers := map[string]func(context.Context, []byte) []byte{
		SubjectQueryEdges:     b.handleEdges,
		SubjectQueryInstances: b.handleInstances,
		SubjectUpdateDelta:    b.handleDelta,
	}
	for subject, handler := range handlers {
		h := handler
		sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
			reply := h(context.Background(), msg.Data)
			if err := msg.Respond(reply); err != nil {
				b.logger.Warn("bridge respond failed",
					slog.String("subject", msg.Subject),
					slog.String("error", err.Error()))
			}
		})
		if err != nil {
			b.drain()
			return err
		}
		b.subs = append(b.subs, sub)
	}
	b.logger.Info("graph store bridge serving",
		slog.String("subjects", SubjectQueryEdges+", "+SubjectQueryInstances+", "+SubjectUpdateDelta))
	return nil
}

// Drain unsubscribes from all store subjects.
func (b *Bridge) Drain() {
	b.drain()
}

func (b *Bridge) drain() {
	for _, sub := range b.subs {
		_ = sub.Drain()
	}
	b.subs = nil
}

func (b *Bridge) handleEdges(ctx context.Context, data []byte) []byte {
	var req edgesRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return mustMarshal(edgesResponse{Error: "bad request: " + err.Error()})
	}
	nodes, err := b.backend.OutgoingEdges(ctx, req.IDs)
	if err != nil {
		b.logger.Warn("edges query failed", slog.String("error", err.Error()))
		return mustMarshal(edgesResponse{Error: err.Error()})
	}
	return mustMarshal(edgesResponse{Success: true, Nodes: nodes})
}

func (b *Bridge) handleInstances(ctx context.Context, data []byte) []byte {
	var req instancesRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return mustMarshal(instancesResponse{Error: "bad request: " + err.Error()})
	}
	ids, err := b.backend.InstancesOfType(ctx, req.TypeTag)
	if err != nil {
		b.logger.Warn("instances query failed", slog.String("error", err.Error()))
		return mustMarshal(instancesResponse{Error: err.Error()})
	}
	return mustMarshal(instancesResponse{Success: true, IDs: ids})
}

func (b *Bridge) handleDelta(ctx context.Context, data []byte) []byte {
	var req deltaRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return mustMarshal(deltaResponse{Error: "bad request: " + err.Error()})
	}
	delta := triple.NewDelta()
	delta.Remove.Add(req.Remove...)
	delta.Add.Add(req.Add...)
	if err := b.backend.ApplyDelta(ctx, delta); err != nil {
		b.logger.Warn("delta update failed", slog.String("error", err.Error()))
		return mustMarshal(deltaResponse{Error: err.Error()})
	}
	if b.publisher != nil && !delta.Empty() {
		if err := b.publisher.PublishDelta(ctx, deltaSubject(delta), delta); err != nil {
			b.logger.Warn("delta publication failed", slog.String("error", err.Error()))
		}
	}
	return mustMarshal(deltaResponse{Success: true})
}

// deltaSubject keys a published delta by its first added subject in
// canonical order, falling back to the first removed one. The update wire
// format does not carry the pushing session's root identifier.
func deltaSubject(d *triple.Delta) string {
	if ts := d.Add.Triples(); len(ts) > 0 {
		return ts[0].Subject
	}
	if ts := d.Remove.Triples(); len(ts) > 0 {
		return ts[0].Subject
	}
	return ""
}

// mustMarshal encodes a response struct. The wire types contain nothing
// that can fail to marshal except term values already validated upstream.
func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return data
}
