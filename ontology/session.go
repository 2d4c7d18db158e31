package ontology

import (
	"context"
	"log/slog"

	"github.com/c360studio/semsync/store"
	"github.com/c360studio/semsync/triple"
)

// DefaultEntityNamespace is the base IRI for freshly minted instance
// identifiers when a session does not override it.
const DefaultEntityNamespace = "https://semsync.dev/entity/"

// DeltaPublisher receives applied deltas after a successful push, e.g.
// for downstream graph ingestion. Implementations must tolerate being
// called from the pushing goroutine.
type DeltaPublisher interface {
	PublishDelta(ctx context.Context, entityID string, delta *triple.Delta) error
}

// Session scopes a sync engine run: it owns the identity registry, the
// store transport, and the identifier namespace. Sessions bound the
// registry's lifetime; dropping the session drops the mirror.
type Session struct {
	store     store.Client
	registry  *Registry
	logger    *slog.Logger
	publisher DeltaPublisher
	entityNS  string
}

// SessionOption customizes a session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithPublisher wires a delta publisher invoked after successful pushes.
func WithPublisher(p DeltaPublisher) SessionOption {
	return func(s *Session) { s.publisher = p }
}

// WithEntityNamespace overrides the namespace for fresh identifiers.
func WithEntityNamespace(ns string) SessionOption {
	return func(s *Session) { s.entityNS = ns }
}

// NewSession creates a session over a store transport.
func NewSession(client store.Client, opts ...SessionOption) *Session {
	s := &Session{
		store:    client,
		registry: NewRegistry(),
		logger:   slog.Default(),
		entityNS: DefaultEntityNamespace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the session's identity map.
func (s *Session) Registry() *Registry { return s.registry }

// InstanceOption customizes instance construction.
type InstanceOption func(*instanceConfig)

type instanceConfig struct {
	id      string
	typeTag string
	comment string
}

// WithID sets an explicit identifier instead of minting a fresh one.
func WithID(id string) InstanceOption {
	return func(c *instanceConfig) { c.id = id }
}

// WithTypeTag overrides the schema-derived type tag.
func WithTypeTag(tag string) InstanceOption {
	return func(c *instanceConfig) { c.typeTag = tag }
}

// WithComment sets the rdfs:comment value.
func WithComment(comment string) InstanceOption {
	return func(c *instanceConfig) { c.comment = comment }
}

// NewInstance constructs an instance of the given schema and registers it
// in the session's identity map. Defaulting runs exactly once, here: a
// missing type tag comes from the schema, a missing identifier is minted
// by the store's generator. The returned instance is the registry's
// resident one, which may be a previously registered instance with the
// same identifier.
func (s *Session) NewInstance(schema *Schema, opts ...InstanceOption) *Instance {
	var cfg instanceConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.typeTag == "" {
		cfg.typeTag = schema.TypeTag()
	}
	if cfg.id == "" {
		cfg.id = s.store.FreshIdentifier(s.entityNS, schema.Name())
	}
	inst := newInstance(schema, cfg.id, cfg.typeTag, cfg.comment)
	return s.registry.RegisterIfAbsent(cfg.id, inst)
}
