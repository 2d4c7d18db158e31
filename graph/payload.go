package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "graph",
		Category:    "sync",
		Version:     "v1",
		Description: "Applied sync delta for graph ingestion with triples",
		Factory:     func() any { return &SyncPayload{} },
	})
	if err != nil {
		panic("failed to register SyncPayload: " + err.Error())
	}
}

// SyncType is the message type for applied sync deltas.
var SyncType = message.Type{Domain: "graph", Category: "sync", Version: "v1"}

// SyncPayload implements message.Payload for applied sync deltas: the
// triples a push added to the store, plus the count of removals, keyed by
// the pushed instance's identifier.
type SyncPayload struct {
	EntityID_    string           `json:"id"`
	TripleData   []message.Triple `json:"triples"`
	RemovedCount int              `json:"removed_count"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (p *SyncPayload) EntityID() string          { return p.EntityID_ }
func (p *SyncPayload) Triples() []message.Triple { return p.TripleData }
func (p *SyncPayload) Schema() message.Type      { return SyncType }

func (p *SyncPayload) Validate() error {
	if p.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	return nil
}

func (p *SyncPayload) MarshalJSON() ([]byte, error) {
	type Alias SyncPayload
	return json.Marshal((*Alias)(p))
}

func (p *SyncPayload) UnmarshalJSON(data []byte) error {
	type Alias SyncPayload
	return json.Unmarshal(data, (*Alias)(p))
}
