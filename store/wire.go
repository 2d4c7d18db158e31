package store

import "github.com/c360studio/semsync/triple"

// NATS subjects for the graph store request/reply protocol. The subject
// family follows the graph.query.* / graph.update.* convention used by the
// semstreams graph services.
const (
	// SubjectQueryEdges serves batched outgoing-edge queries.
	SubjectQueryEdges = "graph.query.edges"

	// SubjectQueryInstances serves instance-of-type queries.
	SubjectQueryInstances = "graph.query.instances"

	// SubjectUpdateDelta applies delete-then-insert deltas.
	SubjectUpdateDelta = "graph.update.delta"
)

// edgesRequest asks for the outgoing edges and attributes of a batch of
// identifiers.
type edgesRequest struct {
	IDs []string `json:"ids"`
}

// edgesResponse carries the per-identifier predicate/value map.
type edgesResponse struct {
	Success bool                                `json:"success"`
	Error   string                              `json:"error,omitempty"`
	Nodes   map[string]map[string][]triple.Term `json:"nodes,omitempty"`
}

// instancesRequest asks for all identifiers of a class.
type instancesRequest struct {
	TypeTag string `json:"type_tag"`
}

// instancesResponse lists the matching identifiers.
type instancesResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	IDs     []string `json:"ids,omitempty"`
}

// deltaRequest carries the edge sets of one atomic update.
type deltaRequest struct {
	Remove []triple.Triple `json:"remove"`
	Add    []triple.Triple `json:"add"`
}

// deltaResponse acknowledges an update.
type deltaResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
