package ontology

import (
	"context"
	"log/slog"

	"github.com/c360studio/semsync/triple"
)

// Push reconciles the instance's in-memory state back into the store: it
// collects the add/remove edge sets against the cache snapshot, submits
// them as one atomic delete-then-insert update, and returns the applied
// delta for inspection.
//
// After a successful update the cache snapshots of every instance the
// diff traversal visited are recaptured, so an immediate second push
// computes an empty delta instead of re-emitting already-applied edges.
func (s *Session) Push(ctx context.Context, inst *Instance, depth Depth) (*triple.Delta, error) {
	delta := triple.NewDelta()
	visited := make(map[string]*diffVisit)
	s.collectDiff(inst, delta, depth, visited)

	if !delta.Empty() {
		if err := s.store.ApplyDelta(ctx, delta); err != nil {
			return nil, &StoreQueryError{Op: "apply delta", Err: err}
		}
	}

	for _, v := range visited {
		v.inst.refreshCache()
	}

	s.logger.Debug("pushed instance",
		slog.String("id", inst.ID()),
		slog.Int("added", delta.Add.Len()),
		slog.Int("removed", delta.Remove.Len()))

	if s.publisher != nil && !delta.Empty() {
		if err := s.publisher.PublishDelta(ctx, inst.ID(), delta); err != nil {
			// Publication feeds downstream consumers; the push itself
			// already succeeded.
			s.logger.Warn("delta publication failed",
				slog.String("id", inst.ID()),
				slog.String("error", err.Error()))
		}
	}
	return delta, nil
}

// Delete removes an instance's triples from the store. Deletion semantics
// (cascading edges, dangling references) are unresolved; callers must
// treat the operation as unavailable.
func (s *Session) Delete(ctx context.Context, inst *Instance) error {
	return ErrNotImplemented
}
