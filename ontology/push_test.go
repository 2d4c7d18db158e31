package ontology

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semsync/store"
	"github.com/c360studio/semsync/triple"
	"github.com/c360studio/semsync/vocabulary/rdf"
)

// brokenWriter fails every delta application.
type brokenWriter struct {
	store.Client
	err error
}

func (b *brokenWriter) ApplyDelta(context.Context, *triple.Delta) error {
	return b.err
}

// recordingPublisher captures published deltas.
type recordingPublisher struct {
	entityIDs []string
	deltas    []*triple.Delta
	err       error
}

func (r *recordingPublisher) PublishDelta(_ context.Context, entityID string, delta *triple.Delta) error {
	r.entityIDs = append(r.entityIDs, entityID)
	r.deltas = append(r.deltas, delta)
	return r.err
}

func TestPushLifecycle(t *testing.T) {
	widget := widgetSchema(t)
	ctx := context.Background()
	backend := store.NewMemoryStore()
	s := NewSession(backend)

	inst := s.NewInstance(widget, WithID("urn:w:1"))
	require.NoError(t, inst.Property("hasSize").Set(int64(5)))

	// First push creates the node: existence triple plus the attribute.
	delta, err := s.Push(ctx, inst, DepthUnbounded)
	require.NoError(t, err)
	assert.Equal(t, 2, delta.Add.Len())
	assert.Equal(t, 0, delta.Remove.Len())
	assert.True(t, backend.Contains(triple.Triple{
		Subject: "urn:w:1", Predicate: rdf.Type, Object: triple.IRI(testNS + "Widget"),
	}))
	assert.True(t, backend.Contains(triple.Triple{
		Subject: "urn:w:1", Predicate: testNS + "hasSize", Object: triple.MustLiteral(int64(5)),
	}))

	// Mutating the attribute yields exactly one removal and one addition.
	require.NoError(t, inst.Property("hasSize").Set(int64(7)))
	delta, err = s.Push(ctx, inst, DepthUnbounded)
	require.NoError(t, err)
	assert.Equal(t, 1, delta.Remove.Len())
	assert.Equal(t, 1, delta.Add.Len())
	assert.False(t, backend.Contains(triple.Triple{
		Subject: "urn:w:1", Predicate: testNS + "hasSize", Object: triple.MustLiteral(int64(5)),
	}))
	assert.True(t, backend.Contains(triple.Triple{
		Subject: "urn:w:1", Predicate: testNS + "hasSize", Object: triple.MustLiteral(int64(7)),
	}))

	// The cache was refreshed, so an immediate third push is empty.
	delta, err = s.Push(ctx, inst, DepthUnbounded)
	require.NoError(t, err)
	assert.True(t, delta.Empty())
}

func TestPushRecursesReferences(t *testing.T) {
	widget := widgetSchema(t)
	ctx := context.Background()
	backend := store.NewMemoryStore()
	s := NewSession(backend)

	a := s.NewInstance(widget, WithID("urn:w:a"))
	b := s.NewInstance(widget, WithID("urn:w:b"))
	require.NoError(t, a.Property("linksTo").Set(b))
	require.NoError(t, b.Property("hasSize").Set(int64(3)))

	delta, err := s.Push(ctx, a, DepthUnbounded)
	require.NoError(t, err)

	// a's existence and link, b's existence and attribute.
	assert.Equal(t, 4, delta.Add.Len())
	assert.True(t, backend.Contains(triple.Triple{
		Subject: "urn:w:b", Predicate: testNS + "hasSize", Object: triple.MustLiteral(int64(3)),
	}))

	// Visited neighbors had their caches refreshed too.
	delta, err = s.Push(ctx, b, DepthUnbounded)
	require.NoError(t, err)
	assert.True(t, delta.Empty())
}

func TestPushDepthNoneSkipsNeighbors(t *testing.T) {
	widget := widgetSchema(t)
	ctx := context.Background()
	backend := store.NewMemoryStore()
	s := NewSession(backend)

	a := s.NewInstance(widget, WithID("urn:w:a"))
	b := s.NewInstance(widget, WithID("urn:w:b"))
	require.NoError(t, a.Property("linksTo").Set(b))
	require.NoError(t, b.Property("hasSize").Set(int64(3)))

	delta, err := s.Push(ctx, a, DepthNone)
	require.NoError(t, err)

	// The link edge is pushed, b's own triples are not.
	assert.True(t, delta.Add.Contains(triple.Triple{
		Subject: "urn:w:a", Predicate: testNS + "linksTo", Object: triple.IRI("urn:w:b"),
	}))
	assert.False(t, backend.Contains(triple.Triple{
		Subject: "urn:w:b", Predicate: testNS + "hasSize", Object: triple.MustLiteral(int64(3)),
	}))
}

func TestPushFailureKeepsDeltaReplayable(t *testing.T) {
	widget := widgetSchema(t)
	ctx := context.Background()
	cause := errors.New("write refused")
	backend := store.NewMemoryStore()
	s := NewSession(&brokenWriter{Client: backend, err: cause})

	inst := s.NewInstance(widget, WithID("urn:w:1"))
	require.NoError(t, inst.Property("hasSize").Set(int64(5)))

	_, err := s.Push(ctx, inst, DepthUnbounded)
	var qerr *StoreQueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "apply delta", qerr.Op)
	assert.ErrorIs(t, err, cause)

	// The cache snapshot was not refreshed and the node is still unknown
	// to the store, so a retry collects the full delta again, existence
	// triple included.
	assert.False(t, inst.ExistsInStore())
	delta := triple.NewDelta()
	s.CollectDiff(inst, delta, DepthUnbounded)
	assert.True(t, delta.Add.Contains(triple.Triple{
		Subject: "urn:w:1", Predicate: rdf.Type, Object: triple.IRI(testNS + "Widget"),
	}))
	assert.True(t, delta.Add.Contains(triple.Triple{
		Subject: "urn:w:1", Predicate: testNS + "hasSize", Object: triple.MustLiteral(int64(5)),
	}))
}

func TestPushPublishesDelta(t *testing.T) {
	widget := widgetSchema(t)
	ctx := context.Background()

	t.Run("successful push publishes the applied delta", func(t *testing.T) {
		pub := &recordingPublisher{}
		s := NewSession(store.NewMemoryStore(), WithPublisher(pub))

		inst := s.NewInstance(widget, WithID("urn:w:1"))
		require.NoError(t, inst.Property("hasSize").Set(int64(5)))

		delta, err := s.Push(ctx, inst, DepthUnbounded)
		require.NoError(t, err)
		require.Len(t, pub.deltas, 1)
		assert.Equal(t, []string{"urn:w:1"}, pub.entityIDs)
		assert.Equal(t, delta, pub.deltas[0])
	})

	t.Run("empty delta is not published", func(t *testing.T) {
		pub := &recordingPublisher{}
		s := NewSession(store.NewMemoryStore(), WithPublisher(pub))

		inst := s.NewInstance(widget, WithID("urn:w:1"))
		_, err := s.Push(ctx, inst, DepthUnbounded)
		require.NoError(t, err)
		_, err = s.Push(ctx, inst, DepthUnbounded)
		require.NoError(t, err)
		assert.Len(t, pub.deltas, 1)
	})

	t.Run("publisher failure does not fail the push", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("stream unavailable")}
		s := NewSession(store.NewMemoryStore(), WithPublisher(pub))

		inst := s.NewInstance(widget, WithID("urn:w:1"))
		require.NoError(t, inst.Property("hasSize").Set(int64(5)))

		_, err := s.Push(ctx, inst, DepthUnbounded)
		assert.NoError(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	widget := widgetSchema(t)
	ctx := context.Background()
	backend := store.NewMemoryStore()

	// Writer session pushes a small linked graph.
	writer := NewSession(backend)
	a := writer.NewInstance(widget, WithID("urn:w:a"), WithComment("root"))
	b := writer.NewInstance(widget, WithID("urn:w:b"))
	require.NoError(t, a.Property("linksTo").Set(b))
	require.NoError(t, b.Property("hasSize").Set(int64(42)))
	_, err := writer.Push(ctx, a, DepthUnbounded)
	require.NoError(t, err)

	// Reader session reconstructs it from the store alone.
	reader := NewSession(backend)
	pulled, err := reader.Pull(ctx, widget, []string{"urn:w:a"}, DepthUnbounded)
	require.NoError(t, err)
	require.Len(t, pulled, 1)

	got := pulled[0]
	assert.Equal(t, "root", got.Comment())
	resolved := got.Property("linksTo").Resolved()
	require.Len(t, resolved, 1)
	assert.Equal(t, []triple.Term{triple.MustLiteral(int64(42))}, resolved[0].Property("hasSize").Literals())
}

func TestDelete(t *testing.T) {
	widget := widgetSchema(t)
	s := NewSession(store.NewMemoryStore())
	inst := s.NewInstance(widget, WithID("urn:w:1"))
	assert.ErrorIs(t, s.Delete(context.Background(), inst), ErrNotImplemented)
}
