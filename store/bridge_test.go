package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semsync/triple"
)

func TestBridgeHandleEdges(t *testing.T) {
	backend := NewMemoryStore()
	backend.Add(typed("urn:w:1"), sized("urn:w:1", 5))
	bridge := NewBridge(backend, nil)
	ctx := context.Background()

	t.Run("answers known subjects", func(t *testing.T) {
		req, err := json.Marshal(edgesRequest{IDs: []string{"urn:w:1"}})
		require.NoError(t, err)

		var resp edgesResponse
		require.NoError(t, json.Unmarshal(bridge.handleEdges(ctx, req), &resp))
		require.True(t, resp.Success)
		require.Contains(t, resp.Nodes, "urn:w:1")
		assert.Equal(t, triple.MustLiteral(int64(5)).Key(), resp.Nodes["urn:w:1"][testPred][0].Key())
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		var resp edgesResponse
		require.NoError(t, json.Unmarshal(bridge.handleEdges(ctx, []byte("{")), &resp))
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)
	})
}

func TestBridgeHandleInstances(t *testing.T) {
	backend := NewMemoryStore()
	backend.Add(typed("urn:w:1"), typed("urn:w:2"))
	bridge := NewBridge(backend, nil)

	req, err := json.Marshal(instancesRequest{TypeTag: testType})
	require.NoError(t, err)

	var resp instancesResponse
	require.NoError(t, json.Unmarshal(bridge.handleInstances(context.Background(), req), &resp))
	require.True(t, resp.Success)
	assert.ElementsMatch(t, []string{"urn:w:1", "urn:w:2"}, resp.IDs)
}

// capturePublisher records every published delta.
type capturePublisher struct {
	entityIDs []string
	deltas    []*triple.Delta
	err       error
}

func (c *capturePublisher) PublishDelta(_ context.Context, entityID string, delta *triple.Delta) error {
	c.entityIDs = append(c.entityIDs, entityID)
	c.deltas = append(c.deltas, delta)
	return c.err
}

func TestBridgeHandleDelta(t *testing.T) {
	backend := NewMemoryStore()
	backend.Add(sized("urn:w:1", 5))
	bridge := NewBridge(backend, nil)

	req, err := json.Marshal(deltaRequest{
		Remove: []triple.Triple{sized("urn:w:1", 5)},
		Add:    []triple.Triple{sized("urn:w:1", 7)},
	})
	require.NoError(t, err)

	var resp deltaResponse
	require.NoError(t, json.Unmarshal(bridge.handleDelta(context.Background(), req), &resp))
	require.True(t, resp.Success)

	assert.False(t, backend.Contains(sized("urn:w:1", 5)))
	assert.True(t, backend.Contains(sized("urn:w:1", 7)))
}

func TestBridgePublishesAppliedDeltas(t *testing.T) {
	ctx := context.Background()

	applyDelta := func(t *testing.T, bridge *Bridge, req deltaRequest) deltaResponse {
		t.Helper()
		data, err := json.Marshal(req)
		require.NoError(t, err)
		var resp deltaResponse
		require.NoError(t, json.Unmarshal(bridge.handleDelta(ctx, data), &resp))
		return resp
	}

	t.Run("applied delta reaches the publisher keyed by its first subject", func(t *testing.T) {
		pub := &capturePublisher{}
		bridge := NewBridge(NewMemoryStore(), nil, WithDeltaPublisher(pub))

		resp := applyDelta(t, bridge, deltaRequest{Add: []triple.Triple{typed("urn:w:1"), sized("urn:w:1", 5)}})
		require.True(t, resp.Success)

		require.Len(t, pub.deltas, 1)
		assert.Equal(t, []string{"urn:w:1"}, pub.entityIDs)
		assert.Equal(t, 2, pub.deltas[0].Add.Len())
	})

	t.Run("empty delta is not published", func(t *testing.T) {
		pub := &capturePublisher{}
		bridge := NewBridge(NewMemoryStore(), nil, WithDeltaPublisher(pub))

		resp := applyDelta(t, bridge, deltaRequest{})
		require.True(t, resp.Success)
		assert.Empty(t, pub.deltas)
	})

	t.Run("publisher failure does not fail the update", func(t *testing.T) {
		pub := &capturePublisher{err: assert.AnError}
		bridge := NewBridge(NewMemoryStore(), nil, WithDeltaPublisher(pub))

		resp := applyDelta(t, bridge, deltaRequest{Add: []triple.Triple{typed("urn:w:1")}})
		assert.True(t, resp.Success)
	})
}
