package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Insert(ctx, "things", map[string]any{
		"name":      "first",
		"createdAt": ServerTimestamp,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.GetByID(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "first", doc.Data["name"])
	_, isTime := doc.Data["createdAt"].(time.Time)
	assert.True(t, isTime, "server timestamp should resolve to a concrete time")

	// Update merges without touching other fields
	require.NoError(t, s.Update(ctx, "things", id, map[string]any{"extra": "yes"}))
	doc, err = s.GetByID(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "first", doc.Data["name"])
	assert.Equal(t, "yes", doc.Data["extra"])

	require.NoError(t, s.Remove(ctx, "things", id))
	_, err = s.GetByID(ctx, "things", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "things", "nope", map[string]any{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreQuery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i, name := range []string{"a", "b", "c"} {
		_, err := s.Insert(ctx, "things", map[string]any{
			"name":      name,
			"group":     "even",
			"tags":      []string{"all", name},
			"createdAt": time.Date(2024, 7, 1+i, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	docs, err := s.Find(ctx, "things", Query{
		Filters: []Filter{{Path: "name", Op: "==", Value: "b"}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].Data["name"])

	docs, err = s.Find(ctx, "things", Query{
		Filters: []Filter{{Path: "tags", Op: "array-contains", Value: "all"}},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].Data["name"])
	assert.Equal(t, "b", docs[1].Data["name"])
}

func TestMemoryStoreDocumentSubscription(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Insert(ctx, "things", map[string]any{"name": "watched"})
	require.NoError(t, err)

	var events []*Document
	unsubscribe, err := s.Subscribe(ctx, "things", id, func(doc *Document) {
		events = append(events, doc)
	}, func(err error) {
		t.Fatalf("unexpected subscription error: %v", err)
	})
	require.NoError(t, err)

	// Initial snapshot
	require.Len(t, events, 1)
	assert.Equal(t, "watched", events[0].Data["name"])

	require.NoError(t, s.Update(ctx, "things", id, map[string]any{"name": "changed"}))
	require.Len(t, events, 2)
	assert.Equal(t, "changed", events[1].Data["name"])

	require.NoError(t, s.Remove(ctx, "things", id))
	require.Len(t, events, 3)
	assert.Nil(t, events[2])

	// Unsubscribing twice must be safe, and stops delivery
	unsubscribe()
	unsubscribe()
	_, err = s.Insert(ctx, "things", map[string]any{"name": "other"})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestMemoryStoreQuerySubscription(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var snapshots [][]Document
	unsubscribe, err := s.SubscribeQuery(ctx, "things", Query{
		Filters: []Filter{{Path: "kind", Op: "==", Value: "x"}},
	}, func(docs []Document) {
		snapshots = append(snapshots, docs)
	}, func(err error) {
		t.Fatalf("unexpected subscription error: %v", err)
	})
	require.NoError(t, err)
	defer unsubscribe()

	require.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0])

	_, err = s.Insert(ctx, "things", map[string]any{"kind": "x"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "things", map[string]any{"kind": "y"})
	require.NoError(t, err)

	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[1], 1)
	assert.Len(t, snapshots[2], 1, "non-matching insert still redelivers the filtered set")
}

func TestMemoryStoreBreakSubscriptions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Insert(ctx, "things", map[string]any{"name": "watched"})
	require.NoError(t, err)

	var docErrs, queryErrs []error
	unsubDoc, err := s.Subscribe(ctx, "things", id, func(*Document) {}, func(err error) {
		docErrs = append(docErrs, err)
	})
	require.NoError(t, err)
	defer unsubDoc()

	unsubQuery, err := s.SubscribeQuery(ctx, "things", Query{}, func([]Document) {}, func(err error) {
		queryErrs = append(queryErrs, err)
	})
	require.NoError(t, err)
	defer unsubQuery()

	broken := errors.New("listen stream torn down")
	s.BreakSubscriptions(broken)

	require.Len(t, docErrs, 1)
	assert.ErrorIs(t, docErrs[0], broken)
	require.Len(t, queryErrs, 1)
	assert.ErrorIs(t, queryErrs[0], broken)
}

func TestMemoryStoreNetworkSimulation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.SetOnline(false)
	_, err := s.Insert(ctx, "things", map[string]any{"name": "offline"})
	assert.ErrorIs(t, err, ErrNetworkDisabled)

	require.NoError(t, s.EnableNetwork(ctx))
	_, err = s.Insert(ctx, "things", map[string]any{"name": "online"})
	assert.NoError(t, err)

	s.FailNext(1)
	_, err = s.Find(ctx, "things", Query{})
	assert.ErrorIs(t, err, ErrNetworkDisabled)
	_, err = s.Find(ctx, "things", Query{})
	assert.NoError(t, err)
}

func TestMemoryStoreCopiesDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := map[string]any{"tags": []any{"a"}}
	id, err := s.Insert(ctx, "things", data)
	require.NoError(t, err)

	doc, err := s.GetByID(ctx, "things", id)
	require.NoError(t, err)
	doc.Data["tags"].([]any)[0] = "mutated"

	again, err := s.GetByID(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Data["tags"].([]any)[0])
}
