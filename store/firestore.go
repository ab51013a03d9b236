package store

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on top of Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, resolveTimestamps(data))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	iter := s.buildQuery(collection, q).Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		if _, ok := value.(serverTimestamp); ok {
			value = firestore.ServerTimestamp
		}
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Remove(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) Subscribe(ctx context.Context, collection, id string, onChange func(*Document), onError func(error)) (func(), error) {
	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	iter := s.client.Collection(collection).Doc(id).Snapshots(watchCtx)

	go func() {
		for {
			snap, err := iter.Next()
			if status.Code(err) == codes.Canceled {
				return
			}
			if err != nil {
				onError(err)
				return
			}
			if !snap.Exists() {
				onChange(nil)
				continue
			}
			onChange(&Document{ID: snap.Ref.ID, Data: snap.Data()})
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			iter.Stop()
		})
	}, nil
}

func (s *FirestoreStore) SubscribeQuery(ctx context.Context, collection string, q Query, onChange func([]Document), onError func(error)) (func(), error) {
	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	iter := s.buildQuery(collection, q).Snapshots(watchCtx)

	go func() {
		for {
			qsnap, err := iter.Next()
			if status.Code(err) == codes.Canceled {
				return
			}
			if err != nil {
				onError(err)
				return
			}

			var docs []Document
			for {
				snap, derr := qsnap.Documents.Next()
				if derr == iterator.Done {
					break
				}
				if derr != nil {
					onError(derr)
					return
				}
				docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
			}
			onChange(docs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			iter.Stop()
		})
	}, nil
}

// EnableNetwork is a no-op: the admin SDK owns its gRPC channel and reconnects
// on its own. The client-side network toggle only exists in the mobile SDKs.
func (s *FirestoreStore) EnableNetwork(ctx context.Context) error {
	return nil
}

func (s *FirestoreStore) buildQuery(collection string, q Query) firestore.Query {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Path, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

func resolveTimestamps(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
