package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNetworkDisabled is what every operation fails with while the in-memory
// store simulates a lost connection.
var ErrNetworkDisabled = errors.New("store: network disabled")

// MemoryStore is an in-process Store with the same observable behavior as the
// Firestore implementation: merge updates, filtered queries and snapshot
// fan-out to subscribers. Used by the tests and for local development without
// Firebase credentials.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any

	online   bool
	failures int

	docSubs   map[int]*docSub
	querySubs map[int]*querySub
	nextSub   int
}

type docSub struct {
	collection string
	id         string
	onChange   func(*Document)
	onError    func(error)
}

type querySub struct {
	collection string
	query      Query
	onChange   func([]Document)
	onError    func(error)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]any),
		online:      true,
		docSubs:     make(map[int]*docSub),
		querySubs:   make(map[int]*querySub),
	}
}

// SetOnline simulates losing or regaining connectivity. While offline every
// operation fails with ErrNetworkDisabled until EnableNetwork is called.
func (s *MemoryStore) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

// FailNext makes the next n operations fail with ErrNetworkDisabled, then
// recover on their own. Used to exercise the retry path.
func (s *MemoryStore) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
}

func (s *MemoryStore) checkAvailable() error {
	if s.failures > 0 {
		s.failures--
		return ErrNetworkDisabled
	}
	if !s.online {
		return ErrNetworkDisabled
	}
	return nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	s.mu.Lock()
	if err := s.checkAvailable(); err != nil {
		s.mu.Unlock()
		return "", err
	}

	id := uuid.NewString()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]any)
	}
	s.collections[collection][id] = stampTimestamps(copyDoc(data))
	notify := s.collectNotifications(collection, id)
	s.mu.Unlock()

	notify()
	return id, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAvailable(); err != nil {
		return Document{}, err
	}

	data, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyDoc(data)}, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	return s.runQuery(collection, q), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	if err := s.checkAvailable(); err != nil {
		s.mu.Unlock()
		return err
	}

	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range stampTimestamps(copyDoc(fields)) {
		doc[k] = v
	}
	notify := s.collectNotifications(collection, id)
	s.mu.Unlock()

	notify()
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if err := s.checkAvailable(); err != nil {
		s.mu.Unlock()
		return err
	}

	delete(s.collections[collection], id)
	notify := s.collectNotifications(collection, id)
	s.mu.Unlock()

	notify()
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, collection, id string, onChange func(*Document), onError func(error)) (func(), error) {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.docSubs[key] = &docSub{collection: collection, id: id, onChange: onChange, onError: onError}
	initial := s.currentDoc(collection, id)
	s.mu.Unlock()

	// Mirror Firestore: a new listener immediately receives the current state.
	onChange(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.docSubs, key)
			s.mu.Unlock()
		})
	}, nil
}

func (s *MemoryStore) SubscribeQuery(ctx context.Context, collection string, q Query, onChange func([]Document), onError func(error)) (func(), error) {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.querySubs[key] = &querySub{collection: collection, query: q, onChange: onChange, onError: onError}
	initial := s.runQuery(collection, q)
	s.mu.Unlock()

	onChange(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.querySubs, key)
			s.mu.Unlock()
		})
	}, nil
}

// BreakSubscriptions delivers err to every active subscriber's error
// callback, simulating a terminated listen stream.
func (s *MemoryStore) BreakSubscriptions(err error) {
	s.mu.Lock()
	var fns []func(error)
	for _, sub := range s.docSubs {
		if sub.onError != nil {
			fns = append(fns, sub.onError)
		}
	}
	for _, sub := range s.querySubs {
		if sub.onError != nil {
			fns = append(fns, sub.onError)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(err)
	}
}

func (s *MemoryStore) EnableNetwork(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = true
	return nil
}

// collectNotifications snapshots the callbacks affected by a change to the
// given document while the lock is held, and returns a func that fires them
// outside the lock.
func (s *MemoryStore) collectNotifications(collection, id string) func() {
	type docNotify struct {
		fn  func(*Document)
		doc *Document
	}
	type queryNotify struct {
		fn   func([]Document)
		docs []Document
	}

	var docNotifies []docNotify
	for _, sub := range s.docSubs {
		if sub.collection == collection && sub.id == id {
			docNotifies = append(docNotifies, docNotify{fn: sub.onChange, doc: s.currentDoc(collection, id)})
		}
	}

	var queryNotifies []queryNotify
	for _, sub := range s.querySubs {
		if sub.collection == collection {
			queryNotifies = append(queryNotifies, queryNotify{fn: sub.onChange, docs: s.runQuery(collection, sub.query)})
		}
	}

	return func() {
		for _, n := range docNotifies {
			n.fn(n.doc)
		}
		for _, n := range queryNotifies {
			n.fn(n.docs)
		}
	}
}

func (s *MemoryStore) currentDoc(collection, id string) *Document {
	data, ok := s.collections[collection][id]
	if !ok {
		return nil
	}
	return &Document{ID: id, Data: copyDoc(data)}
}

func (s *MemoryStore) runQuery(collection string, q Query) []Document {
	var docs []Document
	for id, data := range s.collections[collection] {
		if matchesFilters(data, q.Filters) {
			docs = append(docs, Document{ID: id, Data: copyDoc(data)})
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if q.Desc {
				return !less
			}
			return less
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

func matchesFilters(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case "==":
			if data[f.Path] != f.Value {
				return false
			}
		case "array-contains":
			if !arrayContains(data[f.Path], f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func arrayContains(value, element any) bool {
	switch arr := value.(type) {
	case []any:
		for _, v := range arr {
			if v == element {
				return true
			}
		}
	case []string:
		for _, v := range arr {
			if v == element {
				return true
			}
		}
	}
	return false
}

func compareValues(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	}
	return false
}

func stampTimestamps(data map[string]any) map[string]any {
	now := time.Now().UTC()
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			data[k] = now
		}
	}
	return data
}

func copyDoc(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyDoc(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
