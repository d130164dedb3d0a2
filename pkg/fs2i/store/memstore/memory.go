package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
	"github.com/cognicore/fs2i/pkg/fs2i/store"
)

type entry struct {
	rec     fs2i.Record
	created time.Time
}

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	ids     *store.IDs
	records map[string]entry
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:     store.NewIDs(),
		records: make(map[string]entry),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, rec fs2i.Record) (string, error) {
	id, now := s.ids.Next()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = entry{rec: copyRecord(rec), created: now}
	return id, nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, id string) (fs2i.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[id]
	if !ok {
		return fs2i.Record{}, fmt.Errorf("record %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRecord(e.rec), nil
}

// List implements store.Store.
func (s *Store) List(ctx context.Context, limit int) ([]store.Summary, error) {
	s.mu.RLock()
	out := make([]store.Summary, 0, len(s.records))
	for id, e := range s.records {
		out = append(out, store.Summary{
			ID:              id,
			DocumentID:      e.rec.DocumentID,
			LanguageTag:     e.rec.LanguageTag,
			Chunks:          len(e.rec.Chunks),
			TotalCharLength: e.rec.TotalCharLength,
			TotalWordCount:  e.rec.TotalWordCount,
			CreatedAt:       e.created,
		})
	}
	s.mu.RUnlock()

	// ULIDs sort by creation time.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TopTerms implements store.Store.
func (s *Store) TopTerms(ctx context.Context, id string, k int) ([]freq.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, internalerr.ErrNotFound)
	}
	return e.rec.DocumentFrequencyTable.Top(k), nil
}

func copyRecord(r fs2i.Record) fs2i.Record {
	out := r
	out.DocumentFrequencyTable = r.DocumentFrequencyTable.Clone()
	out.Chunks = make([]fs2i.ChunkRecord, len(r.Chunks))
	for i, c := range r.Chunks {
		c.FrequencyTable = c.FrequencyTable.Clone()
		c.EmbeddingVector = append([]float32{}, c.EmbeddingVector...)
		out.Chunks[i] = c
	}
	return out
}
