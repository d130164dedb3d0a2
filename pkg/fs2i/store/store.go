// Package store persists finished index records. The pipeline never reads
// from a store; the CLIs use it as a sink.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
)

// Store is implemented by memstore and sqlite.
type Store interface {
	Close() error

	// Put saves rec under a new ID and returns the ID.
	Put(ctx context.Context, rec fs2i.Record) (string, error)
	// Get returns internalerr.ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (fs2i.Record, error)
	// List returns record summaries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Summary, error)
	// TopTerms returns the k most frequent document terms of one record.
	TopTerms(ctx context.Context, id string, k int) ([]freq.Entry, error)
}

// Summary describes a stored record without its chunks.
type Summary struct {
	ID              string     `json:"id"`
	DocumentID      string     `json:"document_id,omitempty"`
	LanguageTag     langid.Tag `json:"language_tag"`
	Chunks          int        `json:"chunks"`
	TotalCharLength int        `json:"total_char_length"`
	TotalWordCount  int        `json:"total_word_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IDs hands out monotonic ULIDs. Safe for concurrent use.
type IDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDs creates an ID source seeded from crypto/rand.
func NewIDs() *IDs {
	return &IDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new ID and the time embedded in it.
func (g *IDs) Next() (string, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now().UTC()
	return ulid.MustNew(ulid.Timestamp(now), g.entropy).String(), now
}
