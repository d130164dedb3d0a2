package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
	"github.com/cognicore/fs2i/pkg/fs2i/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDs
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrStoreUnavailable, pragma, err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, ids: store.NewIDs()}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	document_id TEXT,
	language_tag TEXT NOT NULL,
	converted INTEGER NOT NULL DEFAULT 1,
	total_char_length INTEGER NOT NULL,
	total_byte_length INTEGER NOT NULL,
	total_word_count INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	record_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	text TEXT NOT NULL,
	char_length INTEGER NOT NULL,
	byte_length INTEGER NOT NULL,
	word_count INTEGER NOT NULL,
	embedding TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY(record_id, idx),
	FOREIGN KEY(record_id) REFERENCES records(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chunk_terms (
	record_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	term TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(record_id, idx, term),
	FOREIGN KEY(record_id, idx) REFERENCES chunks(record_id, idx) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS doc_terms (
	record_id TEXT NOT NULL,
	term TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(record_id, term),
	FOREIGN KEY(record_id) REFERENCES records(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_document ON records(document_id);
CREATE INDEX IF NOT EXISTS idx_doc_terms_count ON doc_terms(record_id, count DESC);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Put stores the record and all of its chunks in one transaction.
func (s *sqliteStore) Put(ctx context.Context, rec fs2i.Record) (string, error) {
	id, now := s.ids.Next()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO records (id, document_id, language_tag, converted, total_char_length, total_byte_length, total_word_count, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.DocumentID, string(rec.LanguageTag), boolToInt(rec.Converted),
		rec.TotalCharLength, rec.TotalByteLength, rec.TotalWordCount, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	if err := insertChunks(ctx, tx, id, rec.Chunks); err != nil {
		return "", err
	}
	if err := insertTerms(ctx, tx, `INSERT INTO doc_terms (record_id, term, count) VALUES (?, ?, ?)`, rec.DocumentFrequencyTable, id); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func insertChunks(ctx context.Context, tx *sql.Tx, id string, chunks []fs2i.ChunkRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO chunks (record_id, idx, text, char_length, byte_length, word_count, embedding)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range chunks {
		vec := c.EmbeddingVector
		if vec == nil {
			vec = []float32{}
		}
		embedding, err := json.Marshal(vec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, id, i, c.Text, c.CharLength, c.ByteLength, c.WordCount, string(embedding)); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
		if err := insertTerms(ctx, tx, `INSERT INTO chunk_terms (record_id, idx, term, count) VALUES (?, ?, ?, ?)`, c.FrequencyTable, id, i); err != nil {
			return err
		}
	}
	return nil
}

// insertTerms runs query once per table entry with prefix args followed by
// term and count.
func insertTerms(ctx context.Context, tx *sql.Tx, query string, table freq.Table, prefix ...any) error {
	if len(table) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for term, count := range table {
		args := append(append([]any{}, prefix...), term, count)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert term %q: %w", term, err)
		}
	}
	return nil
}

// Get rebuilds the record from its rows.
func (s *sqliteStore) Get(ctx context.Context, id string) (fs2i.Record, error) {
	var (
		rec       fs2i.Record
		docID     sql.NullString
		lang      string
		converted int
	)
	err := s.db.QueryRowContext(ctx, `
SELECT document_id, language_tag, converted, total_char_length, total_byte_length, total_word_count
FROM records WHERE id=?`, id).Scan(&docID, &lang, &converted, &rec.TotalCharLength, &rec.TotalByteLength, &rec.TotalWordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return fs2i.Record{}, fmt.Errorf("record %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return fs2i.Record{}, err
	}
	rec.DocumentID = docID.String
	rec.LanguageTag = langid.Tag(lang)
	rec.Converted = converted != 0

	if rec.Chunks, err = s.loadChunks(ctx, id); err != nil {
		return fs2i.Record{}, err
	}
	if err := s.loadChunkTerms(ctx, id, rec.Chunks); err != nil {
		return fs2i.Record{}, err
	}
	if rec.DocumentFrequencyTable, err = s.loadDocTerms(ctx, id, 0); err != nil {
		return fs2i.Record{}, err
	}
	return rec, nil
}

func (s *sqliteStore) loadChunks(ctx context.Context, id string) ([]fs2i.ChunkRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT text, char_length, byte_length, word_count, embedding
FROM chunks WHERE record_id=? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chunks := []fs2i.ChunkRecord{}
	for rows.Next() {
		var (
			c         fs2i.ChunkRecord
			embedding string
		)
		if err := rows.Scan(&c.Text, &c.CharLength, &c.ByteLength, &c.WordCount, &embedding); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(embedding), &c.EmbeddingVector); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
		if c.EmbeddingVector == nil {
			c.EmbeddingVector = []float32{}
		}
		c.FrequencyTable = freq.Table{}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *sqliteStore) loadChunkTerms(ctx context.Context, id string, chunks []fs2i.ChunkRecord) error {
	rows, err := s.db.QueryContext(ctx, `SELECT idx, term, count FROM chunk_terms WHERE record_id=?`, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx   int
			term  string
			count int
		)
		if err := rows.Scan(&idx, &term, &count); err != nil {
			return err
		}
		if idx < 0 || idx >= len(chunks) {
			return fmt.Errorf("chunk_terms row for missing chunk %d", idx)
		}
		chunks[idx].FrequencyTable[term] = count
	}
	return rows.Err()
}

func (s *sqliteStore) loadDocTerms(ctx context.Context, id string, k int) (freq.Table, error) {
	query := `SELECT term, count FROM doc_terms WHERE record_id=? ORDER BY count DESC, term ASC`
	args := []any{id}
	if k > 0 {
		query += ` LIMIT ?`
		args = append(args, k)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := freq.Table{}
	for rows.Next() {
		var (
			term  string
			count int
		)
		if err := rows.Scan(&term, &count); err != nil {
			return nil, err
		}
		table[term] = count
	}
	return table, rows.Err()
}

// List returns summaries ordered by ID, which is creation order.
func (s *sqliteStore) List(ctx context.Context, limit int) ([]store.Summary, error) {
	query := `
SELECT r.id, r.document_id, r.language_tag, r.total_char_length, r.total_word_count, r.created_at,
	(SELECT COUNT(*) FROM chunks c WHERE c.record_id = r.id)
FROM records r ORDER BY r.id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Summary
	for rows.Next() {
		var (
			sum     store.Summary
			docID   sql.NullString
			lang    string
			created string
		)
		if err := rows.Scan(&sum.ID, &docID, &lang, &sum.TotalCharLength, &sum.TotalWordCount, &created, &sum.Chunks); err != nil {
			return nil, err
		}
		sum.DocumentID = docID.String
		sum.LanguageTag = langid.Tag(lang)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			sum.CreatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// TopTerms reads the k most frequent document terms.
func (s *sqliteStore) TopTerms(ctx context.Context, id string, k int) ([]freq.Entry, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE id=?`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("record %s: %w", id, internalerr.ErrNotFound)
	}
	table, err := s.loadDocTerms(ctx, id, k)
	if err != nil {
		return nil, err
	}
	return table.Top(k), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
