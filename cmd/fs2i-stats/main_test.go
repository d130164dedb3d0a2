package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
	"github.com/cognicore/fs2i/pkg/fs2i/store/sqlite"
)

func seed(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fs2i.db")
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()
	id, err := st.Put(ctx, fs2i.Record{
		DocumentID:             "doc-1",
		Converted:              true,
		LanguageTag:            langid.English,
		Chunks:                 []fs2i.ChunkRecord{},
		DocumentFrequencyTable: freq.Table{"go": 3, "code": 2, "fast": 1},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	return path, id
}

func TestRunListsRecords(t *testing.T) {
	path, id := seed(t)
	var out bytes.Buffer
	if err := run(context.Background(), path, "", 0, 10, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "doc-1") {
		t.Fatalf("listing should include the stored record, got:\n%s", out.String())
	}
}

func TestRunTopTerms(t *testing.T) {
	path, id := seed(t)
	var out bytes.Buffer
	if err := run(context.Background(), path, id, 2, 0, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, `"go"`) || !strings.Contains(got, `"code"`) || strings.Contains(got, `"fast"`) {
		t.Fatalf("expected the two most frequent terms, got:\n%s", got)
	}
}

func TestRunUnknownRecord(t *testing.T) {
	path, _ := seed(t)
	var out bytes.Buffer
	if err := run(context.Background(), path, "missing", 5, 0, &out); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
