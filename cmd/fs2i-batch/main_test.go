package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/config"
	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
	"github.com/cognicore/fs2i/pkg/fs2i/store/sqlite"
)

func testComponents(t *testing.T) *config.Components {
	t.Helper()
	comp, err := config.Build(config.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	comp.Logger = logger.Nop()
	return comp
}

func TestRunBatchFlushesOutputAndStores(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "corpus.jsonl")
	lines := `{"id":"a","text":"Hello world. This is a test."}
{"id":"b","text":"Another sentence here."}
`
	if err := os.WriteFile(data, []byte(lines), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	outPath := filepath.Join(dir, "records.jsonl")
	dbPath := filepath.Join(dir, "fs2i.db")

	if err := runBatch(context.Background(), testComponents(t), dbPath, data, outPath); err != nil {
		t.Fatalf("runBatch: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec fs2i.Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("output line is not a record: %v", err)
		}
		ids = append(ids, rec.DocumentID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("expected records a,b in order, got %v", ids)
	}

	st, err := sqlite.OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()
	list, err := st.List(context.Background(), 0)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 stored records, got %v (err %v)", list, err)
	}
}

func TestRunBatchMissingData(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "records.jsonl")
	err := runBatch(context.Background(), testComponents(t), "", filepath.Join(dir, "none.jsonl"), outPath)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := os.Stat(outPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no output file should be created when input fails, stat err %v", err)
	}
}
