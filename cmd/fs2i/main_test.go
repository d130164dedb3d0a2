package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/config"
	"github.com/cognicore/fs2i/pkg/fs2i/store/sqlite"
)

func TestRunWritesRecordChunksAndStore(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(input, []byte("Hello world. This is a test. Another sentence here."), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cfg := config.Default()
	cfg.Segment.TargetSize = 20
	cfg.Segment.Tolerance = 10
	cfg.Store.Path = filepath.Join(dir, "fs2i.db")
	comp, err := config.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	comp.Logger = logger.Nop()

	chunksPath := filepath.Join(dir, "chunks.json")
	var out bytes.Buffer
	if err := run(context.Background(), comp, cfg, input, chunksPath, false, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var rec fs2i.Record
	if err := json.Unmarshal(out.Bytes(), &rec); err != nil {
		t.Fatalf("stdout is not a record: %v\n%s", err, out.String())
	}
	if rec.DocumentID != "doc.txt" || !rec.Converted || len(rec.Chunks) < 2 {
		t.Errorf("unexpected record %+v", rec)
	}

	data, err := os.ReadFile(chunksPath)
	if err != nil {
		t.Fatalf("read chunks file: %v", err)
	}
	var chunks []fs2i.ChunkRecord
	if err := json.Unmarshal(data, &chunks); err != nil {
		t.Fatalf("chunks file: %v", err)
	}
	if len(chunks) != len(rec.Chunks) {
		t.Errorf("chunks file has %d entries, record has %d", len(chunks), len(rec.Chunks))
	}

	st, err := sqlite.OpenSQLite(context.Background(), cfg.Store.Path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()
	list, err := st.List(context.Background(), 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one stored record, got %v (err %v)", list, err)
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := config.Default()
	comp, err := config.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	comp.Logger = logger.Nop()
	var out bytes.Buffer
	if err := run(context.Background(), comp, cfg, filepath.Join(t.TempDir(), "none.txt"), "", false, &out); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be written on failure, got %q", out.String())
	}
}
