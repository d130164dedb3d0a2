package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/config"
	"github.com/cognicore/fs2i/pkg/fs2i/source"
	"github.com/cognicore/fs2i/pkg/fs2i/store"
	"github.com/cognicore/fs2i/pkg/fs2i/store/sqlite"
)

func main() {
	var (
		dataPath   = flag.String("data", "", "Input JSONL file of {\"id\",\"text\"}, - for stdin (required)")
		configPath = flag.String("config", "", "YAML config file (optional)")
		dbPath     = flag.String("db", "", "Store records in this SQLite database (optional)")
		outPath    = flag.String("out", "", "Output JSONL file (default stdout)")
	)
	flag.Parse()

	log := logger.New(logger.Config{})
	if *dataPath == "" {
		log.Error("--data required")
		os.Exit(2)
	}

	if err := config.LoadDotenv(".env"); err != nil {
		log.Error("load .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	comp, err := config.Build(cfg)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = runBatch(ctx, comp, cfg.Store.Path, *dataPath, *outPath)
	stop()
	if err != nil {
		comp.Logger.Error("batch failed", "error", err)
		os.Exit(1)
	}
}

// runBatch owns every resource it opens, so deferred flushes and closes run
// before main decides the exit code.
func runBatch(ctx context.Context, comp *config.Components, dbPath, dataPath, outPath string) (err error) {
	log := comp.Logger

	docs, err := source.LoadJSONL(dataPath, log)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	log.Info("loaded documents", "count", len(docs), "file", dataPath)

	ix, err := comp.Indexer()
	if err != nil {
		return fmt.Errorf("create indexer: %w", err)
	}

	var st store.Store
	if dbPath != "" {
		st, err = sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() {
			err = errors.Join(err, st.Close())
		}()
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, cerr := os.Create(outPath)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		out = f
	}
	w := bufio.NewWriter(out)
	defer func() {
		err = errors.Join(err, w.Flush())
	}()

	return indexAll(ctx, log, ix, st, docs, w)
}

// indexAll writes one record per document. Per-document failures are logged
// and counted; a write failure aborts the batch.
func indexAll(ctx context.Context, log logger.Logger, ix *fs2i.Indexer, st store.Store, docs []source.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	failed := 0
	for i, doc := range docs {
		rec, err := ix.IndexDocument(ctx, doc)
		if err != nil {
			if ctx.Err() != nil {
				log.Warn("interrupted", "indexed", i, "total", len(docs))
				break
			}
			log.Error("index document", "id", doc.ID, "error", err)
			failed++
			continue
		}
		if st != nil {
			if _, err := st.Put(ctx, rec); err != nil {
				log.Error("store record", "id", doc.ID, "error", err)
				failed++
			}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write record %s: %w", doc.ID, err)
		}
		if (i+1)%100 == 0 {
			log.Info("progress", "indexed", i+1, "total", len(docs))
		}
	}

	log.Info("batch complete", "documents", len(docs), "failed", failed)
	return nil
}
