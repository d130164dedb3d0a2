package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i/config"
	"github.com/cognicore/fs2i/pkg/fs2i/source"
	"github.com/cognicore/fs2i/pkg/fs2i/store/sqlite"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "Input text or HTML file, - for stdin (required)")
		configPath = flag.String("config", "", "YAML config file (optional)")
		targetSize = flag.Int("target-size", 0, "Chunk target size in bytes")
		tolerance  = flag.Int("tolerance", 0, "Chunk size tolerance in bytes")
		embed      = flag.String("embed", "", "Embedding provider: none, openai, ollama")
		dbPath     = flag.String("db", "", "Also store the record in this SQLite database")
		chunksOut  = flag.String("chunks-out", "", "Write the chunk array to this file")
		pretty     = flag.Bool("pretty", false, "Indent JSON output")
	)
	flag.Parse()

	log := logger.New(logger.Config{})
	if *inputPath == "" {
		log.Error("--input required")
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
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target-size":
			cfg.Segment.TargetSize = *targetSize
		case "tolerance":
			cfg.Segment.Tolerance = *tolerance
		case "embed":
			cfg.Embedding.Provider = *embed
		case "db":
			cfg.Store.Path = *dbPath
		}
	})

	comp, err := config.Build(cfg)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log = comp.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, comp, cfg, *inputPath, *chunksOut, *pretty, os.Stdout)
	stop()
	if err != nil {
		log.Error("indexing failed", "input", *inputPath, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, comp *config.Components, cfg config.Config, inputPath, chunksOut string, pretty bool, out io.Writer) error {
	log := comp.Logger

	doc, err := source.Load(inputPath)
	if err != nil {
		return err
	}

	ix, err := comp.Indexer()
	if err != nil {
		return err
	}
	rec, err := ix.IndexDocument(ctx, doc)
	if err != nil {
		return err
	}
	log.Info("indexed document", "id", doc.ID, "chunks", len(rec.Chunks), "language", rec.LanguageTag)

	if chunksOut != "" {
		if err := writeJSON(chunksOut, rec.Chunks, pretty); err != nil {
			return fmt.Errorf("write chunks: %w", err)
		}
	}

	if cfg.Store.Path != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Put(ctx, rec)
		if err != nil {
			return fmt.Errorf("store record: %w", err)
		}
		log.Info("stored record", "id", id, "db", cfg.Store.Path)
	}

	return encode(out, rec, pretty)
}

func writeJSON(path string, v any, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, v, pretty); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
