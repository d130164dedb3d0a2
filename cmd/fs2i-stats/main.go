package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i/store"
	"github.com/cognicore/fs2i/pkg/fs2i/store/sqlite"
)

func main() {
	var (
		dbPath = flag.String("db", "", "SQLite database path (required)")
		id     = flag.String("id", "", "Record ID; prints its top terms instead of the record list")
		topK   = flag.Int("top", 20, "Number of terms to print with --id")
		limit  = flag.Int("limit", 50, "Maximum records to list (0 = all)")
	)
	flag.Parse()

	log := logger.New(logger.Config{})
	if *dbPath == "" {
		log.Error("--db required")
		os.Exit(2)
	}

	if err := run(context.Background(), *dbPath, *id, *topK, *limit, os.Stdout); err != nil {
		log.Error("stats failed", "db", *dbPath, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath, id string, topK, limit int, out io.Writer) (err error) {
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		err = errors.Join(err, st.Close())
	}()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if id != "" {
		err = printTopTerms(ctx, w, st, id, topK)
	} else {
		err = printRecords(ctx, w, st, limit)
	}
	return errors.Join(err, w.Flush())
}

func printTopTerms(ctx context.Context, w io.Writer, st store.Store, id string, k int) error {
	terms, err := st.TopTerms(ctx, id, k)
	if err != nil {
		return fmt.Errorf("top terms of %s: %w", id, err)
	}
	fmt.Fprintln(w, "TERM\tCOUNT")
	for _, e := range terms {
		fmt.Fprintf(w, "%q\t%d\n", e.Term, e.Count)
	}
	return nil
}

func printRecords(ctx context.Context, w io.Writer, st store.Store, limit int) error {
	list, err := st.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	fmt.Fprintln(w, "ID\tDOCUMENT\tLANG\tCHUNKS\tCHARS\tWORDS\tCREATED")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID, s.DocumentID, s.LanguageTag, s.Chunks, s.TotalCharLength, s.TotalWordCount,
			s.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}
