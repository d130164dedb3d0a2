package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
)

func sampleRecord(docID string) fs2i.Record {
	return fs2i.Record{
		DocumentID:      docID,
		Converted:       true,
		TotalCharLength: 12,
		TotalByteLength: 12,
		TotalWordCount:  2,
		LanguageTag:     langid.English,
		Chunks: []fs2i.ChunkRecord{{
			Text: "Hello world.", CharLength: 12, ByteLength: 12, WordCount: 2,
			FrequencyTable:  freq.Table{"hello": 1, "world": 1},
			EmbeddingVector: []float32{0.5, 0.25},
		}},
		DocumentFrequencyTable: freq.Table{"hello": 1, "world": 1},
	}
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	st := New()
	defer st.Close()

	in := sampleRecord("a")
	id, err := st.Put(ctx, in)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := st.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DocumentID != "a" || len(got.Chunks) != 1 || !got.DocumentFrequencyTable.Equal(in.DocumentFrequencyTable) {
		t.Fatalf("unexpected record %+v", got)
	}

	// Stored copies are independent of the caller's.
	in.DocumentFrequencyTable["hello"] = 99
	in.Chunks[0].EmbeddingVector[0] = 9
	again, _ := st.Get(ctx, id)
	if again.DocumentFrequencyTable["hello"] != 1 || again.Chunks[0].EmbeddingVector[0] != 0.5 {
		t.Error("store should not alias caller data")
	}
}

func TestGetMissing(t *testing.T) {
	st := New()
	if _, err := st.Get(context.Background(), "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.TopTerms(context.Background(), "nope", 3); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := New()
	var ids []string
	for _, doc := range []string{"a", "b", "c"} {
		id, err := st.Put(ctx, sampleRecord(doc))
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		ids = append(ids, id)
	}

	list, err := st.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].ID != ids[2] || list[1].ID != ids[1] {
		t.Errorf("expected newest first, got %s,%s", list[0].ID, list[1].ID)
	}
	if list[0].DocumentID != "c" || list[0].Chunks != 1 {
		t.Errorf("unexpected summary %+v", list[0])
	}
}

func TestTopTerms(t *testing.T) {
	ctx := context.Background()
	st := New()
	rec := sampleRecord("a")
	rec.DocumentFrequencyTable = freq.Table{"go": 3, "fast": 1, "code": 2}
	id, _ := st.Put(ctx, rec)

	top, err := st.TopTerms(ctx, id, 2)
	if err != nil {
		t.Fatalf("TopTerms: %v", err)
	}
	if len(top) != 2 || top[0].Term != "go" || top[1].Term != "code" {
		t.Fatalf("unexpected top terms %v", top)
	}
}
