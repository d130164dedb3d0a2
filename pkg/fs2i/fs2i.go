// Package fs2i converts a raw text document into a structured index record:
// sentence-aligned chunks, per-chunk and document term frequencies, a
// language tag and optional chunk embeddings.
package fs2i

import (
	"context"
	"fmt"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i/embedding"
	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
	"github.com/cognicore/fs2i/pkg/fs2i/lexical"
	"github.com/cognicore/fs2i/pkg/fs2i/segment"
	"github.com/cognicore/fs2i/pkg/fs2i/source"
	"github.com/cognicore/fs2i/pkg/fs2i/stoplist"
)

// LanguageDetector assigns one tag to a whole document.
type LanguageDetector interface {
	Detect(text string) langid.Tag
}

// Options configures an Indexer. Zero fields get defaults.
type Options struct {
	Segmenter  *segment.Segmenter  // default: segment.DefaultConfig()
	Detector   LanguageDetector    // default: langid.Default()
	Normalizer *lexical.Normalizer // default: embedded stop-word corpus
	Embedder   embedding.Provider  // optional; nil leaves vectors empty
	Workers    int                 // normalization pool size; default runtime.NumCPU()
	Logger     logger.Logger
}

// Indexer runs the pipeline. It keeps no state between runs and is safe for
// concurrent use.
type Indexer struct {
	segmenter  *segment.Segmenter
	detector   LanguageDetector
	normalizer *lexical.Normalizer
	embedder   embedding.Provider
	workers    int
	log        logger.Logger
}

// New creates an Indexer, filling in defaults for unset options.
func New(opts Options) (*Indexer, error) {
	if opts.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must be >= 0, got %d", internalerr.ErrInvalidConfig, opts.Workers)
	}

	ix := &Indexer{
		segmenter:  opts.Segmenter,
		detector:   opts.Detector,
		normalizer: opts.Normalizer,
		embedder:   opts.Embedder,
		workers:    opts.Workers,
		log:        opts.Logger,
	}
	if ix.segmenter == nil {
		seg, err := segment.New(segment.DefaultConfig())
		if err != nil {
			return nil, err
		}
		ix.segmenter = seg
	}
	if ix.detector == nil {
		ix.detector = langid.Default()
	}
	if ix.normalizer == nil {
		corpus, err := stoplist.Embedded()
		if err != nil {
			return nil, fmt.Errorf("load stop-words: %w", err)
		}
		ix.normalizer = lexical.NewNormalizer(corpus)
	}
	if ix.workers == 0 {
		ix.workers = runtime.NumCPU()
	}
	if ix.log == nil {
		ix.log = logger.Nop()
	}
	return ix, nil
}

// Record is the structured result for one document.
type Record struct {
	DocumentID             string        `json:"document_id,omitempty"`
	Converted              bool          `json:"converted"`
	TotalCharLength        int           `json:"total_char_length"`
	TotalByteLength        int           `json:"total_byte_length"`
	TotalWordCount         int           `json:"total_word_count"`
	LanguageTag            langid.Tag    `json:"language_tag"`
	Chunks                 []ChunkRecord `json:"chunks"`
	DocumentFrequencyTable freq.Table    `json:"document_frequency_table"`
}

// ChunkRecord is one chunk with its statistics.
type ChunkRecord struct {
	Text            string     `json:"text"`
	CharLength      int        `json:"char_length"`
	ByteLength      int        `json:"byte_length"`
	WordCount       int        `json:"word_count"`
	FrequencyTable  freq.Table `json:"frequency_table"`
	EmbeddingVector []float32  `json:"embedding_vector"`
}

// IndexDocument indexes doc and stamps the record with its ID.
func (ix *Indexer) IndexDocument(ctx context.Context, doc source.Document) (Record, error) {
	rec, err := ix.Index(ctx, doc.Text)
	if err != nil {
		return Record{}, err
	}
	rec.DocumentID = doc.ID
	return rec, nil
}

// Index runs the full pipeline on text.
//
// The only error is cancellation of ctx. Embedding failures leave every
// chunk with an empty vector; the rest of the record is still produced.
func (ix *Indexer) Index(ctx context.Context, text string) (Record, error) {
	tag := ix.detect(text)
	chunks := ix.segmenter.Segment(text)
	ix.log.Debug("segmented document", "bytes", len(text), "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors := make(chan [][]float32, 1)
	go func() {
		vectors <- ix.embed(ctx, texts)
	}()

	tables, err := ix.countChunks(ctx, texts, tag)
	vecs := <-vectors
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Converted:              true,
		TotalCharLength:        utf8.RuneCountInString(text),
		TotalByteLength:        len(text),
		TotalWordCount:         lexical.WordCount(text),
		LanguageTag:            tag,
		Chunks:                 make([]ChunkRecord, len(chunks)),
		DocumentFrequencyTable: freq.Merge(tables...),
	}
	for i, t := range texts {
		rec.Chunks[i] = ChunkRecord{
			Text:            t,
			CharLength:      utf8.RuneCountInString(t),
			ByteLength:      len(t),
			WordCount:       lexical.WordCount(t),
			FrequencyTable:  tables[i],
			EmbeddingVector: vecs[i],
		}
	}
	return rec, nil
}

// stageDetector is implemented by *langid.Cascade.
type stageDetector interface {
	DetectWithStage(text string) (langid.Tag, string)
}

func (ix *Indexer) detect(text string) langid.Tag {
	sd, ok := ix.detector.(stageDetector)
	if !ok {
		tag := ix.detector.Detect(text)
		ix.log.Debug("detected language", "language", tag)
		return tag
	}
	tag, stage := sd.DetectWithStage(text)
	ix.log.Debug("detected language", "language", tag, "stage", stage)
	return tag
}

// countChunks normalizes every chunk on a bounded pool; each worker writes
// only its own slot.
func (ix *Indexer) countChunks(ctx context.Context, texts []string, tag langid.Tag) ([]freq.Table, error) {
	tables := make([]freq.Table, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tables[i] = ix.normalizer.Count(texts[i], tag)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// embed returns exactly one vector per text, empty when no provider is set
// or the batch failed.
func (ix *Indexer) embed(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{}
	}
	if ix.embedder == nil || len(texts) == 0 {
		return out
	}

	vecs, err := embedding.Batch(ctx, ix.embedder, texts)
	if err != nil {
		ix.log.Warn("embedding failed, continuing without vectors", "chunks", len(texts), "error", err)
		return out
	}
	for i, v := range vecs {
		if v != nil {
			out[i] = v
		}
	}
	return out
}
