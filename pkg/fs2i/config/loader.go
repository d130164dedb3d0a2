package config

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i"
	"github.com/cognicore/fs2i/pkg/fs2i/embedding"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
	"github.com/cognicore/fs2i/pkg/fs2i/lexical"
	"github.com/cognicore/fs2i/pkg/fs2i/segment"
	"github.com/cognicore/fs2i/pkg/fs2i/stoplist"
)

// Components holds the pipeline parts built from a Config.
type Components struct {
	Segmenter  *segment.Segmenter
	Detector   *langid.Cascade
	Corpus     stoplist.MapCorpus
	Normalizer *lexical.Normalizer
	Embedder   embedding.Provider // nil when embedding is disabled
	Workers    int
	Logger     logger.Logger
}

// Build constructs every component from cfg.
func Build(cfg Config) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	comp := &Components{
		Workers: cfg.Workers,
		Logger:  logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON}),
	}

	seg, err := segment.New(cfg.SegmentConfig())
	if err != nil {
		return nil, err
	}
	comp.Segmenter = seg

	var fallback langid.Detector
	if cfg.Language.Fallback {
		fallback = langid.NewLingua(langid.Supported()...)
	}
	comp.Detector = langid.NewCascade(langid.NewWhatlang(), cfg.Language.Threshold, fallback)

	corpus, err := stoplist.Embedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded stop-words: %w", err)
	}
	if cfg.Stopwords.Dir != "" {
		override, err := stoplist.LoadDir(cfg.Stopwords.Dir)
		if err != nil {
			return nil, fmt.Errorf("load stop-words from %s: %w", cfg.Stopwords.Dir, err)
		}
		corpus = corpus.Merge(override)
	}
	comp.Corpus = corpus
	comp.Normalizer = lexical.NewNormalizer(corpus)

	comp.Embedder = buildEmbedder(cfg.Embedding)
	return comp, nil
}

func buildEmbedder(cfg Embedding) embedding.Provider {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return &embedding.Client{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		}
	case ProviderOllama:
		return embedding.NewOllama(cfg.Model, cfg.BaseURL)
	default:
		return nil
	}
}

// Indexer assembles an fs2i.Indexer from the components.
func (c *Components) Indexer() (*fs2i.Indexer, error) {
	return fs2i.New(fs2i.Options{
		Segmenter:  c.Segmenter,
		Detector:   c.Detector,
		Normalizer: c.Normalizer,
		Embedder:   c.Embedder,
		Workers:    c.Workers,
		Logger:     c.Logger,
	})
}
