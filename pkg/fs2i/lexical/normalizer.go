// Package lexical turns chunk text into stop-word-filtered term counts.
package lexical

import (
	"strings"

	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
	"github.com/cognicore/fs2i/pkg/fs2i/stoplist"
)

// Normalizer tokenizes on whitespace, normalizes each token and drops
// stop-words of the document language.
type Normalizer struct {
	corpus stoplist.Corpus
}

// NewNormalizer uses corpus for stop-word lookup. A nil corpus disables
// stop-word removal for every language.
func NewNormalizer(corpus stoplist.Corpus) *Normalizer {
	return &Normalizer{corpus: corpus}
}

// Terms returns the normalized terms of text in order, stop-words removed.
// Tokens made only of punctuation become the empty term and are kept.
func (n *Normalizer) Terms(text string, tag langid.Tag) []string {
	stops := n.stopwords(tag)

	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, tok := range fields {
		term := stoplist.Normalize(tok)
		if stops.IsStop(term) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Count returns the frequency table of Terms(text, tag).
func (n *Normalizer) Count(text string, tag langid.Tag) freq.Table {
	return freq.Count(n.Terms(text, tag))
}

// stopwords returns nil for languages without a set, which IsStop treats
// as empty.
func (n *Normalizer) stopwords(tag langid.Tag) *stoplist.Set {
	if n.corpus == nil {
		return nil
	}
	set, ok := n.corpus.Lookup(tag)
	if !ok {
		return nil
	}
	return set
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
