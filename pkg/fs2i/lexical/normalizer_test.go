package lexical

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/fs2i/pkg/fs2i/freq"
	"github.com/cognicore/fs2i/pkg/fs2i/langid"
	"github.com/cognicore/fs2i/pkg/fs2i/stoplist"
)

func testCorpus() stoplist.MapCorpus {
	return stoplist.MapCorpus{
		langid.English: stoplist.NewSet([]string{"this", "is", "a", "the"}),
		langid.French:  stoplist.NewSet([]string{"le", "la"}),
	}
}

func TestCountRemovesStopwords(t *testing.T) {
	n := NewNormalizer(testCorpus())
	got := n.Count("This is a test. Hello, World!", langid.English)
	want := freq.Table{"test": 1, "hello": 1, "world": 1}
	if !got.Equal(want) {
		t.Fatalf("Count = %v, want %v", got, want)
	}
}

func TestCountLowercasesAndStrips(t *testing.T) {
	n := NewNormalizer(nil)
	got := n.Count("Go GO go! (go) «Go»", langid.Unknown)
	if got["go"] != 5 || len(got) != 1 {
		t.Fatalf("expected go:5, got %v", got)
	}
}

func TestEmptyTermIsCounted(t *testing.T) {
	n := NewNormalizer(testCorpus())
	got := n.Count("wait -- what ... now", langid.English)
	if got[""] != 2 {
		t.Fatalf("punctuation-only tokens should count as the empty term, got %v", got)
	}
	if got["wait"] != 1 || got["what"] != 1 || got["now"] != 1 {
		t.Errorf("unexpected table %v", got)
	}
}

func TestUnsupportedLanguagePassesThrough(t *testing.T) {
	n := NewNormalizer(testCorpus())
	got := n.Count("this is a test", langid.Unknown)
	if len(got) != 4 {
		t.Fatalf("unknown language should keep every term, got %v", got)
	}
	got = n.Count("this is a test", langid.Korean)
	if len(got) != 4 {
		t.Fatalf("language without a set should keep every term, got %v", got)
	}
}

func TestStopwordsAreLanguageSpecific(t *testing.T) {
	n := NewNormalizer(testCorpus())
	got := n.Count("le chat the cat", langid.French)
	want := freq.Table{"chat": 1, "the": 1, "cat": 1}
	if !got.Equal(want) {
		t.Fatalf("Count = %v, want %v", got, want)
	}
}

func TestTermsUnicode(t *testing.T) {
	n := NewNormalizer(nil)
	got := n.Terms("Ὅμηρος, ΕΛΛΆΔΑ; Москва. 東京!", langid.Unknown)
	want := []string{"ὅμηρος", "ελλάδα", "москва", "東京"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Terms = %q, want %q", got, want)
	}
}

func TestTermsIdempotent(t *testing.T) {
	n := NewNormalizer(testCorpus())
	first := n.Terms("The Quick, brown fox! Jumps over THE lazy dog.", langid.English)
	second := n.Terms(strings.Join(first, " "), langid.English)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization should be a fixed point: %q vs %q", first, second)
	}
}

func TestEmbeddedCorpusSentenceExample(t *testing.T) {
	corpus, err := stoplist.Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	n := NewNormalizer(corpus)
	got := n.Count("Hello world. This is a test. Another sentence here.", langid.English)
	want := freq.Table{"hello": 1, "world": 1, "test": 1, "another": 1, "sentence": 1, "here": 1}
	if !got.Equal(want) {
		t.Fatalf("Count = %v, want %v", got, want)
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  one two\tthree\nfour  "); got != 4 {
		t.Errorf("expected 4 words, got %d", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("expected 0 words, got %d", got)
	}
}
