// Package stoplist provides per-language stop-word sets.
package stoplist

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Set is a stop-word set keyed by normalized term.
type Set struct {
	stops map[string]struct{}
}

// NewSet builds a set; each word is normalized the way terms are.
func NewSet(words []string) *Set {
	s := &Set{stops: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// IsStop reports whether term is in the set. term must already be normalized.
func (s *Set) IsStop(term string) bool {
	if s == nil {
		return false
	}
	_, ok := s.stops[term]
	return ok
}

// Add inserts a word.
func (s *Set) Add(word string) {
	s.stops[Normalize(word)] = struct{}{}
}

// Remove deletes a word.
func (s *Set) Remove(word string) {
	delete(s.stops, Normalize(word))
}

// Len returns the number of stop-words.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stops)
}

// All returns the stop-words sorted.
func (s *Set) All() []string {
	result := make([]string, 0, s.Len())
	if s == nil {
		return result
	}
	for w := range s.stops {
		result = append(result, w)
	}
	sort.Strings(result)
	return result
}

// Normalize strips leading and trailing runes that are not letters, marks or
// digits, then lower-cases with the root-locale rules (final sigma included).
// Terms and stop-words share this normalization.
func Normalize(token string) string {
	trimmed := strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsNumber(r)
	})
	if trimmed == "" {
		return ""
	}
	// A Caser is stateful, so each call gets its own.
	return cases.Lower(language.Und).String(trimmed)
}
