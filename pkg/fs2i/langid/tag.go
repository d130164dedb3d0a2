// Package langid assigns a document-level language tag using a cascade of
// detector backends.
package langid

import "strings"

// Tag is a two-letter language code or Unknown.
type Tag string

// Supported tags.
const (
	English    Tag = "en"
	French     Tag = "fr"
	German     Tag = "de"
	Spanish    Tag = "es"
	Italian    Tag = "it"
	Portuguese Tag = "pt"
	Greek      Tag = "el"
	Dutch      Tag = "nl"
	Russian    Tag = "ru"
	Arabic     Tag = "ar"
	Japanese   Tag = "ja"
	Korean     Tag = "ko"

	Unknown Tag = "unknown"
)

var supported = []Tag{
	English, French, German, Spanish, Italian, Portuguese,
	Greek, Dutch, Russian, Arabic, Japanese, Korean,
}

// Supported returns the fixed candidate set in a stable order.
func Supported() []Tag {
	out := make([]Tag, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether t is one of the supported codes.
func (t Tag) IsSupported() bool {
	for _, s := range supported {
		if s == t {
			return true
		}
	}
	return false
}

func (t Tag) String() string {
	return string(t)
}

// Parse maps a code like "EN" or " fr " to its Tag, or Unknown.
func Parse(code string) Tag {
	t := Tag(strings.ToLower(strings.TrimSpace(code)))
	if t.IsSupported() {
		return t
	}
	return Unknown
}
