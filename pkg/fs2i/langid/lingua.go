package langid

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

var linguaLanguages = map[Tag]lingua.Language{
	English:    lingua.English,
	French:     lingua.French,
	German:     lingua.German,
	Spanish:    lingua.Spanish,
	Italian:    lingua.Italian,
	Portuguese: lingua.Portuguese,
	Greek:      lingua.Greek,
	Dutch:      lingua.Dutch,
	Russian:    lingua.Russian,
	Arabic:     lingua.Arabic,
	Japanese:   lingua.Japanese,
	Korean:     lingua.Korean,
}

var linguaTags = func() map[lingua.Language]Tag {
	m := make(map[lingua.Language]Tag, len(linguaLanguages))
	for tag, lang := range linguaLanguages {
		m[lang] = tag
	}
	return m
}()

// Lingua is the slower n-gram detector restricted to a candidate list.
// Language models load on first use.
type Lingua struct {
	candidates []lingua.Language

	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLingua restricts detection to the given tags. Unsupported tags are
// ignored; with fewer than two usable candidates the full supported set is used.
func NewLingua(tags ...Tag) *Lingua {
	var langs []lingua.Language
	seen := make(map[lingua.Language]struct{})
	for _, t := range tags {
		lang, ok := linguaLanguages[t]
		if !ok {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		langs = append(langs, lang)
	}
	if len(langs) < 2 {
		langs = langs[:0]
		for _, t := range supported {
			langs = append(langs, linguaLanguages[t])
		}
	}
	return &Lingua{candidates: langs}
}

func (l *Lingua) Name() string { return "lingua" }

func (l *Lingua) Detect(text string) (Result, bool) {
	l.once.Do(func() {
		l.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(l.candidates...).
			Build()
	})

	lang, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return Result{}, false
	}
	tag, known := linguaTags[lang]
	if !known {
		return Result{Tag: Unknown}, true
	}
	return Result{
		Tag:        tag,
		Confidence: l.detector.ComputeLanguageConfidence(text, lang),
	}, true
}
