package langid

import "github.com/abadojack/whatlanggo"

// whatlangTags projects whatlanggo languages onto the supported set.
var whatlangTags = map[whatlanggo.Lang]Tag{
	whatlanggo.Eng: English,
	whatlanggo.Fra: French,
	whatlanggo.Deu: German,
	whatlanggo.Spa: Spanish,
	whatlanggo.Ita: Italian,
	whatlanggo.Por: Portuguese,
	whatlanggo.Ell: Greek,
	whatlanggo.Nld: Dutch,
	whatlanggo.Rus: Russian,
	whatlanggo.Arb: Arabic,
	whatlanggo.Jpn: Japanese,
	whatlanggo.Kor: Korean,
}

// Whatlang is the fast trigram detector. It is not restricted to the
// supported set, so it may answer with a language that maps to Unknown.
type Whatlang struct{}

// NewWhatlang returns the whatlanggo backend.
func NewWhatlang() *Whatlang {
	return &Whatlang{}
}

func (w *Whatlang) Name() string { return "whatlang" }

func (w *Whatlang) Detect(text string) (Result, bool) {
	info := whatlanggo.Detect(text)
	if info.Script == nil || info.Lang < 0 {
		return Result{}, false
	}
	tag, ok := whatlangTags[info.Lang]
	if !ok {
		tag = Unknown
	}
	return Result{Tag: tag, Confidence: info.Confidence}, true
}
