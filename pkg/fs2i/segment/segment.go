// Package segment splits a document into ordered chunks near a target size,
// preferring to cut right after a sentence terminator.
package segment

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
)

// Defaults applied by DefaultConfig.
const (
	DefaultTargetSize  = 1200
	DefaultTolerance   = 200
	DefaultTerminators = "."
)

// Config controls chunk sizing. Sizes are measured in bytes.
type Config struct {
	TargetSize  int    // preferred chunk length
	Tolerance   int    // slack allowed past TargetSize before a cut is forced
	Terminators string // runes that end a sentence; "." when empty
}

// DefaultConfig returns the 1200/200 sizing with "." as the only terminator.
func DefaultConfig() Config {
	return Config{
		TargetSize:  DefaultTargetSize,
		Tolerance:   DefaultTolerance,
		Terminators: DefaultTerminators,
	}
}

// Validate reports whether the config can drive a terminating segmentation.
func (c Config) Validate() error {
	if c.TargetSize < 1 {
		return fmt.Errorf("%w: segment target size must be >= 1, got %d", internalerr.ErrInvalidConfig, c.TargetSize)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: segment tolerance must be >= 0, got %d", internalerr.ErrInvalidConfig, c.Tolerance)
	}
	if c.Tolerance > math.MaxInt-c.TargetSize {
		return fmt.Errorf("%w: segment target size plus tolerance overflows int", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Chunk is one segment of a document.
// Start and End delimit the untrimmed byte range; Text is the trimmed copy.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// Segmenter applies a validated Config.
type Segmenter struct {
	cfg Config
}

// New returns a Segmenter for cfg.
func New(cfg Config) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Terminators == "" {
		cfg.Terminators = DefaultTerminators
	}
	return &Segmenter{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (s *Segmenter) Config() Config {
	return s.cfg
}

// Segment splits text into chunks with the given sizing and "." as terminator.
func Segment(text string, targetSize, tolerance int) ([]Chunk, error) {
	s, err := New(Config{TargetSize: targetSize, Tolerance: tolerance})
	if err != nil {
		return nil, err
	}
	return s.Segment(text), nil
}

// Segment scans text forward and cuts it greedily.
//
// Once the rest of the text fits in TargetSize+Tolerance it becomes the last
// chunk. Otherwise the cut goes one past the last terminator before
// TargetSize, else one past the first terminator in the tolerance band, else
// exactly at TargetSize (moved back to a rune boundary).
func (s *Segmenter) Segment(text string) []Chunk {
	var chunks []Chunk
	limit := s.cfg.TargetSize + s.cfg.Tolerance

	start := 0
	for start < len(text) {
		remaining := text[start:]
		if len(remaining) <= limit {
			chunks = append(chunks, newChunk(len(chunks), start, len(text), remaining))
			break
		}

		split := s.splitPoint(remaining, limit)
		chunks = append(chunks, newChunk(len(chunks), start, start+split, remaining[:split]))
		start += split
	}

	return chunks
}

// splitPoint returns the cut offset within remaining; always >= 1.
// Callers guarantee len(remaining) > limit >= TargetSize.
func (s *Segmenter) splitPoint(remaining string, limit int) int {
	target := s.cfg.TargetSize
	window := remaining[:limit]

	if i := strings.LastIndexAny(window[:target], s.cfg.Terminators); i >= 0 {
		return i + runeWidth(window[i:])
	}
	if i := strings.IndexAny(window[target:], s.cfg.Terminators); i >= 0 {
		return target + i + runeWidth(window[target+i:])
	}
	return forcedCut(remaining, target)
}

// forcedCut moves target back to the nearest rune start. A cut that would
// land at 0 advances past the first rune instead.
func forcedCut(s string, target int) int {
	cut := target
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		return runeWidth(s)
	}
	return cut
}

func runeWidth(s string) int {
	_, w := utf8.DecodeRuneInString(s)
	if w == 0 {
		return 1
	}
	return w
}

func newChunk(index, start, end int, raw string) Chunk {
	return Chunk{
		Index: index,
		Start: start,
		End:   end,
		Text:  strings.Clone(strings.TrimSpace(raw)),
	}
}
