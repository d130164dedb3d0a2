package stoplist

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/fs2i/pkg/fs2i/langid"
)

//go:embed data/*.yaml
var embedded embed.FS

// Corpus returns the stop-word set for a language, if it has one.
type Corpus interface {
	Lookup(tag langid.Tag) (*Set, bool)
}

// File is the on-disk stop-word list format.
type File struct {
	Terms []string `yaml:"terms"`
}

// MapCorpus is a Corpus backed by a plain map.
type MapCorpus map[langid.Tag]*Set

// Lookup implements Corpus.
func (m MapCorpus) Lookup(tag langid.Tag) (*Set, bool) {
	s, ok := m[tag]
	return s, ok && s != nil
}

// Merge returns a corpus where sets in override replace those in m.
func (m MapCorpus) Merge(override MapCorpus) MapCorpus {
	out := make(MapCorpus, len(m)+len(override))
	for tag, s := range m {
		out[tag] = s
	}
	for tag, s := range override {
		out[tag] = s
	}
	return out
}

var (
	embeddedOnce   sync.Once
	embeddedCorpus MapCorpus
	embeddedErr    error
)

// Embedded returns the built-in corpus covering every supported language.
// Callers must not mutate the returned sets.
func Embedded() (MapCorpus, error) {
	embeddedOnce.Do(func() {
		embeddedCorpus, embeddedErr = loadFS(embedded, "data")
	})
	return embeddedCorpus, embeddedErr
}

// LoadFile reads one YAML stop-word list.
func LoadFile(file string) (*Set, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return parse(data, file)
}

// LoadDir reads every <code>.yaml file in dir whose code is a supported tag.
// Files for other codes are ignored.
func LoadDir(dir string) (MapCorpus, error) {
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) (MapCorpus, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read stoplist dir: %w", err)
	}

	corpus := make(MapCorpus)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		tag := langid.Parse(strings.TrimSuffix(e.Name(), ".yaml"))
		if tag == langid.Unknown {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read stoplist %s: %w", e.Name(), err)
		}
		set, err := parse(data, e.Name())
		if err != nil {
			return nil, err
		}
		corpus[tag] = set
	}
	if len(corpus) == 0 {
		return nil, errors.New("no stoplist files found")
	}
	return corpus, nil
}

func parse(data []byte, name string) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse stoplist %s: %w", name, err)
	}
	return NewSet(f.Terms), nil
}
