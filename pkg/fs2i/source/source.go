// Package source reads input documents from files, stdin or JSONL batches.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/cognicore/fs2i/internal/logger"
	"github.com/cognicore/fs2i/pkg/fs2i/internalerr"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Document is one raw text input.
type Document struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
	Text string `json:"text"`
}

// Load reads a single document from path. HTML files are reduced to their
// visible text.
func Load(path string) (Document, error) {
	if path == "" {
		return Document{}, fmt.Errorf("%w: no input path", internalerr.ErrInvalidInput)
	}
	if path == Stdin {
		return Read(os.Stdin, Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read reads a document from r; name is used as ID and to pick the decoder.
func Read(r io.Reader, name string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: read %s: %w", internalerr.ErrInvalidInput, name, err)
	}
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%w: %s is not valid UTF-8", internalerr.ErrInvalidInput, name)
	}

	text := string(data)
	if IsHTML(name) {
		text = StripHTML(text)
	}
	return Document{ID: docID(name), Path: name, Text: text}, nil
}

// IsHTML reports whether name has an HTML extension.
func IsHTML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// StripHTML returns the text content of an HTML document. Script and style
// bodies are dropped; block elements are separated by newlines.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteByte('\n')
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true,
	"blockquote": true, "pre": true, "title": true,
}

func docID(name string) string {
	if name == Stdin {
		return "stdin"
	}
	return filepath.Base(name)
}

// LoadJSONL reads a batch file of {"id","text"} objects, one per line.
func LoadJSONL(path string, log logger.Logger) ([]Document, error) {
	if path == Stdin {
		return ReadJSONL(os.Stdin, Stdin, log)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	defer f.Close()
	return ReadJSONL(f, path, log)
}

// ReadJSONL decodes documents from r. Malformed lines are skipped with a
// warning; documents without an ID get one from their line number.
func ReadJSONL(r io.Reader, name string, log logger.Logger) ([]Document, error) {
	if log == nil {
		log = logger.Nop()
	}

	var docs []Document
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Warn("skipping malformed line", "file", name, "line", line, "error", err)
			continue
		}
		if !utf8.ValidString(doc.Text) {
			log.Warn("skipping document with invalid UTF-8", "file", name, "line", line)
			continue
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("line-%d", line)
		}
		doc.Path = name
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", internalerr.ErrInvalidInput, name, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no valid documents in %s", internalerr.ErrInvalidInput, name)
	}
	return docs, nil
}
