// Package corpus reads labeled sample texts from a directory.
//
// Every regular file with a .sample, .txt, .html or .htm extension is one sample.
// The label is the file name up to its first dot, so "en.sample" and
// "en.news.txt" both feed the "en" category. HTML files contribute their text
// content only.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bastiangx/textcat/pkg/store"
	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
)

var ErrNoSamples = errors.New("corpus: no sample files")

// SampleExtensions lists the file extensions LoadDir reads.
var SampleExtensions = []string{".sample", ".txt", ".html", ".htm"}

// LoadDir reads every sample file in dir, not recursing into subdirectories.
// Labels come back sorted, and texts within a label follow file name order.
func LoadDir(dir string) (store.Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", dir, err)
	}

	texts := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !IsSampleFile(entry.Name()) {
			continue
		}
		label := Label(entry.Name())
		if label == "" {
			log.Warnf("Skipping sample %s: no label before the extension", entry.Name())
			continue
		}

		path := filepath.Join(dir, entry.Name())
		text, err := ReadSample(path)
		if err != nil {
			return nil, err
		}
		texts[label] = append(texts[label], text)
		log.Debugf("Read sample %s for %q (%d bytes)", entry.Name(), label, len(text))
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSamples, dir)
	}

	labels := make([]string, 0, len(texts))
	for label := range texts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	corpus := make(store.Corpus, 0, len(labels))
	for _, label := range labels {
		corpus = append(corpus, store.Sample{Label: label, Texts: texts[label]})
	}
	return corpus, nil
}

// IsSampleFile reports whether name has one of SampleExtensions.
func IsSampleFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, valid := range SampleExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}

// Label returns the category label for a sample file name.
func Label(name string) string {
	base := filepath.Base(name)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSpace(base)
}

// ReadSample returns the text of one sample file. Invalid UTF-8 is replaced
// and HTML is reduced to its text nodes.
func ReadSample(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("corpus: opening %s: %w", path, err)
	}
	defer f.Close()

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = HTMLText(f)
	default:
		var data []byte
		data, err = io.ReadAll(f)
		text = string(data)
	}
	if err != nil {
		return "", fmt.Errorf("corpus: reading %s: %w", path, err)
	}
	return strings.ToValidUTF8(text, "�"), nil
}

// HTMLText collects the text nodes of an HTML document, skipping script and
// style elements. Text nodes are joined with a space.
func HTMLText(r io.Reader) (string, error) {
	var b strings.Builder
	skip := 0

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return strings.TrimSpace(b.String()), nil
		case html.StartTagToken:
			if isHiddenTag(z) {
				skip++
			}
		case html.EndTagToken:
			if isHiddenTag(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
	}
}

func isHiddenTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	tag := string(name)
	return tag == "script" || tag == "style"
}
