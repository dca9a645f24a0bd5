// Package defaults ships a small built-in corpus of European language samples
// so textcat can classify without any files on disk.
package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bastiangx/textcat/pkg/store"
)

// Version names the revision of the embedded corpus. Profile files learned
// from it carry this string.
const Version = "samples-2026.1"

//go:embed samples/*.sample
var samples embed.FS

// Labels lists the categories of the embedded corpus.
func Labels() []string {
	entries, err := fs.ReadDir(samples, "samples")
	if err != nil {
		return nil
	}
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(labels)
	return labels
}

// Corpus returns a fresh copy of the embedded samples, one per label.
func Corpus() (store.Corpus, error) {
	entries, err := fs.ReadDir(samples, "samples")
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	corpus := make(store.Corpus, 0, len(entries))
	for _, e := range entries {
		data, err := samples.ReadFile(path.Join("samples", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("defaults: %w", err)
		}
		corpus = append(corpus, store.Sample{
			Label: strings.TrimSuffix(e.Name(), path.Ext(e.Name())),
			Texts: []string{string(data)},
		})
	}
	return corpus, nil
}

// Store builds a new store over the embedded corpus.
func Store(opts store.Options) (*store.Store, error) {
	corpus, err := Corpus()
	if err != nil {
		return nil, err
	}
	return store.New(corpus, opts)
}
