// Package profile ranks n-gram counts into capped frequency profiles.
package profile

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bastiangx/textcat/pkg/ngram"
	"github.com/tchap/go-patricia/v2/patricia"
)

var (
	ErrDuplicateNgram = errors.New("profile: duplicate ngram")
	ErrEmptyNgram     = errors.New("profile: empty ngram")
)

// Entry is one ranked n-gram. Count is zero for profiles rebuilt from a list.
type Entry struct {
	Ngram string
	Count int
}

// Ranked is an ordered, capped list of n-grams. Rank is the 0-based position,
// rank 0 being the most frequent. A Ranked is never modified after it is built
// and is safe for concurrent readers.
type Ranked struct {
	entries []Entry
	index   *patricia.Trie
	cap     int
}

// Build orders counts by descending frequency, breaking ties by ascending
// n-gram, and keeps the first k entries. Empty counts or k <= 0 give an empty
// profile.
func Build(counts ngram.Counts, k int) *Ranked {
	if k <= 0 || len(counts) == 0 {
		return newRanked(nil, max(k, 0))
	}

	entries := make([]Entry, 0, len(counts))
	for ng, n := range counts {
		entries = append(entries, Entry{Ngram: ng, Count: n})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return strings.Compare(a.Ngram, b.Ngram)
	})
	if len(entries) > k {
		entries = entries[:k]
	}
	return newRanked(slices.Clip(entries), k)
}

// BuildPooled sums the counts of every text before ranking, giving one profile
// for the whole set.
func BuildPooled(ext *ngram.Extractor, texts []string, k int) *Ranked {
	pooled := make(ngram.Counts)
	for _, text := range texts {
		pooled.Merge(ext.Extract(text))
	}
	return Build(pooled, k)
}

// FromList rebuilds a profile from n-grams already in rank order, such as a
// persisted profile. The list is truncated to k.
func FromList(ngrams []string, k int) (*Ranked, error) {
	if k < 0 {
		k = 0
	}
	if len(ngrams) > k {
		ngrams = ngrams[:k]
	}

	entries := make([]Entry, len(ngrams))
	seen := make(map[string]struct{}, len(ngrams))
	for i, ng := range ngrams {
		if ng == "" {
			return nil, fmt.Errorf("%w at rank %d", ErrEmptyNgram, i)
		}
		if _, dup := seen[ng]; dup {
			return nil, fmt.Errorf("%w %q at rank %d", ErrDuplicateNgram, ng, i)
		}
		seen[ng] = struct{}{}
		entries[i] = Entry{Ngram: ng}
	}
	return newRanked(entries, k), nil
}

func newRanked(entries []Entry, k int) *Ranked {
	index := patricia.NewTrie()
	for rank, e := range entries {
		index.Insert(patricia.Prefix(e.Ngram), rank)
	}
	return &Ranked{entries: entries, index: index, cap: k}
}

// Len returns the number of ranked n-grams.
func (r *Ranked) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Empty reports whether the profile holds no n-grams.
func (r *Ranked) Empty() bool {
	return r.Len() == 0
}

// Cap returns the cap the profile was built with.
func (r *Ranked) Cap() int {
	if r == nil {
		return 0
	}
	return r.cap
}

// At returns the n-gram at rank. It panics when rank is out of range.
func (r *Ranked) At(rank int) string {
	return r.entries[rank].Ngram
}

// Entries returns a copy of the ranked entries.
func (r *Ranked) Entries() []Entry {
	if r == nil {
		return nil
	}
	return slices.Clone(r.entries)
}

// Ngrams returns the n-grams in rank order.
func (r *Ranked) Ngrams() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Ngram
	}
	return out
}

// Rank returns the rank of ng, or -1 and false when it is not in the profile.
func (r *Ranked) Rank(ng string) (int, bool) {
	if r == nil || ng == "" {
		return -1, false
	}
	item := r.index.Get(patricia.Prefix(ng))
	if item == nil {
		return -1, false
	}
	return item.(int), true
}

// Count returns the occurrence count recorded for ng, zero when absent or
// when the profile was rebuilt from a list.
func (r *Ranked) Count(ng string) int {
	rank, ok := r.Rank(ng)
	if !ok {
		return 0
	}
	return r.entries[rank].Count
}

// VisitPrefix calls fn for every ranked n-gram starting with prefix. An empty
// prefix visits the whole profile. Visiting order follows the index, not rank.
func (r *Ranked) VisitPrefix(prefix string, fn func(ng string, rank int) error) error {
	if r.Empty() {
		return nil
	}
	visit := func(p patricia.Prefix, item patricia.Item) error {
		return fn(string(p), item.(int))
	}
	if prefix == "" {
		return r.index.Visit(visit)
	}
	return r.index.VisitSubtree(patricia.Prefix(prefix), visit)
}

// Equal reports whether both profiles hold the same n-grams in the same order.
func (r *Ranked) Equal(other *Ranked) bool {
	if r.Len() != other.Len() {
		return false
	}
	for i := 0; i < r.Len(); i++ {
		if r.entries[i].Ngram != other.entries[i].Ngram {
			return false
		}
	}
	return true
}
