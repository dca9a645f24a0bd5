// Package ngram splits text into overlapping character n-grams.
//
// Text is NFC-normalized and lowercased before windowing. Whitespace runs collapse
// to a single separator and the text is padded with one separator on each side, so
// word boundaries show up in the n-grams ("the" becomes "_the_").
package ngram

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultSeparator pads words and replaces whitespace runs.
const DefaultSeparator = '_'

var (
	ErrNoLengths     = errors.New("ngram: no lengths configured")
	ErrInvalidLength = errors.New("ngram: length must be positive")
)

// Counts maps an n-gram to its number of occurrences.
type Counts map[string]int

// Merge adds every count of other into c.
func (c Counts) Merge(other Counts) {
	for ng, n := range other {
		c[ng] += n
	}
}

// Total returns the number of n-gram occurrences, duplicates included.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Options controls how text is windowed.
type Options struct {
	Lengths   []int
	Separator rune
	// DropSymbolUnigrams skips 1-grams that are digits or punctuation.
	DropSymbolUnigrams bool
}

// DefaultOptions returns lengths 1..5 with the default separator.
func DefaultOptions() Options {
	return Options{
		Lengths:   []int{1, 2, 3, 4, 5},
		Separator: DefaultSeparator,
	}
}

// Extractor turns text into n-gram counts. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	lengths     []int
	separator   rune
	dropSymbols bool
}

// New validates opts and returns an Extractor. Lengths are deduplicated and
// sorted; a zero Separator falls back to DefaultSeparator.
func New(opts Options) (*Extractor, error) {
	if len(opts.Lengths) == 0 {
		return nil, ErrNoLengths
	}
	lengths := slices.Clone(opts.Lengths)
	slices.Sort(lengths)
	lengths = slices.Compact(lengths)
	if lengths[0] <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, lengths[0])
	}

	sep := opts.Separator
	if sep == 0 {
		sep = DefaultSeparator
	}
	return &Extractor{
		lengths:     lengths,
		separator:   sep,
		dropSymbols: opts.DropSymbolUnigrams,
	}, nil
}

// Extract is a shortcut for New(Options{Lengths: lengths}) followed by Extract.
// Invalid lengths yield empty counts.
func Extract(text string, lengths []int) Counts {
	ext, err := New(Options{Lengths: lengths})
	if err != nil {
		return Counts{}
	}
	return ext.Extract(text)
}

// Lengths returns the configured window sizes in ascending order.
func (e *Extractor) Lengths() []int {
	return slices.Clone(e.lengths)
}

// Separator returns the padding rune.
func (e *Extractor) Separator() rune {
	return e.separator
}

// DropsSymbolUnigrams reports whether digit and punctuation 1-grams are skipped.
func (e *Extractor) DropsSymbolUnigrams() bool {
	return e.dropSymbols
}

// Extract counts every window of every configured length over the padded text.
// Empty or whitespace-only text returns empty counts.
func (e *Extractor) Extract(text string) Counts {
	counts := make(Counts)
	runes := e.Pad(text)
	if len(runes) == 0 {
		return counts
	}

	for _, n := range e.lengths {
		// lengths are ascending, nothing longer fits either
		if n > len(runes) {
			break
		}
		for i := 0; i+n <= len(runes); i++ {
			if n == 1 && e.dropSymbols && isSymbol(runes[i]) {
				continue
			}
			counts[string(runes[i:i+n])]++
		}
	}
	return counts
}

// Pad returns the normalized, separator-padded runes that Extract windows over,
// or nil when text has no non-space characters.
func (e *Extractor) Pad(text string) []rune {
	fields := strings.Fields(normalize(text))
	if len(fields) == 0 {
		return nil
	}

	sep := string(e.separator)
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteString(sep)
	b.WriteString(strings.Join(fields, sep))
	b.WriteString(sep)
	return []rune(b.String())
}

// normalize composes the text to NFC and lowercases it. A Caser keeps state
// between calls, so each call gets its own.
func normalize(text string) string {
	if text == "" {
		return text
	}
	return cases.Lower(language.Und).String(norm.NFC.String(text))
}

func isSymbol(r rune) bool {
	return unicode.IsDigit(r) || unicode.IsPunct(r)
}
