/*
Package store holds the immutable set of category profiles a classifier ranks against.

A Store is built once from a Corpus of labeled sample texts, or from profiles that were
already ranked (for example, loaded from a profile file), and is read-only afterwards.
Any number of goroutines may read it concurrently without locking.

	st, err := store.New(store.Corpus{
		{Label: "en", Texts: []string{"the quick brown fox"}},
		{Label: "fr", Texts: []string{"le renard brun rapide"}},
	}, store.DefaultOptions())

Construction fails with a *ConfigError when a label is empty or repeated, when the
options are invalid, or when no category produced a usable profile.
*/
package store

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/bastiangx/textcat/pkg/ngram"
	"github.com/bastiangx/textcat/pkg/profile"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultCap is the number of n-grams kept per profile.
const DefaultCap = 400

// Sample is one category's training text.
type Sample struct {
	Label string
	Texts []string
}

// Corpus lists samples by category. A slice, not a map, so repeated labels
// can be reported instead of silently merged.
type Corpus []Sample

// Options are the build settings shared by category and query profiles.
type Options struct {
	Lengths            []int
	Cap                int
	Separator          rune
	DropSymbolUnigrams bool
	// Jobs bounds concurrent profile builds, 0 means GOMAXPROCS.
	Jobs int
}

// DefaultOptions returns lengths 1..5, a cap of 400 and the '_' separator.
func DefaultOptions() Options {
	ext := ngram.DefaultOptions()
	return Options{
		Lengths:   ext.Lengths,
		Cap:       DefaultCap,
		Separator: ext.Separator,
	}
}

func (o Options) extractor() (*ngram.Extractor, error) {
	if o.Cap <= 0 {
		return nil, fmt.Errorf("%w: cap must be positive, got %d", ErrInvalidOptions, o.Cap)
	}
	ext, err := ngram.New(ngram.Options{
		Lengths:            o.Lengths,
		Separator:          o.Separator,
		DropSymbolUnigrams: o.DropSymbolUnigrams,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return ext, nil
}

// Category is a label paired with its ranked profile.
type Category struct {
	Label   string
	Profile *profile.Ranked
}

// Store is an immutable, label-sorted set of categories. The zero Store is
// empty and valid to read.
type Store struct {
	categories []Category
	byLabel    map[string]int
	opts       Options
	ext        *ngram.Extractor
}

// New builds one pooled profile per sample using opts.
func New(corpus Corpus, opts Options) (*Store, error) {
	return NewContext(context.Background(), corpus, opts)
}

// NewContext is New with a context that can cancel the profile builds.
func NewContext(ctx context.Context, corpus Corpus, opts Options) (*Store, error) {
	ext, err := opts.extractor()
	if err != nil {
		return nil, configErr("new", err)
	}
	if err := checkLabels(len(corpus), func(i int) string { return corpus[i].Label }); err != nil {
		return nil, configErr("new", err)
	}
	if len(corpus) == 0 {
		return nil, configErr("new", fmt.Errorf("%w: corpus is empty", ErrNoProfiles))
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns its slot, no mutex needed
	profiles := make([]*profile.Ranked, len(corpus))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(corpus)))
	for i, sample := range corpus {
		i, sample := i, sample
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			profiles[i] = profile.BuildPooled(ext, sample.Texts, opts.Cap)
			log.Debugf("Built profile for %q: %d ngrams from %d texts", sample.Label, profiles[i].Len(), len(sample.Texts))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("store: building profiles: %w", err)
	}

	categories := make([]Category, 0, len(corpus))
	for i, sample := range corpus {
		categories = append(categories, Category{Label: sample.Label, Profile: profiles[i]})
	}
	return assemble("new", categories, opts, ext)
}

// FromProfiles builds a store from profiles that are already ranked. Each
// profile is used as-is, so it should have been built with opts.
func FromProfiles(categories []Category, opts Options) (*Store, error) {
	ext, err := opts.extractor()
	if err != nil {
		return nil, configErr("from profiles", err)
	}
	if err := checkLabels(len(categories), func(i int) string { return categories[i].Label }); err != nil {
		return nil, configErr("from profiles", err)
	}
	return assemble("from profiles", slices.Clone(categories), opts, ext)
}

func assemble(op string, categories []Category, opts Options, ext *ngram.Extractor) (*Store, error) {
	usable := categories[:0]
	for _, c := range categories {
		if c.Profile.Empty() {
			log.Warnf("Skipping category %q: samples produced no ngrams", c.Label)
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return nil, configErr(op, fmt.Errorf("%w: every sample set is empty", ErrNoProfiles))
	}

	slices.SortFunc(usable, func(a, b Category) int {
		return strings.Compare(a.Label, b.Label)
	})
	byLabel := make(map[string]int, len(usable))
	for i, c := range usable {
		byLabel[c.Label] = i
	}

	// keep the normalized view of the options
	opts.Lengths = ext.Lengths()
	opts.Separator = ext.Separator()

	log.Debugf("Store ready: %d categories, cap %d, lengths %v", len(usable), opts.Cap, opts.Lengths)
	return &Store{
		categories: slices.Clip(usable),
		byLabel:    byLabel,
		opts:       opts,
		ext:        ext,
	}, nil
}

func checkLabels(n int, label func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		l := label(i)
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("%w at position %d", ErrEmptyLabel, i)
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		seen[l] = struct{}{}
	}
	return nil
}

// Len returns the number of categories.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.categories)
}

// Categories returns the categories sorted by label.
func (s *Store) Categories() []Category {
	if s == nil {
		return nil
	}
	return slices.Clone(s.categories)
}

// Labels returns the category labels in ascending order.
func (s *Store) Labels() []string {
	if s == nil {
		return nil
	}
	labels := make([]string, len(s.categories))
	for i, c := range s.categories {
		labels[i] = c.Label
	}
	return labels
}

// Category looks up a category by label.
func (s *Store) Category(label string) (Category, bool) {
	if s == nil {
		return Category{}, false
	}
	i, ok := s.byLabel[label]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}

// Options returns the settings the store was built with.
func (s *Store) Options() Options {
	if s == nil {
		return Options{}
	}
	opts := s.opts
	opts.Lengths = slices.Clone(opts.Lengths)
	return opts
}

// Profile ranks text with the same extraction settings and cap as the
// categories. An empty store returns an empty profile.
func (s *Store) Profile(text string) *profile.Ranked {
	if s == nil || s.ext == nil {
		return profile.Build(nil, 0)
	}
	return profile.Build(s.ext.Extract(text), s.opts.Cap)
}
