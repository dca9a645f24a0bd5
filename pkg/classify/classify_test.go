package classify

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/bastiangx/textcat/pkg/profile"
	"github.com/bastiangx/textcat/pkg/store"
)

func newStore(t *testing.T, corpus store.Corpus, opts store.Options) *store.Store {
	t.Helper()
	st, err := store.New(corpus, opts)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func newClassifier(t *testing.T, st *store.Store, margin float64) *Classifier {
	t.Helper()
	c, err := New(st, Options{AmbiguityMargin: margin})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func enFrStore(t *testing.T) *store.Store {
	return newStore(t, store.Corpus{
		{Label: "en", Texts: []string{"the quick brown fox"}},
		{Label: "fr", Texts: []string{"le renard brun rapide"}},
	}, store.Options{Lengths: []int{1, 2, 3}, Cap: 50})
}

func TestClassifyEnglishFrench(t *testing.T) {
	c := newClassifier(t, enFrStore(t), 0)

	testCases := []struct {
		input string
		want  string
	}{
		{"the fox jumps", "en"},
		{"le chat noir", "fr"},
		{"the quick brown fox", "en"},
		{"le renard brun rapide", "fr"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := c.Classify(tc.input)
			if !got.Matched() {
				t.Fatalf("Outcome = %s, want matched", got.Outcome)
			}
			if got.Label != tc.want {
				t.Errorf("Label = %q, want %q (distance %d, runner-up %s %d)",
					got.Label, tc.want, got.Distance, got.RunnerUp, got.RunnerUpDistance)
			}
		})
	}
}

func TestClassifySampleTextIsClosest(t *testing.T) {
	c := newClassifier(t, enFrStore(t), 0)
	got := c.Classify("the quick brown fox")
	if got.Distance != 0 {
		t.Errorf("distance to own sample = %d, want 0", got.Distance)
	}
	if got.RunnerUp != "fr" || got.RunnerUpDistance <= got.Distance {
		t.Errorf("runner-up = %s %d, want fr with a larger distance", got.RunnerUp, got.RunnerUpDistance)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	c := newClassifier(t, enFrStore(t), 0)
	for _, input := range []string{"", "   ", "\n\t"} {
		got := c.Classify(input)
		if got.Outcome != Empty {
			t.Errorf("Classify(%q) = %s, want empty", input, got.Outcome)
		}
		if got.Label != "" {
			t.Errorf("Classify(%q) leaked label %q", input, got.Label)
		}
	}
}

func TestClassifyEmptyStore(t *testing.T) {
	for _, st := range []*store.Store{nil, {}} {
		c := newClassifier(t, st, 0)
		if got := c.Classify("some text"); got.Outcome != Empty {
			t.Errorf("Outcome = %s, want empty", got.Outcome)
		}
		if got := c.Rank("some text"); got != nil {
			t.Errorf("Rank = %v, want nil", got)
		}
	}
}

func TestClassifySingleCategory(t *testing.T) {
	st := newStore(t, store.Corpus{{Label: "en", Texts: []string{"the quick brown fox"}}}, store.DefaultOptions())
	c := newClassifier(t, st, 0)
	for _, input := range []string{"the", "zzz", "le chat noir", "12345", "привет мир"} {
		got := c.Classify(input)
		if !got.Matched() || got.Label != "en" {
			t.Errorf("Classify(%q) = %s %q, want matched en", input, got.Outcome, got.Label)
		}
		if got.RunnerUp != "" {
			t.Errorf("Classify(%q) runner-up = %q, want none", input, got.RunnerUp)
		}
	}
}

func TestClassifySingleCategoryIgnoresMargin(t *testing.T) {
	st := newStore(t, store.Corpus{{Label: "en", Texts: []string{"hello"}}}, store.DefaultOptions())
	c := newClassifier(t, st, 1e9)
	if got := c.Classify("anything"); !got.Matched() {
		t.Errorf("Outcome = %s, want matched", got.Outcome)
	}
}

func TestClassifyAmbiguityMargin(t *testing.T) {
	st := enFrStore(t)
	base := newClassifier(t, st, 0).Classify("the fox jumps")
	gap := float64(base.RunnerUpDistance - base.Distance)
	if gap <= 0 {
		t.Fatalf("expected a positive gap, got %v", gap)
	}

	if got := newClassifier(t, st, gap).Classify("the fox jumps"); !got.Matched() {
		t.Errorf("margin equal to gap: Outcome = %s, want matched", got.Outcome)
	}
	got := newClassifier(t, st, gap+1).Classify("the fox jumps")
	if got.Outcome != Ambiguous {
		t.Fatalf("margin above gap: Outcome = %s, want ambiguous", got.Outcome)
	}
	if got.Label != "en" || got.RunnerUp != "fr" {
		t.Errorf("ambiguous result should still report en/fr, got %s/%s", got.Label, got.RunnerUp)
	}
}

func TestClassifyDisjointTieBreak(t *testing.T) {
	st := newStore(t, store.Corpus{
		{Label: "b", Texts: []string{"bbb bbb"}},
		{Label: "a", Texts: []string{"aaa aaa"}},
	}, store.Options{Lengths: []int{1, 2, 3}, Cap: 50})
	c := newClassifier(t, st, 0)

	scores := c.Rank("xyz")
	if len(scores) != 2 {
		t.Fatalf("Rank returned %d scores", len(scores))
	}
	if scores[0].Distance != scores[1].Distance {
		t.Fatalf("distances %d and %d should tie", scores[0].Distance, scores[1].Distance)
	}

	// only the word separator is shared, every other query n-gram costs the cap
	q := st.Profile("xyz")
	qSep, ok := q.Rank("_")
	if !ok {
		t.Fatal("query profile has no separator unigram")
	}
	for _, s := range scores {
		cat, _ := st.Category(s.Label)
		for _, ng := range q.Ngrams() {
			if _, shared := cat.Profile.Rank(ng); shared && ng != "_" {
				t.Fatalf("%s shares %q with the query", s.Label, ng)
			}
		}
		cSep, ok := cat.Profile.Rank("_")
		if !ok {
			t.Fatalf("%s has no separator unigram", s.Label)
		}
		want := (q.Len()-1)*50 + abs(qSep-cSep)
		if s.Distance != want {
			t.Errorf("%s: distance %d, want %d", s.Label, s.Distance, want)
		}
	}
	for i := 0; i < 50; i++ {
		got := c.Classify("xyz")
		if got.Label != "a" {
			t.Fatalf("call %d: Label = %q, want a (ascending label on ties)", i, got.Label)
		}
	}
}

func TestDistanceMaximumPenalty(t *testing.T) {
	const k = 10
	q, _ := profile.FromList([]string{"x", "y", "z"}, k)
	cat, _ := profile.FromList([]string{"a", "b", "c", "d"}, k)
	if got := Distance(q, cat, k); got != 3*k {
		t.Errorf("Distance = %d, want %d", got, 3*k)
	}
}

func TestDistanceRankDifferences(t *testing.T) {
	q, _ := profile.FromList([]string{"a", "b", "c"}, 10)
	cat, _ := profile.FromList([]string{"c", "a", "b"}, 10)
	// a: |0-1|, b: |1-2|, c: |2-0|
	if got := Distance(q, cat, 10); got != 4 {
		t.Errorf("Distance = %d, want 4", got)
	}
	if got := Distance(q, q, 10); got != 0 {
		t.Errorf("self distance = %d, want 0", got)
	}
	if got := Distance(profile.Build(nil, 10), cat, 10); got != 0 {
		t.Errorf("empty query distance = %d, want 0", got)
	}
}

func TestDistanceBounded(t *testing.T) {
	opts := store.Options{Lengths: []int{1, 2, 3, 4, 5}, Cap: 30}
	st := newStore(t, store.Corpus{
		{Label: "en", Texts: []string{"the quick brown fox jumps over the lazy dog"}},
		{Label: "de", Texts: []string{"der schnelle braune fuchs springt über den faulen hund"}},
	}, opts)
	c := newClassifier(t, st, 0)
	limit := opts.Cap * opts.Cap
	for _, input := range []string{"a", "zzzz qqqq wwww", "the lazy dog", "完全に無関係なテキスト"} {
		for _, s := range c.Rank(input) {
			if s.Distance < 0 || s.Distance > limit {
				t.Errorf("%q vs %s: distance %d outside [0, %d]", input, s.Label, s.Distance, limit)
			}
		}
	}
}

func TestCandidates(t *testing.T) {
	c := newClassifier(t, enFrStore(t), 0)

	got := c.Candidates("the fox jumps", DefaultCandidateRatio)
	if len(got) != 1 || got[0].Label != "en" {
		t.Errorf("Candidates(3%%) = %v, want only en", got)
	}

	got = c.Candidates("the fox jumps", 1.0)
	if len(got) != 2 {
		t.Errorf("Candidates(100%%) = %v, want both categories", got)
	}

	got = c.Candidates("the quick brown fox", -1)
	if len(got) != 1 || got[0].Distance != 0 {
		t.Errorf("Candidates with zero best = %v, want only the exact match", got)
	}

	if got := c.Candidates("  ", 0.5); got != nil {
		t.Errorf("Candidates(empty) = %v, want nil", got)
	}
}

func TestCandidatesNaNRatio(t *testing.T) {
	c := newClassifier(t, enFrStore(t), 0)
	got := c.Candidates("the fox jumps", math.NaN())
	if len(got) != 1 || got[0].Label != "en" {
		t.Errorf("Candidates(NaN) = %v, want only en", got)
	}
}

func TestWithinRatio(t *testing.T) {
	scores := []Score{{Label: "a", Distance: 101}, {Label: "b", Distance: 104}, {Label: "c", Distance: 105}}
	tests := []struct {
		name  string
		ratio float64
		want  []string
	}{
		{"unrounded threshold", 0.03, []string{"a", "b"}},
		{"zero", 0, []string{"a"}},
		{"negative", -0.5, []string{"a"}},
		{"nan", math.NaN(), []string{"a"}},
		{"inf", math.Inf(1), []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range withinRatio(slices.Clone(scores), tt.ratio) {
				got = append(got, s.Label)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("withinRatio(%v) = %v, want %v", tt.ratio, got, tt.want)
			}
		})
	}
	if got := withinRatio(nil, 0.03); got != nil {
		t.Errorf("withinRatio(nil) = %v", got)
	}
}

func TestNewRejectsInvalidMargin(t *testing.T) {
	for _, m := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := New(enFrStore(t), Options{AmbiguityMargin: m}); !errors.Is(err, ErrInvalidMargin) {
			t.Errorf("New(margin %v) err = %v, want ErrInvalidMargin", m, err)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{Empty: "empty", Matched: "matched", Ambiguous: "ambiguous", Outcome(9): "Outcome(9)"} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(o), got, want)
		}
	}
}

func TestClassifyConcurrent(t *testing.T) {
	c := newClassifier(t, enFrStore(t), 0)
	inputs := map[string]string{"the fox jumps": "en", "le chat noir": "fr"}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				for input, want := range inputs {
					if got := c.Classify(input); got.Label != want {
						t.Errorf("Classify(%q) = %q, want %q", input, got.Label, want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
