// Package classify picks the category whose profile is closest to a text.
//
// Closeness is the out-of-place distance: the sum, over every n-gram of the
// text's profile, of how far its rank moved in the category profile. N-grams
// the category lacks cost a fixed penalty equal to the profile cap. Lower is
// closer.
//
// Classify returns a tagged Result so "no confident match" (Ambiguous) and "no
// data to compare" (Empty) stay distinguishable from a match. A Classifier only
// reads its store and is safe for concurrent use.
package classify

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/bastiangx/textcat/pkg/profile"
	"github.com/bastiangx/textcat/pkg/store"
)

// DefaultCandidateRatio keeps categories within 3% of the best distance.
const DefaultCandidateRatio = 0.03

var ErrInvalidMargin = errors.New("classify: ambiguity margin must be a non-negative number")

// Outcome tags a Result.
type Outcome int

const (
	Empty     Outcome = iota // zero value, nothing to compare
	Matched                  // a single best category
	Ambiguous                // best and runner-up too close to call
)

var outcomeNames = [...]string{
	Empty:     "empty",
	Matched:   "matched",
	Ambiguous: "ambiguous",
}

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	if int(o) >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is the outcome of one classification.
//
// For Ambiguous results Label still names the closest category, for diagnostics
// only. RunnerUp is empty when the store holds a single category.
type Result struct {
	Outcome          Outcome
	Label            string
	Distance         int
	RunnerUp         string
	RunnerUpDistance int
}

// Matched reports whether the result names a confident category.
func (r Result) Matched() bool {
	return r.Outcome == Matched
}

// Score is a category's distance to a text.
type Score struct {
	Label    string
	Distance int
}

// Options tunes the confidence gate.
type Options struct {
	// AmbiguityMargin is the minimum gap between the best and second-best
	// distance for a match. 0 always picks the best.
	AmbiguityMargin float64
}

// Classifier ranks texts against a store.
type Classifier struct {
	store   *store.Store
	margin  float64
	penalty int
}

// New returns a classifier over st. A nil or empty store is allowed and
// classifies everything as Empty.
func New(st *store.Store, opts Options) (*Classifier, error) {
	if m := opts.AmbiguityMargin; m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidMargin, opts.AmbiguityMargin)
	}
	return &Classifier{
		store:   st,
		margin:  opts.AmbiguityMargin,
		penalty: st.Options().Cap,
	}, nil
}

// Store returns the store the classifier reads.
func (c *Classifier) Store() *store.Store {
	return c.store
}

// Classify returns the closest category for text, or an Ambiguous or Empty
// result when there is no confident answer.
func (c *Classifier) Classify(text string) Result {
	scores := c.Rank(text)
	if len(scores) == 0 {
		return Result{}
	}

	best := scores[0]
	res := Result{Outcome: Matched, Label: best.Label, Distance: best.Distance}
	if len(scores) > 1 {
		second := scores[1]
		res.RunnerUp = second.Label
		res.RunnerUpDistance = second.Distance
		if float64(second.Distance-best.Distance) < c.margin {
			res.Outcome = Ambiguous
		}
	}
	return res
}

// Rank scores every category against text, closest first. Equal distances
// are ordered by label. It returns nil when the store is empty or text has no
// n-grams.
func (c *Classifier) Rank(text string) []Score {
	if c.store.Len() == 0 {
		return nil
	}
	q := c.store.Profile(text)
	if q.Empty() {
		return nil
	}

	categories := c.store.Categories()
	scores := make([]Score, len(categories))
	for i, cat := range categories {
		scores[i] = Score{Label: cat.Label, Distance: Distance(q, cat.Profile, c.penalty)}
	}
	slices.SortFunc(scores, func(a, b Score) int {
		if a.Distance != b.Distance {
			return cmp.Compare(a.Distance, b.Distance)
		}
		return strings.Compare(a.Label, b.Label)
	})
	return scores
}

// Candidates returns the categories whose distance is below (1+ratio) times
// the best one. The best category is always included. A negative or NaN ratio
// is treated as 0.
func (c *Classifier) Candidates(text string, ratio float64) []Score {
	return withinRatio(c.Rank(text), ratio)
}

// withinRatio keeps the prefix of the sorted scores below (1+ratio)*best.
// The threshold is not rounded, so 104 is within 3% of 101.
func withinRatio(scores []Score, ratio float64) []Score {
	if len(scores) == 0 {
		return nil
	}
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	threshold := (1 + ratio) * float64(scores[0].Distance)
	out := scores[:1]
	for _, s := range scores[1:] {
		if float64(s.Distance) >= threshold {
			break
		}
		out = append(out, s)
	}
	return out
}

// Distance is the out-of-place distance from query q to category profile c.
// Every n-gram of q adds the absolute difference of its two ranks, or penalty
// when c does not contain it.
func Distance(q, c *profile.Ranked, penalty int) int {
	total := 0
	for rank := 0; rank < q.Len(); rank++ {
		crank, ok := c.Rank(q.At(rank))
		if !ok {
			total += penalty
			continue
		}
		total += abs(rank - crank)
	}
	return total
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
