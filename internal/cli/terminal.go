package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bastiangx/textcat/internal/utils"
	"github.com/bastiangx/textcat/pkg/classify"
	"github.com/bastiangx/textcat/pkg/profile"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes human readable results. Colours are only used when enabled.
type Printer struct {
	w     io.Writer
	label *color.Color
	dim   *color.Color
	warn  *color.Color
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer, colors bool) *Printer {
	p := &Printer{
		w:     w,
		label: color.New(color.FgHiCyan, color.Bold),
		dim:   color.New(color.FgHiBlack),
		warn:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.label, p.dim, p.warn} {
		if colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Result prints the outcome of one classification.
func (p *Printer) Result(res classify.Result) {
	switch res.Outcome {
	case classify.Matched:
		line := p.label.Sprint(res.Label)
		if res.RunnerUp != "" {
			line += p.dim.Sprintf("  (distance %s, next %s at %s)",
				utils.FormatWithCommas(res.Distance), res.RunnerUp, utils.FormatWithCommas(res.RunnerUpDistance))
		} else {
			line += p.dim.Sprintf("  (distance %s)", utils.FormatWithCommas(res.Distance))
		}
		fmt.Fprintln(p.w, line)
	case classify.Ambiguous:
		fmt.Fprintln(p.w, p.warn.Sprintf("ambiguous: %s or %s", res.Label, res.RunnerUp)+
			p.dim.Sprintf("  (%s vs %s)", utils.FormatWithCommas(res.Distance), utils.FormatWithCommas(res.RunnerUpDistance)))
	default:
		fmt.Fprintln(p.w, p.warn.Sprint("no n-grams to classify"))
	}
}

// Candidates prints a numbered list of scores with aligned columns.
func (p *Printer) Candidates(scores []classify.Score) {
	width := 0
	for _, s := range scores {
		width = max(width, runewidth.StringWidth(s.Label))
	}
	for i, s := range scores {
		fmt.Fprintf(p.w, "%2d. %s  %s\n", i+1,
			p.label.Sprint(runewidth.FillRight(s.Label, width)),
			p.dim.Sprint(utils.FormatWithCommas(s.Distance)))
	}
}

// Labels prints one category label per line.
func (p *Printer) Labels(labels []string) {
	for _, l := range labels {
		fmt.Fprintln(p.w, p.label.Sprint(l))
	}
}

// Ranked prints the n-grams of r starting with prefix, in rank order, up to
// limit rows (0 for all). The separator is shown as-is. Counts are printed
// when the profile has them.
func (p *Printer) Ranked(r *profile.Ranked, prefix string, limit int) error {
	type row struct {
		ngram string
		rank  int
	}
	var rows []row
	err := r.VisitPrefix(prefix, func(ng string, rank int) error {
		rows = append(rows, row{ng, rank})
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortFunc(rows, func(a, b row) int { return a.rank - b.rank })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	width := 0
	for _, rw := range rows {
		width = max(width, runewidth.StringWidth(rw.ngram))
	}
	for _, rw := range rows {
		var b strings.Builder
		fmt.Fprintf(&b, "%5d  %s", rw.rank, p.label.Sprint(runewidth.FillRight(rw.ngram, width)))
		if n := r.Count(rw.ngram); n > 0 {
			b.WriteString("  " + p.dim.Sprint(utils.FormatWithCommas(n)))
		}
		fmt.Fprintln(p.w, b.String())
	}
	return nil
}
