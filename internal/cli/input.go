// Package cli classifies text typed on the command line, for testing profiles
// interactively.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/textcat/pkg/classify"
	"github.com/bastiangx/textcat/pkg/config"
	"github.com/charmbracelet/log"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// InputHandler reads lines of text and prints the category of each. Options
// come from the [cli] and [classify] config sections.
type InputHandler struct {
	classifier     *classify.Classifier
	printer        *Printer
	in             io.Reader
	out            io.Writer
	prompt         bool
	showCandidates bool
	candidateRatio float64
	candidateLimit int
	requestCount   int
}

// NewInputHandler builds a handler. prompt enables the "> " prompt and colours,
// which only make sense when in and out are a terminal.
func NewInputHandler(classifier *classify.Classifier, cfg *config.Config, in io.Reader, out io.Writer, prompt bool) *InputHandler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &InputHandler{
		classifier:     classifier,
		printer:        NewPrinter(out, prompt),
		in:             in,
		out:            out,
		prompt:         prompt,
		showCandidates: cfg.CLI.ShowCandidates,
		candidateRatio: cfg.Classify.CandidateRatio,
		candidateLimit: cfg.CLI.CandidateLimit,
	}
}

// Start classifies every non-blank input line until EOF.
func (h *InputHandler) Start() error {
	if h.prompt {
		fmt.Fprintf(h.out, "textcat: %d categories loaded. Type some text, press enter (Ctrl+D to exit)\n",
			h.classifier.Store().Len())
	}

	scanner := bufio.NewScanner(h.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for {
		if h.prompt {
			fmt.Fprint(h.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		h.Classify(text)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cli: reading input: %w", err)
	}
	log.Debugf("Input closed after %d requests", h.requestCount)
	return nil
}

// Classify prints the result for one text. When the answer is ambiguous, or
// candidates are enabled and more than one category is close, the candidate
// list follows.
func (h *InputHandler) Classify(text string) {
	h.requestCount++

	start := time.Now()
	res := h.classifier.Classify(text)
	log.Debugf("Took [ %v ] to classify %d bytes", time.Since(start), len(text))

	h.printer.Result(res)
	if res.Outcome == classify.Empty || !h.showCandidates {
		return
	}

	candidates := h.classifier.Candidates(text, h.candidateRatio)
	if res.Outcome == classify.Matched && len(candidates) < 2 {
		return
	}
	if h.candidateLimit > 0 && len(candidates) > h.candidateLimit {
		candidates = candidates[:h.candidateLimit]
	}
	h.printer.Candidates(candidates)
}
