package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/bastiangx/textcat/internal/logger"
	"github.com/bastiangx/textcat/internal/utils"
	"github.com/bastiangx/textcat/pkg/classify"
	"github.com/bastiangx/textcat/pkg/config"
	clog "github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for text classification
type Server struct {
	classifier *classify.Classifier
	config     *config.Config
	dec        *msgpack.Decoder
	enc        *msgpack.Encoder
	out        *bufio.Writer
	log        *clog.Logger

	requestCount int
}

// NewServer creates a server reading stdin and writing stdout.
func NewServer(classifier *classify.Classifier, cfg *config.Config) *Server {
	return NewServerWithIO(classifier, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over arbitrary streams. A nil cfg uses
// the defaults.
func NewServerWithIO(classifier *classify.Classifier, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		classifier: classifier,
		config:     cfg,
		dec:        msgpack.NewDecoder(bufio.NewReader(r)),
		enc:        msgpack.NewEncoder(out),
		out:        out,
		log:        logger.New("server"),
	}
}

// Start sends the ready message and serves requests until the input ends.
// A clean EOF returns nil.
func (s *Server) Start() error {
	s.log.Debug("Starting server", "categories", s.classifier.Store().Len(),
		"max_text_bytes", s.config.Server.MaxTextBytes)

	if err := s.send(StatusResponse{Status: "ready", Categories: s.classifier.Store().Len()}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Client closed the stream", "requests", s.requestCount)
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("server: decoding request: %w", err)
		}
		s.requestCount++
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	if req.ID == "" {
		return s.sendError("", "missing 'id' field", 400)
	}

	switch req.Action {
	case "", ActionClassify:
		return s.handleClassify(req)
	case ActionCandidates:
		return s.handleCandidates(req)
	case ActionCategories:
		return s.handleCategories(req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok", Categories: s.classifier.Store().Len()})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleClassify(req Request) error {
	text, truncated := s.clip(req)

	start := time.Now()
	res := s.classifier.Classify(text)
	elapsed := time.Since(start)

	return s.send(ClassifyResponse{
		ID:               req.ID,
		Status:           res.Outcome.String(),
		Label:            res.Label,
		Distance:         res.Distance,
		RunnerUp:         res.RunnerUp,
		RunnerUpDistance: res.RunnerUpDistance,
		Truncated:        truncated,
		TimeTaken:        elapsed.Microseconds(),
	})
}

func (s *Server) handleCandidates(req Request) error {
	ratio := s.config.Classify.CandidateRatio
	if req.Ratio != nil {
		ratio = *req.Ratio
	}
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 0 {
		return s.sendError(req.ID, fmt.Sprintf("ratio must be a non-negative number, got %v", ratio), 400)
	}
	text, truncated := s.clip(req)

	start := time.Now()
	scores := s.classifier.Candidates(text, ratio)
	elapsed := time.Since(start)

	if req.Limit > 0 && len(scores) > req.Limit {
		scores = scores[:req.Limit]
	}
	candidates := make([]Candidate, len(scores))
	for i, sc := range scores {
		candidates[i] = Candidate{Label: sc.Label, Distance: sc.Distance}
	}
	return s.send(CandidatesResponse{
		ID:         req.ID,
		Candidates: candidates,
		Count:      len(candidates),
		Truncated:  truncated,
		TimeTaken:  elapsed.Microseconds(),
	})
}

func (s *Server) handleCategories(req Request) error {
	st := s.classifier.Store()
	opts := st.Options()
	return s.send(CategoriesResponse{
		ID:         req.ID,
		Categories: st.Labels(),
		Lengths:    opts.Lengths,
		Cap:        opts.Cap,
	})
}

// clip applies max_text_bytes to the request text.
func (s *Server) clip(req Request) (string, bool) {
	text, truncated := utils.TruncateUTF8(req.Text, s.config.Server.MaxTextBytes)
	if truncated {
		s.log.Debugf("Request %s: text truncated from %d to %d bytes", req.ID, len(req.Text), len(text))
	}
	return text, truncated
}

// send encodes one response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("server: encoding response: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("server: writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	s.log.Debug("Request failed", "id", id, "error", message, "code", code)
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
