/*
Package server implements msgpack IPC for text classification.

Clients write a stream of msgpack requests to the server's stdin and read one
msgpack response per request from its stdout. Logs go to stderr, so stdout
carries nothing but responses. Requests are handled synchronously and in
order.

# IPC

Every request carries an ID, which is echoed in the response, and an action.
A request without an action is a classify request:

	{"id": "req_001", "t": "der schnelle braune Fuchs"}

The server answers with the closest category and the runner-up:

	{"id": "req_001", "s": "matched", "lb": "de", "d": 61803, "ru": "nl", "rd": 70512, "t": 412}

The status is "matched", "ambiguous" when the runner-up is within the
configured margin, or "empty" when the text has no n-grams or no profiles are
loaded.

Candidate lists use the distance ratio from config unless the request sets one:

	{"id": "req_002", "action": "candidates", "t": "o comboio chegou", "r": 0.05}

Other actions:

	{"id": "req_003", "action": "categories"}
	{"id": "req_004", "action": "health"}

Texts longer than the configured max_text_bytes are cut at a rune boundary
before classification, and the response is flagged with "tr": true.

Failures are reported as an ErrorResponse with an HTTP-like code. A stream
that stops decoding ends the session.
*/
package server

// Request actions.
const (
	ActionClassify   = "classify"
	ActionCandidates = "candidates"
	ActionCategories = "categories"
	ActionHealth     = "health"
)

// Request is a client message. Ratio and Limit only apply to candidates.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action,omitempty"`
	Text   string   `msgpack:"t"`
	Ratio  *float64 `msgpack:"r,omitempty"`
	Limit  int      `msgpack:"l,omitempty"`
}

// ClassifyResponse - classification result
type ClassifyResponse struct {
	ID               string `msgpack:"id"`
	Status           string `msgpack:"s"`
	Label            string `msgpack:"lb,omitempty"`
	Distance         int    `msgpack:"d"`
	RunnerUp         string `msgpack:"ru,omitempty"`
	RunnerUpDistance int    `msgpack:"rd,omitempty"`
	Truncated        bool   `msgpack:"tr,omitempty"`
	TimeTaken        int64  `msgpack:"t"`
}

// Candidate - one entry of a candidate list
type Candidate struct {
	Label    string `msgpack:"lb"`
	Distance int    `msgpack:"d"`
}

// CandidatesResponse - candidate list, closest first
type CandidatesResponse struct {
	ID         string      `msgpack:"id"`
	Candidates []Candidate `msgpack:"c"`
	Count      int         `msgpack:"n"`
	Truncated  bool        `msgpack:"tr,omitempty"`
	TimeTaken  int64       `msgpack:"t"`
}

// CategoriesResponse - loaded categories and the options they were built with
type CategoriesResponse struct {
	ID         string   `msgpack:"id"`
	Categories []string `msgpack:"categories"`
	Lengths    []int    `msgpack:"lengths"`
	Cap        int      `msgpack:"cap"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID         string `msgpack:"id,omitempty"`
	Status     string `msgpack:"status"`
	Categories int    `msgpack:"categories"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
