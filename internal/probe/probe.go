package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/angeloszaimis/endpoint-race/internal/transport"
)

const reasonMismatch = "response does not match expectation"

// Request describes one endpoint probe. It is built once per race from
// configuration and never mutated.
type Request struct {
	Endpoint     string
	Path         string
	Timeout      time.Duration
	Headers      map[string]string
	ExpectedBody []byte
}

// URL returns the probed URL for this request.
func (r Request) URL() string {
	return "https://" + r.Endpoint + r.Path
}

// Outcome is the settled result of one probe. Body is set only when the
// probe succeeded; FailureReason only when it did not.
type Outcome struct {
	Endpoint      string        `json:"endpoint"`
	Elapsed       time.Duration `json:"elapsed"`
	Succeeded     bool          `json:"succeeded"`
	Body          []byte        `json:"body,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
}

// Runner executes individual probes through a transport.Sender.
type Runner struct {
	sender transport.Sender
}

func NewRunner(sender transport.Sender) *Runner {
	return &Runner{sender: sender}
}

// Probe times a single GET against the request's endpoint and validates the
// response body. Every failure mode is folded into the returned Outcome;
// Probe itself never fails.
func (r *Runner) Probe(ctx context.Context, req Request) Outcome {
	start := time.Now()

	res, err := r.sender.Send(ctx, req.URL(), req.Timeout, req.Headers)
	elapsed := time.Since(start)

	if err != nil {
		return Outcome{
			Endpoint:      req.Endpoint,
			Elapsed:       elapsed,
			FailureReason: failureReason(err, req.Timeout),
		}
	}

	if !bodiesEqual(res.Body, req.ExpectedBody) {
		return Outcome{
			Endpoint:      req.Endpoint,
			Elapsed:       elapsed,
			FailureReason: reasonMismatch,
		}
	}

	return Outcome{
		Endpoint:  req.Endpoint,
		Elapsed:   elapsed,
		Succeeded: true,
		Body:      res.Body,
	}
}

func failureReason(err error, timeout time.Duration) string {
	var terr *transport.Error
	if !errors.As(err, &terr) {
		return err.Error()
	}

	switch terr.Kind {
	case transport.KindTimeout:
		return fmt.Sprintf("request timed out after %s", timeout)
	case transport.KindHTTPStatus:
		return fmt.Sprintf("HTTP %d %s", terr.StatusCode, terr.Detail)
	case transport.KindConnection:
		return fmt.Sprintf("connection failure: %s", terr.Detail)
	default:
		return terr.Detail
	}
}

// bodiesEqual compares two payloads as canonical JSON values, so key order
// and whitespace are insignificant. Payloads that are not valid JSON fall
// back to byte equality.
func bodiesEqual(got, want []byte) bool {
	var gotVal, wantVal any

	if json.Unmarshal(got, &gotVal) != nil || json.Unmarshal(want, &wantVal) != nil {
		return bytes.Equal(got, want)
	}

	return cmp.Equal(gotVal, wantVal)
}
