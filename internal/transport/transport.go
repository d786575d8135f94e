package transport

import (
	"context"
	"fmt"
	"time"
)

// Kind classifies a transport failure.
type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindHTTPStatus Kind = "http_status"
	KindConnection Kind = "connection"
	KindOther      Kind = "other"
)

// Response is a successful transfer: a status code in [200, 300) and the
// raw response body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Error is a classified transport failure. StatusCode is set only for
// KindHTTPStatus.
type Error struct {
	Kind       Kind
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("request timed out: %s", e.Detail)
	case KindHTTPStatus:
		return fmt.Sprintf("unexpected status HTTP %d %s", e.StatusCode, e.Detail)
	case KindConnection:
		return fmt.Sprintf("connection failure: %s", e.Detail)
	default:
		return e.Detail
	}
}

// Sender performs a single GET against a URL. Implementations return either
// a Response or an *Error; every failure mode maps to one of the Kind values.
type Sender interface {
	Send(ctx context.Context, url string, timeout time.Duration, headers map[string]string) (*Response, error)
}
