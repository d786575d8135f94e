package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// HTTPSender is the production Sender over net/http. A single client is
// shared across all probes; per-call deadlines come from the request context.
type HTTPSender struct {
	client *http.Client
}

func NewHTTPSender() *HTTPSender {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &HTTPSender{
		client: &http.Client{Transport: transport},
	}
}

func (s *HTTPSender) Send(ctx context.Context, rawURL string, timeout time.Duration, headers map[string]string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindOther, Detail: err.Error()}
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &Error{Kind: KindTimeout, Detail: err.Error()}
		}
		return nil, &Error{Kind: KindOther, Detail: err.Error()}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{
			Kind:       KindHTTPStatus,
			StatusCode: res.StatusCode,
			Detail:     http.StatusText(res.StatusCode),
		}
	}

	return &Response{StatusCode: res.StatusCode, Body: body}, nil
}

func classify(err error) *Error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Detail: err.Error()}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var opErr *net.OpError
		var dnsErr *net.DNSError
		if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.Is(err, io.EOF) {
			return &Error{Kind: KindConnection, Detail: urlErr.Err.Error()}
		}
		return &Error{Kind: KindOther, Detail: urlErr.Err.Error()}
	}

	return &Error{Kind: KindOther, Detail: err.Error()}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
