package probe_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/endpoint-race/internal/probe"
	"github.com/angeloszaimis/endpoint-race/internal/transport"
)

func TestProbe(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Probe Suite")
}

// stubSender scripts one transport result and records the sent request.
type stubSender struct {
	res     *transport.Response
	err     error
	delay   time.Duration
	gotURL  string
	gotHdrs map[string]string
}

func (s *stubSender) Send(ctx context.Context, url string, timeout time.Duration, headers map[string]string) (*transport.Response, error) {
	s.gotURL = url
	s.gotHdrs = headers
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.res, s.err
}

var _ = Describe("Runner", func() {
	var (
		sender *stubSender
		runner *probe.Runner
		req    probe.Request
	)

	BeforeEach(func() {
		sender = &stubSender{}
		runner = probe.NewRunner(sender)
		req = probe.Request{
			Endpoint:     "cdn-eu.example.com",
			Path:         "/v1/manifest",
			Timeout:      time.Second,
			Headers:      map[string]string{"Accept": "application/json"},
			ExpectedBody: []byte(`{"id":1,"name":"manifest"}`),
		}
	})

	Describe("Probe", func() {
		It("builds the probed URL from endpoint and path", func() {
			sender.res = &transport.Response{StatusCode: 200, Body: req.ExpectedBody}

			runner.Probe(context.Background(), req)

			Expect(sender.gotURL).To(Equal("https://cdn-eu.example.com/v1/manifest"))
			Expect(sender.gotHdrs).To(HaveKeyWithValue("Accept", "application/json"))
		})

		It("succeeds when the body matches the expected payload", func() {
			sender.res = &transport.Response{StatusCode: 200, Body: req.ExpectedBody}

			out := runner.Probe(context.Background(), req)

			Expect(out.Succeeded).To(BeTrue())
			Expect(out.Endpoint).To(Equal("cdn-eu.example.com"))
			Expect(out.Body).To(Equal(req.ExpectedBody))
			Expect(out.FailureReason).To(BeEmpty())
		})

		It("treats key order and whitespace as insignificant", func() {
			sender.res = &transport.Response{
				StatusCode: 200,
				Body:       []byte(`{ "name": "manifest", "id": 1 }`),
			}

			out := runner.Probe(context.Background(), req)

			Expect(out.Succeeded).To(BeTrue())
		})

		It("fails with a mismatch reason when values differ", func() {
			sender.res = &transport.Response{
				StatusCode: 200,
				Body:       []byte(`{"id":2,"name":"manifest"}`),
			}

			out := runner.Probe(context.Background(), req)

			Expect(out.Succeeded).To(BeFalse())
			Expect(out.FailureReason).To(Equal("response does not match expectation"))
			Expect(out.Body).To(BeEmpty())
		})

		It("compares non-JSON payloads byte for byte", func() {
			req.ExpectedBody = []byte("pong")
			sender.res = &transport.Response{StatusCode: 200, Body: []byte("pong")}

			out := runner.Probe(context.Background(), req)

			Expect(out.Succeeded).To(BeTrue())
		})

		It("records elapsed time on success", func() {
			sender.res = &transport.Response{StatusCode: 200, Body: req.ExpectedBody}
			sender.delay = 30 * time.Millisecond

			out := runner.Probe(context.Background(), req)

			Expect(out.Elapsed).To(BeNumerically(">=", 30*time.Millisecond))
		})

		It("records elapsed time on failure", func() {
			sender.err = &transport.Error{Kind: transport.KindConnection, Detail: "connection refused"}
			sender.delay = 30 * time.Millisecond

			out := runner.Probe(context.Background(), req)

			Expect(out.Succeeded).To(BeFalse())
			Expect(out.Elapsed).To(BeNumerically(">=", 30*time.Millisecond))
		})

		It("reports a timeout with the configured limit", func() {
			sender.err = &transport.Error{Kind: transport.KindTimeout, Detail: "context deadline exceeded"}

			out := runner.Probe(context.Background(), req)

			Expect(out.Succeeded).To(BeFalse())
			Expect(out.FailureReason).To(Equal("request timed out after 1s"))
		})

		It("reports HTTP status failures with code and reason phrase", func() {
			sender.err = &transport.Error{
				Kind:       transport.KindHTTPStatus,
				StatusCode: http.StatusInternalServerError,
				Detail:     "Internal Server Error",
			}

			out := runner.Probe(context.Background(), req)

			Expect(out.FailureReason).To(Equal("HTTP 500 Internal Server Error"))
		})

		It("reports connection failures distinctly", func() {
			sender.err = &transport.Error{Kind: transport.KindConnection, Detail: "connection refused"}

			out := runner.Probe(context.Background(), req)

			Expect(out.FailureReason).To(Equal("connection failure: connection refused"))
		})

		It("passes through unclassified failure details", func() {
			sender.err = &transport.Error{Kind: transport.KindOther, Detail: "stream reset"}

			out := runner.Probe(context.Background(), req)

			Expect(out.FailureReason).To(Equal("stream reset"))
		})
	})
})
