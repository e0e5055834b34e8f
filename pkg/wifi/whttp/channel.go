package whttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/asnowfix/wifictl/hlog"
	"github.com/asnowfix/wifictl/pkg/wifi/ratelimit"
)

// ErrTimeout is returned when a timeout-bounded request was aborted.
var ErrTimeout = errors.New("request timed out")

// DefaultTimeout bounds asynchronous requests to the device.
const DefaultTimeout = 1000 * time.Millisecond

// Param is one query parameter. Parameters keep the order in which they were added.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters.
type Query []Param

// Encode percent-encodes the query the way browsers encode URI components:
// spaces become %20, never '+'.
func (q Query) Encode() string {
	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(escape(p.Value))
	}
	return sb.String()
}

func escape(s string) string {
	// QueryEscape turns a literal '+' into %2B, so any remaining '+' was a space
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is in the [200,300) success range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Config struct {
	Base    *url.URL      // device base URL, e.g. http://192.168.0.1/
	Timeout time.Duration // bound of DoTimeout and Go; <= 0 means unbounded
	Client  *http.Client  // defaults to http.DefaultClient
	Limiter *ratelimit.RateLimiter
	Log     logr.Logger
}

// Channel issues requests against a device local web server.
type Channel struct {
	base    *url.URL
	timeout time.Duration
	client  *http.Client
	limiter *ratelimit.RateLimiter
	log     logr.Logger
}

func New(config Config) *Channel {
	ch := &Channel{
		base:    config.Base,
		timeout: config.Timeout,
		client:  config.Client,
		limiter: config.Limiter,
		log:     config.Log.WithName("whttp"),
	}
	if ch.client == nil {
		ch.client = http.DefaultClient
	}
	return ch
}

// Base returns the device base URL.
func (ch *Channel) Base() *url.URL {
	return ch.base
}

// Timeout returns the bound applied to DoTimeout and Go.
func (ch *Channel) Timeout() time.Duration {
	return ch.timeout
}

// URL resolves path and query against the device base URL.
func (ch *Channel) URL(path string, query Query) string {
	u := ch.base.ResolveReference(&url.URL{Path: path})
	u.RawQuery = query.Encode()
	return u.String()
}

// Do issues a blocking request bounded only by ctx.
func (ch *Channel) Do(ctx context.Context, method, path string, query Query) (*Response, error) {
	return ch.do(ctx, method, path, query)
}

// DoTimeout issues a request bounded by the channel timeout. When the timeout
// expires, the request is aborted and ErrTimeout is returned; the response, if
// any, is dropped.
func (ch *Channel) DoTimeout(ctx context.Context, method, path string, query Query) (*Response, error) {
	if ch.timeout <= 0 {
		return ch.do(ctx, method, path, query)
	}
	tctx, cancel := context.WithTimeout(ctx, ch.timeout)
	defer cancel()

	res, err := ch.do(tctx, method, path, query)
	if err != nil && ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		ch.log.V(1).Info("Aborted", "method", method, "path", path, "timeout", ch.timeout)
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
	}
	return res, err
}

// Go issues a timeout-bounded request in the background. The callback is
// invoked only with a response received in time: on timeout or transport
// error it is never invoked.
func (ch *Channel) Go(ctx context.Context, method, path string, query Query, callback func(*Response)) {
	go func() {
		res, err := ch.DoTimeout(ctx, method, path, query)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				ch.log.V(1).Info("Discarded", "method", method, "path", path, "reason", err.Error())
				return
			}
			hlog.ErrorIfNotCanceled(ch.log, err, "Request failed", "method", method, "path", path)
			return
		}
		callback(res)
	}()
}

func (ch *Channel) do(ctx context.Context, method, path string, query Query) (*Response, error) {
	if err := ch.limiter.Wait(ctx, ch.base.Host); err != nil {
		return nil, err
	}

	requestURL := ch.URL(path, query)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		ch.log.Error(err, "Error creating HTTP request", "method", method, "url", requestURL)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	ch.log.Info("Calling", "method", method, "url", redact(requestURL))
	res, err := ch.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w", method, path, err)
	}
	ch.log.V(1).Info("Status code", "method", method, "path", path, "code", res.StatusCode, "length", len(body))

	return &Response{StatusCode: res.StatusCode, Body: body}, nil
}

// redact hides the Wi-Fi key from logs
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
