package requestconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/telnet2/orb-sdk-go/internal"
	"github.com/telnet2/orb-sdk-go/internal/apierror"
	"github.com/telnet2/orb-sdk-go/internal/logging"
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 2
	// DefaultRetryInitialInterval is the first backoff delay.
	DefaultRetryInitialInterval = 500 * time.Millisecond
	// DefaultRetryMaxInterval caps the backoff delay.
	DefaultRetryMaxInterval = 8 * time.Second
	// maxRetryAfter is the longest server-provided delay that is honoured.
	maxRetryAfter = 60 * time.Second

	IdempotencyHeader = "Idempotency-Key"
)

// RequestOption mutates a RequestConfig. See the option package for the
// public constructors.
type RequestOption = func(*RequestConfig) error

// RequestConfig represents all the state related to one request.
type RequestConfig struct {
	MaxRetries           int
	RequestTimeout       time.Duration
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	Context              context.Context
	Request              *http.Request
	BaseURL              *url.URL
	HTTPClient           *http.Client
	APIKey               string
	Logger               zerolog.Logger
	// Body is the encoded JSON request body, nil when there is none.
	Body []byte
	// ResponseBodyInto is the destination the response body is decoded into.
	// A **http.Response receives the raw response with its body unread.
	ResponseBodyInto any
	// ResponseInto receives the raw response after the body was read.
	ResponseInto **http.Response
}

type urlQuerier interface {
	URLQuery() (url.Values, error)
}

// pageConfigurer is implemented by pagination pages, which need the request
// that produced them to fetch the next page.
type pageConfigurer interface {
	SetPageConfig(*RequestConfig, *http.Response)
}

// NewRequestConfig builds the request for path u, which is resolved against
// the base URL at execution. Params implementing URLQuery contribute query
// parameters; for methods other than GET, HEAD and DELETE params are also
// encoded as the JSON body. Bytes and readers are sent verbatim.
func NewRequestConfig(ctx context.Context, method string, u string, params any, dst any, opts ...RequestOption) (*RequestConfig, error) {
	if q, ok := params.(urlQuerier); ok {
		values, err := q.URLQuery()
		if err != nil {
			return nil, err
		}
		if encoded := values.Encode(); encoded != "" {
			u = u + "?" + encoded
		}
	}

	var body []byte
	if params != nil && hasBody(method) {
		var err error
		switch p := params.(type) {
		case []byte:
			body = p
		case json.RawMessage:
			body = p
		case io.Reader:
			if body, err = io.ReadAll(p); err != nil {
				return nil, fmt.Errorf("requestconfig: reading request body: %w", err)
			}
		default:
			if body, err = json.Marshal(params); err != nil {
				return nil, fmt.Errorf("requestconfig: encoding request body: %w", err)
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("Orb/Go %s", internal.PackageVersion))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	cfg := RequestConfig{
		MaxRetries:           DefaultMaxRetries,
		RetryInitialInterval: DefaultRetryInitialInterval,
		RetryMaxInterval:     DefaultRetryMaxInterval,
		Context:              ctx,
		Request:              req,
		HTTPClient:           http.DefaultClient,
		Logger:               logging.Logger,
		Body:                 body,
		ResponseBodyInto:     dst,
	}
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func hasBody(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return false
	}
	return true
}

// Apply applies opts in order.
func (cfg *RequestConfig) Apply(opts ...RequestOption) error {
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy of the config bound to ctx, without its destinations.
func (cfg *RequestConfig) Clone(ctx context.Context) *RequestConfig {
	if cfg == nil {
		return nil
	}
	clone := *cfg
	clone.Context = ctx
	clone.Request = cfg.Request.Clone(ctx)
	clone.Body = append([]byte(nil), cfg.Body...)
	clone.ResponseBodyInto = nil
	clone.ResponseInto = nil
	return &clone
}

// Execute sends the request, retrying as configured, and decodes the response
// into ResponseBodyInto.
func (cfg *RequestConfig) Execute() error {
	if cfg.BaseURL == nil {
		return errors.New("requestconfig: base url is not set")
	}
	cfg.Request.URL = cfg.BaseURL.ResolveReference(cfg.Request.URL)
	if hasBody(cfg.Request.Method) && cfg.Request.Header.Get(IdempotencyHeader) == "" {
		cfg.Request.Header.Set(IdempotencyHeader, ulid.Make().String())
	}

	log := cfg.Logger.With().
		Str("method", cfg.Request.Method).
		Str("url", cfg.Request.URL.String()).
		Logger()
	bo := cfg.newBackoff()

	var (
		res     *http.Response
		err     error
		attempt int
		cancel  context.CancelFunc = func() {}
	)
	for {
		attempt++
		ctx := cfg.Context
		if cfg.RequestTimeout > 0 {
			ctx, cancel = context.WithTimeout(cfg.Context, cfg.RequestTimeout)
		}
		req := cfg.Request.Clone(ctx)
		if cfg.Body != nil {
			req.Body = io.NopCloser(bytes.NewReader(cfg.Body))
			req.ContentLength = int64(len(cfg.Body))
			req.GetBody = func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(cfg.Body)), nil
			}
		}
		if attempt > 1 {
			req.Header.Set("X-Orb-Retry-Count", strconv.Itoa(attempt-1))
		}

		start := time.Now()
		res, err = cfg.HTTPClient.Do(req)
		event := log.Debug().Int("attempt", attempt).Dur("latency", time.Since(start))
		if res != nil {
			event = event.Int("status", res.StatusCode)
		}
		event.Err(err).Msg("orb request")

		if cfg.Context.Err() != nil || attempt > cfg.MaxRetries || !shouldRetry(res, err) {
			break
		}

		wait := retryDelay(res, bo)
		if res != nil {
			_, _ = io.Copy(io.Discard, res.Body)
			res.Body.Close()
		}
		cancel()
		log.Warn().Int("attempt", attempt).Dur("wait", wait).Err(err).Msg("retrying orb request")

		timer := time.NewTimer(wait)
		select {
		case <-cfg.Context.Done():
			timer.Stop()
			return &apierror.ConnectionError{
				Method:   cfg.Request.Method,
				URL:      cfg.Request.URL.String(),
				Attempts: attempt,
				Err:      cfg.Context.Err(),
			}
		case <-timer.C:
		}
	}
	if err != nil {
		cancel()
		return &apierror.ConnectionError{
			Method:   cfg.Request.Method,
			URL:      cfg.Request.URL.String(),
			Attempts: attempt,
			Err:      err,
		}
	}

	if raw, ok := cfg.ResponseBodyInto.(**http.Response); ok && res.StatusCode < 400 {
		res.Body = &cancelOnClose{ReadCloser: res.Body, cancel: cancel}
		if cfg.ResponseInto != nil {
			*cfg.ResponseInto = res
		}
		*raw = res
		return nil
	}

	contents, err := io.ReadAll(res.Body)
	res.Body.Close()
	cancel()
	if err != nil {
		return fmt.Errorf("requestconfig: reading response body: %w", err)
	}
	res.Body = io.NopCloser(bytes.NewReader(contents))

	if res.StatusCode >= 400 {
		aerr := &apierror.Error{
			StatusCode: res.StatusCode,
			Request:    cfg.Request,
			Response:   res,
			Body:       string(contents),
		}
		_ = json.Unmarshal(contents, &aerr.Bag)
		return aerr
	}

	if cfg.ResponseInto != nil {
		*cfg.ResponseInto = res
	}
	if cfg.ResponseBodyInto == nil || len(bytes.TrimSpace(contents)) == 0 {
		return nil
	}
	if err := json.Unmarshal(contents, cfg.ResponseBodyInto); err != nil {
		return fmt.Errorf("error parsing response json: %w", err)
	}
	setPageConfig(cfg.ResponseBodyInto, cfg, res)
	return nil
}

// cancelOnClose releases the attempt's timeout context once the caller is
// done with a streamed body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelOnClose) Close() error {
	err := r.ReadCloser.Close()
	r.cancel()
	return err
}

func setPageConfig(dst any, cfg *RequestConfig, res *http.Response) {
	v := reflect.ValueOf(dst)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		if p, ok := v.Interface().(pageConfigurer); ok {
			p.SetPageConfig(cfg, res)
			return
		}
		v = v.Elem()
	}
}

func (cfg *RequestConfig) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RetryInitialInterval
	b.MaxInterval = cfg.RetryMaxInterval
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0.25
	b.Multiplier = 2.0
	b.Reset()
	return b
}

func shouldRetry(res *http.Response, err error) bool {
	if err != nil {
		return true
	}
	switch res.Header.Get("x-should-retry") {
	case "true":
		return true
	case "false":
		return false
	}
	switch res.StatusCode {
	case http.StatusRequestTimeout, http.StatusConflict, http.StatusTooManyRequests:
		return true
	}
	return res.StatusCode >= 500
}

func retryDelay(res *http.Response, bo backoff.BackOff) time.Duration {
	if res != nil {
		if d, ok := retryAfter(res.Header); ok && d > 0 && d <= maxRetryAfter {
			return d
		}
	}
	d := bo.NextBackOff()
	if d == backoff.Stop {
		return DefaultRetryMaxInterval
	}
	return d
}

func retryAfter(h http.Header) (time.Duration, bool) {
	if ms, err := strconv.ParseFloat(h.Get("Retry-After-Ms"), 64); err == nil {
		return time.Duration(ms * float64(time.Millisecond)), true
	}
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), true
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t), true
	}
	return 0, false
}

// ExecuteNewRequest builds and executes a request in one step.
func ExecuteNewRequest(ctx context.Context, method string, u string, params any, dst any, opts ...RequestOption) error {
	cfg, err := NewRequestConfig(ctx, method, u, params, dst, opts...)
	if err != nil {
		return err
	}
	return cfg.Execute()
}
