package option

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
)

// RequestOption is an option for the requests made by the orb API Client
// which can be supplied to clients, services, and methods. You can read more about this functional
// options pattern in our [README].
//
// [README]: https://pkg.go.dev/github.com/telnet2/orb-sdk-go#readme-requestoptions
type RequestOption = requestconfig.RequestOption

// WithBaseURL returns a RequestOption that sets the BaseURL for the client.
//
// For security reasons, ensure that the base URL is trusted.
func WithBaseURL(base string) RequestOption {
	u, err := url.Parse(base)
	if err == nil && u.Path != "" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return func(r *requestconfig.RequestConfig) error {
		if err != nil {
			return fmt.Errorf("requestoption: WithBaseURL failed to parse url %s: %w", base, err)
		}
		r.BaseURL = u
		return nil
	}
}

// WithEnvironmentProduction returns a RequestOption that sets the current
// environment to be the "production" environment. An environment specifies
// which base URL to use by default.
func WithEnvironmentProduction() RequestOption {
	return WithBaseURL("https://api.withorb.com/v1/")
}

// WithAPIKey returns a RequestOption that sets the client setting "api_key"
// and sends it as a bearer token.
func WithAPIKey(value string) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.APIKey = value
		r.Request.Header.Set("Authorization", "Bearer "+value)
		return nil
	}
}

// WithHTTPClient returns a RequestOption that changes the underlying http client used to make this
// request, which by default is [http.DefaultClient].
func WithHTTPClient(client *http.Client) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		if client == nil {
			return fmt.Errorf("requestoption: custom http client cannot be nil")
		}
		r.HTTPClient = client
		return nil
	}
}

// WithMaxRetries returns a RequestOption that sets the maximum number of retries that the client
// attempts to make. When given 0, the client only makes one request. By
// default, the client retries two times.
//
// WithMaxRetries panics when retries is negative.
func WithMaxRetries(retries int) RequestOption {
	if retries < 0 {
		panic("option: cannot have fewer than 0 retries")
	}
	return func(r *requestconfig.RequestConfig) error {
		r.MaxRetries = retries
		return nil
	}
}

// WithRetryBackoff sets the first and the largest delay between retries.
// Delays announced by the server with Retry-After take precedence.
func WithRetryBackoff(initial, max time.Duration) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.RetryInitialInterval = initial
		r.RetryMaxInterval = max
		return nil
	}
}

// WithRequestTimeout returns a RequestOption that sets the timeout for
// each request attempt. This should be smaller than the timeout of the
// context passed to the method, which spans all retries.
func WithRequestTimeout(dur time.Duration) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.RequestTimeout = dur
		return nil
	}
}

// WithHeader returns a RequestOption that sets the header value to the associated key. It overwrites
// any value if there was one already present.
func WithHeader(key, value string) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Set(key, value)
		return nil
	}
}

// WithHeaderAdd returns a RequestOption that adds the header value to the associated key. It appends
// onto any existing values.
func WithHeaderAdd(key, value string) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Add(key, value)
		return nil
	}
}

// WithHeaderDel returns a RequestOption that deletes the header value(s) associated with the given key.
func WithHeaderDel(key string) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Del(key)
		return nil
	}
}

// WithQuery returns a RequestOption that sets the query value to the associated key. It overwrites
// any value if there was one already present.
func WithQuery(key, value string) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		query := r.Request.URL.Query()
		query.Set(key, value)
		r.Request.URL.RawQuery = query.Encode()
		return nil
	}
}

// WithQueryDel returns a RequestOption that deletes the query value(s) associated with the key.
func WithQueryDel(key string) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		query := r.Request.URL.Query()
		query.Del(key)
		r.Request.URL.RawQuery = query.Encode()
		return nil
	}
}

// WithJSONSet returns a RequestOption that sets the body's JSON value associated with the key.
// The key accepts a string as defined by the [sjson format].
//
// [sjson format]: https://github.com/tidwall/sjson
func WithJSONSet(key string, value any) RequestOption {
	return func(r *requestconfig.RequestConfig) (err error) {
		body := r.Body
		if len(body) == 0 {
			body = []byte("{}")
		}
		if body, err = sjson.SetBytes(body, key, value); err != nil {
			return err
		}
		r.Body = body
		r.Request.Header.Set("Content-Type", "application/json")
		return nil
	}
}

// WithJSONDel returns a RequestOption that deletes the body's JSON value associated with the key.
// The key accepts a string as defined by the [sjson format].
//
// [sjson format]: https://github.com/tidwall/sjson
func WithJSONDel(key string) RequestOption {
	return func(r *requestconfig.RequestConfig) (err error) {
		if len(r.Body) == 0 {
			return nil
		}
		r.Body, err = sjson.DeleteBytes(r.Body, key)
		return err
	}
}

// WithIdempotencyKey sets the Idempotency-Key header. Without it, mutating
// requests get a generated key that is reused across their retries.
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader(requestconfig.IdempotencyHeader, key)
}

// WithLogger returns a RequestOption that replaces the logger used for
// request dispatch and retries.
func WithLogger(logger zerolog.Logger) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.Logger = logger
		return nil
	}
}

// WithResponseInto returns a RequestOption that copies the [*http.Response] into the given address.
func WithResponseInto(r **http.Response) RequestOption {
	return func(c *requestconfig.RequestConfig) error {
		c.ResponseInto = r
		return nil
	}
}

// WithResponseBodyInto returns a RequestOption that overwrites the deserialization target with
// the given destination. If provided, we don't deserialize into the default struct.
func WithResponseBodyInto(dst any) RequestOption {
	return func(r *requestconfig.RequestConfig) error {
		r.ResponseBodyInto = dst
		return nil
	}
}
