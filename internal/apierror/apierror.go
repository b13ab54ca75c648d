package apierror

import (
	"fmt"
	"net/http"
	"net/http/httputil"

	"github.com/telnet2/orb-sdk-go/packages/bag"
)

// Error represents an error that originates from the API, i.e. when a request
// completes with a non-2xx status code. The decoded error body is held in the
// embedded bag; bodies that are not JSON objects are kept in Body.
type Error struct {
	bag.Bag
	StatusCode int
	Request    *http.Request
	Response   *http.Response
	Body       string
}

// Type is the documentation URL identifying the error kind.
func (r *Error) Type() (bag.Opt[string], error) {
	return bag.GetOptional[string](&r.Bag, "type")
}

// Title is a short summary of the error kind.
func (r *Error) Title() (bag.Opt[string], error) {
	return bag.GetOptional[string](&r.Bag, "title")
}

// Detail describes this occurrence of the error.
func (r *Error) Detail() (bag.Opt[string], error) {
	return bag.GetOptional[string](&r.Bag, "detail")
}

// ValidationErrors lists the offending request fields, for 400 responses.
func (r *Error) ValidationErrors() (bag.Opt[[]any], error) {
	return bag.GetOptional[[]any](&r.Bag, "validation_errors")
}

func (r *Error) Error() string {
	body := r.Body
	if r.Len() > 0 {
		body = r.String()
	}
	return fmt.Sprintf("%s %q: %d %s %s", r.Request.Method, r.Request.URL, r.StatusCode, http.StatusText(r.StatusCode), body)
}

func (r *Error) DumpRequest(body bool) []byte {
	if r.Request.GetBody != nil {
		r.Request.Body, _ = r.Request.GetBody()
	}
	out, _ := httputil.DumpRequestOut(r.Request, body)
	return out
}

func (r *Error) DumpResponse(body bool) []byte {
	out, _ := httputil.DumpResponse(r.Response, body)
	return out
}

// ConnectionError is returned when a request could not be completed at the
// transport level, after all retries.
type ConnectionError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %q: request failed after %d attempt(s): %v", e.Method, e.URL, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
