package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// MockAPI is an HTTP server that serves canned Orb API responses under /v1
// and records the requests it receives.
type MockAPI struct {
	server *httptest.Server
	router chi.Router

	mu       sync.Mutex
	requests []MockRequest
}

// MockRequest records an incoming request for verification.
type MockRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// NewMockAPI starts a mock API server. Routes are registered relative to /v1.
func NewMockAPI() *MockAPI {
	m := &MockAPI{router: chi.NewRouter()}

	root := chi.NewRouter()
	root.Use(m.record)
	root.Mount("/v1", m.router)
	root.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	m.server = httptest.NewServer(root)
	return m
}

// URL returns the base URL to configure clients with.
func (m *MockAPI) URL() string {
	return m.server.URL + "/v1/"
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Handle registers a handler for method and pattern, e.g. "/customers/{id}".
func (m *MockAPI) Handle(method, pattern string, h http.HandlerFunc) {
	m.router.MethodFunc(method, pattern, h)
}

// JSON registers a fixed JSON response.
func (m *MockAPI) JSON(method, pattern string, status int, body string) {
	m.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Sequence registers responses served in turn; the last one repeats.
func (m *MockAPI) Sequence(method, pattern string, responses ...Response) {
	var (
		mu sync.Mutex
		n  int
	)
	m.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		res := responses[min(n, len(responses)-1)]
		n++
		mu.Unlock()
		for k, v := range res.Header {
			w.Header().Set(k, v)
		}
		WriteJSON(w, res.Status, res.Body)
	})
}

// Response is one canned response of a Sequence.
type Response struct {
	Status int
	Header map[string]string
	Body   string
}

// Requests returns all recorded requests.
func (m *MockAPI) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockRequest(nil), m.requests...)
}

// LastRequest returns the most recent request, or nil.
func (m *MockAPI) LastRequest() *MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	r := m.requests[len(m.requests)-1]
	return &r
}

func (m *MockAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		m.mu.Lock()
		m.requests = append(m.requests, MockRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		m.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes body with the given status as application/json.
func WriteJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
