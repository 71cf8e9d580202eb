package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

// Request wraps *http.Request with Laravel-style helpers. NewRequest is a
// plain constructor, so a request scope can auto-wire it from the
// *http.Request it holds.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// Bind decodes a JSON body into v.
func (req *Request) Bind(v any) error {
	if req.raw == nil || req.raw.Body == nil {
		return errors.New("empty request body")
	}
	defer req.raw.Body.Close()
	body, err := io.ReadAll(req.raw.Body)
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	return errors.Wrap(json.Unmarshal(body, v), "decode body")
}

// Input returns a query-string or form value.
func (req *Request) Input(key string, fallback ...string) string {
	_ = req.raw.ParseForm()
	return or(req.raw.FormValue(key), fallback)
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	return or(req.raw.URL.Query().Get(key), fallback)
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// BearerToken extracts the token from Authorization: Bearer <token>.
func (req *Request) BearerToken() string {
	auth := req.raw.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return ""
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// IsJSON returns true when the request sends or expects JSON.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.raw.Header.Get("Content-Type"), "application/json")
}

func or(v string, fallback []string) string {
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}
