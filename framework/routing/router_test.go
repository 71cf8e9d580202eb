package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func newRouter() *routing.Router {
	return routing.New(container.New(), nil)
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := newRouter()
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Patch("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPatch, "/users/1"},
		{http.MethodDelete, "/users/1"},
	}
	for _, tt := range tests {
		if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d want 200", tt.method, tt.path, rr.Code)
		}
	}
}

func TestRouter_Any(t *testing.T) {
	r := newRouter()
	r.Any("/ping", okHandler)

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		rr := do(t, r, method, "/ping")
		if rr.Code != http.StatusOK {
			t.Errorf("ANY %s /ping: got %d want 200", method, rr.Code)
		}
	}
}

func TestRouter_NotFound(t *testing.T) {
	rr := do(t, newRouter(), http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := newRouter()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "id")))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if rr.Body.String() != "42" {
		t.Errorf("got body %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := newRouter()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/users"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/users: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/users"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /users: expected 404, got %d", rr.Code)
	}
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := newRouter()
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/protected")
	if !called {
		t.Error("expected middleware to be called")
	}
}

// ── Resource routes ───────────────────────────────────────────────────────────

type stubController struct{}

func (s *stubController) Index(w http.ResponseWriter, r *http.Request)   { w.WriteHeader(200) }
func (s *stubController) Store(w http.ResponseWriter, r *http.Request)   { w.WriteHeader(201) }
func (s *stubController) Show(w http.ResponseWriter, r *http.Request)    { w.WriteHeader(200) }
func (s *stubController) Update(w http.ResponseWriter, r *http.Request)  { w.WriteHeader(200) }
func (s *stubController) Destroy(w http.ResponseWriter, r *http.Request) { w.WriteHeader(204) }

func TestRouter_Resource(t *testing.T) {
	r := newRouter()
	r.Resource("/photos", container.TypeOf[*stubController]())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/photos", 200},
		{"POST", "/photos", 201},
		{"GET", "/photos/1", 200},
		{"PUT", "/photos/1", 200},
		{"PATCH", "/photos/1", 200},
		{"DELETE", "/photos/1", 204},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, r, tt.method, tt.path)
			if rr.Code != tt.want {
				t.Errorf("got %d want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRouter_Resource_RejectsNonController(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a type without resource methods")
		}
	}()
	newRouter().Resource("/photos", container.TypeOf[*struct{}]())
}

func TestRouter_HandlerInterface(t *testing.T) {
	r := newRouter()
	r.Get("/ping", okHandler)
	var _ http.Handler = r.Handler()
}
