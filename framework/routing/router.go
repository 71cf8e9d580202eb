package routing

import (
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
)

// Router wraps chi.Router with Laravel-style helpers and resolves
// controllers and actions from a per-request child scope of app.
type Router struct {
	mux    chi.Router
	app    *container.Container
	logger *zap.Logger
}

// New creates a Router with RealIP, request logging, a request scope and
// Recoverer installed. It is itself a constructor the container can auto-wire.
func New(app *container.Container, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger(logger))
	r.Use(RequestScope(app))
	r.Use(middleware.Recoverer)
	return &Router{mux: r, app: app, logger: logger}
}

func (r *Router) sub(mx chi.Router) *Router {
	return &Router{mux: mx, app: r.app, logger: r.logger}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group. Laravel: Route::group([], fn)
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

// Prefix creates a sub-router with a URL prefix. Laravel: Route::prefix('/api')
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Resource routes ──────────────────────────────────────────────────────────

// ResourceController handles the standard RESTful routes of a resource.
//
//	GET    /photos           → c.Index
//	POST   /photos           → c.Store
//	GET    /photos/{id}      → c.Show
//	PUT    /photos/{id}      → c.Update
//	DELETE /photos/{id}      → c.Destroy
type ResourceController interface {
	Index(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
}

var resourceControllerType = reflect.TypeOf((*ResourceController)(nil)).Elem()

// Resource registers RESTful routes for controller, a type implementing
// ResourceController. A fresh controller is resolved from the request scope
// on every request, so its constructor can ask for request-level services.
//
//	r.Resource("/photos", container.TypeOf[*PhotoController]())
func (r *Router) Resource(pattern string, controller reflect.Type) {
	if !controller.Implements(resourceControllerType) {
		panic("routing: " + controller.String() + " does not implement ResourceController")
	}
	action := func(pick func(ResourceController) http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			v, err := ScopeOf(req).Resolve(controller, w, req)
			if err != nil {
				r.fail(w, req, err)
				return
			}
			pick(v.(ResourceController))(w, req)
		}
	}
	r.mux.Get(pattern, action(func(c ResourceController) http.HandlerFunc { return c.Index }))
	r.mux.Post(pattern, action(func(c ResourceController) http.HandlerFunc { return c.Store }))
	r.mux.Get(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Show }))
	r.mux.Put(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Update }))
	r.mux.Patch(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Update }))
	r.mux.Delete(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Destroy }))
}

// ── Static files ─────────────────────────────────────────────────────────────

// Static serves a filesystem at the given prefix.
// e.g. router.Static("/public", "./public")
func (r *Router) Static(prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.mux.Get(prefix+"/*", fs.ServeHTTP)
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param, like $request->route('id')
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
