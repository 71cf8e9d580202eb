package routing

import (
	"context"
	"net/http"
	"reflect"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
)

// RequestID identifies one request. It is registered in every request scope
// and echoed in the X-Request-Id response header.
type RequestID string

// RequestIDHeader is the header carrying the RequestID.
const RequestIDHeader = "X-Request-Id"

type scopeKey struct{}

// RequestScope opens a child scope of app for every request. The scope holds
// the RequestID, the *http.Request and the http.ResponseWriter, so anything
// resolved from it can depend on them.
func RequestScope(app *container.Container) func(http.Handler) http.Handler {
	if app == nil {
		app = container.New()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			scope := app.NewChild(container.WithName("request." + id))

			r = r.WithContext(context.WithValue(r.Context(), scopeKey{}, scope))
			_ = container.Instance(scope, RequestID(id))
			_ = container.Instance(scope, r)
			_ = container.Instance[http.ResponseWriter](scope, w)

			next.ServeHTTP(w, r)
		})
	}
}

// ScopeOf returns the request scope opened by RequestScope. Outside of it a
// fresh standalone scope is returned.
func ScopeOf(r *http.Request) *container.Container {
	if scope, ok := r.Context().Value(scopeKey{}).(*container.Container); ok {
		return scope
	}
	return container.New()
}

// Logger logs one line per request with zap.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", w.Header().Get(RequestIDHeader)),
			)
		})
	}
}

// Action adapts fn into a handler whose parameters are resolved from the
// request scope, with the ResponseWriter and Request as explicit dependencies.
//
//	r.Get("/users", r.Action(func(svc *UserService) ([]User, error) {
//	    return svc.All()
//	}))
//
// A returned error becomes a 500 JSON response. Otherwise a single non-error
// result is written as 200 {"data": result}; a function with no such result
// is expected to write the response itself.
func (r *Router) Action(fn any) http.HandlerFunc {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		panic("routing: Action needs a function")
	}
	return func(w http.ResponseWriter, req *http.Request) {
		out, err := ScopeOf(req).Invoke(fn, w, req)
		if err != nil {
			r.fail(w, req, err)
			return
		}
		for i, v := range out {
			if ft.Out(i) == errorType {
				continue
			}
			gohttp.NewResponse(w).Success(v)
			return
		}
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error) {
	r.logger.Error("http handler failed",
		zap.String("path", req.URL.Path),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.Error(err),
	)
	gohttp.NewResponse(w).ServerError(err.Error())
}
