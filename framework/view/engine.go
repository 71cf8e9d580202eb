// Package view renders html/template files for view models built by the
// container.
//
// A view model is any type implementing View. Its constructor can ask for
// services like any other and for the *Output of the render in progress:
//
//	type UserPage struct {
//	    Out   *view.Output
//	    Users []User
//	}
//
//	func NewUserPage(out *view.Output, repo UserRepository) *UserPage { ... }
//	func (p *UserPage) Template() string { return "users/index" }
//
//	err := engine.Render(w, container.TypeOf[*UserPage]())
package view

import (
	"bytes"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
)

// View is a view model. Template names the file to execute, relative to the
// engine's directory and without extension.
type View interface {
	Template() string
}

// Output describes where a render is going. It is passed to every render as
// an explicit dependency. Path is empty when rendering to a plain writer.
type Output struct {
	Path     string
	Template string
}

// Engine holds a template directory and a cache of parsed templates.
type Engine struct {
	dir    string
	ext    string
	scope  *container.Container
	logger *zap.Logger
	cache  *templateCache
}

type templateCache struct {
	mu        sync.Mutex
	templates map[string]*template.Template
}

// New creates an Engine that builds view models from app.
func New(app *container.Container, cfg *config.ViewConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir, ext := "./views", ".html"
	if cfg != nil {
		if cfg.Dir != "" {
			dir = cfg.Dir
		}
		if cfg.Ext != "" {
			ext = cfg.Ext
		}
	}
	return &Engine{
		dir:    dir,
		ext:    ext,
		scope:  app,
		logger: logger,
		cache:  &templateCache{templates: make(map[string]*template.Template)},
	}
}

// In returns an Engine that builds view models from scope instead, sharing
// the template cache.
//
//	engine.In(routing.ScopeOf(r)).View(w, container.TypeOf[*UserPage]())
func (e *Engine) In(scope *container.Container) *Engine {
	cp := *e
	cp.scope = scope
	return &cp
}

// Render resolves viewType with deps and an *Output, then executes its
// template into w.
func (e *Engine) Render(w io.Writer, viewType reflect.Type, deps ...any) error {
	return e.render(w, &Output{}, viewType, deps)
}

// RenderFile is like Render but writes to path, creating parent directories.
func (e *Engine) RenderFile(path string, viewType reflect.Type, deps ...any) error {
	var buf bytes.Buffer
	if err := e.render(&buf, &Output{Path: path}, viewType, deps); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "view: create output directory")
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "view: write %s", path)
}

// View renders into an HTTP response, answering 500 on failure.
func (e *Engine) View(w http.ResponseWriter, viewType reflect.Type, deps ...any) {
	var buf bytes.Buffer
	if err := e.Render(&buf, viewType, deps...); err != nil {
		e.logger.Error("view: render failed", zap.Stringer("view", viewType), zap.Error(err))
		http.Error(w, "Template render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (e *Engine) render(w io.Writer, out *Output, viewType reflect.Type, deps []any) error {
	if e.scope == nil {
		return errors.New("view: engine has no container")
	}
	v, err := e.scope.Resolve(viewType, append([]any{out}, deps...)...)
	if err != nil {
		return errors.Wrapf(err, "view: resolve %s", viewType)
	}
	model, ok := v.(View)
	if !ok {
		return errors.Errorf("view: %s does not implement view.View", viewType)
	}
	out.Template = model.Template()

	tmpl, err := e.load(out.Template)
	if err != nil {
		return err
	}
	e.logger.Debug("view: rendering",
		zap.String("template", out.Template),
		zap.String("path", out.Path),
	)
	return errors.Wrapf(tmpl.Execute(w, model), "view: execute %s", out.Template)
}

func (e *Engine) load(name string) (*template.Template, error) {
	e.cache.mu.Lock()
	defer e.cache.mu.Unlock()
	if tmpl, ok := e.cache.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := template.ParseFiles(filepath.Join(e.dir, name+e.ext))
	if err != nil {
		return nil, errors.Wrapf(err, "view: template %q not found", name)
	}
	e.cache.templates[name] = tmpl
	return tmpl, nil
}
