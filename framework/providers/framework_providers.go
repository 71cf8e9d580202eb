package providers

import (
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/routing"
	"github.com/km-arc/go-container/framework/view"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env.
//
// Bound types:
//   - *config.Config
//   - every section pointer (*config.AppConfig, *config.LogConfig, ...),
//     served by a custom resolver
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	_ = container.Singleton(app, func(c *container.Container) (*config.Config, error) {
		return config.Load(envFiles...), nil
	})
	_ = app.When(config.IsSection).Give(func(t reflect.Type, c *container.Container) (any, bool) {
		cfg, err := container.Resolve[*config.Config](c)
		if err != nil {
			return nil, false
		}
		return config.Section(cfg, t)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from the log section and makes
// it the container's own logger once booted.
//
// Bound types:
//   - *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	_ = container.Singleton(app, func(c *container.Container) (*zap.Logger, error) {
		cfg, err := container.Resolve[*config.Config](c)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log, cfg.App.Env)
	})
}

func (p *LoggingServiceProvider) Boot(app *container.Container) {
	logger := container.MustResolve[*zap.Logger](app)
	app.SetLogger(logger)
	app.AfterResolving(func(t reflect.Type, _ any) {
		logger.Debug("container: resolved", zap.Stringer("type", t))
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router and the constructors of the
// request and response wrappers, which request scopes auto-wire.
//
// Bound types:
//   - *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	_ = app.Constructors(gohttp.NewRequest, gohttp.NewResponse)
	_ = container.Singleton(app, func(c *container.Container) (*routing.Router, error) {
		return invoke[*routing.Router](c, routing.New)
	})
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider registers the template engine, configured from the
// view section.
//
// Bound types:
//   - *view.Engine
//
// Laravel equivalent:
//
//	// Illuminate\View\ViewServiceProvider
//	$app->singleton('view', fn($app) => new Factory(...));
type ViewServiceProvider struct {
	container.BaseProvider
}

func (p *ViewServiceProvider) Register(app *container.Container) {
	_ = container.Singleton(app, func(c *container.Container) (*view.Engine, error) {
		return invoke[*view.Engine](c, view.New)
	})
}

// invoke calls a constructor through the container and returns its result.
func invoke[T any](c *container.Container, fn any) (T, error) {
	var zero T
	out, err := c.Invoke(fn)
	if err != nil {
		return zero, err
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, errors.Errorf("providers: %T did not return %s", fn, container.TypeOf[T]())
	}
	return v, nil
}
