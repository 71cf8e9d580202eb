package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
	"github.com/km-arc/go-container/framework/view"
)

// BindingsPath lists the root container's bindings when APP_DEBUG is on.
const BindingsPath = "/_container/bindings"

// Application is the top-level application container.
// It embeds the root Container and a ProviderRegistry so user code can
// declare constructors and register providers on app directly, like $app
// in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the root container and registers the framework providers.
func New(envFiles ...string) *Application {
	c := container.New(container.WithName("app"))
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	// Register framework core providers (same order as Laravel)
	registry.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&providers.LoggingServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})
	registry.Register(&providers.ViewServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers and, in debug mode, mounts the
// bindings endpoint. Later calls are no-ops.
func (a *Application) Boot() {
	if a.Providers.Booted() {
		return
	}
	a.Providers.Boot()
	if a.IsDebug() {
		a.Router().Get(BindingsPath, a.bindings)
	}
}

func (a *Application) bindings(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(a.Bindings())
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container)
}

// Views resolves *view.Engine from the container.
func (a *Application) Views() *view.Engine {
	return container.MustResolve[*view.Engine](a.Container)
}

// Run boots the application and serves HTTP until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	a.Boot()
	cfg := a.Config()
	logger := a.Logger()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("app", cfg.App.Name),
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
