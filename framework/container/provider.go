package container

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations, like Laravel's
// Illuminate\Support\ServiceProvider.
//
// Register binds services; Boot runs after every provider has registered and
// may resolve anything.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    container.Singleton(app, func(c *container.Container) (*Mailer, error) {
//	        return container.Resolve[*Mailer](c)
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container)

	// Provides lists the types a deferred provider registers.
	Provides() []reflect.Type

	// IsDeferred defers Register until one of Provides() is first resolved.
	//
	//	// Laravel: protected $defer = true;
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op implementation of Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)        {}
func (p *BaseProvider) Provides() []reflect.Type { return nil }
func (p *BaseProvider) IsDeferred() bool         { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers, loading deferred ones on
// demand.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Container
	eager      []ServiceProvider
	deferred   map[reflect.Type]ServiceProvider // provided type → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app. Deferred providers are
// served through a custom resolver installed on app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[reflect.Type]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	_ = app.RegisterCustomResolver(ResolverFunc{Match: r.isDeferred, Give: r.loadDeferred})
	return r
}

// Register adds a provider and calls its Register method unless it is deferred.
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, t := range provider.Provides() {
			r.deferred[t] = provider
		}
		r.mu.Unlock()
		return
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}
}

func (r *ProviderRegistry) isDeferred(t reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.deferred[t]
	return ok
}

// loadDeferred registers the provider owning t, then looks t up again.
func (r *ProviderRegistry) loadDeferred(t reflect.Type, c *Container) (any, bool) {
	r.mu.Lock()
	provider, ok := r.deferred[t]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	for _, provided := range provider.Provides() {
		delete(r.deferred, provided)
	}
	booted := r.booted
	r.mu.Unlock()

	r.app.Logger().Debug("container: loading deferred provider", zap.Stringer("type", t))
	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}

	v, found, err := c.TryLookup(t)
	if err != nil || !found {
		return nil, false
	}
	return v, true
}

// Boot calls Boot on all eager providers. Later calls are no-ops.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
