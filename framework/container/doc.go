// Package container provides a Laravel-style IoC container for Go that can
// auto-wire objects from their constructors.
//
// # Overview
//
// A Container is a resolution scope holding registrations, custom resolvers
// and constructor declarations. Scopes form a hierarchy: a child falls back to
// its parent for anything it does not bind itself, and its own bindings shadow
// the parent's.
//
//	app := container.New(container.WithLogger(logger))
//	request := app.NewChild()
//
// # Registrations
//
//	// Pre-built value
//	// Laravel: $app->instance(Config::class, $config)
//	container.Instance(app, cfg)
//
//	// Singleton: built on first use, cached for the scope's lifetime
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache)
//	container.Singleton(app, func(c *container.Container) (*RedisCache, error) {
//	    return NewRedisCache(container.MustResolve[*Config](c)), nil
//	})
//
//	// Transient: factory runs on every resolution
//	container.Bind(app, func(c *container.Container) (*Report, error) { return &Report{}, nil })
//
//	// Interface → implementation
//	container.Implement[UserRepository, *SQLUserRepository](app)
//
// # Auto-wiring
//
// When nothing is bound, Resolve builds the type from its constructors.
// Constructors are plain functions returning T or (T, error):
//
//	app.Constructors(NewUserService, NewUserServiceWithCache)
//	svc, err := container.Resolve[*UserService](app)
//
// Each parameter is taken from a registration, a declared default (see
// WithDefault), or a nested Resolve. A nested failure leaves that argument at
// its zero value. Candidates are scored with one point per resolved argument
// plus 0.2 per non-scalar parameter and tried heaviest first; equal scores
// prefer more parameters. The first constructor that neither panics nor
// returns an error wins. A pointer-to-struct type with no declared
// constructor is built with new(T).
//
// Value types (numbers, bools, arrays, structs) that are not bound resolve to
// their zero value. Strings, other scalars and interfaces that are not bound
// fail with an UnresolvedDependencyError.
//
// Values passed to Resolve after the type are explicit dependencies: they
// satisfy any requested type they are assignable to, at every depth of that
// one call.
//
//	page, err := container.Resolve[*ReportPage](app, output)
//
// Constructors must build something auto-construction can reach: a pointer,
// map, channel, function or slice of non-scalars. Interfaces are bound with
// Alias or Bind, and scalars and value types with Instance or Bind.
//
// # Decorators, tags and callbacks
//
//	// wrap every Logger this scope builds
//	app.Extend(container.TypeOf[Logger](), func(v any, c *container.Container) any {
//	    return NewTimestampLogger(v.(Logger))
//	})
//
//	app.Tag("reports", container.TypeOf[*CpuReport](), container.TypeOf[*MemoryReport]())
//	reports, err := app.Tagged("reports")
//
//	app.AfterResolving(func(t reflect.Type, v any) { log.Debug("resolved", zap.Stringer("type", t)) })
//
// # Custom resolvers
//
//	// anything implementing Template comes from the template loader
//	app.WhenImplements(container.TypeOf[Template]()).Give(loader.Resolve)
//
// # Concurrency
//
// Registration is expected to finish before the first Resolve. Singleton
// factories are not once-guarded: two goroutines resolving a singleton for the
// first time at once may both run its factory. Only the first stored value is
// kept and both callers receive it.
//
// Circular constructor graphs are not detected and overflow the stack.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Constructors(NewMailer)
//	}
//
//	registry := container.NewProviderRegistry(app)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container
