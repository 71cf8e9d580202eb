package container

import (
	"fmt"
	"reflect"
)

// TypeOf returns the reflect.Type of T, interfaces included.
//
//	container.TypeOf[io.Writer]()  // the interface type, not a concrete one
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Resolve is the typed form of (*Container).Resolve.
//
//	svc, err := container.Resolve[*UserService](c)
func Resolve[T any](c *Container, deps ...any) (T, error) {
	var zero T
	v, err := c.resolve(TypeOf[T](), deps)
	if err != nil {
		return zero, err
	}
	// comma-ok: a nil interface value asserts to the zero T
	out, _ := v.Interface().(T)
	return out, nil
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container, deps ...any) T {
	v, err := Resolve[T](c, deps...)
	if err != nil {
		panic(fmt.Sprintf("container: MustResolve[%s]: %v", TypeOf[T](), err))
	}
	return v
}

// Instance registers value as the singleton for T.
//
//	// Laravel: $app->instance(Config::class, $config)
func Instance[T any](c *Container, value T) error {
	return c.RegisterSingletonInstance(TypeOf[T](), value)
}

// Singleton registers a lazily built singleton for T.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
func Singleton[T any](c *Container, factory func(c *Container) (T, error)) error {
	return c.RegisterSingletonFactory(TypeOf[T](), wrap(factory))
}

// Bind registers a transient factory for T.
//
//	// Laravel: $app->bind(Report::class, fn($app) => new Report)
func Bind[T any](c *Container, factory func(c *Container) (T, error)) error {
	return c.RegisterTransientFactory(TypeOf[T](), wrap(factory))
}

// Implement aliases the abstraction I to the concrete type C.
func Implement[I, C any](c *Container) error {
	return c.Alias(TypeOf[I](), TypeOf[C]())
}

func wrap[T any](factory func(c *Container) (T, error)) Factory {
	if factory == nil {
		return nil
	}
	return func(c *Container) (any, error) {
		return factory(c)
	}
}
