package container

import "reflect"

// Resolver is a predicate-guarded fallback consulted when a scope has no
// registration for a type. The first resolver whose CanResolve is true and
// whose TryResolve reports ok wins.
type Resolver interface {
	CanResolve(t reflect.Type) bool
	TryResolve(t reflect.Type, c *Container) (any, bool)
}

// ResolverFunc adapts a pair of functions to Resolver.
type ResolverFunc struct {
	Match func(t reflect.Type) bool
	Give  func(t reflect.Type, c *Container) (any, bool)
}

// CanResolve implements Resolver.
func (f ResolverFunc) CanResolve(t reflect.Type) bool { return f.Match(t) }

// TryResolve implements Resolver.
func (f ResolverFunc) TryResolve(t reflect.Type, c *Container) (any, bool) { return f.Give(t, c) }

// ResolverBuilder implements the fluent resolver API.
//
//	// Laravel: $app->when(PhotoController::class)->needs(Filesystem::class)->give(...)
//	c.WhenAssignableTo(container.TypeOf[Filesystem]()).Give(func(t reflect.Type, c *container.Container) (any, bool) {
//	    return filesystem.NewS3(...), true
//	})
type ResolverBuilder struct {
	container *Container
	match     func(t reflect.Type) bool
}

// When starts a resolver for every type matching match.
func (c *Container) When(match func(t reflect.Type) bool) *ResolverBuilder {
	return &ResolverBuilder{container: c, match: match}
}

// WhenAssignableTo starts a resolver for every requested type that target is
// assignable to. For an interface target that means "any interface it
// satisfies", for a concrete target the type itself.
func (c *Container) WhenAssignableTo(target reflect.Type) *ResolverBuilder {
	return c.When(func(t reflect.Type) bool {
		return target.AssignableTo(t)
	})
}

// WhenImplements starts a resolver for every concrete type implementing iface.
//
//	c.WhenImplements(container.TypeOf[Template]()).Give(templateFactory)
func (c *Container) WhenImplements(iface reflect.Type) *ResolverBuilder {
	return c.When(func(t reflect.Type) bool {
		return t.Kind() != reflect.Interface && t.Implements(iface)
	})
}

// Give registers fn as the resolver body.
func (b *ResolverBuilder) Give(fn func(t reflect.Type, c *Container) (any, bool)) error {
	return b.container.RegisterCustomResolver(ResolverFunc{Match: b.match, Give: fn})
}

// GiveValue is a shorthand for Give when every matching type gets value.
//
//	c.When(isTemplateDir).GiveValue("/tmp/templates")
func (b *ResolverBuilder) GiveValue(value any) error {
	return b.Give(func(reflect.Type, *Container) (any, bool) { return value, true })
}
