package container

import (
	"reflect"

	"github.com/pkg/errors"
)

// Extender decorates a value of an extended type. It returns the value to
// use in place of v, which must still be assignable to that type.
type Extender func(v any, c *Container) any

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates every value of t that this scope or its children build
// from a registration or a constructor. Extenders of outer scopes run first.
// A value already built in this scope is decorated immediately and the
// Rebinding callbacks of t fire with the result.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend(container.TypeOf[Logger](), func(v any, c *container.Container) any {
//	    return NewTimestampLogger(v.(Logger))
//	})
func (c *Container) Extend(t reflect.Type, fn Extender) error {
	if t == nil || fn == nil {
		return errors.Wrap(ErrInvalidRegistration, "nil extender")
	}

	c.mu.Lock()
	c.extenders[t] = append(c.extenders[t], fn)
	reg := c.registrations[t]
	var current reflect.Value
	if reg != nil && reg.kind != KindAlias && reg.built {
		current = reg.value
	}
	c.mu.Unlock()

	if !current.IsValid() {
		return nil
	}
	v, err := coerce(t, fn(current.Interface(), c))
	if err != nil {
		return errors.Wrapf(err, "extender of [%s]", typeName(t))
	}
	c.mu.Lock()
	reg.value = v
	c.mu.Unlock()

	c.fireRebound(t, v.Interface())
	return nil
}

// extend runs the extenders of t visible from c over v.
func (c *Container) extend(t reflect.Type, v reflect.Value) (reflect.Value, error) {
	var chain [][]Extender
	for s := c; s != nil; s = s.parent {
		s.mu.RLock()
		if exts := s.extenders[t]; len(exts) > 0 {
			chain = append(chain, exts)
		}
		s.mu.RUnlock()
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, ext := range chain[i] {
			out, err := coerce(t, ext(v.Interface(), c))
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "extender of [%s]", typeName(t))
			}
			v = out
		}
	}
	return v, nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag groups types under a name.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag("reports", container.TypeOf[*CpuReport](), container.TypeOf[*MemoryReport]())
func (c *Container) Tag(tag string, types ...reflect.Type) error {
	for _, t := range types {
		if t == nil {
			return errors.Wrapf(ErrInvalidRegistration, "nil type tagged %q", tag)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], types...)
	return nil
}

// Tagged resolves every type tagged with tag, outer scopes' tags first.
//
//	// Laravel: $app->tagged('reports')
//	reports, err := c.Tagged("reports")
func (c *Container) Tagged(tag string, deps ...any) ([]any, error) {
	var chain [][]reflect.Type
	for s := c; s != nil; s = s.parent {
		s.mu.RLock()
		if types := s.tags[tag]; len(types) > 0 {
			chain = append(chain, types)
		}
		s.mu.RUnlock()
	}

	var out []any
	for i := len(chain) - 1; i >= 0; i-- {
		for _, t := range chain[i] {
			v, err := c.resolve(t, deps)
			if err != nil {
				return nil, errors.Wrapf(err, "tag %q", tag)
			}
			out = append(out, v.Interface())
		}
	}
	return out, nil
}

// ── State ─────────────────────────────────────────────────────────────────────

// Resolved reports whether t has been resolved through c at least once.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolved[t]
}

// Forget removes the registration of t from this scope, so lookups fall back
// to the parent or to auto-construction. The scope's own *Container binding
// cannot be forgotten.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(t reflect.Type) {
	if t == containerType {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registrations, t)
	delete(c.resolved, t)
}

// Flush resets the scope to its freshly created state. Resolvers installed
// by a ProviderRegistry are removed too.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers cb to run with the new value whenever t is registered
// again in this scope or a built value of t is extended.
//
//	// Laravel: $app->rebinding(UserRepository::class, fn($app, $repo) => ...)
func (c *Container) Rebinding(t reflect.Type, cb func(v any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebound[t] = append(c.rebound[t], cb)
}

// AfterResolving registers cb to run after every successful resolution
// through this scope or its children, nested parameter resolutions included.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(t reflect.Type, v any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireRebound(t reflect.Type, v any) {
	c.mu.RLock()
	cbs := c.rebound[t]
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(v)
	}
}

// fireAfterResolving marks t resolved in c and runs the callbacks of c and
// its ancestors, innermost first.
func (c *Container) fireAfterResolving(t reflect.Type, v reflect.Value) {
	c.mu.Lock()
	c.resolved[t] = true
	c.mu.Unlock()

	for s := c; s != nil; s = s.parent {
		s.mu.RLock()
		cbs := s.afterResolving
		s.mu.RUnlock()
		for _, cb := range cbs {
			cb(t, v.Interface())
		}
	}
}
