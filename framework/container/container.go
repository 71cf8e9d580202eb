package container

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var containerType = reflect.TypeOf((*Container)(nil))

// ── Container ─────────────────────────────────────────────────────────────────

// Container is one resolution scope: a registration table, an ordered chain of
// custom resolvers, the constructors declared in it and an optional parent.
//
// Lookups walk outward from the scope they start in (child → parent → …) and
// stop at the first hit. When nothing is bound, Resolve auto-constructs the
// requested type from its constructors.
type Container struct {
	mu sync.RWMutex

	name   string
	parent *Container
	logger *zap.Logger

	// type → creation strategy
	registrations map[reflect.Type]*registration

	// consulted in order after registrations miss
	resolvers []Resolver

	// type → declared constructors, in declaration order
	constructors map[reflect.Type][]*Constructor

	extenders      map[reflect.Type][]Extender
	tags           map[string][]reflect.Type
	rebound        map[reflect.Type][]func(v any)
	afterResolving []func(t reflect.Type, v any)
	resolved       map[reflect.Type]bool
}

// Option configures a Container.
type Option func(c *Container)

// WithLogger sets the logger used for resolution tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithName names the scope in log output.
func WithName(name string) Option {
	return func(c *Container) { c.name = name }
}

// New creates an empty root container.
func New(opts ...Option) *Container {
	c := newContainer("root", nil, zap.NewNop())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewChild creates a scope whose lookups fall back to c. The child does not
// own c: dropping the child leaves c untouched.
func (c *Container) NewChild(opts ...Option) *Container {
	c.mu.RLock()
	logger := c.logger
	c.mu.RUnlock()

	child := newContainer(c.name+".child", c, logger)
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// NewChildScope is NewChild in function form.
func NewChildScope(parent *Container) *Container {
	return parent.NewChild()
}

func newContainer(name string, parent *Container, logger *zap.Logger) *Container {
	c := &Container{name: name, parent: parent, logger: logger}
	c.reset()
	return c
}

// reset empties every table. The caller holds c.mu or owns c exclusively.
func (c *Container) reset() {
	c.registrations = make(map[reflect.Type]*registration)
	c.resolvers = nil
	c.constructors = make(map[reflect.Type][]*Constructor)
	c.extenders = make(map[reflect.Type][]Extender)
	c.tags = make(map[string][]reflect.Type)
	c.rebound = make(map[reflect.Type][]func(v any))
	c.afterResolving = nil
	c.resolved = make(map[reflect.Type]bool)

	// A constructor asking for *Container gets the scope resolving it.
	c.registrations[containerType] = &registration{kind: KindInstance, value: reflect.ValueOf(c), built: true}
}

// Parent returns the enclosing scope, or nil for a root container.
func (c *Container) Parent() *Container { return c.parent }

// Name returns the scope name used in logs.
func (c *Container) Name() string { return c.name }

// Logger returns the scope's logger.
func (c *Container) Logger() *zap.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// SetLogger replaces the scope's logger. Children created afterwards inherit it.
func (c *Container) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// ── Registration ──────────────────────────────────────────────────────────────

// RegisterSingletonInstance binds t to a pre-built value.
//
//	c.RegisterSingletonInstance(container.TypeOf[*Config](), cfg)
func (c *Container) RegisterSingletonInstance(t reflect.Type, value any) error {
	if t == nil {
		return errors.Wrap(ErrInvalidRegistration, "nil type")
	}
	v, err := coerce(t, value)
	if err != nil {
		return err
	}
	if v, err = c.extend(t, v); err != nil {
		return err
	}
	c.register(t, &registration{kind: KindInstance, value: v, built: true})
	return nil
}

// RegisterSingletonFactory binds t to a factory run at most once per scope;
// its result is cached for the lifetime of c.
func (c *Container) RegisterSingletonFactory(t reflect.Type, factory Factory) error {
	if err := checkFactory(t, factory); err != nil {
		return err
	}
	c.register(t, &registration{kind: KindLazyFactory, producer: factory})
	return nil
}

// RegisterTransientFactory binds t to a factory run on every resolution.
func (c *Container) RegisterTransientFactory(t reflect.Type, factory Factory) error {
	if err := checkFactory(t, factory); err != nil {
		return err
	}
	c.register(t, &registration{kind: KindFactory, producer: factory})
	return nil
}

func checkFactory(t reflect.Type, factory Factory) error {
	if t == nil {
		return errors.Wrap(ErrInvalidRegistration, "nil type")
	}
	if factory == nil {
		return errors.Wrapf(ErrInvalidRegistration, "nil factory for [%s]", t)
	}
	return nil
}

// register stores one registration per type; a second call replaces the first
// and fires the Rebinding callbacks of t with the new value.
func (c *Container) register(t reflect.Type, r *registration) {
	c.mu.Lock()
	_, replaced := c.registrations[t]
	c.registrations[t] = r
	logger := c.logger
	callbacks := len(c.rebound[t])
	c.mu.Unlock()

	logger.Debug("container: registered",
		zap.String("scope", c.name),
		zap.Stringer("type", t),
		zap.Stringer("kind", r.kind),
		zap.Bool("replaced", replaced),
	)

	if !replaced || callbacks == 0 {
		return
	}
	v, err := c.resolve(t, nil)
	if err != nil {
		logger.Debug("container: rebound value unavailable", zap.Stringer("type", t), zap.Error(err))
		return
	}
	c.fireRebound(t, v.Interface())
}

// Alias binds abstract to concrete: every resolution of abstract resolves
// concrete through the engine in the requesting scope, with the explicit
// dependencies of the Resolve call in flight.
//
//	// Laravel: $app->bind(UserRepository::class, EloquentUserRepository::class)
//	c.Alias(container.TypeOf[UserRepository](), container.TypeOf[*SQLUserRepository]())
func (c *Container) Alias(abstract, concrete reflect.Type) error {
	if abstract == nil || concrete == nil {
		return errors.Wrap(ErrInvalidRegistration, "nil alias type")
	}
	if abstract == concrete {
		return errors.Wrapf(ErrInvalidRegistration, "[%s] is aliased to itself", abstract)
	}
	if !concrete.AssignableTo(abstract) {
		return errors.Wrapf(ErrInvalidRegistration, "%s is not assignable to [%s]", concrete, abstract)
	}
	c.register(abstract, &registration{kind: KindAlias, concrete: concrete})
	return nil
}

// Constructors declares constructor functions. Each fn is either a function
// returning (T) or (T, error), or a *Constructor built with NewConstructor.
// Declarations are visible to this scope and its children.
//
//	c.Constructors(NewUserService, NewUserServiceWithCache)
func (c *Container) Constructors(fns ...any) error {
	built := make([]*Constructor, 0, len(fns))
	for _, fn := range fns {
		k, ok := fn.(*Constructor)
		if !ok {
			var err error
			if k, err = NewConstructor(fn); err != nil {
				return err
			}
		}
		built = append(built, k)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range built {
		c.constructors[k.out] = append(c.constructors[k.out], k)
	}
	return nil
}

// constructorsFor returns the constructors of t from the nearest scope that
// declares any. Pointer-to-struct types without declarations get new(T).
func (c *Container) constructorsFor(t reflect.Type) []*Constructor {
	for s := c; s != nil; s = s.parent {
		s.mu.RLock()
		ks := s.constructors[t]
		s.mu.RUnlock()
		if len(ks) > 0 {
			return ks
		}
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		return []*Constructor{implicitConstructor(t)}
	}
	return nil
}

// RegisterCustomResolver appends r to this scope's resolver chain.
func (c *Container) RegisterCustomResolver(r Resolver) error {
	if r == nil {
		return errors.Wrap(ErrInvalidRegistration, "nil resolver")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolvers = append(c.resolvers, r)
	return nil
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// TryLookup consults registrations and custom resolvers of this scope and
// then of every ancestor, without auto-construction.
func (c *Container) TryLookup(t reflect.Type) (any, bool, error) {
	v, ok, err := c.lookup(t, nil)
	if err != nil || !ok {
		return nil, false, err
	}
	return v.Interface(), true, nil
}

func (c *Container) lookup(t reflect.Type, deps []any) (reflect.Value, bool, error) {
	for s := c; s != nil; s = s.parent {
		s.mu.RLock()
		reg := s.registrations[t]
		resolvers := s.resolvers
		s.mu.RUnlock()

		if reg != nil {
			v, err := reg.produce(t, s, c, deps)
			if err != nil {
				return reflect.Value{}, false, err
			}
			return v, true, nil
		}

		for _, r := range resolvers {
			if !r.CanResolve(t) {
				continue
			}
			raw, ok := r.TryResolve(t, c)
			if !ok {
				continue
			}
			v, err := coerce(t, raw)
			if err != nil {
				c.Logger().Debug("container: resolver produced unusable value",
					zap.Stringer("type", t), zap.Error(err))
				continue
			}
			return v, true, nil
		}
	}
	return reflect.Value{}, false, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether t has a registration in this scope or an ancestor.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(t reflect.Type) bool {
	for s := c; s != nil; s = s.parent {
		s.mu.RLock()
		_, ok := s.registrations[t]
		s.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}

// Bindings lists this scope's registrations as "type (kind)", sorted.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.registrations))
	for t, r := range c.registrations {
		out = append(out, fmt.Sprintf("%s (%s)", t, r.kind))
	}
	slices.Sort(out)
	return out
}
