package container

import (
	"reflect"

	"github.com/pkg/errors"
)

// Factory builds a value for a registered type.
//
// Singleton factories receive the scope that owns the registration; transient
// factories receive the scope the value was requested from.
type Factory func(c *Container) (any, error)

// Kind is the creation strategy of a registration.
type Kind int

const (
	// KindInstance is a pre-built singleton value.
	KindInstance Kind = iota
	// KindLazyFactory is a singleton built on first use.
	KindLazyFactory
	// KindFactory is transient: its factory runs on every resolution.
	KindFactory
	// KindAlias resolves another type through the engine on every resolution.
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindLazyFactory:
		return "singleton"
	case KindFactory:
		return "transient"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// registration binds one type to a creation strategy inside one scope.
type registration struct {
	kind     Kind
	producer Factory
	value    reflect.Value
	built    bool
	concrete reflect.Type
}

// produce returns the value of the registration. owner is the scope holding
// the registration, requester the scope the lookup started from. deps are the
// explicit dependencies of the Resolve call in flight; only aliases use them.
func (r *registration) produce(t reflect.Type, owner, requester *Container, deps []any) (reflect.Value, error) {
	switch r.kind {
	case KindInstance:
		owner.mu.RLock()
		defer owner.mu.RUnlock()
		return r.value, nil

	case KindAlias:
		v, err := requester.resolve(r.concrete, deps)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.Set(v)
		return requester.extend(t, out)

	case KindLazyFactory:
		owner.mu.RLock()
		if r.built {
			v := r.value
			owner.mu.RUnlock()
			return v, nil
		}
		owner.mu.RUnlock()

		v, err := r.call(t, owner)
		if err != nil {
			return reflect.Value{}, err
		}

		// Two first-time resolutions may race; the first stored value wins.
		owner.mu.Lock()
		defer owner.mu.Unlock()
		if !r.built {
			r.value = v
			r.built = true
		}
		return r.value, nil

	default:
		return r.call(t, requester)
	}
}

func (r *registration) call(t reflect.Type, c *Container) (reflect.Value, error) {
	raw, err := r.producer(c)
	if err != nil {
		return reflect.Value{}, errors.Wrapf(err, "container: factory for [%s] failed", typeName(t))
	}
	v, err := coerce(t, raw)
	if err != nil {
		return reflect.Value{}, err
	}
	return c.extend(t, v)
}

// coerce turns a produced value into a reflect.Value of exactly type t.
func coerce(t reflect.Type, raw any) (reflect.Value, error) {
	if raw == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.Wrapf(ErrInvalidRegistration, "nil produced for non-nillable [%s]", typeName(t))
	}
	v := reflect.ValueOf(raw)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, errors.Wrapf(ErrInvalidRegistration, "%s is not assignable to [%s]", v.Type(), typeName(t))
	}
	out := reflect.New(t).Elem()
	out.Set(v)
	return out, nil
}
