package container

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor is a function the container may call to build a value of its
// first result type. A second result, when present, must be an error.
type Constructor struct {
	fn       reflect.Value
	out      reflect.Type
	params   []reflect.Type
	defaults map[int]reflect.Value
	fallible bool
	implicit bool
}

// ConstructorOption customises a Constructor.
type ConstructorOption func(k *Constructor) error

// WithDefault declares a default for the parameter at index. It is used when
// nothing is registered for the parameter type. A nil value means the
// parameter's zero value.
func WithDefault(index int, value any) ConstructorOption {
	return func(k *Constructor) error {
		if index < 0 || index >= len(k.params) {
			return errors.Wrapf(ErrInvalidConstructor, "default index %d out of range for %s", index, k.fn.Type())
		}
		pt := k.params[index]
		if value == nil {
			k.defaults[index] = reflect.Zero(pt)
			return nil
		}
		v, err := coerce(pt, value)
		if err != nil {
			return errors.Wrapf(err, "default for parameter %d of %s", index, k.fn.Type())
		}
		k.defaults[index] = v
		return nil
	}
}

// NewConstructor validates fn and applies opts.
//
//	k, err := container.NewConstructor(NewMailer, container.WithDefault(1, 25))
func NewConstructor(fn any, opts ...ConstructorOption) (*Constructor, error) {
	if fn == nil {
		return nil, errors.Wrap(ErrInvalidConstructor, "nil function")
	}
	v := reflect.ValueOf(fn)
	ft := v.Type()
	if ft.Kind() != reflect.Func {
		return nil, errors.Wrapf(ErrInvalidConstructor, "%s is not a function", ft)
	}
	if v.IsNil() {
		return nil, errors.Wrapf(ErrInvalidConstructor, "nil %s", ft)
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, errors.Wrapf(ErrInvalidConstructor, "second result of %s must be error", ft)
		}
	default:
		return nil, errors.Wrapf(ErrInvalidConstructor, "%s must return (T) or (T, error)", ft)
	}

	// Interfaces, scalars and value types never reach auto-construction.
	switch out := ft.Out(0); {
	case IsAbstract(out):
		return nil, errors.Wrapf(ErrInvalidConstructor,
			"%s builds interface %s; bind it with Alias or Bind instead", ft, out)
	case IsValueType(out) || IsScalar(out):
		return nil, errors.Wrapf(ErrInvalidConstructor,
			"%s builds %s, which resolves without constructors; register it with Instance or Bind instead", ft, out)
	}

	k := &Constructor{
		fn:       v,
		out:      ft.Out(0),
		params:   make([]reflect.Type, ft.NumIn()),
		defaults: make(map[int]reflect.Value),
		fallible: ft.NumOut() == 2,
	}
	for i := range k.params {
		k.params[i] = ft.In(i)
	}
	for _, opt := range opts {
		if err := opt(k); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// implicitConstructor is the zero-argument constructor every pointer-to-struct
// type has when no constructor was declared for it.
func implicitConstructor(t reflect.Type) *Constructor {
	return &Constructor{out: t, implicit: true, defaults: map[int]reflect.Value{}}
}

// Type returns the type the constructor builds.
func (k *Constructor) Type() reflect.Type { return k.out }

// Params returns the declared parameter types in order.
func (k *Constructor) Params() []reflect.Type { return k.params }

// Default returns the declared default for the parameter at index.
func (k *Constructor) Default(index int) (reflect.Value, bool) {
	v, ok := k.defaults[index]
	return v, ok
}

func (k *Constructor) String() string {
	if k.implicit {
		return "new(" + typeName(k.out.Elem()) + ")"
	}
	return k.fn.Type().String()
}

// invoke calls the constructor. A returned error or a panic is reported as an
// error; the caller moves on to the next candidate.
func (k *Constructor) invoke(args []reflect.Value) (out reflect.Value, err error) {
	if k.implicit {
		return reflect.New(k.out.Elem()), nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = reflect.Value{}
			err = fmt.Errorf("%s panicked: %v", k, rec)
		}
	}()

	var results []reflect.Value
	if k.fn.Type().IsVariadic() {
		results = k.fn.CallSlice(args)
	} else {
		results = k.fn.Call(args)
	}
	if k.fallible {
		if e, _ := results[1].Interface().(error); e != nil {
			return reflect.Value{}, errors.Wrapf(e, "%s", k)
		}
	}
	return results[0], nil
}
