package container

import (
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Resolve returns a value of type t.
//
// Order of attempts: registrations and custom resolvers (walking up the
// scopes), the zero value for value types, the first of deps assignable to t,
// nullable unwrapping, and finally auto-construction from t's constructors.
// deps are offered to every nested parameter resolution as well.
//
// Interfaces and scalars that nothing provides fail with an
// UnresolvedDependencyError. Value types never fail: an unbound int resolves
// to 0 while an unbound string is an error.
func (c *Container) Resolve(t reflect.Type, deps ...any) (any, error) {
	v, err := c.resolve(t, deps)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (c *Container) resolve(t reflect.Type, deps []any) (reflect.Value, error) {
	v, err := c.resolveValue(t, deps)
	if err != nil {
		return reflect.Value{}, err
	}
	c.fireAfterResolving(t, v)
	return v, nil
}

func (c *Container) resolveValue(t reflect.Type, deps []any) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, unresolved(nil, "nil type")
	}

	v, ok, err := c.lookup(t, deps)
	if err != nil {
		return reflect.Value{}, unresolved(t, "registration failed", err)
	}
	if ok {
		return v, nil
	}

	if IsValueType(t) {
		return reflect.Zero(t), nil
	}

	for _, dep := range deps {
		if dep != nil && reflect.TypeOf(dep).AssignableTo(t) {
			return coerce(t, dep)
		}
	}

	if elem, ok := NullableElem(t); ok {
		if v, err := c.resolve(elem, deps); err == nil {
			p := reflect.New(elem)
			p.Elem().Set(v)
			return p, nil
		}
	}

	if IsAbstract(t) {
		return reflect.Value{}, unresolved(t, "abstract type has no binding")
	}
	if IsScalar(t) {
		return reflect.Value{}, unresolved(t, "scalar type has no binding")
	}

	return c.construct(t, deps)
}

// construct is the auto-construction path: build a candidate per constructor,
// try them heaviest first and return the first that succeeds.
func (c *Container) construct(t reflect.Type, deps []any) (reflect.Value, error) {
	ctors := byArity(c.constructorsFor(t))
	if len(ctors) == 0 {
		return reflect.Value{}, unresolved(t, "no constructors")
	}

	logger := c.Logger()
	cands := make([]Candidate, len(ctors))
	for i, k := range ctors {
		cands[i] = c.candidate(k, deps)
	}
	orderCandidates(cands)

	var causes []error
	for _, cand := range cands {
		v, err := cand.Constructor.invoke(cand.values())
		if err != nil {
			logger.Debug("container: constructor failed",
				zap.Stringer("type", t),
				zap.Stringer("constructor", cand.Constructor),
				zap.Float64("weight", Weight(cand.Args)),
				zap.Error(err),
			)
			causes = append(causes, err)
			continue
		}
		logger.Debug("container: constructed",
			zap.String("scope", c.name),
			zap.Stringer("type", t),
			zap.Stringer("constructor", cand.Constructor),
			zap.Float64("weight", Weight(cand.Args)),
		)
		if v, err = c.extend(t, v); err != nil {
			return reflect.Value{}, unresolved(t, "extender failed", err)
		}
		return v, nil
	}
	return reflect.Value{}, unresolved(t, "every constructor failed", causes...)
}

// candidate resolves the arguments of k. Each parameter comes from a
// registration, the declared default, or a nested Resolve; a failed nested
// Resolve leaves the slot unresolved instead of failing the candidate. A
// registration whose factory fails is not run a second time through Resolve.
func (c *Container) candidate(k *Constructor, deps []any) Candidate {
	args := make([]Argument, len(k.params))
	for i, pt := range k.params {
		arg := Argument{Complex: !IsScalar(pt)}

		v, ok, err := c.lookup(pt, deps)
		d, hasDefault := k.Default(i)
		switch {
		case err == nil && ok:
			arg.Value, arg.Resolved = v, true
		case hasDefault:
			arg.Value, arg.Resolved = d, true
		case err != nil:
			c.Logger().Debug("container: parameter registration failed",
				zap.Stringer("constructor", k),
				zap.Int("index", i),
				zap.Error(err),
			)
		default:
			if v, err := c.resolve(pt, deps); err == nil {
				arg.Value, arg.Resolved = v, true
			}
		}
		args[i] = arg
	}
	return Candidate{Constructor: k, Args: args}
}

// Invoke calls fn with every parameter resolved through Resolve(param, deps...)
// and returns its results. A non-nil trailing error result is returned as err.
// The variadic parameter of a variadic fn is optional: when its slice type
// cannot be resolved, fn receives no variadic arguments.
//
//	// Laravel: $app->call([$controller, 'index'])
//	out, err := c.Invoke(func(repo UserRepository) int { return repo.Count() })
func (c *Container) Invoke(fn any, deps ...any) ([]any, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Errorf("container: Invoke needs a function, got %T", fn)
	}
	ft := v.Type()

	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		arg, err := c.resolve(ft.In(i), deps)
		if err != nil && ft.IsVariadic() && i == len(args)-1 {
			arg, err = reflect.Zero(ft.In(i)), nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d of %s", i, ft)
		}
		args[i] = arg
	}

	var results []reflect.Value
	if ft.IsVariadic() {
		results = v.CallSlice(args)
	} else {
		results = v.Call(args)
	}

	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.Interface()
	}
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errorType {
		if err, _ := out[n-1].(error); err != nil {
			return out, err
		}
	}
	return out, nil
}
