package container

import (
	"cmp"
	"reflect"
	"slices"
)

// Argument is one resolved (or unresolved) constructor argument.
type Argument struct {
	Value    reflect.Value
	Resolved bool
	// Complex is true when the parameter type is not a scalar.
	Complex bool
}

// Candidate is a constructor together with the arguments resolved for one
// Resolve call.
type Candidate struct {
	Constructor *Constructor
	Args        []Argument
}

// Weight scores a candidate: one point per resolved argument plus 0.2 per
// non-scalar parameter.
func Weight(args []Argument) float64 {
	return float64(weightTenths(args)) / 10
}

// weightTenths is Weight scaled by ten so ties compare exactly.
func weightTenths(args []Argument) int {
	w := 0
	for _, a := range args {
		if a.Resolved {
			w += 10
		}
		if a.Complex {
			w += 2
		}
	}
	return w
}

// byArity orders constructors by parameter count, most parameters first,
// keeping declaration order among equals.
func byArity(ctors []*Constructor) []*Constructor {
	out := slices.Clone(ctors)
	slices.SortStableFunc(out, func(a, b *Constructor) int {
		return cmp.Compare(len(b.params), len(a.params))
	})
	return out
}

// orderCandidates sorts by weight, heaviest first. Equal weights keep the
// incoming (arity) order.
func orderCandidates(cands []Candidate) {
	slices.SortStableFunc(cands, func(a, b Candidate) int {
		return cmp.Compare(weightTenths(b.Args), weightTenths(a.Args))
	})
}

// values returns the call arguments; unresolved slots carry the zero value of
// the parameter type.
func (c Candidate) values() []reflect.Value {
	out := make([]reflect.Value, len(c.Args))
	for i, a := range c.Args {
		if a.Value.IsValid() {
			out[i] = a.Value
		} else {
			out[i] = reflect.Zero(c.Constructor.params[i])
		}
	}
	return out
}
