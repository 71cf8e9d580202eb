package container

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func args(flags ...[2]bool) []Argument {
	out := make([]Argument, len(flags))
	for i, f := range flags {
		out[i] = Argument{Resolved: f[0], Complex: f[1]}
	}
	return out
}

func TestWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []Argument
		want float64
	}{
		{"no parameters", nil, 0},
		{"resolved scalar", args([2]bool{true, false}), 1},
		{"resolved service", args([2]bool{true, true}), 1.2},
		{"unresolved service still earns the bonus", args([2]bool{false, true}), 0.2},
		{"mixed", args([2]bool{true, true}, [2]bool{false, false}, [2]bool{true, false}), 2.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Weight(tt.args), 1e-9)
		})
	}
}

func ctorWithArity(n int) *Constructor {
	return &Constructor{params: make([]reflect.Type, n), defaults: map[int]reflect.Value{}}
}

func TestByArity_MostParametersFirstStable(t *testing.T) {
	t.Parallel()

	one, three, twoA, twoB := ctorWithArity(1), ctorWithArity(3), ctorWithArity(2), ctorWithArity(2)
	got := byArity([]*Constructor{one, twoA, three, twoB})

	require.Len(t, got, 4)
	assert.Same(t, three, got[0])
	assert.Same(t, twoA, got[1])
	assert.Same(t, twoB, got[2])
	assert.Same(t, one, got[3])
}

func TestOrderCandidates_HeaviestFirstTiesKeepOrder(t *testing.T) {
	t.Parallel()

	a := Candidate{Constructor: ctorWithArity(3), Args: args([2]bool{true, true}, [2]bool{false, false}, [2]bool{false, false})} // 1.2
	b := Candidate{Constructor: ctorWithArity(2), Args: args([2]bool{true, false}, [2]bool{true, false})}                       // 2.0
	c := Candidate{Constructor: ctorWithArity(1), Args: args([2]bool{true, true})}                                              // 1.2

	cands := []Candidate{a, b, c}
	orderCandidates(cands)

	assert.Same(t, b.Constructor, cands[0].Constructor)
	assert.Same(t, a.Constructor, cands[1].Constructor, "tie keeps arity order")
	assert.Same(t, c.Constructor, cands[2].Constructor)
}

func TestCandidateValues_UnresolvedSlotsAreZero(t *testing.T) {
	t.Parallel()

	k, err := NewConstructor(func(n int, s string, p *int) *Constructor { return nil })
	require.NoError(t, err)

	cand := Candidate{Constructor: k, Args: []Argument{
		{Value: reflect.ValueOf(4), Resolved: true},
		{},
		{},
	}}
	vals := cand.values()

	require.Len(t, vals, 3)
	assert.Equal(t, 4, vals[0].Interface())
	assert.Equal(t, "", vals[1].Interface())
	assert.True(t, vals[2].IsNil())
}
