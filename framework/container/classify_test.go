package container_test

import (
	"io"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-container/framework/container"
)

type color int

type point struct{ X, Y int }

func TestIsScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"int", container.TypeOf[int](), true},
		{"uint8", container.TypeOf[uint8](), true},
		{"float64", container.TypeOf[float64](), true},
		{"complex128", container.TypeOf[complex128](), true},
		{"bool", container.TypeOf[bool](), true},
		{"string", container.TypeOf[string](), true},
		{"named int enum", container.TypeOf[color](), true},
		{"time.Time", container.TypeOf[time.Time](), true},
		{"time.Duration", container.TypeOf[time.Duration](), true},
		{"uuid.UUID", container.TypeOf[uuid.UUID](), true},
		{"big.Float", container.TypeOf[big.Float](), true},
		{"nullable int", container.TypeOf[*int](), true},
		{"nullable time", container.TypeOf[*time.Time](), true},
		{"slice of string", container.TypeOf[[]string](), true},
		{"array of byte", container.TypeOf[[4]byte](), true},
		{"struct", container.TypeOf[point](), false},
		{"pointer to struct", container.TypeOf[*point](), false},
		{"interface", container.TypeOf[io.Reader](), false},
		{"slice of struct pointers", container.TypeOf[[]*point](), false},
		{"map", container.TypeOf[map[string]int](), false},
		{"func", container.TypeOf[func()](), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, container.IsScalar(tt.typ))
		})
	}
}

func TestIsValueType(t *testing.T) {
	t.Parallel()

	assert.True(t, container.IsValueType(container.TypeOf[int]()))
	assert.True(t, container.IsValueType(container.TypeOf[bool]()))
	assert.True(t, container.IsValueType(container.TypeOf[point]()))
	assert.True(t, container.IsValueType(container.TypeOf[uuid.UUID]()))
	assert.True(t, container.IsValueType(container.TypeOf[time.Time]()))

	assert.False(t, container.IsValueType(container.TypeOf[string]()))
	assert.False(t, container.IsValueType(container.TypeOf[*int]()))
	assert.False(t, container.IsValueType(container.TypeOf[io.Reader]()))
	assert.False(t, container.IsValueType(container.TypeOf[[]int]()))
	assert.False(t, container.IsValueType(nil))
}

func TestIsAbstract(t *testing.T) {
	t.Parallel()

	assert.True(t, container.IsAbstract(container.TypeOf[io.Reader]()))
	assert.True(t, container.IsAbstract(container.TypeOf[any]()))
	assert.False(t, container.IsAbstract(container.TypeOf[*point]()))
}

func TestNullableElem(t *testing.T) {
	t.Parallel()

	elem, ok := container.NullableElem(container.TypeOf[*int]())
	assert.True(t, ok)
	assert.Equal(t, container.TypeOf[int](), elem)

	elem, ok = container.NullableElem(container.TypeOf[*uuid.UUID]())
	assert.True(t, ok)
	assert.Equal(t, container.TypeOf[uuid.UUID](), elem)

	_, ok = container.NullableElem(container.TypeOf[*string]())
	assert.False(t, ok, "string is not a value type")

	_, ok = container.NullableElem(container.TypeOf[*point]())
	assert.False(t, ok, "struct pointers are constructible, not nullable")

	_, ok = container.NullableElem(container.TypeOf[int]())
	assert.False(t, ok)
}
