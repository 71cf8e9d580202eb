package container

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnresolved matches every UnresolvedDependencyError via errors.Is.
	ErrUnresolved = errors.New("container: unresolved dependency")

	// ErrInvalidRegistration is returned when a registration call is malformed.
	ErrInvalidRegistration = errors.New("container: invalid registration")

	// ErrInvalidConstructor is returned when a declared constructor has an
	// unsupported shape.
	ErrInvalidConstructor = errors.New("container: invalid constructor")
)

// UnresolvedDependencyError is returned when no strategy produces a value for
// Type. Causes holds the failures of the individual constructor candidates,
// in the order they were attempted.
type UnresolvedDependencyError struct {
	Type   reflect.Type
	Reason string
	Causes []error
}

func unresolved(t reflect.Type, reason string, causes ...error) *UnresolvedDependencyError {
	return &UnresolvedDependencyError{Type: t, Reason: reason, Causes: causes}
}

// Error implements the error interface.
func (e *UnresolvedDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "container: unable to resolve [%s]", typeName(e.Type))
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	for i, cause := range e.Causes {
		fmt.Fprintf(&b, "\n  candidate %d: %v", i+1, cause)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrUnresolved) true.
func (e *UnresolvedDependencyError) Is(target error) bool {
	return target == ErrUnresolved
}

// Unwrap exposes the per-candidate causes.
func (e *UnresolvedDependencyError) Unwrap() []error {
	return e.Causes
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
