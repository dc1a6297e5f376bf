package nasc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidBindingError(t *testing.T) {
	err := &InvalidBindingError{Reason: "abstract type cannot be nil"}
	assert.EqualError(t, err, "invalid binding: abstract type cannot be nil")
}

func TestRegistryErrors(t *testing.T) {
	assert.EqualError(t, &BindingNotFoundError{Type: Key[Logger]()},
		"binding not found for type nasc.Logger")
	assert.EqualError(t, &BindingNotFoundError{Type: Key[Logger](), Name: "file"},
		"named binding 'file' for type nasc.Logger not found")
	assert.EqualError(t, &BindingAlreadyExistsError{Type: Key[Logger]()},
		"binding already exists for type nasc.Logger")
	assert.EqualError(t, &BindingAlreadyExistsError{Type: Key[Logger](), Name: "file"},
		"named binding 'file' for type nasc.Logger already exists")
}

func TestResolutionError(t *testing.T) {
	tests := []struct {
		name string
		err  *ResolutionError
		want string
	}{
		{"empty", &ResolutionError{}, "failed to resolve unknown"},
		{"type only", &ResolutionError{Type: Key[Logger]()}, "failed to resolve nasc.Logger"},
		{"named", &ResolutionError{Type: Key[Logger](), Name: "file"}, "failed to resolve nasc.Logger (name=file)"},
		{"context", &ResolutionError{Type: Key[Logger](), Context: "constructor parameter 0"}, "failed to resolve nasc.Logger: constructor parameter 0"},
		{"cause", &ResolutionError{Type: Key[Logger](), Context: "ctx", Cause: errBoom}, "failed to resolve nasc.Logger: ctx: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestResolutionError_Unwrap(t *testing.T) {
	inner := &BindingNotFoundError{Type: Key[Database]()}
	err := fmt.Errorf("outer: %w", &ResolutionError{Type: Key[UserService](), Cause: inner})

	var notFound *BindingNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Same(t, inner, notFound)
	assert.Nil(t, (&ResolutionError{}).Unwrap())
}

func TestCircularDependencyError(t *testing.T) {
	assert.EqualError(t, &CircularDependencyError{}, "circular dependency detected")
	assert.EqualError(t, &CircularDependencyError{Path: []string{"A", "B", "A"}},
		"circular dependency detected: A -> B -> A")
}

func TestValidationError(t *testing.T) {
	assert.EqualError(t, &ValidationError{}, "validation failed")
	assert.EqualError(t, &ValidationError{Errors: []error{errBoom}}, "validation failed: boom")

	other := errors.New("bang")
	err := &ValidationError{Errors: []error{errBoom, other}}
	assert.Equal(t, "validation failed with 2 errors:\n  1. boom\n  2. bang\n", err.Error())
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, other)
}
