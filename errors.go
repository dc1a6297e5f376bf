package nasc

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/toutaio/toutago-nasc-interception/registry"
)

// BindingNotFoundError is returned when a requested binding does not exist.
type BindingNotFoundError = registry.BindingNotFoundError

// BindingAlreadyExistsError is returned when attempting to register a duplicate binding.
type BindingAlreadyExistsError = registry.BindingAlreadyExistsError

// InvalidBindingError is returned when a registration has invalid parameters.
type InvalidBindingError struct {
	Reason string
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("invalid binding: %s", e.Reason)
}

// ResolutionError is returned when instance resolution fails.
type ResolutionError struct {
	Type    reflect.Type
	Name    string
	Cause   error
	Context string
}

func (e *ResolutionError) Error() string {
	typeStr := "unknown"
	if e.Type != nil {
		typeStr = e.Type.String()
	}

	var b strings.Builder
	b.WriteString("failed to resolve ")
	b.WriteString(typeStr)
	if e.Name != "" {
		fmt.Fprintf(&b, " (name=%s)", e.Name)
	}
	if e.Context != "" {
		fmt.Fprintf(&b, ": %s", e.Context)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause error.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// CircularDependencyError indicates a constructor dependency cycle.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "circular dependency detected"
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

// ValidationError aggregates every failure found by Validate.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %v", e.Errors[0])
	}
	merr := &multierror.Error{Errors: e.Errors, ErrorFormat: numberedErrors}
	return fmt.Sprintf("validation failed with %s", merr.Error())
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

func numberedErrors(errs []error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&b, "  %d. %v\n", i+1, err)
	}
	return b.String()
}
