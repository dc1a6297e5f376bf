package intercept

import (
	"fmt"
	"reflect"
)

// InterceptorTypeError reports a type supplied as an interceptor that does not
// implement proxy.Interceptor. Registrations return it before installing anything.
type InterceptorTypeError struct {
	Type reflect.Type
}

func (e *InterceptorTypeError) Error() string {
	return fmt.Sprintf("intercept: %v does not implement proxy.Interceptor", e.Type)
}

// RegistrationError is returned when an interception rule cannot be installed.
type RegistrationError struct {
	Type   reflect.Type
	Reason string
	Err    error
}

func (e *RegistrationError) Error() string {
	msg := "intercept: registration failed"
	if e.Type != nil {
		msg = fmt.Sprintf("intercept: registration for %v failed", e.Type)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}
