package proxy

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoProxy is the cause of a ProxyError raised when no proxy can be built
// for an interface because nothing was registered for it.
var ErrNoProxy = errors.New("no proxy registered")

// ProxyError is returned when a proxy cannot be created or registered.
type ProxyError struct {
	Type   reflect.Type
	Reason string
	Err    error
}

func (e *ProxyError) Error() string {
	msg := fmt.Sprintf("proxy: cannot proxy %v", e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ProxyError) Unwrap() error {
	return e.Err
}
