// Package greeter is a fixture for the proxygen loader tests.
package greeter

import (
	"context"
	"io"
	"time"
)

// Greeter is wrapped.
type Greeter interface {
	Greet(ctx context.Context, name string) (string, error)
	Reset()
}

// Sink embeds io.Writer and has a variadic method.
type Sink interface {
	io.Writer
	Flush(deadline time.Duration, tags ...string) error
}

// Number is a constraint and cannot be wrapped.
type Number interface {
	~int | ~float64
}

// Box is generic and cannot be wrapped.
type Box[T any] interface {
	Get() T
}

// Sealed has an unexported method.
type Sealed interface {
	Open() bool
	seal()
}

type hidden interface {
	Do()
}

// Config is not an interface.
type Config struct {
	Name string
}
