package interceptors

import (
	"fmt"

	"github.com/toutaio/toutago-nasc-interception/proxy"
)

// PanicError carries a panic recovered from a proxied call.
type PanicError struct {
	Method string
	Value  interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Method, e.Value)
}

// Recover returns an interceptor that turns a panic further down the chain
// into a *PanicError result. Methods without an error result re-panic.
func Recover() proxy.Interceptor {
	return proxy.InterceptorFunc(func(inv *proxy.Invocation) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if !inv.ReturnsError() {
				panic(r)
			}
			for i := range inv.ReturnValues[:len(inv.ReturnValues)-1] {
				inv.SetResult(i, nil)
			}
			inv.SetErr(&PanicError{Method: inv.Method, Value: r})
		}()
		inv.Proceed()
	})
}
