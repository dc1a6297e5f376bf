// Package proxy builds interception proxies around service instances.
//
// A proxy exposes the same type as the service it wraps and routes every call
// through an ordered chain of Interceptors before it reaches the target.
//
// Go cannot synthesize new interface implementations at runtime, so the two
// proxy strategies differ:
//
//   - Interface proxies are small forwarding wrappers, written by hand or
//     generated with nasc-proxygen, that embed a *Dispatcher and are
//     registered with a Generator (RegisterInterfaceProxy).
//   - Class proxies, for concrete types, are synthesized with reflect.MakeFunc
//     when the type is a func type or a struct whose exported fields are funcs.
//     A Factory registered with RegisterClass takes precedence.
//
// Example interceptor:
//
//	timing := proxy.InterceptorFunc(func(inv *proxy.Invocation) {
//	    start := time.Now()
//	    inv.Proceed()
//	    log.Printf("%s took %v", inv.Method, time.Since(start))
//	})
package proxy

import "reflect"

// Interceptor observes or alters calls made through a proxy.
// Implementations call inv.Proceed to continue down the chain; not calling it
// short-circuits the call and leaves the results as set on inv.
type Interceptor interface {
	Intercept(inv *Invocation)
}

// InterceptorFunc adapts a function to the Interceptor interface.
type InterceptorFunc func(inv *Invocation)

// Intercept calls f(inv).
func (f InterceptorFunc) Intercept(inv *Invocation) {
	f(inv)
}

// InterceptorType is the reflect.Type of the Interceptor interface.
var InterceptorType = reflect.TypeOf((*Interceptor)(nil)).Elem()

// Implements reports whether values of type t, or pointers to t, are Interceptors.
func Implements(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Implements(InterceptorType) {
		return true
	}
	return t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface && reflect.PtrTo(t).Implements(InterceptorType)
}
