package proxy

import (
	"fmt"
	"reflect"
)

// Dispatcher routes calls made on a proxy through its interceptors to the
// target. Forwarding wrappers hold one and call Invoke from every method:
//
//	type greeterProxy struct{ d *proxy.Dispatcher }
//
//	func (p greeterProxy) Greet(a0 string) string {
//	    out := p.d.Invoke("Greet", a0)
//	    return proxy.Result[string](out, 0)
//	}
type Dispatcher struct {
	proxyType    reflect.Type
	target       reflect.Value
	interceptors []Interceptor
	methods      map[string]reflect.Value
	proxy        interface{}
}

// newDispatcher binds every method of proxyType to the matching method of target.
func newDispatcher(proxyType reflect.Type, target interface{}, interceptors []Interceptor) (*Dispatcher, error) {
	tv := reflect.ValueOf(target)
	methods := make(map[string]reflect.Value, proxyType.NumMethod())
	for i := 0; i < proxyType.NumMethod(); i++ {
		name := proxyType.Method(i).Name
		m := tv.MethodByName(name)
		if !m.IsValid() {
			return nil, &ProxyError{
				Type:   proxyType,
				Reason: fmt.Sprintf("target %T has no exported method %s", target, name),
			}
		}
		methods[name] = m
	}

	return &Dispatcher{
		proxyType:    proxyType,
		target:       tv,
		interceptors: interceptors,
		methods:      methods,
	}, nil
}

// Invoke calls the named method with args through the interceptor chain and
// returns the results. A variadic tail is passed as one slice argument.
// It panics if the method is not part of the proxied type.
func (d *Dispatcher) Invoke(method string, args ...interface{}) []reflect.Value {
	m, ok := d.methods[method]
	if !ok {
		panic(&ProxyError{Type: d.proxyType, Reason: fmt.Sprintf("unknown method %s", method)})
	}

	sig := m.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = valueOf(arg, sig.In(i))
	}
	return d.dispatch(method, sig, in, callerFor(m))
}

// Target returns the wrapped instance.
func (d *Dispatcher) Target() interface{} {
	return d.target.Interface()
}

// Interceptors returns the interceptor chain in call order.
func (d *Dispatcher) Interceptors() []Interceptor {
	return d.interceptors
}

func (d *Dispatcher) dispatch(method string, sig reflect.Type, in []reflect.Value, call func([]reflect.Value) []reflect.Value) []reflect.Value {
	inv := &Invocation{
		Method:       method,
		Signature:    sig,
		Arguments:    in,
		ReturnValues: zeroResults(sig),
		Target:       d.target.Interface(),
		Proxy:        d.proxy,
		call:         call,
		interceptors: d.interceptors,
	}
	inv.Proceed()

	out := inv.ReturnValues
	if len(out) != sig.NumOut() {
		panic(&ProxyError{
			Type:   d.proxyType,
			Reason: fmt.Sprintf("%s: interceptors left %d results, want %d", method, len(out), sig.NumOut()),
		})
	}
	for i, v := range out {
		if !v.IsValid() {
			out[i] = reflect.Zero(sig.Out(i))
		}
	}
	return out
}

func callerFor(fn reflect.Value) func([]reflect.Value) []reflect.Value {
	if fn.Type().IsVariadic() {
		return fn.CallSlice
	}
	return fn.Call
}

// Result returns result i of a dispatched call as T; nil results yield T's zero value.
func Result[T any](out []reflect.Value, i int) T {
	var zero T
	if i >= len(out) || !out[i].IsValid() {
		return zero
	}
	v, ok := out[i].Interface().(T)
	if !ok {
		return zero
	}
	return v
}

// Error returns result i of a dispatched call as an error.
func Error(out []reflect.Value, i int) error {
	return Result[error](out, i)
}
