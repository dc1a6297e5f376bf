package proxy

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Invocation is one call travelling through a proxy's interceptor chain.
type Invocation struct {
	// Method is the method name, or the field name for a func-field slot.
	Method string

	// Signature is the func type of the call, without receiver.
	Signature reflect.Type

	// Arguments are the call arguments. A variadic tail is a single slice value.
	Arguments []reflect.Value

	// ReturnValues are the results. They start as zero values and are replaced
	// when the target is reached.
	ReturnValues []reflect.Value

	// Target is the wrapped instance.
	Target interface{}

	// Proxy is the proxy the call was made on.
	Proxy interface{}

	call         func([]reflect.Value) []reflect.Value
	interceptors []Interceptor
	index        int
}

// Proceed passes the call to the next interceptor, or to the target after the
// last one. It may be called more than once, for example to retry.
func (inv *Invocation) Proceed() {
	if inv.index >= len(inv.interceptors) {
		inv.ReturnValues = inv.call(inv.Arguments)
		return
	}

	next := inv.interceptors[inv.index]
	inv.index++
	defer func() { inv.index-- }()
	next.Intercept(inv)
}

// Arg returns argument i as an interface value.
func (inv *Invocation) Arg(i int) interface{} {
	return valueInterface(inv.Arguments[i])
}

// SetArg replaces argument i. A nil v sets the zero value.
func (inv *Invocation) SetArg(i int, v interface{}) {
	inv.Arguments[i] = valueOf(v, inv.Signature.In(i))
}

// Result returns result i as an interface value.
func (inv *Invocation) Result(i int) interface{} {
	return valueInterface(inv.ReturnValues[i])
}

// SetResult replaces result i. A nil v sets the zero value.
func (inv *Invocation) SetResult(i int, v interface{}) {
	inv.ReturnValues[i] = valueOf(v, inv.Signature.Out(i))
}

// ReturnsError reports whether the last result of the call is an error.
func (inv *Invocation) ReturnsError() bool {
	n := inv.Signature.NumOut()
	return n > 0 && inv.Signature.Out(n-1) == errorType
}

// Err returns the error result of the call, if the method has one.
func (inv *Invocation) Err() error {
	if !inv.ReturnsError() {
		return nil
	}
	err, _ := inv.Result(len(inv.ReturnValues) - 1).(error)
	return err
}

// SetErr sets the error result. It reports false, and changes nothing, when
// the method has no error result.
func (inv *Invocation) SetErr(err error) bool {
	if !inv.ReturnsError() {
		return false
	}
	last := len(inv.ReturnValues) - 1
	if err == nil {
		inv.ReturnValues[last] = reflect.Zero(errorType)
	} else {
		inv.ReturnValues[last] = reflect.ValueOf(&err).Elem()
	}
	return true
}

func zeroResults(sig reflect.Type) []reflect.Value {
	out := make([]reflect.Value, sig.NumOut())
	for i := range out {
		out[i] = reflect.Zero(sig.Out(i))
	}
	return out
}

func valueInterface(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// valueOf converts v into a value usable as type t.
func valueOf(v interface{}, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(t):
		if t.Kind() == reflect.Interface {
			converted := reflect.New(t).Elem()
			converted.Set(rv)
			return converted
		}
		return rv
	default:
		panic(fmt.Sprintf("proxy: %T is not assignable to %v", v, t))
	}
}
